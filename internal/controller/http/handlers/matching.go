package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmdelmundo/tutormatch_api/internal/controller/http/middleware"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/service"
	"go.uber.org/zap"
)

type MatchingHandler struct {
	matching *service.MatchingService
	logger   *zap.Logger
}

func NewMatchingHandler(matching *service.MatchingService, logger *zap.Logger) *MatchingHandler {
	return &MatchingHandler{matching: matching, logger: logger}
}

// FindTutors ranks tutors for the calling student.
// An empty matches array is a normal response, not an error.
func (h *MatchingHandler) FindTutors(c *gin.Context) {
	h.find(c, model.RoleStudent)
}

// FindStudents ranks students for the calling tutor.
func (h *MatchingHandler) FindStudents(c *gin.Context) {
	h.find(c, model.RoleTutor)
}

func (h *MatchingHandler) find(c *gin.Context, requiredRole model.Role) {
	userID, role := middleware.CurrentUser(c)
	if role != requiredRole {
		RespondError(c, http.StatusForbidden, "wrong_role", model.ErrUnauthorized)
		return
	}

	matches, err := h.matching.FindMatches(c.Request.Context(), userID, requiredRole)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, gin.H{"matches": matches})
}
