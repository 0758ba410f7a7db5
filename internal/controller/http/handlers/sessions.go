package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kmdelmundo/tutormatch_api/internal/controller/http/middleware"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/service"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"go.uber.org/zap"
)

type SessionsHandler struct {
	sessions *service.SessionService
	reviews  *service.ReviewService
	logger   *zap.Logger
}

func NewSessionsHandler(sessions *service.SessionService, reviews *service.ReviewService, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{sessions: sessions, reviews: reviews, logger: logger}
}

type bookRequest struct {
	TutorID       int64   `json:"tutor_id" binding:"required"`
	SessionDate   string  `json:"session_date" binding:"required"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       string  `json:"end_time" binding:"required"`
	SubjectID     *int64  `json:"subject_id"`
	CustomSubject *string `json:"custom_subject"`
	Notes         string  `json:"notes"`
}

// Book creates a pending session for the calling student.
func (h *SessionsHandler) Book(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)
	if role != model.RoleStudent {
		RespondError(c, http.StatusForbidden, "wrong_role", model.ErrUnauthorized)
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	date, start, end, err := parseDateRange(req.SessionDate, req.StartTime, req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	session, err := h.sessions.Book(c.Request.Context(), service.BookingRequest{
		StudentID:     userID,
		TutorID:       req.TutorID,
		SessionDate:   date,
		StartTime:     start,
		EndTime:       end,
		SubjectID:     req.SubjectID,
		CustomSubject: req.CustomSubject,
		Notes:         req.Notes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, toSessionResponse(session))
}

// List returns the caller's sessions on whichever side they hold.
func (h *SessionsHandler) List(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)

	sessions, err := h.sessions.ListForActor(c.Request.Context(), userID, role)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, gin.H{"sessions": toSessionResponses(sessions)})
}

// Get returns one session to one of its parties.
func (h *SessionsHandler) Get(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	session, err := h.sessions.GetForActor(c.Request.Context(), sessionID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, toSessionResponse(session))
}

func (h *SessionsHandler) Confirm(c *gin.Context) {
	h.transition(c, h.sessions.Confirm)
}

func (h *SessionsHandler) Reject(c *gin.Context) {
	h.transition(c, h.sessions.Reject)
}

func (h *SessionsHandler) Cancel(c *gin.Context) {
	h.transition(c, h.sessions.Cancel)
}

func (h *SessionsHandler) Complete(c *gin.Context) {
	h.transition(c, h.sessions.Complete)
}

type rescheduleRequest struct {
	NewDate      string `json:"new_date" binding:"required"`
	NewStartTime string `json:"new_start_time" binding:"required"`
	NewEndTime   string `json:"new_end_time" binding:"required"`
}

// Reschedule moves a confirmed session; availability is re-checked live.
func (h *SessionsHandler) Reschedule(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	date, start, end, err := parseDateRange(req.NewDate, req.NewStartTime, req.NewEndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	session, err := h.sessions.Reschedule(c.Request.Context(), sessionID, userID, date, start, end)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, toSessionResponse(session))
}

// reviewRequest carries no binding rules: the rating range and the
// non-empty comment are domain validation, answered with invalid_review
// rather than a generic bad request.
type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Review attaches the student's one-time review to a completed session.
func (h *SessionsHandler) Review(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	review, err := h.reviews.Submit(c.Request.Context(), userID, sessionID, req.Rating, req.Comment)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondCreated(c, review)
}

// GetReview returns the review attached to one of the caller's sessions.
func (h *SessionsHandler) GetReview(c *gin.Context) {
	userID, _ := middleware.CurrentUser(c)
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	review, err := h.reviews.GetForSession(c.Request.Context(), sessionID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, review)
}

// Subjects lists the bookable subject catalog.
func (h *SessionsHandler) Subjects(c *gin.Context) {
	subjects, err := h.sessions.ListSubjects(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, gin.H{"subjects": subjects})
}

func (h *SessionsHandler) transition(c *gin.Context, op func(ctx context.Context, sessionID, actorID int64) (*model.Session, error)) {
	userID, _ := middleware.CurrentUser(c)
	sessionID, ok := sessionParam(c)
	if !ok {
		return
	}

	session, err := op(c.Request.Context(), sessionID, userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, toSessionResponse(session))
}

func sessionParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid session id"))
		return 0, false
	}
	return id, true
}

func parseDateRange(dateStr, startStr, endStr string) (date, start, end time.Time, err error) {
	date, err = timeutil.ParseDate(dateStr)
	if err != nil {
		return
	}
	start, err = timeutil.CombineDateClock(date, startStr)
	if err != nil {
		return
	}
	end, err = timeutil.CombineDateClock(date, endStr)
	return
}
