package handlers

import (
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

type AvailabilityHandler struct {
	availability *service.AvailabilityService
	logger       *zap.Logger
}

func NewAvailabilityHandler(availability *service.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability, logger: logger}
}

type setAvailabilityRequest struct {
	Date        string  `json:"date" binding:"required"`
	IsAvailable *bool   `json:"is_available" binding:"required"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
}

// Set creates or updates the calling tutor's availability for one date.
func (h *AvailabilityHandler) Set(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)
	if role != model.RoleTutor {
		RespondError(c, http.StatusForbidden, "wrong_role", model.ErrUnauthorized)
		return
	}

	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	startTime, endTime, err := parseOptionalBounds(date, req.StartTime, req.EndTime)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	saved, err := h.availability.SetDate(c.Request.Context(), userID, date, *req.IsAvailable, startTime, endTime)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, toSlotResponse(saved))
}

// ListOwn returns the calling tutor's upcoming slots.
func (h *AvailabilityHandler) ListOwn(c *gin.Context) {
	userID, role := middleware.CurrentUser(c)
	if role != model.RoleTutor {
		RespondError(c, http.StatusForbidden, "wrong_role", model.ErrUnauthorized)
		return
	}

	slots, err := h.availability.ListUpcoming(c.Request.Context(), userID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	RespondOK(c, gin.H{"slots": toSlotResponses(slots)})
}

// ListForTutor returns a tutor's upcoming available dates so a student can
// pick one while booking.
func (h *AvailabilityHandler) ListForTutor(c *gin.Context) {
	tutorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tutorID <= 0 {
		RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid tutor id"))
		return
	}

	slots, err := h.availability.ListUpcoming(c.Request.Context(), tutorID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	available := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		if slot.IsAvailable {
			available = append(available, toSlotResponse(slot))
		}
	}

	RespondOK(c, gin.H{"slots": available})
}

// parseOptionalBounds turns optional HH:MM bounds into timestamps on the
// slot's date. Both or neither must be supplied.
func parseOptionalBounds(date time.Time, startStr, endStr *string) (*time.Time, *time.Time, error) {
	if startStr == nil && endStr == nil {
		return nil, nil, nil
	}
	if startStr == nil || endStr == nil {
		return nil, nil, errors.New("start_time and end_time must be supplied together")
	}

	start, err := timeutil.CombineDateClock(date, *startStr)
	if err != nil {
		return nil, nil, err
	}
	end, err := timeutil.CombineDateClock(date, *endStr)
	if err != nil {
		return nil, nil, err
	}
	return &start, &end, nil
}
