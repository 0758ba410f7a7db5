package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondDomainError maps the domain error taxonomy onto HTTP statuses so
// clients can render field-specific messages from the error kind.
func RespondDomainError(c *gin.Context, err error) {
	status, code := domainErrorStatus(err)
	RespondError(c, status, code, err)
}

func domainErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusForbidden, "unauthorized"
	case errors.Is(err, model.ErrProfileIncomplete):
		return http.StatusUnprocessableEntity, "profile_incomplete"
	case errors.Is(err, model.ErrInvalidDuration):
		return http.StatusUnprocessableEntity, "invalid_duration"
	case errors.Is(err, model.ErrSubjectRequired):
		return http.StatusUnprocessableEntity, "subject_required"
	case errors.Is(err, model.ErrInvalidReview):
		return http.StatusUnprocessableEntity, "invalid_review"
	case errors.Is(err, model.ErrInvalidAvailability):
		return http.StatusConflict, "invalid_availability"
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, model.ErrReviewNotAllowed):
		return http.StatusConflict, "review_not_allowed"
	}
	return http.StatusInternalServerError, "internal"
}
