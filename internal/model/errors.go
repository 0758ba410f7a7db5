package model

import "errors"

// Domain errors surfaced to callers as typed results. Wrap with
// fmt.Errorf("...: %w", err) and match with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("actor is not a party to this session")
	ErrProfileIncomplete   = errors.New("profile is incomplete")
	ErrInvalidAvailability = errors.New("date is not available or conflicts with an existing session")
	ErrInvalidDuration     = errors.New("session must be at least one hour and end after it starts")
	ErrInvalidTransition   = errors.New("transition not allowed from the current status")
	ErrSubjectRequired     = errors.New("either a subject id or a custom subject is required")
	ErrReviewNotAllowed    = errors.New("session is not completed or already has a review")
	ErrInvalidReview       = errors.New("rating must be between 1 and 5 and comment must not be empty")
)
