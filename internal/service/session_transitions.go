package service

import (
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

// TransitionEvent names an edge of the session state machine.
type TransitionEvent string

const (
	EventConfirm  TransitionEvent = "confirm"
	EventReject   TransitionEvent = "reject"
	EventCancel   TransitionEvent = "cancel"
	EventComplete TransitionEvent = "complete"
)

type actorRole int

const (
	actorTutor actorRole = iota
	actorStudent
	actorEither
)

type transition struct {
	from  model.SessionStatus
	to    model.SessionStatus
	actor actorRole
}

// transitionTable enumerates every legal edge. Reschedule is not listed:
// it re-enters confirmed with new fields rather than changing status.
var transitionTable = map[TransitionEvent][]transition{
	EventConfirm:  {{model.SessionStatusPending, model.SessionStatusConfirmed, actorTutor}},
	EventReject:   {{model.SessionStatusPending, model.SessionStatusRejected, actorTutor}},
	EventComplete: {{model.SessionStatusConfirmed, model.SessionStatusCompleted, actorStudent}},
	EventCancel: {
		{model.SessionStatusPending, model.SessionStatusCancelled, actorEither},
		{model.SessionStatusConfirmed, model.SessionStatusCancelled, actorEither},
	},
}

// checkTransition resolves the target status for an event on a session,
// enforcing party membership and actor authorization. The session is never
// mutated here.
func checkTransition(session *model.Session, event TransitionEvent, actorID int64) (model.SessionStatus, error) {
	if actorID != session.StudentID && actorID != session.TutorID {
		return "", model.ErrUnauthorized
	}

	if session.Status.IsTerminal() {
		return "", model.ErrInvalidTransition
	}

	for _, t := range transitionTable[event] {
		if t.from != session.Status {
			continue
		}
		switch t.actor {
		case actorTutor:
			if actorID != session.TutorID {
				return "", model.ErrInvalidTransition
			}
		case actorStudent:
			if actorID != session.StudentID {
				return "", model.ErrInvalidTransition
			}
		}
		return t.to, nil
	}

	return "", model.ErrInvalidTransition
}

// validateSessionTimes enforces the shared booking/reschedule time rules:
// the session ends after it starts, lasts at least an hour, lies on its
// calendar date, and that date is today or later.
func validateSessionTimes(date, start, end, today time.Time) error {
	if !end.After(start) || end.Sub(start) < time.Hour {
		return model.ErrInvalidDuration
	}
	if date.Before(today) {
		return model.ErrInvalidAvailability
	}
	return nil
}

// computeCostCentavos charges the tutor's hourly rate pro rata by minute.
func computeCostCentavos(start, end time.Time, hourlyRateCentavos int64) int64 {
	minutes := int64(end.Sub(start) / time.Minute)
	return hourlyRateCentavos * minutes / 60
}
