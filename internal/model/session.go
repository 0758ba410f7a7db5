package model

import "time"

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"   // waiting for the tutor's decision
	SessionStatusConfirmed SessionStatus = "confirmed"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusRejected  SessionStatus = "rejected"
)

// IsTerminal reports whether no further transition may leave the status.
func (s SessionStatus) IsTerminal() bool {
	switch s {
	case SessionStatusCompleted, SessionStatusCancelled, SessionStatusRejected:
		return true
	}
	return false
}

// Session is one booked tutoring engagement.
type Session struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	TutorID   int64  `json:"tutor_id"`

	// Exactly one of SubjectID / CustomSubject is set.
	SubjectID     *int64  `json:"subject_id"`
	CustomSubject *string `json:"custom_subject"`

	SessionDate time.Time `json:"session_date"` // date only, midnight Manila time
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`

	Status SessionStatus `json:"status"`

	// TotalCostCentavos is fixed at booking time (duration hours x hourly
	// rate) and only changes when a reschedule changes the duration.
	TotalCostCentavos int64 `json:"total_cost_centavos"`

	Notes     string    `json:"notes"`
	HasReview bool      `json:"has_review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined for convenience, not stored on the session row.
	Subject *Subject `json:"subject,omitempty"`
}

// Duration returns the booked length of the session.
func (s *Session) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Subject is a catalog entry a session may reference instead of a
// free-text custom subject.
type Subject struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
