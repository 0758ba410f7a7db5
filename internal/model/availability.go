package model

import "time"

// AvailabilitySlot is one tutor's availability for a single calendar date.
// At most one row exists per (tutor_id, date).
type AvailabilitySlot struct {
	ID          int64      `json:"id"`
	TutorID     int64      `json:"tutor_id"`
	Date        time.Time  `json:"date"` // date only, midnight Manila time
	IsAvailable bool       `json:"is_available"`
	StartTime   *time.Time `json:"start_time"` // optional bounds within the day
	EndTime     *time.Time `json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
