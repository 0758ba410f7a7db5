package handlers

import (
	"github.com/kmdelmundo/tutormatch_api/internal/format"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
)

// SessionResponse is the wire shape of a session: dates as YYYY-MM-DD,
// clock values as HH:MM, cost in pesos with two decimals.
type SessionResponse struct {
	ID            int64   `json:"id"`
	StudentID     int64   `json:"student_id"`
	TutorID       int64   `json:"tutor_id"`
	SubjectID     *int64  `json:"subject_id,omitempty"`
	SubjectName   string  `json:"subject_name,omitempty"`
	CustomSubject *string `json:"custom_subject,omitempty"`
	SessionDate   string  `json:"session_date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Status        string  `json:"status"`
	TotalCost     float64 `json:"total_cost"`
	TotalCostText string  `json:"total_cost_text"`
	Notes         string  `json:"notes,omitempty"`
	HasReview     bool    `json:"has_review"`
}

func toSessionResponse(s *model.Session) SessionResponse {
	resp := SessionResponse{
		ID:            s.ID,
		StudentID:     s.StudentID,
		TutorID:       s.TutorID,
		SubjectID:     s.SubjectID,
		CustomSubject: s.CustomSubject,
		SessionDate:   timeutil.FormatDate(s.SessionDate),
		StartTime:     timeutil.FormatClock(s.StartTime),
		EndTime:       timeutil.FormatClock(s.EndTime),
		Status:        string(s.Status),
		TotalCost:     format.Pesos(s.TotalCostCentavos),
		TotalCostText: format.Price(s.TotalCostCentavos),
		Notes:         s.Notes,
		HasReview:     s.HasReview,
	}
	if s.Subject != nil {
		resp.SubjectName = s.Subject.Name
	}
	return resp
}

func toSessionResponses(sessions []*model.Session) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return out
}

// SlotResponse is the wire shape of an availability slot.
type SlotResponse struct {
	ID          int64   `json:"id"`
	TutorID     int64   `json:"tutor_id"`
	Date        string  `json:"date"`
	IsAvailable bool    `json:"is_available"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
}

func toSlotResponse(slot *model.AvailabilitySlot) SlotResponse {
	resp := SlotResponse{
		ID:          slot.ID,
		TutorID:     slot.TutorID,
		Date:        timeutil.FormatDate(slot.Date),
		IsAvailable: slot.IsAvailable,
	}
	if slot.StartTime != nil {
		v := timeutil.FormatClock(*slot.StartTime)
		resp.StartTime = &v
	}
	if slot.EndTime != nil {
		v := timeutil.FormatClock(*slot.EndTime)
		resp.EndTime = &v
	}
	return resp
}

func toSlotResponses(slots []*model.AvailabilitySlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}
