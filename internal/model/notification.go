package model

import "time"

type NotificationType string

const (
	NotificationSessionRequest     NotificationType = "session_request"
	NotificationSessionConfirmed   NotificationType = "session_confirmed"
	NotificationSessionRejected    NotificationType = "session_rejected"
	NotificationSessionCancelled   NotificationType = "session_cancelled"
	NotificationSessionRescheduled NotificationType = "session_rescheduled"
	NotificationSessionCompleted   NotificationType = "session_completed"
	NotificationReviewReceived     NotificationType = "review_received"
)

// Notification is a typed record produced as a side effect of a session
// lifecycle transition. Delivery is someone else's problem.
type Notification struct {
	ID          string           `json:"id"` // uuid
	RecipientID int64            `json:"recipient_id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Data        map[string]any   `json:"data"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
