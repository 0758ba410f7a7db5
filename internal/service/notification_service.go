package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"go.uber.org/zap"
)

// NotificationStore persists emitted notification records.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// NotificationService is the fire-and-forget emitter behind lifecycle
// transitions. A failed emit is logged and swallowed; it never fails the
// transition that produced it.
type NotificationService struct {
	repo   NotificationStore
	logger *zap.Logger
}

func NewNotificationService(repo NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

// Emit records a typed notification for a recipient.
func (s *NotificationService) Emit(ctx context.Context, recipientID int64, typ model.NotificationType, title, message string, data map[string]any) {
	n := &model.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		Data:        data,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to emit notification",
			zap.String("type", string(typ)),
			zap.Int64("recipient_id", recipientID),
			zap.Error(err))
		return
	}

	s.logger.Info("Notification emitted",
		zap.String("notification_id", n.ID),
		zap.String("type", string(typ)),
		zap.Int64("recipient_id", recipientID),
	)
}
