package service

import (
	"context"
	"fmt"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"go.uber.org/zap"
)

// ReviewStore persists reviews atomically with the session and rating
// aggregate updates.
type ReviewStore interface {
	CreateForCompletedSession(ctx context.Context, review *model.Review) error
	GetBySessionID(ctx context.Context, sessionID int64) (*model.Review, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Review, error)
}

type ReviewService struct {
	reviewRepo  ReviewStore
	sessionRepo SessionStore
	notifier    Notifier
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo ReviewStore,
	sessionRepo SessionStore,
	notifier Notifier,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		sessionRepo: sessionRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Submit attaches the student's review to a completed session. Only the
// session's student may review, only once, and only after completion; the
// tutor's average rating becomes the running mean over all their reviews.
func (s *ReviewService) Submit(ctx context.Context, studentID, sessionID int64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 || comment == "" {
		return nil, model.ErrInvalidReview
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.ErrNotFound
	}

	// Reviews are one-directional: only the session's student rates.
	if studentID != session.StudentID {
		return nil, model.ErrUnauthorized
	}

	if session.Status != model.SessionStatusCompleted || session.HasReview {
		return nil, model.ErrReviewNotAllowed
	}

	review := &model.Review{
		SessionID: sessionID,
		StudentID: session.StudentID,
		TutorID:   session.TutorID,
		Rating:    rating,
		Comment:   comment,
	}

	// The repository re-checks the completed/no-review guard under a row
	// lock, so a racing duplicate still loses.
	if err := s.reviewRepo.CreateForCompletedSession(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review submitted",
		zap.Int64("session_id", sessionID),
		zap.Int64("tutor_id", review.TutorID),
		zap.Int("rating", rating),
	)

	s.notifier.Emit(ctx, review.TutorID, model.NotificationReviewReceived,
		"New review",
		fmt.Sprintf("A student rated your session %d/5", rating),
		map[string]any{"session_id": sessionID, "rating": rating})

	return review, nil
}

// GetForSession returns a session's review to one of its parties.
func (s *ReviewService) GetForSession(ctx context.Context, sessionID, actorID int64) (*model.Review, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.ErrNotFound
	}
	if actorID != session.StudentID && actorID != session.TutorID {
		return nil, model.ErrUnauthorized
	}

	review, err := s.reviewRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, model.ErrNotFound
	}
	return review, nil
}

// ListByTutor returns a tutor's received reviews.
func (s *ReviewService) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Review, error) {
	return s.reviewRepo.ListByTutor(ctx, tutorID)
}
