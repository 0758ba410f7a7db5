package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"go.uber.org/zap"
)

// AvailabilityStore is the tutor-facing slice of the availability
// repository: slot upserts and reads of a tutor's own calendar.
type AvailabilityStore interface {
	Upsert(ctx context.Context, slot *model.AvailabilitySlot) error
	ListByTutor(ctx context.Context, tutorID int64, from time.Time) ([]*model.AvailabilitySlot, error)
}

type AvailabilityService struct {
	availabilityRepo AvailabilityStore
	profileRepo      ProfileStore
	logger           *zap.Logger
	now              func() time.Time
}

func NewAvailabilityService(
	availabilityRepo AvailabilityStore,
	profileRepo ProfileStore,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		profileRepo:      profileRepo,
		logger:           logger,
		now:              timeutil.Now,
	}
}

// SetDate creates or updates the tutor's availability for one date. Past
// dates can never be made available; there is at most one slot per date.
func (s *AvailabilityService) SetDate(ctx context.Context, tutorID int64, date time.Time, isAvailable bool, start, end *time.Time) (*model.AvailabilitySlot, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	if profile == nil || profile.Role != model.RoleTutor {
		return nil, model.ErrNotFound
	}

	date = timeutil.DateOnly(date)
	if date.Before(timeutil.DateOnly(s.now())) {
		return nil, model.ErrInvalidAvailability
	}

	if start != nil && end != nil && !end.After(*start) {
		return nil, model.ErrInvalidDuration
	}

	slot := &model.AvailabilitySlot{
		TutorID:     tutorID,
		Date:        date,
		IsAvailable: isAvailable,
		StartTime:   start,
		EndTime:     end,
	}

	if err := s.availabilityRepo.Upsert(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Availability updated",
		zap.Int64("tutor_id", tutorID),
		zap.String("date", timeutil.FormatDate(date)),
		zap.Bool("is_available", isAvailable),
	)

	return slot, nil
}

// ListUpcoming returns the tutor's slots from today onward.
func (s *AvailabilityService) ListUpcoming(ctx context.Context, tutorID int64) ([]*model.AvailabilitySlot, error) {
	return s.availabilityRepo.ListByTutor(ctx, tutorID, timeutil.DateOnly(s.now()))
}
