package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"go.uber.org/zap"
)

// MatchingProfileStore is the slice of the profile repository the matcher
// reads from. It never writes profiles.
type MatchingProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	ListCompletedByRole(ctx context.Context, role model.Role) ([]*model.Profile, error)
}

// MatchingAvailabilityStore answers which tutors currently offer dates.
type MatchingAvailabilityStore interface {
	TutorIDsWithFutureAvailability(ctx context.Context, from time.Time) (map[int64]bool, error)
}

type MatchingService struct {
	profileRepo      MatchingProfileStore
	availabilityRepo MatchingAvailabilityStore
	weights          Weights
	logger           *zap.Logger
	now              func() time.Time
}

func NewMatchingService(
	profileRepo MatchingProfileStore,
	availabilityRepo MatchingAvailabilityStore,
	weights Weights,
	logger *zap.Logger,
) *MatchingService {
	return &MatchingService{
		profileRepo:      profileRepo,
		availabilityRepo: availabilityRepo,
		weights:          weights,
		logger:           logger,
		now:              timeutil.Now,
	}
}

// FindMatches scores every completed opposite-role profile against the
// seeker and returns them ranked. Each call recomputes from live data;
// nothing is cached or persisted. An empty result is a valid outcome.
func (s *MatchingService) FindMatches(ctx context.Context, seekerID int64, seekerRole model.Role) ([]Match, error) {
	seeker, err := s.profileRepo.GetByUserID(ctx, seekerID)
	if err != nil {
		return nil, fmt.Errorf("get seeker profile: %w", err)
	}

	if seeker == nil || seeker.Role != seekerRole {
		return nil, model.ErrNotFound
	}

	if !seeker.IsComplete() {
		return nil, model.ErrProfileIncomplete
	}

	candidates, err := s.profileRepo.ListCompletedByRole(ctx, seekerRole.Opposite())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	// Availability only scores tutor candidates, so one set query covers
	// every candidate when the seeker is a student.
	tutorsWithDates := map[int64]bool{}
	if seekerRole == model.RoleStudent {
		tutorsWithDates, err = s.availabilityRepo.TutorIDsWithFutureAvailability(ctx, timeutil.DateOnly(s.now()))
		if err != nil {
			return nil, fmt.Errorf("list tutor availability: %w", err)
		}
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.IsComplete() {
			continue
		}
		match, ok := scoreCandidate(seeker, candidate, tutorsWithDates[candidate.UserID], s.weights)
		if !ok {
			continue
		}
		matches = append(matches, match)
	}

	sortMatches(matches)

	s.logger.Info("Matches computed",
		zap.Int64("seeker_id", seekerID),
		zap.String("seeker_role", string(seekerRole)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}
