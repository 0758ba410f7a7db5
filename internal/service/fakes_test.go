package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
)

// In-memory doubles mirroring the repository contracts, including the
// availability re-check booking and rescheduling perform.

func slotKey(tutorID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", tutorID, timeutil.FormatDate(date))
}

type fakeProfileStore struct {
	profiles map[int64]*model.Profile
}

func newFakeProfileStore(profiles ...*model.Profile) *fakeProfileStore {
	s := &fakeProfileStore{profiles: make(map[int64]*model.Profile)}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

func (s *fakeProfileStore) GetByUserID(_ context.Context, userID int64) (*model.Profile, error) {
	return s.profiles[userID], nil
}

func (s *fakeProfileStore) ListCompletedByRole(_ context.Context, role model.Role) ([]*model.Profile, error) {
	var out []*model.Profile
	for _, p := range s.profiles {
		if p.Role == role && p.Completed {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

type fakeMatchingAvailability struct {
	tutorIDs map[int64]bool
}

func (s *fakeMatchingAvailability) TutorIDsWithFutureAvailability(context.Context, time.Time) (map[int64]bool, error) {
	return s.tutorIDs, nil
}

type fakeSessionStore struct {
	sessions map[int64]*model.Session
	slots    map[string]*model.AvailabilitySlot
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*model.Session),
		slots:    make(map[string]*model.AvailabilitySlot),
	}
}

func (s *fakeSessionStore) addSlot(tutorID int64, date time.Time, available bool) {
	s.slots[slotKey(tutorID, date)] = &model.AvailabilitySlot{
		TutorID:     tutorID,
		Date:        date,
		IsAvailable: available,
	}
}

func (s *fakeSessionStore) checkAvailability(tutorID int64, date, start, end time.Time, excludeID int64) error {
	slot, ok := s.slots[slotKey(tutorID, date)]
	if !ok || !slot.IsAvailable {
		return model.ErrInvalidAvailability
	}
	for _, existing := range s.sessions {
		if existing.ID == excludeID || existing.TutorID != tutorID {
			continue
		}
		if existing.Status != model.SessionStatusPending && existing.Status != model.SessionStatusConfirmed {
			continue
		}
		if existing.StartTime.Before(end) && existing.EndTime.After(start) {
			return model.ErrInvalidAvailability
		}
	}
	return nil
}

func (s *fakeSessionStore) CreateBooked(_ context.Context, session *model.Session) error {
	if err := s.checkAvailability(session.TutorID, session.SessionDate, session.StartTime, session.EndTime, 0); err != nil {
		return err
	}
	s.nextID++
	session.ID = s.nextID
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *fakeSessionStore) GetByID(_ context.Context, id int64) (*model.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (s *fakeSessionStore) UpdateStatus(_ context.Context, id int64, from, to model.SessionStatus) error {
	session, ok := s.sessions[id]
	if !ok || session.Status != from {
		return model.ErrInvalidTransition
	}
	session.Status = to
	return nil
}

func (s *fakeSessionStore) Reschedule(_ context.Context, sessionID, tutorID int64, date, start, end time.Time, costCentavos int64) error {
	if err := s.checkAvailability(tutorID, date, start, end, sessionID); err != nil {
		return err
	}
	session, ok := s.sessions[sessionID]
	if !ok || session.Status != model.SessionStatusConfirmed {
		return model.ErrInvalidTransition
	}
	session.SessionDate = date
	session.StartTime = start
	session.EndTime = end
	session.TotalCostCentavos = costCentavos
	return nil
}

func (s *fakeSessionStore) ListByStudent(_ context.Context, studentID int64) ([]*model.Session, error) {
	var out []*model.Session
	for _, session := range s.sessions {
		if session.StudentID == studentID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *fakeSessionStore) ListByTutor(_ context.Context, tutorID int64) ([]*model.Session, error) {
	var out []*model.Session
	for _, session := range s.sessions {
		if session.TutorID == tutorID {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeSubjectStore struct {
	subjects map[int64]*model.Subject
}

func (s *fakeSubjectStore) GetByID(_ context.Context, id int64) (*model.Subject, error) {
	return s.subjects[id], nil
}

func (s *fakeSubjectStore) ListActive(context.Context) ([]*model.Subject, error) {
	var out []*model.Subject
	for _, subject := range s.subjects {
		if subject.IsActive {
			out = append(out, subject)
		}
	}
	return out, nil
}

type emittedNotification struct {
	RecipientID int64
	Type        model.NotificationType
}

type fakeNotifier struct {
	emitted []emittedNotification
}

func (n *fakeNotifier) Emit(_ context.Context, recipientID int64, typ model.NotificationType, _, _ string, _ map[string]any) {
	n.emitted = append(n.emitted, emittedNotification{RecipientID: recipientID, Type: typ})
}

func (n *fakeNotifier) lastType() model.NotificationType {
	if len(n.emitted) == 0 {
		return ""
	}
	return n.emitted[len(n.emitted)-1].Type
}

// fakeReviewStore applies the same session and rating side effects the
// SQL transaction does.
type fakeReviewStore struct {
	sessions *fakeSessionStore
	profiles *fakeProfileStore
	reviews  []*model.Review
}

func (s *fakeReviewStore) CreateForCompletedSession(_ context.Context, review *model.Review) error {
	session, ok := s.sessions.sessions[review.SessionID]
	if !ok {
		return model.ErrNotFound
	}
	if session.Status != model.SessionStatusCompleted || session.HasReview {
		return model.ErrReviewNotAllowed
	}

	review.ID = int64(len(s.reviews) + 1)
	s.reviews = append(s.reviews, review)
	session.HasReview = true

	tutor := s.profiles.profiles[review.TutorID]
	if tutor != nil && tutor.Tutor != nil {
		sum := 0
		count := 0
		for _, r := range s.reviews {
			if r.TutorID == review.TutorID {
				sum += r.Rating
				count++
			}
		}
		tutor.Tutor.AverageRating = float64(sum) / float64(count)
		tutor.Tutor.ReviewCount = count
	}
	return nil
}

func (s *fakeReviewStore) GetBySessionID(_ context.Context, sessionID int64) (*model.Review, error) {
	for _, r := range s.reviews {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return nil, nil
}

func (s *fakeReviewStore) ListByTutor(_ context.Context, tutorID int64) ([]*model.Review, error) {
	var out []*model.Review
	for _, r := range s.reviews {
		if r.TutorID == tutorID {
			out = append(out, r)
		}
	}
	return out, nil
}
