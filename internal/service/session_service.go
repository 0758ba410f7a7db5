package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/format"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"go.uber.org/zap"
)

// SessionStore is the session repository surface the lifecycle manager
// drives. CreateBooked and Reschedule are atomic: they re-check the
// tutor's live availability under a lock and either fully apply or leave
// everything untouched.
type SessionStore interface {
	CreateBooked(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	UpdateStatus(ctx context.Context, id int64, from, to model.SessionStatus) error
	Reschedule(ctx context.Context, sessionID, tutorID int64, date, start, end time.Time, costCentavos int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]*model.Session, error)
	ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error)
}

// ProfileStore is the read-only profile access lifecycle operations need.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
}

// SubjectStore resolves catalog subjects on booking.
type SubjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
	ListActive(ctx context.Context) ([]*model.Subject, error)
}

// Notifier is the fire-and-forget notification sink. Emit never fails the
// transition that triggered it.
type Notifier interface {
	Emit(ctx context.Context, recipientID int64, typ model.NotificationType, title, message string, data map[string]any)
}

// BookingRequest carries a student's booking input, already parsed into
// concrete times by the transport layer. StartTime and EndTime fall on
// SessionDate.
type BookingRequest struct {
	StudentID     int64
	TutorID       int64
	SessionDate   time.Time
	StartTime     time.Time
	EndTime       time.Time
	SubjectID     *int64
	CustomSubject *string
	Notes         string
}

type SessionService struct {
	sessionRepo SessionStore
	profileRepo ProfileStore
	subjectRepo SubjectStore
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

func NewSessionService(
	sessionRepo SessionStore,
	profileRepo ProfileStore,
	subjectRepo SubjectStore,
	notifier Notifier,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		subjectRepo: subjectRepo,
		notifier:    notifier,
		logger:      logger,
		now:         timeutil.Now,
	}
}

// Book validates a booking request and creates the session in pending
// state. All validation happens before anything is written; the
// availability and conflict checks run against live data inside the
// repository's transaction, so a racing booking for the same tutor, date
// and overlapping time loses with ErrInvalidAvailability.
func (s *SessionService) Book(ctx context.Context, req BookingRequest) (*model.Session, error) {
	subject, err := s.resolveSubject(ctx, req.SubjectID, req.CustomSubject)
	if err != nil {
		return nil, err
	}

	if err := validateSessionTimes(req.SessionDate, req.StartTime, req.EndTime, timeutil.DateOnly(s.now())); err != nil {
		return nil, err
	}

	tutor, err := s.profileRepo.GetByUserID(ctx, req.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	if tutor == nil || tutor.Tutor == nil {
		return nil, model.ErrNotFound
	}

	session := &model.Session{
		StudentID:         req.StudentID,
		TutorID:           req.TutorID,
		SubjectID:         req.SubjectID,
		CustomSubject:     req.CustomSubject,
		SessionDate:       req.SessionDate,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            model.SessionStatusPending,
		TotalCostCentavos: computeCostCentavos(req.StartTime, req.EndTime, tutor.Tutor.HourlyRateCentavos),
		Notes:             req.Notes,
	}

	if err := s.sessionRepo.CreateBooked(ctx, session); err != nil {
		return nil, err
	}

	session.Subject = subject

	s.logger.Info("Session booked",
		zap.Int64("session_id", session.ID),
		zap.Int64("student_id", session.StudentID),
		zap.Int64("tutor_id", session.TutorID),
		zap.String("date", timeutil.FormatDate(session.SessionDate)),
		zap.Duration("duration", session.Duration()),
		zap.Int64("total_cost_centavos", session.TotalCostCentavos),
	)

	s.notifier.Emit(ctx, session.TutorID, model.NotificationSessionRequest,
		"New session request",
		fmt.Sprintf("A student requested %s for %s", s.subjectName(session), format.DateTimeRange(session.SessionDate, session.StartTime, session.EndTime)),
		map[string]any{"session_id": session.ID})

	return session, nil
}

// Confirm moves a pending session to confirmed. Tutor only.
func (s *SessionService) Confirm(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	return s.transition(ctx, sessionID, actorID, EventConfirm)
}

// Reject moves a pending session to rejected. Tutor only.
func (s *SessionService) Reject(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	return s.transition(ctx, sessionID, actorID, EventReject)
}

// Cancel moves a pending or confirmed session to cancelled. Either party.
func (s *SessionService) Cancel(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	return s.transition(ctx, sessionID, actorID, EventCancel)
}

// Complete moves a confirmed session to completed. Student only, and never
// before the session date has arrived.
func (s *SessionService) Complete(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
	return s.transition(ctx, sessionID, actorID, EventComplete)
}

func (s *SessionService) transition(ctx context.Context, sessionID, actorID int64, event TransitionEvent) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, model.ErrNotFound
	}

	to, err := checkTransition(session, event, actorID)
	if err != nil {
		return nil, err
	}

	// Completion is only valid once the session date has arrived. The
	// stored date comes back from the DATE column at midnight UTC, so
	// both sides are reduced to their Manila calendar date first.
	if event == EventComplete && timeutil.DateOnly(session.SessionDate).After(timeutil.DateOnly(s.now())) {
		return nil, model.ErrInvalidTransition
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, session.Status, to); err != nil {
		return nil, err
	}

	from := session.Status
	session.Status = to

	s.logger.Info("Session transitioned",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	s.notifyTransition(ctx, session, event, actorID)

	return session, nil
}

// Reschedule moves a confirmed session to a new date and time. The new
// date is re-validated against the tutor's current availability, never
// against whatever the client saw when the session was first booked, and
// the cost is recomputed from the tutor's hourly rate. On failure the
// session keeps its prior date, time and cost.
func (s *SessionService) Reschedule(ctx context.Context, sessionID, actorID int64, date, start, end time.Time) (*model.Session, error) {
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

	if session.Status != model.SessionStatusConfirmed {
		return nil, model.ErrInvalidTransition
	}

	if err := validateSessionTimes(date, start, end, timeutil.DateOnly(s.now())); err != nil {
		return nil, err
	}

	tutor, err := s.profileRepo.GetByUserID(ctx, session.TutorID)
	if err != nil {
		return nil, fmt.Errorf("get tutor profile: %w", err)
	}
	if tutor == nil || tutor.Tutor == nil {
		return nil, model.ErrNotFound
	}

	cost := computeCostCentavos(start, end, tutor.Tutor.HourlyRateCentavos)

	if err := s.sessionRepo.Reschedule(ctx, sessionID, session.TutorID, date, start, end, cost); err != nil {
		return nil, err
	}

	session.SessionDate = date
	session.StartTime = start
	session.EndTime = end
	session.TotalCostCentavos = cost

	s.logger.Info("Session rescheduled",
		zap.Int64("session_id", sessionID),
		zap.Int64("actor_id", actorID),
		zap.String("new_date", timeutil.FormatDate(date)),
		zap.Int64("total_cost_centavos", cost),
	)

	counterparty := session.TutorID
	if actorID == session.TutorID {
		counterparty = session.StudentID
	}
	s.notifier.Emit(ctx, counterparty, model.NotificationSessionRescheduled,
		"Session rescheduled",
		fmt.Sprintf("Your session was moved to %s", format.DateTimeRange(date, start, end)),
		map[string]any{"session_id": session.ID})

	return session, nil
}

// GetForActor returns a session only to one of its parties.
func (s *SessionService) GetForActor(ctx context.Context, sessionID, actorID int64) (*model.Session, error) {
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
	return session, nil
}

// ListForActor returns the caller's sessions, on whichever side they are.
func (s *SessionService) ListForActor(ctx context.Context, actorID int64, role model.Role) ([]*model.Session, error) {
	if role == model.RoleTutor {
		return s.sessionRepo.ListByTutor(ctx, actorID)
	}
	return s.sessionRepo.ListByStudent(ctx, actorID)
}

// ListSubjects returns the bookable subject catalog.
func (s *SessionService) ListSubjects(ctx context.Context) ([]*model.Subject, error) {
	return s.subjectRepo.ListActive(ctx)
}

func (s *SessionService) resolveSubject(ctx context.Context, subjectID *int64, customSubject *string) (*model.Subject, error) {
	hasID := subjectID != nil
	hasCustom := customSubject != nil && *customSubject != ""

	// Exactly one way of naming the subject must be used.
	if hasID == hasCustom {
		return nil, model.ErrSubjectRequired
	}

	if !hasID {
		return nil, nil
	}

	subject, err := s.subjectRepo.GetByID(ctx, *subjectID)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if subject == nil || !subject.IsActive {
		return nil, model.ErrNotFound
	}
	return subject, nil
}

func (s *SessionService) subjectName(session *model.Session) string {
	if session.Subject != nil {
		return session.Subject.Name
	}
	if session.CustomSubject != nil {
		return *session.CustomSubject
	}
	return "a session"
}

func (s *SessionService) notifyTransition(ctx context.Context, session *model.Session, event TransitionEvent, actorID int64) {
	when := format.DateTimeRange(session.SessionDate, session.StartTime, session.EndTime)

	switch event {
	case EventConfirm:
		s.notifier.Emit(ctx, session.StudentID, model.NotificationSessionConfirmed,
			"Session confirmed",
			fmt.Sprintf("Your tutor confirmed the session on %s", when),
			map[string]any{"session_id": session.ID})
	case EventReject:
		s.notifier.Emit(ctx, session.StudentID, model.NotificationSessionRejected,
			"Session declined",
			fmt.Sprintf("Your tutor declined the session on %s", when),
			map[string]any{"session_id": session.ID})
	case EventComplete:
		s.notifier.Emit(ctx, session.TutorID, model.NotificationSessionCompleted,
			"Session completed",
			fmt.Sprintf("The session on %s was marked completed", when),
			map[string]any{"session_id": session.ID})
	case EventCancel:
		counterparty := session.TutorID
		if actorID == session.TutorID {
			counterparty = session.StudentID
		}
		s.notifier.Emit(ctx, counterparty, model.NotificationSessionCancelled,
			"Session cancelled",
			fmt.Sprintf("The session on %s was cancelled", when),
			map[string]any{"session_id": session.ID})
	}
}
