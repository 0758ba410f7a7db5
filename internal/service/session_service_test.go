package service

import (
	"context"
	"testing"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sessionTestEnv struct {
	sessions *fakeSessionStore
	profiles *fakeProfileStore
	subjects *fakeSubjectStore
	notifier *fakeNotifier
	svc      *SessionService
	today    time.Time
}

func newSessionTestEnv(t *testing.T) *sessionTestEnv {
	t.Helper()

	env := &sessionTestEnv{
		sessions: newFakeSessionStore(),
		profiles: newFakeProfileStore(testStudent(10), testTutor(20)),
		subjects: &fakeSubjectStore{subjects: map[int64]*model.Subject{
			1: {ID: 1, Name: "Mathematics", IsActive: true},
			2: {ID: 2, Name: "Latin", IsActive: false},
		}},
		notifier: &fakeNotifier{},
	}

	env.svc = NewSessionService(env.sessions, env.profiles, env.subjects, env.notifier, zap.NewNop())

	env.today = time.Date(2026, 3, 2, 0, 0, 0, 0, timeutil.ManilaTZ)
	env.svc.now = func() time.Time { return env.today.Add(10 * time.Hour) }

	return env
}

func (env *sessionTestEnv) bookingRequest(t *testing.T, day, startClock, endClock string) BookingRequest {
	t.Helper()

	date, err := timeutil.ParseDate(day)
	require.NoError(t, err)
	start, err := timeutil.CombineDateClock(date, startClock)
	require.NoError(t, err)
	end, err := timeutil.CombineDateClock(date, endClock)
	require.NoError(t, err)

	subjectID := int64(1)
	return BookingRequest{
		StudentID:   10,
		TutorID:     20,
		SessionDate: date,
		StartTime:   start,
		EndTime:     end,
		SubjectID:   &subjectID,
	}
}

func TestSessionService_Book(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.SessionStatusPending, session.Status)
	// 2 hours at the tutor's 5000-centavo hourly rate.
	assert.Equal(t, int64(10000), session.TotalCostCentavos)
	assert.Equal(t, "Mathematics", session.Subject.Name)
	assert.Equal(t, model.NotificationSessionRequest, env.notifier.lastType())
	assert.Equal(t, int64(20), env.notifier.emitted[0].RecipientID)
}

func TestSessionService_Book_CustomSubject(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "15:00")
	custom := "Thesis defense prep"
	req.SubjectID = nil
	req.CustomSubject = &custom
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, session.Subject)
	assert.Equal(t, custom, *session.CustomSubject)
}

func TestSessionService_Book_SubjectValidation(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	neither := req
	neither.SubjectID = nil
	_, err := env.svc.Book(context.Background(), neither)
	assert.ErrorIs(t, err, model.ErrSubjectRequired)

	both := req
	custom := "Everything at once"
	both.CustomSubject = &custom
	_, err = env.svc.Book(context.Background(), both)
	assert.ErrorIs(t, err, model.ErrSubjectRequired)

	inactive := req
	inactiveID := int64(2)
	inactive.SubjectID = &inactiveID
	_, err = env.svc.Book(context.Background(), inactive)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionService_Book_TooShort(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "14:30")
	env.sessions.addSlot(20, req.SessionDate, true)

	_, err := env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidDuration)
	assert.Empty(t, env.sessions.sessions)
}

func TestSessionService_Book_NoAvailability(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")

	// No slot published for that date at all.
	_, err := env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidAvailability)

	// A slot the tutor marked unavailable behaves the same.
	env.sessions.addSlot(20, req.SessionDate, false)
	_, err = env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidAvailability)
	assert.Empty(t, env.sessions.sessions)
}

func TestSessionService_Book_OverlapLoses(t *testing.T) {
	env := newSessionTestEnv(t)
	first := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, first.SessionDate, true)

	_, err := env.svc.Book(context.Background(), first)
	require.NoError(t, err)

	// Partially overlapping request for the same tutor loses.
	second := env.bookingRequest(t, "2026-03-05", "15:00", "17:00")
	_, err = env.svc.Book(context.Background(), second)
	assert.ErrorIs(t, err, model.ErrInvalidAvailability)

	// Back-to-back is not an overlap.
	adjacent := env.bookingRequest(t, "2026-03-05", "16:00", "17:00")
	_, err = env.svc.Book(context.Background(), adjacent)
	assert.NoError(t, err)
	assert.Len(t, env.sessions.sessions, 2)
}

func TestSessionService_Complete_NotBeforeSessionDate(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)
	_, err = env.svc.Confirm(context.Background(), session.ID, 20)
	require.NoError(t, err)

	// Today is 2026-03-02; the session is on the 5th.
	_, err = env.svc.Complete(context.Background(), session.ID, 10)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	env.today = time.Date(2026, 3, 5, 0, 0, 0, 0, timeutil.ManilaTZ)
	completed, err := env.svc.Complete(context.Background(), session.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, completed.Status)
	assert.Equal(t, model.NotificationSessionCompleted, env.notifier.lastType())
}

func TestSessionService_Complete_StoredDateInUTC(t *testing.T) {
	env := newSessionTestEnv(t)

	// The DATE column decodes as midnight UTC, which is already 08:00
	// Manila on the same calendar day. Completion must still work on
	// that day, not the one after.
	utcDate := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	env.sessions.sessions[1] = &model.Session{
		ID:          1,
		StudentID:   10,
		TutorID:     20,
		SessionDate: utcDate,
		StartTime:   utcDate.Add(6 * time.Hour),
		EndTime:     utcDate.Add(8 * time.Hour),
		Status:      model.SessionStatusConfirmed,
	}

	env.today = time.Date(2026, 3, 4, 0, 0, 0, 0, timeutil.ManilaTZ)
	_, err := env.svc.Complete(context.Background(), 1, 10)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	env.today = time.Date(2026, 3, 5, 0, 0, 0, 0, timeutil.ManilaTZ)
	completed, err := env.svc.Complete(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusCompleted, completed.Status)
}

func TestSessionService_Reschedule_RecomputesCost(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "15:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), session.TotalCostCentavos)

	_, err = env.svc.Confirm(context.Background(), session.ID, 20)
	require.NoError(t, err)

	newDate, err := timeutil.ParseDate("2026-03-09")
	require.NoError(t, err)
	env.sessions.addSlot(20, newDate, true)
	start, _ := timeutil.CombineDateClock(newDate, "09:00")
	end, _ := timeutil.CombineDateClock(newDate, "11:00")

	moved, err := env.svc.Reschedule(context.Background(), session.ID, 10, newDate, start, end)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), moved.TotalCostCentavos)
	assert.Equal(t, "2026-03-09", timeutil.FormatDate(moved.SessionDate))
	assert.Equal(t, model.NotificationSessionRescheduled, env.notifier.lastType())
	// The student moved the session, so the tutor is told.
	assert.Equal(t, int64(20), env.notifier.emitted[len(env.notifier.emitted)-1].RecipientID)
}

func TestSessionService_Reschedule_ChecksLiveAvailability(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "15:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)
	_, err = env.svc.Confirm(context.Background(), session.ID, 20)
	require.NoError(t, err)

	// The target date was available when the client looked, but the tutor
	// has since withdrawn it.
	newDate, err := timeutil.ParseDate("2026-03-09")
	require.NoError(t, err)
	env.sessions.addSlot(20, newDate, false)
	start, _ := timeutil.CombineDateClock(newDate, "09:00")
	end, _ := timeutil.CombineDateClock(newDate, "10:00")

	_, err = env.svc.Reschedule(context.Background(), session.ID, 10, newDate, start, end)
	assert.ErrorIs(t, err, model.ErrInvalidAvailability)

	// The session keeps its original date, time and cost.
	kept, err := env.svc.GetForActor(context.Background(), session.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", timeutil.FormatDate(kept.SessionDate))
	assert.Equal(t, int64(5000), kept.TotalCostCentavos)
}

func TestSessionService_Reschedule_OnlyConfirmed(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "15:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)

	newDate, err := timeutil.ParseDate("2026-03-09")
	require.NoError(t, err)
	env.sessions.addSlot(20, newDate, true)
	start, _ := timeutil.CombineDateClock(newDate, "09:00")
	end, _ := timeutil.CombineDateClock(newDate, "10:00")

	_, err = env.svc.Reschedule(context.Background(), session.ID, 10, newDate, start, end)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = env.svc.Reschedule(context.Background(), session.ID, 99, newDate, start, end)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSessionService_GetForActor(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	session, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)

	_, err = env.svc.GetForActor(context.Background(), session.ID, 10)
	assert.NoError(t, err)
	_, err = env.svc.GetForActor(context.Background(), session.ID, 20)
	assert.NoError(t, err)
	_, err = env.svc.GetForActor(context.Background(), session.ID, 99)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	_, err = env.svc.GetForActor(context.Background(), 404, 10)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSessionService_ListForActor(t *testing.T) {
	env := newSessionTestEnv(t)
	req := env.bookingRequest(t, "2026-03-05", "14:00", "16:00")
	env.sessions.addSlot(20, req.SessionDate, true)

	_, err := env.svc.Book(context.Background(), req)
	require.NoError(t, err)

	asStudent, err := env.svc.ListForActor(context.Background(), 10, model.RoleStudent)
	require.NoError(t, err)
	assert.Len(t, asStudent, 1)

	asTutor, err := env.svc.ListForActor(context.Background(), 20, model.RoleTutor)
	require.NoError(t, err)
	assert.Len(t, asTutor, 1)

	other, err := env.svc.ListForActor(context.Background(), 99, model.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, other)
}
