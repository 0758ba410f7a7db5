package service

import (
	"testing"
	"time"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
	"github.com/kmdelmundo/tutormatch_api/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(status model.SessionStatus) *model.Session {
	return &model.Session{
		ID:        1,
		StudentID: 10,
		TutorID:   20,
		Status:    status,
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name    string
		status  model.SessionStatus
		event   TransitionEvent
		actorID int64
		want    model.SessionStatus
		wantErr error
	}{
		{"tutor confirms pending", model.SessionStatusPending, EventConfirm, 20, model.SessionStatusConfirmed, nil},
		{"student cannot confirm", model.SessionStatusPending, EventConfirm, 10, "", model.ErrInvalidTransition},
		{"tutor rejects pending", model.SessionStatusPending, EventReject, 20, model.SessionStatusRejected, nil},
		{"student cancels pending", model.SessionStatusPending, EventCancel, 10, model.SessionStatusCancelled, nil},
		{"tutor cancels confirmed", model.SessionStatusConfirmed, EventCancel, 20, model.SessionStatusCancelled, nil},
		{"student completes confirmed", model.SessionStatusConfirmed, EventComplete, 10, model.SessionStatusCompleted, nil},
		{"tutor cannot complete", model.SessionStatusConfirmed, EventComplete, 20, "", model.ErrInvalidTransition},
		{"cannot confirm confirmed", model.SessionStatusConfirmed, EventConfirm, 20, "", model.ErrInvalidTransition},
		{"completed is terminal", model.SessionStatusCompleted, EventCancel, 10, "", model.ErrInvalidTransition},
		{"cancelled is terminal", model.SessionStatusCancelled, EventConfirm, 20, "", model.ErrInvalidTransition},
		{"rejected is terminal", model.SessionStatusRejected, EventCancel, 10, "", model.ErrInvalidTransition},
		{"outsider is unauthorized", model.SessionStatusPending, EventCancel, 99, "", model.ErrUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			to, err := checkTransition(testSession(tc.status), tc.event, tc.actorID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, to)
		})
	}
}

func TestValidateSessionTimes(t *testing.T) {
	today := timeutil.Today()
	tomorrow := today.AddDate(0, 0, 1)
	yesterday := today.AddDate(0, 0, -1)

	at := func(d time.Time, hour int) time.Time {
		return d.Add(time.Duration(hour) * time.Hour)
	}

	assert.NoError(t, validateSessionTimes(tomorrow, at(tomorrow, 10), at(tomorrow, 12), today))
	assert.NoError(t, validateSessionTimes(today, at(today, 10), at(today, 11), today))

	// Shorter than one hour.
	err := validateSessionTimes(tomorrow, at(tomorrow, 10), at(tomorrow, 10).Add(30*time.Minute), today)
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	// End before start.
	err = validateSessionTimes(tomorrow, at(tomorrow, 12), at(tomorrow, 10), today)
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	// Past date.
	err = validateSessionTimes(yesterday, at(yesterday, 10), at(yesterday, 12), today)
	assert.ErrorIs(t, err, model.ErrInvalidAvailability)
}

func TestComputeCostCentavos(t *testing.T) {
	day := timeutil.Today()
	start := day.Add(10 * time.Hour)

	// 2h at P50.00/h = P100.00
	assert.Equal(t, int64(10000), computeCostCentavos(start, start.Add(2*time.Hour), 5000))
	// 1h at P45.00/h
	assert.Equal(t, int64(4500), computeCostCentavos(start, start.Add(time.Hour), 4500))
	// 1.5h at P45.00/h
	assert.Equal(t, int64(6750), computeCostCentavos(start, start.Add(90*time.Minute), 4500))
}
