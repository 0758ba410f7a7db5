package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `
	id, student_id, tutor_id, subject_id, custom_subject, session_date,
	start_time, end_time, status, total_cost_centavos, notes, has_review,
	created_at, updated_at
`

// CreateBooked inserts a new pending session after re-checking the
// tutor's live availability inside one transaction. The slot row is
// locked for the duration of the check, so of two racing bookings for
// the same tutor and date the second one blocks, re-reads, and fails
// with ErrInvalidAvailability.
func (r *SessionRepository) CreateBooked(ctx context.Context, session *model.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkTutorAvailability(ctx, tx, session.TutorID, session.SessionDate, session.StartTime, session.EndTime, 0); err != nil {
		return err
	}

	query := `
		INSERT INTO sessions (student_id, tutor_id, subject_id, custom_subject,
			session_date, start_time, end_time, status, total_cost_centavos, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(
		ctx, query,
		session.StudentID,
		session.TutorID,
		session.SubjectID,
		session.CustomSubject,
		session.SessionDate,
		session.StartTime,
		session.EndTime,
		session.Status,
		session.TotalCostCentavos,
		session.Notes,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Reschedule moves a confirmed session to a new date and time, re-checking
// the tutor's current availability under the same lock as booking. On any
// failure the session row is untouched.
func (r *SessionRepository) Reschedule(ctx context.Context, sessionID, tutorID int64, date, start, end time.Time, costCentavos int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkTutorAvailability(ctx, tx, tutorID, date, start, end, sessionID); err != nil {
		return err
	}

	query := `
		UPDATE sessions
		SET session_date = $1, start_time = $2, end_time = $3,
		    total_cost_centavos = $4, updated_at = now()
		WHERE id = $5 AND status = 'confirmed'
	`

	result, err := tx.Exec(ctx, query, date, start, end, costCentavos, sessionID)
	if err != nil {
		return fmt.Errorf("reschedule session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// checkTutorAvailability verifies, under a row lock on the availability
// slot, that the date is offered by the tutor and the time range does not
// overlap another pending or confirmed session. excludeSessionID skips the
// session being rescheduled in the overlap check.
func checkTutorAvailability(ctx context.Context, tx pgx.Tx, tutorID int64, date, start, end time.Time, excludeSessionID int64) error {
	var (
		isAvailable bool
		slotStart   *time.Time
		slotEnd     *time.Time
	)
	err := tx.QueryRow(ctx, `
		SELECT is_available, start_time, end_time
		FROM availability_slots
		WHERE tutor_id = $1 AND date = $2
		FOR UPDATE
	`, tutorID, date).Scan(&isAvailable, &slotStart, &slotEnd)

	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrInvalidAvailability
		}
		return fmt.Errorf("lock availability slot: %w", err)
	}

	if !isAvailable {
		return model.ErrInvalidAvailability
	}

	// Optional time bounds on the slot restrict the bookable window.
	if slotStart != nil && start.Before(*slotStart) {
		return model.ErrInvalidAvailability
	}
	if slotEnd != nil && end.After(*slotEnd) {
		return model.ErrInvalidAvailability
	}

	var conflict bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM sessions
			WHERE tutor_id = $1
			  AND session_date = $2
			  AND id <> $3
			  AND status IN ('pending', 'confirmed')
			  AND start_time < $4
			  AND end_time > $5
		)
	`, tutorID, date, excludeSessionID, end, start).Scan(&conflict)

	if err != nil {
		return fmt.Errorf("check session conflicts: %w", err)
	}

	if conflict {
		return model.ErrInvalidAvailability
	}

	return nil
}

// GetByID returns a session or nil when unknown.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	session, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return session, nil
}

// UpdateStatus moves a session from one status to another. A zero affected
// row count means the session was gone or no longer in the expected status,
// which covers concurrent transitions on the same session.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int64, from, to model.SessionStatus) error {
	query := `
		UPDATE sessions
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	result, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrInvalidTransition
	}

	return nil
}

// ListByStudent returns all sessions booked by a student, newest first.
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE student_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, studentID)
}

// ListByTutor returns all sessions addressed to a tutor, newest first.
func (r *SessionRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE tutor_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, tutorID)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID,
		&s.StudentID,
		&s.TutorID,
		&s.SubjectID,
		&s.CustomSubject,
		&s.SessionDate,
		&s.StartTime,
		&s.EndTime,
		&s.Status,
		&s.TotalCostCentavos,
		&s.Notes,
		&s.HasReview,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
