package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// Upsert creates or replaces the tutor's availability for a date.
func (r *AvailabilityRepository) Upsert(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (tutor_id, date, is_available, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tutor_id, date)
		DO UPDATE SET is_available = EXCLUDED.is_available,
		              start_time   = EXCLUDED.start_time,
		              end_time     = EXCLUDED.end_time,
		              updated_at   = now()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		slot.TutorID,
		slot.Date,
		slot.IsAvailable,
		slot.StartTime,
		slot.EndTime,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert availability slot: %w", err)
	}

	return nil
}

// ListByTutor returns the tutor's slots from a date onward.
func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID int64, from time.Time) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, tutor_id, date, is_available, start_time, end_time, created_at, updated_at
		FROM availability_slots
		WHERE tutor_id = $1 AND date >= $2
		ORDER BY date
	`

	rows, err := r.pool.Query(ctx, query, tutorID, from)
	if err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		var slot model.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.Date,
			&slot.IsAvailable,
			&slot.StartTime,
			&slot.EndTime,
			&slot.CreatedAt,
			&slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, rows.Err()
}

// TutorIDsWithFutureAvailability returns the set of tutors offering at
// least one available date from today onward. Used by the matcher to score
// the availability dimension in one query.
func (r *AvailabilityRepository) TutorIDsWithFutureAvailability(ctx context.Context, from time.Time) (map[int64]bool, error) {
	query := `
		SELECT DISTINCT tutor_id
		FROM availability_slots
		WHERE is_available = true AND date >= $1
	`

	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("list tutors with availability: %w", err)
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tutor id: %w", err)
		}
		ids[id] = true
	}

	return ids, rows.Err()
}
