package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// CreateForCompletedSession attaches a review to its session in one
// transaction: the session row is locked, the completed/no-review guard is
// re-checked under the lock, the review is inserted, has_review flips, and
// the tutor's rating aggregate is recomputed from the reviews table.
// A racing duplicate fails the re-check (or the unique index on
// reviews.session_id) with ErrReviewNotAllowed.
func (r *ReviewRepository) CreateForCompletedSession(ctx context.Context, review *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		status    model.SessionStatus
		hasReview bool
	)
	err = tx.QueryRow(ctx, `
		SELECT status, has_review
		FROM sessions
		WHERE id = $1
		FOR UPDATE
	`, review.SessionID).Scan(&status, &hasReview)

	if err != nil {
		if err == pgx.ErrNoRows {
			return model.ErrNotFound
		}
		return fmt.Errorf("lock session: %w", err)
	}

	if status != model.SessionStatusCompleted || hasReview {
		return model.ErrReviewNotAllowed
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (session_id, student_id, tutor_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		review.SessionID,
		review.StudentID,
		review.TutorID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE sessions SET has_review = true, updated_at = now() WHERE id = $1
	`, review.SessionID)
	if err != nil {
		return fmt.Errorf("mark session reviewed: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE tutor_profiles t
		SET average_rating = sub.avg_rating,
		    review_count   = sub.cnt
		FROM (
			SELECT COALESCE(AVG(rating), 0)::float8 AS avg_rating, COUNT(*) AS cnt
			FROM reviews
			WHERE tutor_id = $1
		) sub
		WHERE t.user_id = $1
	`, review.TutorID)
	if err != nil {
		return fmt.Errorf("update tutor rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetBySessionID returns the session's review or nil.
func (r *ReviewRepository) GetBySessionID(ctx context.Context, sessionID int64) (*model.Review, error) {
	query := `
		SELECT id, session_id, student_id, tutor_id, rating, comment, created_at
		FROM reviews
		WHERE session_id = $1
	`

	var review model.Review
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&review.ID,
		&review.SessionID,
		&review.StudentID,
		&review.TutorID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by session: %w", err)
	}

	return &review, nil
}

// ListByTutor returns all reviews left for a tutor, newest first.
func (r *ReviewRepository) ListByTutor(ctx context.Context, tutorID int64) ([]*model.Review, error) {
	query := `
		SELECT id, session_id, student_id, tutor_id, rating, comment, created_at
		FROM reviews
		WHERE tutor_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by tutor: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		var review model.Review
		err := rows.Scan(
			&review.ID,
			&review.SessionID,
			&review.StudentID,
			&review.TutorID,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &review)
	}

	return reviews, rows.Err()
}
