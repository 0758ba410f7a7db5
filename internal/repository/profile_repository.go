package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `
	p.user_id, p.role, p.campus_location, p.bio, p.profile_picture,
	p.profile_completed, p.created_at, p.updated_at,
	s.subjects_of_interest, s.academic_level, s.preferred_learning_style,
	t.specializations, t.teaching_styles, t.preferred_student_level,
	t.hourly_rate_centavos, t.years_experience, t.average_rating,
	t.review_count, t.is_verified_tutor
`

const profileJoins = `
	FROM profiles p
	LEFT JOIN student_profiles s ON s.user_id = p.user_id
	LEFT JOIN tutor_profiles t ON t.user_id = p.user_id
`

// GetByUserID loads a profile with its role-specific details.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + profileJoins + ` WHERE p.user_id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by user id: %w", err)
	}

	return profile, nil
}

// ListCompletedByRole returns every completed profile of the given role,
// ordered by user id for deterministic match output.
func (r *ProfileRepository) ListCompletedByRole(ctx context.Context, role model.Role) ([]*model.Profile, error) {
	query := `SELECT ` + profileColumns + profileJoins + `
		WHERE p.role = $1 AND p.profile_completed = true
		ORDER BY p.user_id`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list completed profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*model.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// scanProfile maps one joined row into the tagged-union profile shape.
func scanProfile(row pgx.Row) (*model.Profile, error) {
	var (
		p model.Profile

		studentSubjects []string
		academicLevel   *string
		learningStyle   *string

		specializations []string
		teachingStyles  []string
		preferredLevel  *string
		hourlyRate      *int64
		yearsExperience *int
		averageRating   *float64
		reviewCount     *int
		isVerified      *bool
	)

	err := row.Scan(
		&p.UserID,
		&p.Role,
		&p.Campus,
		&p.Bio,
		&p.ProfilePicture,
		&p.Completed,
		&p.CreatedAt,
		&p.UpdatedAt,
		&studentSubjects,
		&academicLevel,
		&learningStyle,
		&specializations,
		&teachingStyles,
		&preferredLevel,
		&hourlyRate,
		&yearsExperience,
		&averageRating,
		&reviewCount,
		&isVerified,
	)
	if err != nil {
		return nil, err
	}

	switch p.Role {
	case model.RoleStudent:
		if academicLevel != nil {
			p.Student = &model.StudentDetails{
				SubjectsOfInterest:     studentSubjects,
				AcademicLevel:          model.AcademicLevel(*academicLevel),
				PreferredLearningStyle: model.LearningStyle(ptrValue(learningStyle)),
			}
		}
	case model.RoleTutor:
		if preferredLevel != nil {
			styles := make([]model.LearningStyle, 0, len(teachingStyles))
			for _, s := range teachingStyles {
				styles = append(styles, model.LearningStyle(s))
			}
			p.Tutor = &model.TutorDetails{
				Specializations:       specializations,
				TeachingStyles:        styles,
				PreferredStudentLevel: model.AcademicLevel(*preferredLevel),
				HourlyRateCentavos:    ptrValue(hourlyRate),
				YearsExperience:       ptrValue(yearsExperience),
				AverageRating:         ptrValue(averageRating),
				ReviewCount:           ptrValue(reviewCount),
				IsVerifiedTutor:       ptrValue(isVerified),
			}
		}
	}

	return &p, nil
}

func ptrValue[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
