package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

type CampusLocation string

const (
	CampusMain CampusLocation = "main_campus"
	CampusPUCU CampusLocation = "pucu"
)

// AcademicLevel doubles as a tutor's preferred student level.
type AcademicLevel string

const (
	AcademicLevelSHS     AcademicLevel = "shs"
	AcademicLevelCollege AcademicLevel = "college"
)

// LearningStyle is shared between a student's preference and a tutor's
// teaching styles.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleReading     LearningStyle = "reading_writing"
	StyleKinesthetic LearningStyle = "kinesthetic"
)

// Profile is the common header of a student or tutor profile.
// Exactly one of Student/Tutor is set, depending on Role; the role is
// fixed at profile creation.
type Profile struct {
	UserID         int64          `json:"user_id"`
	Role           Role           `json:"role"`
	Campus         CampusLocation `json:"campus_location"`
	Bio            string         `json:"bio"`
	ProfilePicture *string        `json:"profile_picture"`
	Completed      bool           `json:"profile_completed"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	Student *StudentDetails `json:"student,omitempty"`
	Tutor   *TutorDetails   `json:"tutor,omitempty"`
}

type StudentDetails struct {
	SubjectsOfInterest     []string      `json:"subjects_of_interest"` // at least 2 on a completed profile
	AcademicLevel          AcademicLevel `json:"academic_level"`
	PreferredLearningStyle LearningStyle `json:"preferred_learning_style"`
}

type TutorDetails struct {
	Specializations       []string        `json:"specializations"` // at least 3 on a completed profile
	TeachingStyles        []LearningStyle `json:"teaching_styles"` // at least 2 on a completed profile
	PreferredStudentLevel AcademicLevel   `json:"preferred_student_level"`
	HourlyRateCentavos    int64           `json:"hourly_rate_centavos"`
	YearsExperience       int             `json:"years_experience"`
	AverageRating         float64         `json:"average_rating"` // 0-5, derived from reviews
	ReviewCount           int             `json:"review_count"`
	IsVerifiedTutor       bool            `json:"is_verified_tutor"`
}

// IsComplete reports whether the profile has every field matching needs.
// Incomplete profiles are invisible to the matcher and cannot seek matches.
func (p *Profile) IsComplete() bool {
	if !p.Completed || p.Campus == "" {
		return false
	}
	switch p.Role {
	case RoleStudent:
		return p.Student != nil &&
			len(p.Student.SubjectsOfInterest) >= 2 &&
			p.Student.AcademicLevel != "" &&
			p.Student.PreferredLearningStyle != ""
	case RoleTutor:
		return p.Tutor != nil &&
			len(p.Tutor.Specializations) >= 3 &&
			len(p.Tutor.TeachingStyles) >= 2 &&
			p.Tutor.PreferredStudentLevel != "" &&
			p.Tutor.HourlyRateCentavos >= 0
	}
	return false
}

// Subjects returns the role-specific subject set used for overlap scoring.
func (p *Profile) Subjects() []string {
	switch {
	case p.Student != nil:
		return p.Student.SubjectsOfInterest
	case p.Tutor != nil:
		return p.Tutor.Specializations
	}
	return nil
}

// Opposite returns the role a seeker is matched against.
func (r Role) Opposite() Role {
	if r == RoleStudent {
		return RoleTutor
	}
	return RoleStudent
}
