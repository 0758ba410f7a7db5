package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kmdelmundo/tutormatch_api/internal/model"
)

// Weights distributes the 100 match points across scoring dimensions.
// The defaults mirror the product's priorities but nothing depends on the
// exact split; they can be overridden through configuration.
type Weights struct {
	SubjectOverlap int
	Location       int
	LevelStyle     int
	Availability   int
	Rating         int
}

// DefaultWeights returns the standard 40/20/20/10/10 split.
func DefaultWeights() Weights {
	return Weights{
		SubjectOverlap: 40,
		Location:       20,
		LevelStyle:     20,
		Availability:   10,
		Rating:         10,
	}
}

// Total returns the maximum reachable score.
func (w Weights) Total() int {
	return w.SubjectOverlap + w.Location + w.LevelStyle + w.Availability + w.Rating
}

// Dimension keys used in MatchDetails.
const (
	DimSubjects     = "subject_overlap"
	DimLocation     = "location"
	DimLevelStyle   = "level_style"
	DimAvailability = "availability"
	DimRating       = "rating"
)

// DimensionScore is one dimension's contribution to a match, with a
// human-readable explanation for client display.
type DimensionScore struct {
	Points float64 `json:"points"`
	Detail string  `json:"detail"`
}

// Match is one ranked candidate returned by the matcher.
type Match struct {
	Candidate       *model.Profile            `json:"candidate"`
	MatchPercentage int                       `json:"match_percentage"`
	MatchDetails    map[string]DimensionScore `json:"match_details"`

	// score is the raw weighted total before rounding; ranking uses it
	// so candidates rounding to the same percentage keep score order.
	score float64
}

// scoreCandidate computes the weighted compatibility of one candidate
// against the seeker. The second return value is false when the candidate
// shares no subject with the seeker; that is a hard gate, not a low score.
func scoreCandidate(seeker, candidate *model.Profile, tutorHasAvailability bool, w Weights) (Match, bool) {
	details := make(map[string]DimensionScore, 5)

	// Subject overlap: fraction of the seeker's subjects the candidate
	// covers, scaled to the dimension weight.
	shared := sharedSubjects(seeker.Subjects(), candidate.Subjects())
	if len(shared) == 0 {
		return Match{}, false
	}
	frac := float64(len(shared)) / float64(len(seeker.Subjects()))
	subjectPoints := frac * float64(w.SubjectOverlap)
	details[DimSubjects] = DimensionScore{
		Points: subjectPoints,
		Detail: fmt.Sprintf("%d of %d subjects shared: %s", len(shared), len(seeker.Subjects()), strings.Join(shared, ", ")),
	}

	// Location: all or nothing.
	locationPoints := 0.0
	locationDetail := "different campus"
	if seeker.Campus == candidate.Campus {
		locationPoints = float64(w.Location)
		locationDetail = "same campus (" + string(seeker.Campus) + ")"
	}
	details[DimLocation] = DimensionScore{Points: locationPoints, Detail: locationDetail}

	// Level/style compatibility depends on who is seeking.
	levelPoints, levelDetail := levelStyleScore(seeker, candidate, w)
	details[DimLevelStyle] = DimensionScore{Points: levelPoints, Detail: levelDetail}

	// Availability and rating only apply to tutor candidates; for student
	// candidates they contribute zero rather than failing.
	availPoints := 0.0
	availDetail := "not applicable"
	ratingPoints := 0.0
	ratingDetail := "not applicable"
	if candidate.Tutor != nil {
		if tutorHasAvailability {
			availPoints = float64(w.Availability)
			availDetail = "has upcoming available dates"
		} else {
			availDetail = "no upcoming available dates"
		}
		if candidate.Tutor.ReviewCount > 0 {
			ratingPoints = candidate.Tutor.AverageRating / 5 * float64(w.Rating)
			ratingDetail = fmt.Sprintf("rated %.1f/5 over %d reviews", candidate.Tutor.AverageRating, candidate.Tutor.ReviewCount)
		} else {
			ratingDetail = "no reviews yet"
		}
	}
	details[DimAvailability] = DimensionScore{Points: availPoints, Detail: availDetail}
	details[DimRating] = DimensionScore{Points: ratingPoints, Detail: ratingDetail}

	total := subjectPoints + locationPoints + levelPoints + availPoints + ratingPoints

	return Match{
		Candidate:       candidate,
		MatchPercentage: int(math.Round(total)),
		MatchDetails:    details,
		score:           total,
	}, true
}

func levelStyleScore(seeker, candidate *model.Profile, w Weights) (float64, string) {
	switch {
	case seeker.Student != nil && candidate.Tutor != nil:
		if candidate.Tutor.PreferredStudentLevel == seeker.Student.AcademicLevel {
			return float64(w.LevelStyle), "tutor teaches your academic level (" + string(seeker.Student.AcademicLevel) + ")"
		}
		return 0, "tutor prefers " + string(candidate.Tutor.PreferredStudentLevel) + " students"
	case seeker.Tutor != nil && candidate.Student != nil:
		for _, style := range seeker.Tutor.TeachingStyles {
			if style == candidate.Student.PreferredLearningStyle {
				return float64(w.LevelStyle), "student prefers a style you teach (" + string(style) + ")"
			}
		}
		return 0, "no teaching style overlap"
	}
	return 0, "not applicable"
}

// sharedSubjects intersects two subject sets case-insensitively, preserving
// the seeker's spelling and order.
func sharedSubjects(seekerSubjects, candidateSubjects []string) []string {
	candidateSet := make(map[string]bool, len(candidateSubjects))
	for _, s := range candidateSubjects {
		candidateSet[normalizeSubject(s)] = true
	}

	var shared []string
	for _, s := range seekerSubjects {
		if candidateSet[normalizeSubject(s)] {
			shared = append(shared, s)
		}
	}
	return shared
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sortMatches orders matches by raw weighted score descending, then
// candidate rating descending, then user id ascending so equal inputs
// always rank the same.
func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		ri, rj := candidateRating(matches[i].Candidate), candidateRating(matches[j].Candidate)
		if ri != rj {
			return ri > rj
		}
		return matches[i].Candidate.UserID < matches[j].Candidate.UserID
	})
}

func candidateRating(p *model.Profile) float64 {
	if p.Tutor != nil {
		return p.Tutor.AverageRating
	}
	return 0
}
