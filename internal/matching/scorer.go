package matching

import "errors"

// ErrNegativeExperience is returned when a candidate reports negative
// years of experience. Scoring refuses the input rather than clamping it.
var ErrNegativeExperience = errors.New("years of experience must not be negative")

const (
	baseScore         = 50
	perKeywordBonus   = 5
	experiencedBonus  = 10 // 3+ years
	seasonedBonus     = 15 // 5+ years, on top of the 3+ bonus
	minScore          = 0
	maxScore          = 100
	experiencedCutoff = 3
	seasonedCutoff    = 5
)

// Candidate carries the application fields scoring consults.
type Candidate struct {
	Skills          []string
	YearsExperience int
}

// Score computes the match score for a candidate against a posting.
// Every candidate starts from a base of 50, earns 5 points per matched
// keyword, 10 more at three years of experience and another 15 at five.
// The result is clamped to [0, 100].
func Score(job JobText, candidate Candidate) (int, error) {
	if candidate.YearsExperience < 0 {
		return 0, ErrNegativeExperience
	}

	score := baseScore
	score += perKeywordBonus * CountMatches(job, candidate.Skills)

	if candidate.YearsExperience >= experiencedCutoff {
		score += experiencedBonus
	}
	if candidate.YearsExperience >= seasonedCutoff {
		score += seasonedBonus
	}

	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	return score, nil
}
