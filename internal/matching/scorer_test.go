package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_BaseScoreOnly(t *testing.T) {
	score, err := Score(JobText{Title: "Accountant"}, Candidate{Skills: []string{"Excel"}})
	require.NoError(t, err)
	assert.Equal(t, 50, score)
}

func TestScore_PerKeywordBonus(t *testing.T) {
	job := JobText{Title: "React and Node Developer"}
	candidate := Candidate{Skills: []string{"React", "Node"}}

	score, err := Score(job, candidate)
	require.NoError(t, err)
	assert.Equal(t, 60, score)
}

func TestScore_ExperienceBonusesAreAdditive(t *testing.T) {
	job := JobText{Title: "Accountant"}

	score, err := Score(job, Candidate{YearsExperience: 2})
	require.NoError(t, err)
	assert.Equal(t, 50, score)

	score, err = Score(job, Candidate{YearsExperience: 3})
	require.NoError(t, err)
	assert.Equal(t, 60, score)

	score, err = Score(job, Candidate{YearsExperience: 4})
	require.NoError(t, err)
	assert.Equal(t, 60, score)

	// Five years earns both bonuses
	score, err = Score(job, Candidate{YearsExperience: 5})
	require.NoError(t, err)
	assert.Equal(t, 75, score)

	score, err = Score(job, Candidate{YearsExperience: 30})
	require.NoError(t, err)
	assert.Equal(t, 75, score)
}

func TestScore_SeniorFrontendCandidate(t *testing.T) {
	// Neither "react" nor "javascript" appears in this title, so only
	// the experience bonuses apply.
	job := JobText{Title: "Senior Frontend Developer"}
	candidate := Candidate{
		Skills:          []string{"React", "JavaScript"},
		YearsExperience: 6,
	}

	score, err := Score(job, candidate)
	require.NoError(t, err)
	assert.Equal(t, 75, score)
	assert.Equal(t, TierGood, Tier(&score))
}

func TestScore_ClampedAt100(t *testing.T) {
	// 7 keywords at 5 points each plus both experience bonuses would
	// exceed the cap.
	job := JobText{Title: "JavaScript React Node Python Java SQL AWS Engineer"}
	candidate := Candidate{
		Skills:          []string{"JavaScript", "React", "Node", "Python", "Java", "SQL", "AWS"},
		YearsExperience: 10,
	}

	score, err := Score(job, candidate)
	require.NoError(t, err)
	assert.Equal(t, 100, score)
}

func TestScore_NegativeExperienceRejected(t *testing.T) {
	_, err := Score(JobText{Title: "React Developer"}, Candidate{YearsExperience: -1})
	assert.ErrorIs(t, err, ErrNegativeExperience)
}

func TestScore_Deterministic(t *testing.T) {
	job := JobText{Title: "Senior React Developer"}
	candidate := Candidate{Skills: []string{"React", "Redux"}, YearsExperience: 4}

	first, err := Score(job, candidate)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		score, err := Score(job, candidate)
		require.NoError(t, err)
		assert.Equal(t, first, score)
	}
}

func TestTier_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		tier  ScoreTier
	}{
		{100, TierExcellent},
		{80, TierExcellent},
		{79, TierGood},
		{60, TierGood},
		{59, TierFair},
		{40, TierFair},
		{39, TierWeak},
		{0, TierWeak},
	}

	for _, tc := range cases {
		score := tc.score
		assert.Equal(t, tc.tier, Tier(&score), "score %d", tc.score)
	}
}

func TestTier_NilScore(t *testing.T) {
	assert.Equal(t, TierUnscored, Tier(nil))
}
