package matching

import (
	"testing"
	"time"

	"zedlink-careers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(score int, submittedAt time.Time) models.Application {
	return models.Application{MatchScore: &score, SubmittedAt: submittedAt}
}

func unscored(submittedAt time.Time) models.Application {
	return models.Application{SubmittedAt: submittedAt}
}

func TestRank_HighestScoreFirst(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		scored(60, now),
		scored(90, now),
		scored(75, now),
	}

	ranked := Rank(apps, RankOptions{})
	require.Len(t, ranked, 3)
	assert.Equal(t, 90, *ranked[0].MatchScore)
	assert.Equal(t, 75, *ranked[1].MatchScore)
	assert.Equal(t, 60, *ranked[2].MatchScore)
}

func TestRank_UnscoredSortLast(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		unscored(now),
		scored(10, now.Add(-time.Hour)),
		unscored(now.Add(-2 * time.Hour)),
		scored(95, now),
	}

	ranked := Rank(apps, RankOptions{})
	require.Len(t, ranked, 4)
	assert.Equal(t, 95, *ranked[0].MatchScore)
	assert.Equal(t, 10, *ranked[1].MatchScore)
	assert.Nil(t, ranked[2].MatchScore)
	assert.Nil(t, ranked[3].MatchScore)
}

func TestRank_TiesBrokenByNewestSubmission(t *testing.T) {
	now := time.Now()
	older := scored(80, now.Add(-time.Hour))
	newer := scored(80, now)

	ranked := Rank([]models.Application{older, newer}, RankOptions{})
	require.Len(t, ranked, 2)
	assert.Equal(t, newer.SubmittedAt, ranked[0].SubmittedAt)
	assert.Equal(t, older.SubmittedAt, ranked[1].SubmittedAt)
}

func TestRank_UnscoredOrderedByRecency(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		unscored(now.Add(-time.Hour)),
		unscored(now),
	}

	ranked := Rank(apps, RankOptions{})
	require.Len(t, ranked, 2)
	assert.Equal(t, now, ranked[0].SubmittedAt)
}

func TestRank_MinScoreDropsLowScores(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		scored(30, now),
		scored(70, now),
		scored(69, now),
	}

	minScore := 70
	ranked := Rank(apps, RankOptions{MinScore: &minScore})
	require.Len(t, ranked, 1)
	assert.Equal(t, 70, *ranked[0].MatchScore)
}

func TestRank_MinScoreKeepsUnscored(t *testing.T) {
	// A missing score means scoring failed, not that the candidate is
	// below the bar. The threshold must not hide those applications.
	now := time.Now()
	apps := []models.Application{
		scored(30, now),
		unscored(now),
		scored(85, now),
	}

	minScore := 50
	ranked := Rank(apps, RankOptions{MinScore: &minScore})
	require.Len(t, ranked, 2)
	assert.Equal(t, 85, *ranked[0].MatchScore)
	assert.Nil(t, ranked[1].MatchScore)
}

func TestRank_DefaultLimit(t *testing.T) {
	now := time.Now()
	apps := make([]models.Application, 0, DefaultRankLimit+10)
	for i := 0; i < DefaultRankLimit+10; i++ {
		apps = append(apps, scored(i%100, now.Add(time.Duration(i)*time.Second)))
	}

	ranked := Rank(apps, RankOptions{})
	assert.Len(t, ranked, DefaultRankLimit)
}

func TestRank_ExplicitLimit(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		scored(90, now),
		scored(80, now),
		scored(70, now),
	}

	ranked := Rank(apps, RankOptions{Limit: 2})
	require.Len(t, ranked, 2)
	assert.Equal(t, 90, *ranked[0].MatchScore)
	assert.Equal(t, 80, *ranked[1].MatchScore)
}

func TestRank_DoesNotModifyInput(t *testing.T) {
	now := time.Now()
	apps := []models.Application{
		scored(10, now),
		scored(90, now),
	}

	Rank(apps, RankOptions{})
	assert.Equal(t, 10, *apps[0].MatchScore)
	assert.Equal(t, 90, *apps[1].MatchScore)
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := Rank(nil, RankOptions{})
	assert.Empty(t, ranked)
}
