package matching

import (
	"sort"

	"zedlink-careers/internal/models"
)

// DefaultRankLimit caps a ranked listing when the caller does not ask
// for a specific page size.
const DefaultRankLimit = 50

// RankOptions narrows a ranked listing.
type RankOptions struct {
	// MinScore drops scored applications below the threshold. Unscored
	// applications are kept regardless: a missing score signals a
	// scoring failure, not a bad candidate, so reviewers still see them.
	MinScore *int

	// Limit caps the result; zero or negative means DefaultRankLimit.
	Limit int
}

// Rank orders applications for review: highest match score first,
// unscored applications after all scored ones, and newer submissions
// first among equals. The input slice is not modified.
func Rank(applications []models.Application, opts RankOptions) []models.Application {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	ranked := make([]models.Application, 0, len(applications))
	for _, app := range applications {
		if opts.MinScore != nil && app.MatchScore != nil && *app.MatchScore < *opts.MinScore {
			continue
		}
		ranked = append(ranked, app)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].MatchScore, ranked[j].MatchScore

		switch {
		case a != nil && b != nil:
			if *a != *b {
				return *a > *b
			}
		case a != nil:
			return true
		case b != nil:
			return false
		}

		return ranked[i].SubmittedAt.After(ranked[j].SubmittedAt)
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
