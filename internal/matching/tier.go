package matching

// ScoreTier buckets a stored match score for display.
type ScoreTier string

const (
	TierExcellent ScoreTier = "excellent"
	TierGood      ScoreTier = "good"
	TierFair      ScoreTier = "fair"
	TierWeak      ScoreTier = "weak"
	TierUnscored  ScoreTier = "unscored"
)

// Tier maps a stored score to its display tier. A nil score means the
// application was never scored.
func Tier(score *int) ScoreTier {
	if score == nil {
		return TierUnscored
	}

	switch {
	case *score >= 80:
		return TierExcellent
	case *score >= 60:
		return TierGood
	case *score >= 40:
		return TierFair
	default:
		return TierWeak
	}
}
