package signal

import "stock-companion/internal/types"

// ScoreSentiment aggregates headline polarity into the sentiment
// FactorScore: the mean polarity in [-1,1] rescaled onto [0,100]. With
// no headlines the category is unavailable, not neutral.
func ScoreSentiment(headlines []types.Headline) types.FactorScore {
	fs := types.FactorScore{
		Category:   types.CategorySentiment,
		Score:      types.Unavailable(),
		Components: map[string]types.Score{},
	}
	if len(headlines) == 0 {
		return fs
	}

	var sum float64
	var pos, neg int
	for _, h := range headlines {
		sum += h.Polarity
		if h.Polarity > 0.05 {
			pos++
		} else if h.Polarity < -0.05 {
			neg++
		}
	}
	n := float64(len(headlines))
	mean := sum / n

	fs.Score = types.ScoreOf((mean + 1) / 2 * 100)
	fs.Components["avg_polarity"] = fs.Score
	fs.Components["positive_fraction"] = types.ScoreOf(float64(pos) / n * 100)
	fs.Components["negative_fraction"] = types.ScoreOf(float64(neg) / n * 100)
	return fs
}
