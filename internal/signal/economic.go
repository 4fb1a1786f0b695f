package signal

import "stock-companion/internal/types"

// Canonical economic indicator keys.
const (
	EconFedRate      = "fed_rate"
	EconGDPGrowth    = "gdp_growth"
	EconInflation    = "inflation"
	EconUnemployment = "unemployment"
)

// econIndicator is one macro series with the threshold above which it
// reads as bullish (impact +1) or bearish (impact -1) for equities.
type econIndicator struct {
	key       string
	threshold float64
	impact    int
}

var econIndicators = []econIndicator{
	{key: EconFedRate, threshold: 4.5, impact: -1},
	{key: EconGDPGrowth, threshold: 2.0, impact: +1},
	{key: EconInflation, threshold: 3.0, impact: -1},
	{key: EconUnemployment, threshold: 4.0, impact: -1},
}

// ScoreEconomic maps macro indicators to the economic FactorScore: each
// present indicator votes ±1 depending on which side of its threshold it
// sits, and the net vote is rescaled onto [0,100]. No data means the
// category is unavailable and excluded upstream.
func ScoreEconomic(indicators map[string]float64) types.FactorScore {
	fs := types.FactorScore{
		Category:   types.CategoryEconomic,
		Score:      types.Unavailable(),
		Components: map[string]types.Score{},
	}
	if len(indicators) == 0 {
		return fs
	}

	net, count := 0, 0
	for _, ind := range econIndicators {
		v, ok := indicators[ind.key]
		if !ok {
			continue
		}
		vote := ind.impact
		if v <= ind.threshold {
			vote = -ind.impact
		}
		net += vote
		count++
		fs.Components[ind.key] = types.ScoreOf(float64(50 + vote*50))
	}
	if count == 0 {
		return fs
	}
	fs.Score = types.ScoreOf(float64(net)/float64(count)*50 + 50)
	return fs
}
