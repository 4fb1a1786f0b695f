package signal

import (
	"math"

	"stock-companion/internal/types"
)

// Canonical fundamental metric keys. Providers emit these; the scoring
// tables below consume them.
const (
	MetricPERatio            = "pe_ratio"
	MetricPEGRatio           = "peg_ratio"
	MetricDebtToEquity       = "debt_to_equity"
	MetricCurrentRatio       = "current_ratio"
	MetricProfitMargin       = "profit_margin"
	MetricROE                = "roe"
	MetricRevenueGrowthYoY   = "revenue_growth_yoy"
	MetricIncomeGrowthYoY    = "net_income_growth_yoy"
	MetricPriceTargetDiff    = "price_target_diff"
	MetricAnalystSignal      = "analyst_signal"
	MetricAnalystConsensus   = "analyst_consensus_score"
	MetricEarningsSurprise   = "earnings_surprise_avg"
	MetricFreeCashFlowMargin = "fcf_margin"
)

// metricScorer maps one raw fundamental metric to [0,100]. Each group is
// averaged first so a data source with many metrics in one group does
// not drown out the others.
type metricScorer struct {
	key   string
	group string
	score func(v float64) float64
}

var fundScorers = []metricScorer{
	// Analyst price targets: -20%..+20% upside maps linearly onto the scale.
	{key: MetricPriceTargetDiff, group: "target", score: func(v float64) float64 {
		return (v + 20) / 40 * 100
	}},

	// Analyst recommendations: signal in [-1,1] (strong sell..strong buy).
	{key: MetricAnalystSignal, group: "analyst", score: func(v float64) float64 {
		return (v + 1) / 2 * 100
	}},
	{key: MetricAnalystConsensus, group: "analyst", score: func(v float64) float64 {
		return v
	}},

	// Financial health: lower leverage and higher liquidity are better.
	{key: MetricDebtToEquity, group: "health", score: func(v float64) float64 {
		return (2 - v) * 50
	}},
	{key: MetricCurrentRatio, group: "health", score: func(v float64) float64 {
		return v * 50
	}},
	{key: MetricProfitMargin, group: "health", score: func(v float64) float64 {
		return v * 500
	}},
	{key: MetricFreeCashFlowMargin, group: "health", score: func(v float64) float64 {
		return v * 500
	}},

	// Growth: -20%..+40% YoY revenue growth spans the scale; surprises
	// center on 50 at 0% and move 5 points per surprise percent.
	{key: MetricRevenueGrowthYoY, group: "growth", score: func(v float64) float64 {
		return (v + 20) / 60 * 100
	}},
	{key: MetricIncomeGrowthYoY, group: "growth", score: func(v float64) float64 {
		return (v + 20) / 60 * 100
	}},
	{key: MetricEarningsSurprise, group: "growth", score: func(v float64) float64 {
		return 50 + v*5
	}},

	// Valuation: P/E near 15 is ideal, either direction away is worse;
	// PEG at or below 1 is ideal.
	{key: MetricPERatio, group: "valuation", score: func(v float64) float64 {
		return 100 - math.Min(100, math.Abs(v-15)*5)
	}},
	{key: MetricPEGRatio, group: "valuation", score: func(v float64) float64 {
		return 100 - math.Min(100, math.Max(0, v-1)*50)
	}},
}

var fundGroups = []string{"target", "analyst", "health", "growth", "valuation"}

// ScoreFundamentals maps raw fundamental metrics onto the fundamental
// FactorScore. Metrics are scored individually, averaged within their
// group, and the category is the mean of the groups that have data.
// An empty metric map yields an unavailable category.
func ScoreFundamentals(metrics map[string]float64) types.FactorScore {
	fs := types.FactorScore{
		Category:   types.CategoryFundamental,
		Score:      types.Unavailable(),
		Components: map[string]types.Score{},
	}
	if len(metrics) == 0 {
		return fs
	}

	groupSum := map[string]float64{}
	groupCount := map[string]int{}
	for _, sc := range fundScorers {
		v, ok := metrics[sc.key]
		if !ok {
			continue
		}
		s := types.ScoreOf(sc.score(v))
		fs.Components[sc.key] = s
		val, _ := s.Value()
		groupSum[sc.group] += val
		groupCount[sc.group]++
	}

	// Derived health score from the point system over profitability,
	// growth, valuation, leverage and liquidity; needs three metrics to
	// mean anything.
	if hs, ok := healthScore(metrics); ok {
		fs.Components["financial_health_score"] = types.ScoreOf(hs)
		groupSum["health"] += hs
		groupCount["health"]++
	}

	var sum float64
	var n int
	for _, g := range fundGroups {
		if groupCount[g] == 0 {
			continue
		}
		sum += groupSum[g] / float64(groupCount[g])
		n++
	}
	if n > 0 {
		fs.Score = types.ScoreOf(sum / float64(n))
	}
	return fs
}

// healthScore awards 0-2 points per available pillar and rescales the
// total to [0,100]. Requires at least three pillars.
func healthScore(metrics map[string]float64) (float64, bool) {
	points, count := 0.0, 0

	if roe, ok := metrics[MetricROE]; ok {
		if roe > 15 {
			points += 2
		} else if roe > 10 {
			points++
		}
		count++
	}
	if g, ok := metrics[MetricRevenueGrowthYoY]; ok {
		if g > 20 {
			points += 2
		} else if g > 10 {
			points++
		}
		count++
	}
	if pe, ok := metrics[MetricPERatio]; ok {
		if pe > 5 && pe < 15 {
			points++
		}
		count++
	}
	if dte, ok := metrics[MetricDebtToEquity]; ok {
		if dte < 0.5 {
			points += 2
		} else if dte < 1 {
			points++
		}
		count++
	}
	if cr, ok := metrics[MetricCurrentRatio]; ok {
		if cr > 1.5 {
			points++
		}
		count++
	}

	if count < 3 {
		return 0, false
	}
	return points / (float64(count) * 2) * 100, true
}
