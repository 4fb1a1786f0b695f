// Package signal normalizes raw technical, fundamental, sentiment and
// economic inputs onto a common bullishness scale in [0,100], where 100
// is maximally bullish. Anything that cannot be scored is reported as an
// explicit unavailable marker, never coerced to a neutral number.
package signal

import (
	"stock-companion/internal/ta"
	"stock-companion/internal/types"
)

// techScorer is one row of the technical scoring table: a named mapping
// from the latest indicator values to a [0,100] sub-score. Weight boosts
// the key indicators (macd, rsi, price vs long SMA, bollinger) the same
// way the composite engine always has.
type techScorer struct {
	name   string
	weight float64
	score  func(r *ta.IndicatorResult, lastClose float64) types.Score
}

var techScorers = []techScorer{
	{name: "rsi", weight: 2, score: scoreRSI},
	{name: "macd", weight: 2, score: scoreMACD},
	{name: "macd_hist", weight: 1, score: scoreMACDHist},
	{name: "price_vs_sma20", weight: 1, score: priceVsLine("sma_20")},
	{name: "price_vs_sma50", weight: 1, score: priceVsLine("sma_50")},
	{name: "price_vs_sma200", weight: 2, score: priceVsLine("sma_200")},
	{name: "ma_cross", weight: 1, score: scoreMACross},
	{name: "bollinger", weight: 2, score: scoreBollinger},
	{name: "stoch", weight: 1, score: scoreStoch},
	{name: "adx", weight: 1, score: scoreADX},
	{name: "aroon", weight: 1, score: scoreAroon},
	{name: "cci", weight: 1, score: scoreCCI},
	{name: "mfi", weight: 1, score: scoreMFI},
	{name: "obv", weight: 1, score: scoreOBV},
	{name: "trix", weight: 1, score: scoreTRIX},
}

// ScoreTechnical maps the latest indicator values to the technical
// FactorScore. Indicators still in warm-up are excluded from the average
// rather than being counted as neutral; with no scorable indicator at
// all the category itself is unavailable.
func ScoreTechnical(r *ta.IndicatorResult, lastClose float64) types.FactorScore {
	fs := types.FactorScore{
		Category:   types.CategoryTechnical,
		Score:      types.Unavailable(),
		Components: map[string]types.Score{},
	}
	var sum, weight float64
	for _, sc := range techScorers {
		s := sc.score(r, lastClose)
		fs.Components[sc.name] = s
		if v, ok := s.Value(); ok {
			sum += v * sc.weight
			weight += sc.weight
		}
	}
	if weight > 0 {
		fs.Score = types.ScoreOf(sum / weight)
	}
	return fs
}

// scoreRSI inverts RSI into a reversal-oriented score: oversold (<30) is
// strongly bullish, overbought (>70) strongly bearish, linear between.
func scoreRSI(r *ta.IndicatorResult, _ float64) types.Score {
	rsi, ok := r.Latest("rsi")
	if !ok {
		return types.Unavailable()
	}
	switch {
	case rsi <= 30:
		return types.ScoreOf(90)
	case rsi >= 70:
		return types.ScoreOf(10)
	default:
		return types.ScoreOf(90 - (rsi-30)*2)
	}
}

func scoreMACD(r *ta.IndicatorResult, _ float64) types.Score {
	macd, ok1 := r.Latest("macd")
	sig, ok2 := r.Latest("macd_signal")
	if !ok1 || !ok2 {
		return types.Unavailable()
	}
	if macd > sig {
		return types.ScoreOf(75)
	}
	return types.ScoreOf(25)
}

func scoreMACDHist(r *ta.IndicatorResult, _ float64) types.Score {
	h, ok := r.Latest("macd_hist")
	if !ok {
		return types.Unavailable()
	}
	if h > 0 {
		return types.ScoreOf(65)
	}
	return types.ScoreOf(35)
}

// priceVsLine scores trend bias from the close sitting above or below a
// moving average line.
func priceVsLine(line string) func(*ta.IndicatorResult, float64) types.Score {
	return func(r *ta.IndicatorResult, lastClose float64) types.Score {
		v, ok := r.Latest(line)
		if !ok {
			return types.Unavailable()
		}
		if lastClose > v {
			return types.ScoreOf(70)
		}
		return types.ScoreOf(30)
	}
}

// scoreMACross is the golden/death cross bias of SMA20 vs SMA50.
func scoreMACross(r *ta.IndicatorResult, _ float64) types.Score {
	fast, ok1 := r.Latest("sma_20")
	slow, ok2 := r.Latest("sma_50")
	if !ok1 || !ok2 {
		return types.Unavailable()
	}
	if fast > slow {
		return types.ScoreOf(70)
	}
	return types.ScoreOf(30)
}

// scoreBollinger treats band breaches as reversal setups: below the lower
// band is bullish, above the upper band bearish, inside neutral.
func scoreBollinger(r *ta.IndicatorResult, lastClose float64) types.Score {
	up, ok1 := r.Latest("bb_upper")
	low, ok2 := r.Latest("bb_lower")
	if !ok1 || !ok2 {
		return types.Unavailable()
	}
	switch {
	case lastClose < low:
		return types.ScoreOf(85)
	case lastClose > up:
		return types.ScoreOf(15)
	default:
		return types.ScoreOf(50)
	}
}

func scoreStoch(r *ta.IndicatorResult, _ float64) types.Score {
	k, ok1 := r.Latest("stoch_k")
	d, ok2 := r.Latest("stoch_d")
	if !ok1 || !ok2 {
		return types.Unavailable()
	}
	switch {
	case k < 20 && d < 20:
		return types.ScoreOf(85)
	case k > 80 && d > 80:
		return types.ScoreOf(15)
	default:
		return types.ScoreOf(50)
	}
}

// scoreADX only gates trend strength; direction comes from the other
// scorers, so a strong trend reads as a mild positive.
func scoreADX(r *ta.IndicatorResult, _ float64) types.Score {
	adx, ok := r.Latest("adx")
	if !ok {
		return types.Unavailable()
	}
	if adx > 25 {
		return types.ScoreOf(65)
	}
	return types.ScoreOf(50)
}

func scoreAroon(r *ta.IndicatorResult, _ float64) types.Score {
	up, ok1 := r.Latest("aroon_up")
	down, ok2 := r.Latest("aroon_down")
	if !ok1 || !ok2 {
		return types.Unavailable()
	}
	if up > down {
		return types.ScoreOf(70)
	}
	return types.ScoreOf(30)
}

func scoreCCI(r *ta.IndicatorResult, _ float64) types.Score {
	cci, ok := r.Latest("cci")
	if !ok {
		return types.Unavailable()
	}
	switch {
	case cci < -100:
		return types.ScoreOf(80)
	case cci > 100:
		return types.ScoreOf(20)
	default:
		return types.ScoreOf(50)
	}
}

func scoreMFI(r *ta.IndicatorResult, _ float64) types.Score {
	mfi, ok := r.Latest("mfi")
	if !ok {
		return types.Unavailable()
	}
	switch {
	case mfi < 20:
		return types.ScoreOf(80)
	case mfi > 80:
		return types.ScoreOf(20)
	default:
		return types.ScoreOf(50)
	}
}

// obvLookback is how many bars back OBV is compared against to read
// accumulation vs distribution.
const obvLookback = 10

func scoreOBV(r *ta.IndicatorResult, _ float64) types.Score {
	obv, ok := r.Lines["obv"]
	if !ok {
		return types.Unavailable()
	}
	last := len(obv) - 1
	if !obv.Defined(last) || !obv.Defined(last-obvLookback) {
		return types.Unavailable()
	}
	switch {
	case obv[last] > obv[last-obvLookback]:
		return types.ScoreOf(65)
	case obv[last] < obv[last-obvLookback]:
		return types.ScoreOf(35)
	default:
		return types.ScoreOf(50)
	}
}

func scoreTRIX(r *ta.IndicatorResult, _ float64) types.Score {
	trix, ok := r.Latest("trix")
	if !ok {
		return types.Unavailable()
	}
	switch {
	case trix > 0:
		return types.ScoreOf(65)
	case trix < 0:
		return types.ScoreOf(35)
	default:
		return types.ScoreOf(50)
	}
}
