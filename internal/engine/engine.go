// Package engine combines normalized category scores into a single
// recommendation. It is pure: no I/O, no shared state, and identical
// inputs always produce an identical Recommendation.
package engine

import (
	"math"
	"time"

	"stock-companion/internal/types"
)

type Engine struct {
	thresholds ThresholdConfig
}

// New builds an engine after validating the threshold bands; malformed
// thresholds are a ConfigError before any analysis can run.
func New(tc ThresholdConfig) (*Engine, error) {
	if tc == nil {
		tc = DefaultThresholds()
	}
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return &Engine{thresholds: tc}, nil
}

// Decide combines the four category FactorScores under the configured
// weights. Unavailable categories are dropped and the remaining weights
// renormalized; if every category is unavailable the run fails with
// ErrInsufficientSignal. The caller supplies the timestamp so identical
// inputs yield bit-identical output.
func (e *Engine) Decide(symbol string, factors []types.FactorScore, weights types.WeightConfig, risk types.RiskTolerance, at time.Time) (*types.Recommendation, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if !risk.Valid() {
		return nil, &types.ConfigError{Field: "risk_tolerance", Reason: "must be low, medium or high"}
	}

	var values []float64
	var weightSum float64
	for _, fs := range factors {
		if v, ok := fs.Score.Value(); ok {
			values = append(values, v)
			weightSum += weights.For(fs.Category)
		}
	}
	if len(values) == 0 {
		return nil, types.ErrInsufficientSignal
	}

	// Weighted combination over the available categories. When every
	// available category carries weight zero, fall back to an equal
	// split so a usable signal is never discarded on weights alone.
	var overall float64
	if weightSum > 0 {
		for _, fs := range factors {
			if v, ok := fs.Score.Value(); ok {
				overall += v * weights.For(fs.Category) / weightSum
			}
		}
	} else {
		for _, v := range values {
			overall += v / float64(len(values))
		}
	}

	th := e.thresholds[risk]
	action := types.ActionHold
	switch {
	case overall >= th.Buy:
		action = types.ActionBuy
	case overall <= th.Sell:
		action = types.ActionSell
	}

	return &types.Recommendation{
		Symbol:        symbol,
		OverallScore:  overall,
		Action:        action,
		Confidence:    confidence(overall, th, values),
		Breakdown:     factors,
		RiskTolerance: risk,
		GeneratedAt:   at,
	}, nil
}

// confidence grows with the distance from the nearer decision boundary
// (for HOLD: with the distance from the band edges toward its middle),
// and is scaled down when few categories are available or the available
// categories disagree.
func confidence(overall float64, th Thresholds, values []float64) float64 {
	var base float64
	switch {
	case overall >= th.Buy:
		if th.Buy < 100 {
			base = (overall - th.Buy) / (100 - th.Buy) * 100
		} else {
			base = 100
		}
	case overall <= th.Sell:
		if th.Sell > 0 {
			base = (th.Sell - overall) / th.Sell * 100
		} else {
			base = 100
		}
	default:
		mid := (th.Buy + th.Sell) / 2
		half := (th.Buy - th.Sell) / 2
		base = (1 - math.Abs(overall-mid)/half) * 100
	}

	avail := 0.25 * float64(len(values))

	agree := 1.0
	if len(values) >= 2 {
		agree = 1 - math.Min(stddev(values), 50)/100
	}

	c := base * avail * agree
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func stddev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}
