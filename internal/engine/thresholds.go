package engine

import "stock-companion/internal/types"

// Thresholds is one risk tolerance's decision band: BUY at or above Buy,
// SELL at or below Sell, HOLD between.
type Thresholds struct {
	Buy  float64 `yaml:"buy"`
	Sell float64 `yaml:"sell"`
}

// ThresholdConfig maps each risk tolerance to its band. Lower risk
// tolerance widens the HOLD band.
type ThresholdConfig map[types.RiskTolerance]Thresholds

// DefaultThresholds mirrors the historical bands.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		types.RiskLow:    {Buy: 75, Sell: 25},
		types.RiskMedium: {Buy: 70, Sell: 30},
		types.RiskHigh:   {Buy: 65, Sell: 35},
	}
}

/// Validate enforces the band ordering: within each tolerance sell < buy,
// buy thresholds strictly decrease with rising tolerance, and sell
// thresholds strictly increase.
func (tc ThresholdConfig) Validate() error {
	for _, r := range []types.RiskTolerance{types.RiskLow, types.RiskMedium, types.RiskHigh} {
		th, ok := tc[r]
		if !ok {
			return &types.ConfigError{Field: "thresholds." + string(r), Reason: "missing"}
		}
		if th.Buy <= th.Sell {
			return &types.ConfigError{Field: "thresholds." + string(r), Reason: "buy threshold must exceed sell threshold"}
		}
		if th.Buy > 100 || th.Sell < 0 {
			return &types.ConfigError{Field: "thresholds." + string(r), Reason: "thresholds must lie in [0,100]"}
		}
	}
	if !(tc[types.RiskLow].Buy > tc[types.RiskMedium].Buy && tc[types.RiskMedium].Buy > tc[types.RiskHigh].Buy) {
		return &types.ConfigError{Field: "thresholds", Reason: "buy thresholds must decrease from low to high risk tolerance"}
	}
	if !(tc[types.RiskLow].Sell < tc[types.RiskMedium].Sell && tc[types.RiskMedium].Sell < tc[types.RiskHigh].Sell) {
		return &types.ConfigError{Field: "thresholds", Reason: "sell thresholds must increase from low to high risk tolerance"}
	}
	return nil
}
