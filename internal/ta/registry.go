package ta

import (
	"fmt"

	"stock-companion/internal/types"
)

// Params holds the indicator windows. Zero values are filled from
// DefaultParams by the config layer.
type Params struct {
	SMAWindows  []int   `yaml:"sma_windows"`
	EMAWindows  []int   `yaml:"ema_windows"`
	MACDFast    int     `yaml:"macd_fast"`
	MACDSlow    int     `yaml:"macd_slow"`
	MACDSignal  int     `yaml:"macd_signal"`
	RSIPeriod   int     `yaml:"rsi_period"`
	BBWindow    int     `yaml:"bb_window"`
	BBStdDev    float64 `yaml:"bb_stddev"`
	StochK      int     `yaml:"stoch_k"`
	StochD      int     `yaml:"stoch_d"`
	ADXPeriod   int     `yaml:"adx_period"`
	AroonPeriod int     `yaml:"aroon_period"`
	CCIPeriod   int     `yaml:"cci_period"`
	MFIPeriod   int     `yaml:"mfi_period"`
	TRIXPeriod  int     `yaml:"trix_period"`
	ATRPeriod   int     `yaml:"atr_period"`
}

// DefaultParams mirrors the conventional windows for each indicator.
func DefaultParams() Params {
	return Params{
		SMAWindows:  []int{20, 50, 200},
		EMAWindows:  []int{12, 26},
		MACDFast:    12,
		MACDSlow:    26,
		MACDSignal:  9,
		RSIPeriod:   14,
		BBWindow:    20,
		BBStdDev:    2,
		StochK:      14,
		StochD:      3,
		ADXPeriod:   14,
		AroonPeriod: 14,
		CCIPeriod:   14,
		MFIPeriod:   14,
		TRIXPeriod:  30,
		ATRPeriod:   14,
	}
}

// columns is the series unpacked once for all indicators.
type columns struct {
	close, high, low, volume []float64
}

// indicatorSpec is one registry row: a named compute step producing one
// or more lines. Keeping the battery as a table lets callers enable,
// disable and test indicators independently.
type indicatorSpec struct {
	name    string
	compute func(d *columns, p Params) map[string]Line
}

var registry = []indicatorSpec{
	{name: "sma", compute: func(d *columns, p Params) map[string]Line {
		out := map[string]Line{}
		for _, w := range p.SMAWindows {
			out[fmt.Sprintf("sma_%d", w)] = SMA(d.close, w)
		}
		return out
	}},
	{name: "ema", compute: func(d *columns, p Params) map[string]Line {
		out := map[string]Line{}
		for _, w := range p.EMAWindows {
			out[fmt.Sprintf("ema_%d", w)] = EMA(d.close, w)
		}
		return out
	}},
	{name: "macd", compute: func(d *columns, p Params) map[string]Line {
		macd, sig, hist := MACD(d.close, p.MACDFast, p.MACDSlow, p.MACDSignal)
		return map[string]Line{"macd": macd, "macd_signal": sig, "macd_hist": hist}
	}},
	{name: "rsi", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"rsi": RSI(d.close, p.RSIPeriod)}
	}},
	{name: "bollinger", compute: func(d *columns, p Params) map[string]Line {
		mid, up, low := Bollinger(d.close, p.BBWindow, p.BBStdDev)
		return map[string]Line{"bb_middle": mid, "bb_upper": up, "bb_lower": low}
	}},
	{name: "stoch", compute: func(d *columns, p Params) map[string]Line {
		k, dd := Stoch(d.high, d.low, d.close, p.StochK, p.StochD)
		return map[string]Line{"stoch_k": k, "stoch_d": dd}
	}},
	{name: "adx", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"adx": ADX(d.high, d.low, d.close, p.ADXPeriod)}
	}},
	{name: "aroon", compute: func(d *columns, p Params) map[string]Line {
		up, down := Aroon(d.high, d.low, p.AroonPeriod)
		return map[string]Line{"aroon_up": up, "aroon_down": down}
	}},
	{name: "cci", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"cci": CCI(d.high, d.low, d.close, p.CCIPeriod)}
	}},
	{name: "mfi", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"mfi": MFI(d.high, d.low, d.close, d.volume, p.MFIPeriod)}
	}},
	{name: "obv", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"obv": OBV(d.close, d.volume)}
	}},
	{name: "trix", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"trix": TRIX(d.close, p.TRIXPeriod)}
	}},
	{name: "atr", compute: func(d *columns, p Params) map[string]Line {
		return map[string]Line{"atr": ATR(d.high, d.low, d.close, p.ATRPeriod)}
	}},
}

// IndicatorResult maps line names ("rsi", "sma_20", "macd_signal", ...)
// to full-history lines aligned with the input series. It serves both the
// latest-value scoring path and full-history charting.
type IndicatorResult struct {
	Symbol string
	Lines  map[string]Line
}

// Latest returns the newest value of a named line; ok is false when the
// line is absent or still in warm-up.
func (r *IndicatorResult) Latest(name string) (float64, bool) {
	l, ok := r.Lines[name]
	if !ok {
		return 0, false
	}
	return l.Latest()
}

// Validate checks series integrity: at least one bar, strictly increasing
// timestamps, no negative volume.
func Validate(s types.PriceSeries) error {
	if len(s.Points) == 0 {
		return &types.DataIntegrityError{Symbol: s.Symbol, Index: 0, Reason: "empty series"}
	}
	for i, p := range s.Points {
		if p.Volume < 0 {
			return &types.DataIntegrityError{Symbol: s.Symbol, Index: i, Reason: "negative volume"}
		}
		if i == 0 {
			continue
		}
		if !p.Ts.After(s.Points[i-1].Ts) {
			return &types.DataIntegrityError{Symbol: s.Symbol, Index: i, Reason: "timestamps not strictly increasing"}
		}
	}
	return nil
}

// ComputeAll runs the whole registry over a validated series. Indicators
// whose window exceeds the series length come back with all-undefined
// lines; only integrity violations produce an error.
func ComputeAll(s types.PriceSeries, p Params) (*IndicatorResult, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	d := &columns{
		close:  s.Closes(),
		high:   s.Highs(),
		low:    s.Lows(),
		volume: s.Volumes(),
	}
	res := &IndicatorResult{Symbol: s.Symbol, Lines: map[string]Line{}}
	for _, spec := range registry {
		for name, line := range spec.compute(d, p) {
			res.Lines[name] = line
		}
	}
	return res, nil
}
