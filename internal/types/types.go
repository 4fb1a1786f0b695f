package types

import "time"

// PricePoint is one bar of OHLCV data. Immutable once produced by a provider.
type PricePoint struct {
	Ts                     time.Time
	Open, High, Low, Close float64
	Volume                 float64
}

// PriceSeries is an ordered bar sequence for one symbol and one
// (period, interval) pair. Timestamps are strictly increasing.
type PriceSeries struct {
	Symbol   string
	Period   string
	Interval string
	Points   []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// Closes returns the close column. Indicators work on plain float64 columns.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

func (s PriceSeries) Highs() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.High
	}
	return out
}

func (s PriceSeries) Lows() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Low
	}
	return out
}

func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Volume
	}
	return out
}

// LastClose returns the latest close, or false for an empty series.
func (s PriceSeries) LastClose() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Close, true
}

// Category is one group of related signals combined into a single FactorScore.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryFundamental Category = "fundamental"
	CategorySentiment   Category = "sentiment"
	CategoryEconomic    Category = "economic"
)

// Categories lists all categories in breakdown order.
var Categories = []Category{CategoryTechnical, CategoryFundamental, CategorySentiment, CategoryEconomic}

// Score is a normalized bullishness value in [0,100], or Unavailable.
// Unavailable is a distinct tagged state so missing signals are excluded
// from averages instead of being coerced to a fabricated neutral 50.
type Score struct {
	value     float64
	available bool
}

// ScoreOf builds an available score, clamped to [0,100].
func ScoreOf(v float64) Score {
	if v < 0 {
		v = 0
	} else if v > 100 {
		v = 100
	}
	return Score{value: v, available: true}
}

// Unavailable is the missing-signal state.
func Unavailable() Score { return Score{} }

func (s Score) Available() bool { return s.available }

// Value returns the numeric score; ok is false when unavailable.
func (s Score) Value() (float64, bool) { return s.value, s.available }

// FactorScore is one category's normalized score plus its sub-metric
// contributions. Produced fresh per analysis run and never mutated.
type FactorScore struct {
	Category   Category
	Score      Score
	Components map[string]Score
}

// WeightConfig holds per-category combination weights. Weights are
// non-negative and need not pre-sum to 1; the engine renormalizes over
// the available categories.
type WeightConfig struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
	Economic    float64 `yaml:"economic" json:"economic"`
}

// For returns the weight configured for a category.
func (w WeightConfig) For(c Category) float64 {
	switch c {
	case CategoryTechnical:
		return w.Technical
	case CategoryFundamental:
		return w.Fundamental
	case CategorySentiment:
		return w.Sentiment
	case CategoryEconomic:
		return w.Economic
	}
	return 0
}

// Validate rejects malformed weights before any computation happens.
func (w WeightConfig) Validate() error {
	for _, c := range Categories {
		if w.For(c) < 0 {
			return &ConfigError{Field: "weights." + string(c), Reason: "weight must be non-negative"}
		}
	}
	return nil
}

// RiskTolerance widens or narrows the HOLD decision band.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

func (r RiskTolerance) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}

// Action is the discrete trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Recommendation is the immutable result of one analysis run.
type Recommendation struct {
	Symbol        string        `json:"symbol"`
	OverallScore  float64       `json:"overall_score"`
	Action        Action        `json:"action"`
	Confidence    float64       `json:"confidence"`
	Breakdown     []FactorScore `json:"-"`
	RiskTolerance RiskTolerance `json:"risk_tolerance"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

// UsedCategories reports which categories contributed to the overall score,
// so unavailability is never silent.
func (r *Recommendation) UsedCategories() (used, skipped []Category) {
	for _, fs := range r.Breakdown {
		if fs.Score.Available() {
			used = append(used, fs.Category)
		} else {
			skipped = append(skipped, fs.Category)
		}
	}
	return used, skipped
}

// Headline is one piece of news with its polarity in [-1,1].
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Polarity    float64   `json:"polarity"`
}
