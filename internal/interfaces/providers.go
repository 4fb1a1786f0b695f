package interfaces

import (
	"context"

	"stock-companion/internal/types"
)

// PriceProvider fetches historical OHLCV bars for a symbol. Period and
// interval use Yahoo-style tokens ("6mo", "1d").
type PriceProvider interface {
	History(ctx context.Context, symbol, period, interval string) (types.PriceSeries, error)
	Quote(ctx context.Context, symbol string) (float64, error)
}

// FundamentalsProvider fetches raw fundamental metrics keyed by the
// canonical metric names understood by the normalizer.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (map[string]float64, error)
}

// NewsProvider fetches recent headlines for a symbol, already scored for
// polarity in [-1,1].
type NewsProvider interface {
	Headlines(ctx context.Context, symbol string, limit int) ([]types.Headline, error)
}

// EconomicProvider fetches macro indicator values keyed by the canonical
// indicator names understood by the normalizer.
type EconomicProvider interface {
	Indicators(ctx context.Context) (map[string]float64, error)
}
