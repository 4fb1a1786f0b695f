package interfaces

import (
	"context"

	"stock-companion/internal/ta"
	"stock-companion/internal/types"
)

// Advisor runs the full analysis pipeline for a symbol and produces a
// recommendation.
type Advisor interface {
	Analyze(ctx context.Context, symbol string) (*types.Recommendation, error)
	Indicators(ctx context.Context, symbol string) (*ta.IndicatorResult, error)
}
