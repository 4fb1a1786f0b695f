package advisorobs

import (
	"context"
	"time"

	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/ta"
	"stock-companion/internal/trace"
	"stock-companion/internal/types"
)

type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

func Wrap(adv interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{
		advisor: adv,
	}
}

func (oa *observableAdvisor) Analyze(ctx context.Context, symbol string) (*types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Analyze")
	defer span.End()

	start := time.Now()

	logger.Info(ctx, "Starting analysis",
		"symbol", symbol,
	)

	rec, err := oa.advisor.Analyze(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	used, skipped := rec.UsedCategories()
	logger.Info(ctx, "Analysis completed",
		"symbol", symbol,
		"action", rec.Action,
		"score", rec.OverallScore,
		"confidence", rec.Confidence,
		"categories_used", len(used),
		"categories_skipped", len(skipped),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return rec, nil
}

func (oa *observableAdvisor) Indicators(ctx context.Context, symbol string) (*ta.IndicatorResult, error) {
	ctx, span := trace.StartSpan(ctx, "advisor.Indicators")
	defer span.End()

	start := time.Now()

	result, err := oa.advisor.Indicators(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Indicator computation failed", err,
			"symbol", symbol,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.Info(ctx, "Indicators computed",
		"symbol", symbol,
		"lines", len(result.Lines),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
