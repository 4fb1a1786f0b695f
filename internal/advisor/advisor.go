// Package advisor orchestrates the analysis pipeline: fetch raw data for
// each category, normalize everything onto the common scale, and hand
// the category scores to the decision engine.
package advisor

import (
	"context"
	"sync"
	"time"

	"stock-companion/internal/engine"
	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/signal"
	"stock-companion/internal/store"
	"stock-companion/internal/ta"
	"stock-companion/internal/types"
)

// Deps are the data providers behind one advisor. Any provider except
// Price may be nil; its category is then reported as unavailable.
type Deps struct {
	Price        interfaces.PriceProvider
	Fundamentals []interfaces.FundamentalsProvider
	News         interfaces.NewsProvider
	Economic     interfaces.EconomicProvider
}

type Advisor struct {
	cfg  *store.Config
	deps Deps
	eng  *engine.Engine
}

var _ interfaces.Advisor = (*Advisor)(nil)

func New(cfg *store.Config, deps Deps) (*Advisor, error) {
	eng, err := engine.New(cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	return &Advisor{cfg: cfg, deps: deps, eng: eng}, nil
}

// snapshot is the raw data for one analysis run, fetched once so that
// normalization and the decision work from a consistent view.
type snapshot struct {
	series      types.PriceSeries
	seriesErr   error
	metrics     map[string]float64
	headlines   []types.Headline
	indicators  map[string]float64
	lastClose   float64
	lastCloseOK bool
}

// Analyze runs the full pipeline for one symbol. Failed categories are
// logged as data gaps and dropped; only the price series is mandatory,
// and only because every other category can still carry the decision
// without it.
func (a *Advisor) Analyze(ctx context.Context, symbol string) (*types.Recommendation, error) {
	op := logger.StartOperation(ctx, "advisor.Analyze", "symbol", symbol)
	ctx = op.GetContext()

	snap := a.fetch(ctx, symbol)
	factors := a.normalize(ctx, symbol, snap)

	rec, err := a.eng.Decide(symbol, factors, a.cfg.WeightConfig(), a.cfg.Risk(), time.Now().UTC())
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	logger.Recommendation(ctx, symbol, string(rec.Action), rec.OverallScore, rec.Confidence)
	op.End("action", string(rec.Action), "score", rec.OverallScore)
	return rec, nil
}

// Indicators computes the full indicator battery for a symbol, for the
// shell's inspection command.
func (a *Advisor) Indicators(ctx context.Context, symbol string) (*ta.IndicatorResult, error) {
	series, err := a.deps.Price.History(ctx, symbol, a.cfg.Period, a.cfg.Interval)
	if err != nil {
		return nil, err
	}
	return ta.ComputeAll(series, a.cfg.Indicators)
}

// fetch pulls all categories concurrently. Each goroutine writes only
// its own snapshot fields; the WaitGroup is the only synchronization.
func (a *Advisor) fetch(ctx context.Context, symbol string) *snapshot {
	snap := &snapshot{}
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		series, err := a.deps.Price.History(ctx, symbol, a.cfg.Period, a.cfg.Interval)
		if err != nil {
			snap.seriesErr = err
			return
		}
		snap.series = series
		snap.lastClose, snap.lastCloseOK = series.LastClose()
	}()

	if len(a.deps.Fundamentals) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap.metrics = a.fetchFundamentals(ctx, symbol)
		}()
	}

	if a.deps.News != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			headlines, err := a.deps.News.Headlines(ctx, symbol, a.cfg.News.MaxHeadlines)
			if err != nil {
				logger.ErrorWithErr(ctx, "Headline fetch failed", err, "symbol", symbol)
				return
			}
			snap.headlines = headlines
		}()
	}

	if a.deps.Economic != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			indicators, err := a.deps.Economic.Indicators(ctx)
			if err != nil {
				logger.ErrorWithErr(ctx, "Macro indicator fetch failed", err)
				return
			}
			snap.indicators = indicators
		}()
	}

	wg.Wait()
	return snap
}

// fetchFundamentals merges the configured sources; earlier sources win
// on key conflicts.
func (a *Advisor) fetchFundamentals(ctx context.Context, symbol string) map[string]float64 {
	merged := map[string]float64{}
	for _, p := range a.deps.Fundamentals {
		metrics, err := p.Fundamentals(ctx, symbol)
		if err != nil {
			logger.ErrorWithErr(ctx, "Fundamentals fetch failed", err, "symbol", symbol)
			continue
		}
		for k, v := range metrics {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}
	return merged
}

// normalize turns the snapshot into the four category FactorScores,
// logging a data gap for every category that cannot be scored.
func (a *Advisor) normalize(ctx context.Context, symbol string, snap *snapshot) []types.FactorScore {
	tech := types.FactorScore{Category: types.CategoryTechnical, Score: types.Unavailable()}
	if snap.seriesErr != nil {
		logger.DataGap(ctx, symbol, string(types.CategoryTechnical), snap.seriesErr.Error())
	} else if result, err := ta.ComputeAll(snap.series, a.cfg.Indicators); err != nil {
		logger.DataGap(ctx, symbol, string(types.CategoryTechnical), err.Error())
	} else if snap.lastCloseOK {
		tech = signal.ScoreTechnical(result, snap.lastClose)
	}

	fund := signal.ScoreFundamentals(snap.metrics)
	sent := signal.ScoreSentiment(snap.headlines)
	econ := signal.ScoreEconomic(snap.indicators)

	factors := []types.FactorScore{tech, fund, sent, econ}
	for _, fs := range factors {
		if _, ok := fs.Score.Value(); !ok && fs.Category != types.CategoryTechnical {
			logger.DataGap(ctx, symbol, string(fs.Category), "no data")
		}
	}
	return factors
}
