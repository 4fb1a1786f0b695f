package advisor

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"stock-companion/internal/engine"
	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/signal"
	"stock-companion/internal/store"
	"stock-companion/internal/ta"
	"stock-companion/internal/types"
)

func TestMain(m *testing.M) {
	_ = logger.InitWithConfig(logger.LogConfig{Level: "ERROR", Format: "text"})
	os.Exit(m.Run())
}

type stubPrice struct {
	series types.PriceSeries
	err    error
}

func (s *stubPrice) History(_ context.Context, symbol, period, interval string) (types.PriceSeries, error) {
	if s.err != nil {
		return types.PriceSeries{Symbol: symbol}, s.err
	}
	return s.series, nil
}

func (s *stubPrice) Quote(context.Context, string) (float64, error) {
	last, _ := s.series.LastClose()
	return last, s.err
}

type stubFundamentals struct {
	metrics map[string]float64
	err     error
}

func (s *stubFundamentals) Fundamentals(context.Context, string) (map[string]float64, error) {
	return s.metrics, s.err
}

type stubNews struct {
	headlines []types.Headline
	err       error
}

func (s *stubNews) Headlines(context.Context, string, int) ([]types.Headline, error) {
	return s.headlines, s.err
}

type stubEconomic struct {
	indicators map[string]float64
	err        error
}

func (s *stubEconomic) Indicators(context.Context) (map[string]float64, error) {
	return s.indicators, s.err
}

func testSeries(n int) types.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := types.PriceSeries{Symbol: "AAPL", Period: "1y", Interval: "1d"}
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Points = append(s.Points, types.PricePoint{
			Ts:     start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

func testConfig() *store.Config {
	cfg := &store.Config{
		PriceSource:   "YAHOO",
		Period:        "1y",
		Interval:      "1d",
		RiskTolerance: "medium",
		Thresholds:    engine.DefaultThresholds(),
		Indicators:    ta.DefaultParams(),
	}
	cfg.Weights.Technical = 0.4
	cfg.Weights.Fundamental = 0.3
	cfg.Weights.Sentiment = 0.2
	cfg.Weights.Economic = 0.1
	cfg.News.MaxHeadlines = 10
	return cfg
}

func TestAnalyzeAllCategories(t *testing.T) {
	adv, err := New(testConfig(), Deps{
		Price: &stubPrice{series: testSeries(250)},
		Fundamentals: []interfaces.FundamentalsProvider{
			&stubFundamentals{metrics: map[string]float64{
				signal.MetricPERatio:         15,
				signal.MetricPriceTargetDiff: 12,
			}},
		},
		News: &stubNews{headlines: []types.Headline{
			{Title: "a", Polarity: 0.5},
			{Title: "b", Polarity: 0.3},
		}},
		Economic: &stubEconomic{indicators: map[string]float64{
			signal.EconGDPGrowth: 3.0,
		}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec, err := adv.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rec.Symbol != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %s", rec.Symbol)
	}
	if len(rec.Breakdown) != 4 {
		t.Fatalf("Expected 4 category scores, got %d", len(rec.Breakdown))
	}
	used, skipped := rec.UsedCategories()
	if len(used) != 4 || len(skipped) != 0 {
		t.Errorf("Expected all 4 categories used, got %d used %d skipped", len(used), len(skipped))
	}
	if rec.Action != types.ActionBuy && rec.Action != types.ActionSell && rec.Action != types.ActionHold {
		t.Errorf("Unexpected action %s", rec.Action)
	}
}

func TestAnalyzeDegradesOnProviderFailure(t *testing.T) {
	adv, err := New(testConfig(), Deps{
		Price: &stubPrice{series: testSeries(250)},
		Fundamentals: []interfaces.FundamentalsProvider{
			&stubFundamentals{err: errors.New("upstream down")},
		},
		News:     &stubNews{err: errors.New("scrape blocked")},
		Economic: &stubEconomic{err: errors.New("rate limited")},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rec, err := adv.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected degraded analysis to succeed, got %v", err)
	}
	used, skipped := rec.UsedCategories()
	if len(used) != 1 || used[0] != types.CategoryTechnical {
		t.Errorf("Expected only technical category used, got %v", used)
	}
	if len(skipped) != 3 {
		t.Errorf("Expected 3 skipped categories, got %v", skipped)
	}
}

func TestAnalyzeInsufficientSignal(t *testing.T) {
	adv, err := New(testConfig(), Deps{
		Price: &stubPrice{err: errors.New("no price feed")},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = adv.Analyze(context.Background(), "AAPL")
	if !errors.Is(err, types.ErrInsufficientSignal) {
		t.Errorf("Expected ErrInsufficientSignal, got %v", err)
	}
}

func TestFundamentalsMergeFirstSourceWins(t *testing.T) {
	adv, _ := New(testConfig(), Deps{
		Price: &stubPrice{series: testSeries(60)},
		Fundamentals: []interfaces.FundamentalsProvider{
			&stubFundamentals{metrics: map[string]float64{signal.MetricPERatio: 10}},
			&stubFundamentals{metrics: map[string]float64{
				signal.MetricPERatio:      99,
				signal.MetricCurrentRatio: 2,
			}},
		},
	})

	merged := adv.fetchFundamentals(context.Background(), "AAPL")
	if merged[signal.MetricPERatio] != 10 {
		t.Errorf("Expected first source to win for pe_ratio, got %f", merged[signal.MetricPERatio])
	}
	if merged[signal.MetricCurrentRatio] != 2 {
		t.Errorf("Expected second source to fill current_ratio, got %f", merged[signal.MetricCurrentRatio])
	}
}

func TestIndicators(t *testing.T) {
	adv, _ := New(testConfig(), Deps{
		Price: &stubPrice{series: testSeries(250)},
	})

	result, err := adv.Indicators(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Indicators failed: %v", err)
	}
	if _, ok := result.Latest("rsi"); !ok {
		t.Error("Expected RSI to be computed on 250 bars")
	}
}
