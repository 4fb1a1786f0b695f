package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"stock-companion/internal/advisor"
	"stock-companion/internal/advisor/advisorobs"
	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/news"
	"stock-companion/internal/providers/alphavantage"
	"stock-companion/internal/providers/finnhub"
	"stock-companion/internal/providers/kite"
	"stock-companion/internal/providers/yahoo"
	"stock-companion/internal/report"
	"stock-companion/internal/store"
	"stock-companion/internal/trace"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializePriceProvider picks the price source from config
func initializePriceProvider(ctx context.Context, cfg *store.Config) interfaces.PriceProvider {
	if cfg.PriceSource == "KITE" {
		logger.Info(ctx, "Using Kite Connect price data")
		return kite.New(
			os.Getenv(cfg.Providers.Kite.APIKeyEnv),
			os.Getenv(cfg.Providers.Kite.AccessTokenEnv),
			cfg.Providers.Kite.Instruments,
		)
	}
	logger.Info(ctx, "Using Yahoo Finance price data")
	return yahoo.New()
}

// initializeAdvisor wires providers, news service and the engine, with
// observability middleware on the outside
func initializeAdvisor(ctx context.Context, cfg *store.Config) (interfaces.Advisor, error) {
	yp := yahoo.New()

	deps := advisor.Deps{
		Price:        initializePriceProvider(ctx, cfg),
		Fundamentals: []interfaces.FundamentalsProvider{yp},
	}

	var newsFallback interfaces.NewsProvider
	if cfg.Providers.Finnhub.Enabled {
		token := os.Getenv(cfg.Providers.Finnhub.APIKeyEnv)
		if token == "" {
			logger.Warn(ctx, "Finnhub enabled but API key is empty",
				"env", cfg.Providers.Finnhub.APIKeyEnv)
		} else {
			fh := finnhub.New(token)
			deps.Fundamentals = append(deps.Fundamentals, fh)
			newsFallback = fh
		}
	}

	if cfg.Providers.AlphaVantage.Enabled {
		apiKey := os.Getenv(cfg.Providers.AlphaVantage.APIKeyEnv)
		if apiKey == "" {
			logger.Warn(ctx, "Alpha Vantage enabled but API key is empty",
				"env", cfg.Providers.AlphaVantage.APIKeyEnv)
		} else {
			av := alphavantage.New(apiKey)
			deps.Fundamentals = append(deps.Fundamentals, av)
			deps.Economic = av
		}
	}

	deps.News = news.NewService(&news.ServiceConfig{
		MaxHeadlines:   cfg.News.MaxHeadlines,
		CacheDuration:  time.Duration(cfg.News.CacheMinutes) * time.Minute,
		ScraperTimeout: time.Duration(cfg.News.ScrapeTimeout) * time.Second,
		Enabled:        cfg.News.Enabled,
	}, newsFallback)

	adv, err := advisor.New(cfg, deps)
	if err != nil {
		return nil, err
	}

	// Wrap with observability middleware
	return advisorobs.Wrap(adv), nil
}

// initializeReporting returns the markdown writer and the JSONL log,
// running the retention sweep once on startup
func initializeReporting(ctx context.Context, cfg *store.Config) (*report.Writer, *report.Log) {
	if err := report.CompressOlder(cfg.Report.Dir, cfg.Report.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old reports", "error", err)
	}
	return report.NewWriter(cfg.Report.Dir), report.NewLog(cfg.Report.LogPath)
}
