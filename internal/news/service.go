// Package news scrapes financial headlines and scores them for polarity.
package news

import (
	"context"
	"sync"
	"time"

	"stock-companion/internal/interfaces"
	"stock-companion/internal/logger"
	"stock-companion/internal/types"
)

// Service provides scored headlines with caching. It implements
// NewsProvider and can chain a secondary provider (an API-backed feed)
// behind the scraper.
type Service struct {
	scraper  *Scraper
	lexicon  *Lexicon
	fallback interfaces.NewsProvider
	cache    *headlineCache
	cfg      *ServiceConfig
}

// ServiceConfig configures the news service
type ServiceConfig struct {
	MaxHeadlines   int           // Maximum headlines to collect per symbol
	CacheDuration  time.Duration // How long to cache scored headlines
	ScraperTimeout time.Duration // Timeout for scraping operations
	Enabled        bool          // Whether news collection is enabled
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxHeadlines:   15,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 30 * time.Second,
		Enabled:        true,
	}
}

// headlineCache stores scored headlines temporarily
type headlineCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	headlines []types.Headline
	timestamp time.Time
}

func newHeadlineCache(ttl time.Duration) *headlineCache {
	cache := &headlineCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}

	go cache.cleanupLoop()

	return cache
}

func (c *headlineCache) get(symbol string) ([]types.Headline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[symbol]
	if !exists {
		return nil, false
	}
	if time.Since(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.headlines, true
}

func (c *headlineCache) set(symbol string, headlines []types.Headline) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[symbol] = &cacheEntry{
		headlines: headlines,
		timestamp: time.Now(),
	}
}

// cleanupLoop periodically removes expired entries
func (c *headlineCache) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *headlineCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for symbol, entry := range c.data {
		if now.Sub(entry.timestamp) > c.ttl {
			delete(c.data, symbol)
		}
	}
}

// NewService creates a news service. fallback may be nil.
func NewService(serviceCfg *ServiceConfig, fallback interfaces.NewsProvider) *Service {
	if serviceCfg == nil {
		serviceCfg = DefaultServiceConfig()
	}

	return &Service{
		scraper:  NewScraper(serviceCfg.ScraperTimeout),
		lexicon:  NewLexicon(),
		fallback: fallback,
		cache:    newHeadlineCache(serviceCfg.CacheDuration),
		cfg:      serviceCfg,
	}
}

// Headlines returns scored headlines for a symbol, cached or fresh. A
// disabled service or a dry run returns an empty slice, which the
// normalizer reports as an unavailable category.
func (s *Service) Headlines(ctx context.Context, symbol string, limit int) ([]types.Headline, error) {
	if !s.cfg.Enabled {
		return nil, nil
	}
	if limit <= 0 || limit > s.cfg.MaxHeadlines {
		limit = s.cfg.MaxHeadlines
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Info(ctx, "Using cached headlines", "symbol", symbol, "count", len(cached))
		return capSlice(cached, limit), nil
	}

	headlines, err := s.fetchFresh(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	s.cache.set(symbol, headlines)
	return headlines, nil
}

// fetchFresh scrapes, falls back to the secondary provider if the scrape
// comes back empty, and scores everything through the lexicon.
func (s *Service) fetchFresh(ctx context.Context, symbol string, limit int) ([]types.Headline, error) {
	headlines, err := s.scraper.Scrape(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	if len(headlines) == 0 {
		logger.Info(ctx, "No headlines from primary sources, trying Google News", "symbol", symbol)
		headlines, err = s.scraper.ScrapeGoogleNews(ctx, symbol, limit)
		if err != nil {
			logger.ErrorWithErr(ctx, "Google News fallback failed", err, "symbol", symbol)
		}
	}

	if len(headlines) == 0 && s.fallback != nil {
		logger.Info(ctx, "Scraping returned nothing, using fallback provider", "symbol", symbol)
		headlines, err = s.fallback.Headlines(ctx, symbol, limit)
		if err != nil {
			return nil, err
		}
	}

	for i := range headlines {
		headlines[i].Polarity = s.lexicon.Score(headlines[i].Title)
	}
	return headlines, nil
}

// RefreshHeadlines forces a fresh fetch, bypassing the cache.
func (s *Service) RefreshHeadlines(ctx context.Context, symbol string) ([]types.Headline, error) {
	headlines, err := s.fetchFresh(ctx, symbol, s.cfg.MaxHeadlines)
	if err != nil {
		return nil, err
	}

	s.cache.set(symbol, headlines)
	return headlines, nil
}

// ClearCache removes all cached headlines
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}

// CachedSymbols returns the symbols with cached headlines
func (s *Service) CachedSymbols() []string {
	s.cache.mu.RLock()
	defer s.cache.mu.RUnlock()

	symbols := make([]string, 0, len(s.cache.data))
	for symbol := range s.cache.data {
		symbols = append(symbols, symbol)
	}
	return symbols
}

func capSlice(headlines []types.Headline, limit int) []types.Headline {
	if len(headlines) <= limit {
		return headlines
	}
	return headlines[:limit]
}
