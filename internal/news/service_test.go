package news

import (
	"context"
	"testing"
	"time"

	"stock-companion/internal/types"
)

func TestHeadlineCache(t *testing.T) {
	cache := newHeadlineCache(1 * time.Second)

	symbol := "AAPL"
	headlines := []types.Headline{
		{Title: "Apple shares surge on record earnings", Source: "test", Polarity: 0.7},
	}

	// Test set and get
	cache.set(symbol, headlines)

	retrieved, found := cache.get(symbol)
	if !found {
		t.Fatal("Expected to find cached headlines")
	}
	if len(retrieved) != 1 {
		t.Fatalf("Expected 1 headline, got %d", len(retrieved))
	}
	if retrieved[0].Polarity != 0.7 {
		t.Errorf("Expected polarity 0.7, got %f", retrieved[0].Polarity)
	}

	// Test expiration
	time.Sleep(2 * time.Second)
	_, found = cache.get(symbol)
	if found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestCacheCleanup(t *testing.T) {
	cache := newHeadlineCache(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		sym := "SYM" + string(rune('A'+i))
		cache.set(sym, []types.Headline{{Title: sym}})
	}

	// Wait for expiration
	time.Sleep(200 * time.Millisecond)

	// Trigger cleanup
	cache.cleanup()

	cache.mu.RLock()
	count := len(cache.data)
	cache.mu.RUnlock()

	if count != 0 {
		t.Errorf("Expected 0 cache entries after cleanup, got %d", count)
	}
}

func TestServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.MaxHeadlines != 15 {
		t.Errorf("Expected MaxHeadlines to be 15, got %d", cfg.MaxHeadlines)
	}
	if cfg.CacheDuration != 1*time.Hour {
		t.Errorf("Expected CacheDuration to be 1 hour, got %v", cfg.CacheDuration)
	}
	if !cfg.Enabled {
		t.Error("Expected Enabled to be true")
	}
}

func TestNewService(t *testing.T) {
	svc := NewService(DefaultServiceConfig(), nil)

	if svc == nil {
		t.Fatal("Expected service to be created")
	}
	if svc.scraper == nil {
		t.Error("Expected scraper to be initialized")
	}
	if svc.lexicon == nil {
		t.Error("Expected lexicon to be initialized")
	}
	if svc.cache == nil {
		t.Error("Expected cache to be initialized")
	}
}

func TestServiceDisabled(t *testing.T) {
	svc := NewService(&ServiceConfig{Enabled: false}, nil)

	headlines, err := svc.Headlines(context.Background(), "AAPL", 10)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if len(headlines) != 0 {
		t.Errorf("Expected no headlines when disabled, got %d", len(headlines))
	}
}

func TestClearCache(t *testing.T) {
	svc := NewService(DefaultServiceConfig(), nil)

	svc.cache.set("AAPL", []types.Headline{{Title: "x"}})

	if len(svc.CachedSymbols()) != 1 {
		t.Fatal("Expected 1 cached symbol")
	}

	svc.ClearCache()

	if len(svc.CachedSymbols()) != 0 {
		t.Errorf("Expected 0 cached symbols after clear, got %d", len(svc.CachedSymbols()))
	}
}

func TestLexiconScore(t *testing.T) {
	lex := NewLexicon()

	cases := []struct {
		title string
		sign  int
	}{
		{"Shares surge after record quarterly profit", +1},
		{"Stock plunges as earnings miss estimates", -1},
		{"Company announces quarterly results", 0},
		{"Analysts upgrade stock on strong growth", +1},
		{"Regulator opens fraud investigation", -1},
	}
	for _, tc := range cases {
		got := lex.Score(tc.title)
		switch {
		case tc.sign > 0 && got <= 0:
			t.Errorf("Expected positive polarity for %q, got %f", tc.title, got)
		case tc.sign < 0 && got >= 0:
			t.Errorf("Expected negative polarity for %q, got %f", tc.title, got)
		case tc.sign == 0 && got != 0:
			t.Errorf("Expected zero polarity for %q, got %f", tc.title, got)
		}
	}
}

func TestLexiconBounds(t *testing.T) {
	lex := NewLexicon()
	titles := []string{
		"surge soar skyrocket rally breakout record",
		"crash collapse plunge bankruptcy fraud scandal",
		"",
	}
	for _, title := range titles {
		got := lex.Score(title)
		if got < -1 || got > 1 {
			t.Errorf("Polarity out of [-1,1] for %q: %f", title, got)
		}
	}
}

func TestLexiconNegation(t *testing.T) {
	lex := NewLexicon()

	plain := lex.Score("Company reports growth")
	negated := lex.Score("Company reports no growth")
	if plain <= 0 {
		t.Fatalf("Expected positive polarity for plain growth, got %f", plain)
	}
	if negated >= 0 {
		t.Errorf("Expected negation to flip polarity, got %f", negated)
	}
}
