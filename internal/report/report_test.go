package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"stock-companion/internal/types"
)

func testRecommendation() *types.Recommendation {
	return &types.Recommendation{
		Symbol:       "AAPL",
		OverallScore: 72.5,
		Action:       types.ActionBuy,
		Confidence:   41.2,
		Breakdown: []types.FactorScore{
			{
				Category: types.CategoryTechnical,
				Score:    types.ScoreOf(80),
				Components: map[string]types.Score{
					"rsi":  types.ScoreOf(30),
					"macd": types.ScoreOf(75),
				},
			},
			{Category: types.CategoryFundamental, Score: types.ScoreOf(65)},
			{Category: types.CategorySentiment, Score: types.Unavailable()},
			{Category: types.CategoryEconomic, Score: types.Unavailable()},
		},
		RiskTolerance: types.RiskMedium,
		GeneratedAt:   time.Date(2026, 8, 26, 14, 30, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	body := Render(testRecommendation())

	for _, want := range []string{
		"# AAPL Analysis Report",
		"## Recommendation: BUY",
		"Overall score: 72.5",
		"Confidence: 41.2%",
		"| technical | 80.0 | used |",
		"| sentiment | - | no data |",
		"- rsi: 30.0",
		"not investment advice",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected report to contain %q", want)
		}
	}
}

func TestWriterCreatesFile(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(testRecommendation())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Expected report under %s, got %s", dir, path)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("Expected .md file, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected report file to exist: %v", err)
	}
}

func TestLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recommendations.jsonl")
	log := NewLog(path)

	rec := testRecommendation()
	if err := log.Append(rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := log.Append(rec); err != nil {
		t.Fatalf("Second append failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("Line %d is not valid JSON: %v", lines, err)
		}
		if entry.Symbol != "AAPL" || entry.Action != "BUY" {
			t.Errorf("Unexpected entry: %+v", entry)
		}
		if len(entry.Categories) != 2 {
			t.Errorf("Expected 2 scored categories, got %d", len(entry.Categories))
		}
		if len(entry.Skipped) != 2 {
			t.Errorf("Expected 2 skipped categories, got %d", len(entry.Skipped))
		}
	}
	if lines != 2 {
		t.Errorf("Expected 2 log lines, got %d", lines)
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()

	old := filepath.Join(dir, "AAPL_2026-01-01_100000.md")
	if err := os.WriteFile(old, []byte("# old report\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stale := time.Now().AddDate(0, 0, -60)
	if err := os.Chtimes(old, stale, stale); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, "AAPL_2026-08-26_100000.md")
	if err := os.WriteFile(fresh, []byte("# fresh report\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(dir, 30); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Expected stale report to be removed after compression")
	}
	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Error("Expected stale report to be gzipped")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Error("Expected fresh report to be untouched")
	}
}
