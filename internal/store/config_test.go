package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "price_source: YAHOO\n"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Period != "1y" || cfg.Interval != "1d" {
		t.Errorf("Expected default period/interval 1y/1d, got %s/%s", cfg.Period, cfg.Interval)
	}
	if cfg.RiskTolerance != "medium" {
		t.Errorf("Expected default risk_tolerance medium, got %s", cfg.RiskTolerance)
	}
	if cfg.Weights.Technical != 0.4 || cfg.Weights.Economic != 0.1 {
		t.Errorf("Expected default weights, got %+v", cfg.Weights)
	}
	if cfg.Thresholds == nil {
		t.Fatal("Expected default thresholds")
	}
	if cfg.Indicators.RSIPeriod != 14 {
		t.Errorf("Expected default RSI period 14, got %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.News.MaxHeadlines != 15 {
		t.Errorf("Expected default max_headlines 15, got %d", cfg.News.MaxHeadlines)
	}
	if cfg.Watch.Schedule != "0 30 9 * * MON-FRI" {
		t.Errorf("Unexpected default watch schedule: %s", cfg.Watch.Schedule)
	}
	if cfg.Report.Dir != "reports" || cfg.Report.RetentionDays != 30 {
		t.Errorf("Unexpected report defaults: %+v", cfg.Report)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	body := `
price_source: YAHOO
period: 6mo
risk_tolerance: high
weights:
  technical: 1.0
  fundamental: 0.5
  sentiment: 0.25
  economic: 0.25
indicators:
  rsi_period: 21
`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Period != "6mo" {
		t.Errorf("Expected period 6mo, got %s", cfg.Period)
	}
	if cfg.Weights.Technical != 1.0 {
		t.Errorf("Expected technical weight 1.0, got %f", cfg.Weights.Technical)
	}
	if cfg.Indicators.RSIPeriod != 21 {
		t.Errorf("Expected RSI period 21, got %d", cfg.Indicators.RSIPeriod)
	}
	// Untouched indicator fields still get defaults.
	if cfg.Indicators.MACDSlow != 26 {
		t.Errorf("Expected default MACD slow 26, got %d", cfg.Indicators.MACDSlow)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad source", "price_source: NASDAQ\n", "price_source"},
		{"bad risk", "risk_tolerance: reckless\n", "risk_tolerance"},
		{"negative weight", "weights:\n  technical: -1\n", "weights"},
		{"kite without instruments", "price_source: KITE\n", "instruments"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Expected error mentioning %q, got: %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
