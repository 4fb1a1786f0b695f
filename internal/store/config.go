package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-companion/internal/engine"
	"stock-companion/internal/ta"
	"stock-companion/internal/types"
)

type Config struct {
	PriceSource   string `yaml:"price_source"` // YAHOO or KITE
	Period        string `yaml:"period"`
	Interval      string `yaml:"interval"`
	RiskTolerance string `yaml:"risk_tolerance"`

	Weights struct {
		Technical   float64 `yaml:"technical"`
		Fundamental float64 `yaml:"fundamental"`
		Sentiment   float64 `yaml:"sentiment"`
		Economic    float64 `yaml:"economic"`
	} `yaml:"weights"`

	Thresholds engine.ThresholdConfig `yaml:"thresholds"`

	Indicators ta.Params `yaml:"indicators"`

	News struct {
		Enabled       bool `yaml:"enabled"`
		MaxHeadlines  int  `yaml:"max_headlines"`
		CacheMinutes  int  `yaml:"cache_minutes"`
		ScrapeTimeout int  `yaml:"scrape_timeout_seconds"`
	} `yaml:"news"`

	Providers struct {
		Finnhub struct {
			Enabled   bool   `yaml:"enabled"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"finnhub"`
		AlphaVantage struct {
			Enabled   bool   `yaml:"enabled"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"alphavantage"`
		Kite struct {
			APIKeyEnv      string         `yaml:"api_key_env"`
			AccessTokenEnv string         `yaml:"access_token_env"`
			Instruments    map[string]int `yaml:"instruments"`
		} `yaml:"kite"`
	} `yaml:"providers"`

	Watch struct {
		Schedule string   `yaml:"schedule"` // cron expression
		Symbols  []string `yaml:"symbols"`
	} `yaml:"watch"`

	Report struct {
		Dir           string `yaml:"dir"`
		LogPath       string `yaml:"log_path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"report"`
}

// WeightConfig converts the yaml weight block into the engine's type.
func (c *Config) WeightConfig() types.WeightConfig {
	return types.WeightConfig{
		Technical:   c.Weights.Technical,
		Fundamental: c.Weights.Fundamental,
		Sentiment:   c.Weights.Sentiment,
		Economic:    c.Weights.Economic,
	}
}

// Risk returns the configured risk tolerance.
func (c *Config) Risk() types.RiskTolerance {
	return types.RiskTolerance(c.RiskTolerance)
}

func (c *Config) Validate() error {
	if c.PriceSource != "YAHOO" && c.PriceSource != "KITE" {
		return fmt.Errorf("invalid price_source '%s': must be 'YAHOO' or 'KITE'", c.PriceSource)
	}
	if !c.Risk().Valid() {
		return fmt.Errorf("invalid risk_tolerance '%s': must be 'low', 'medium' or 'high'", c.RiskTolerance)
	}
	if err := c.WeightConfig().Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if c.PriceSource == "KITE" && len(c.Providers.Kite.Instruments) == 0 {
		return fmt.Errorf("price_source KITE requires providers.kite.instruments")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// applyDefaults fills zero values so a minimal config file works.
func applyDefaults(c *Config) {
	if c.PriceSource == "" {
		c.PriceSource = "YAHOO"
	}
	if c.Period == "" {
		c.Period = "1y"
	}
	if c.Interval == "" {
		c.Interval = "1d"
	}
	if c.RiskTolerance == "" {
		c.RiskTolerance = string(types.RiskMedium)
	}

	if c.Weights.Technical == 0 && c.Weights.Fundamental == 0 &&
		c.Weights.Sentiment == 0 && c.Weights.Economic == 0 {
		c.Weights.Technical = 0.4
		c.Weights.Fundamental = 0.3
		c.Weights.Sentiment = 0.2
		c.Weights.Economic = 0.1
	}

	if c.Thresholds == nil {
		c.Thresholds = engine.DefaultThresholds()
	}

	defaults := ta.DefaultParams()
	if len(c.Indicators.SMAWindows) == 0 {
		c.Indicators.SMAWindows = defaults.SMAWindows
	}
	if len(c.Indicators.EMAWindows) == 0 {
		c.Indicators.EMAWindows = defaults.EMAWindows
	}
	if c.Indicators.MACDFast == 0 {
		c.Indicators.MACDFast = defaults.MACDFast
	}
	if c.Indicators.MACDSlow == 0 {
		c.Indicators.MACDSlow = defaults.MACDSlow
	}
	if c.Indicators.MACDSignal == 0 {
		c.Indicators.MACDSignal = defaults.MACDSignal
	}
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = defaults.RSIPeriod
	}
	if c.Indicators.BBWindow == 0 {
		c.Indicators.BBWindow = defaults.BBWindow
	}
	if c.Indicators.BBStdDev == 0 {
		c.Indicators.BBStdDev = defaults.BBStdDev
	}
	if c.Indicators.StochK == 0 {
		c.Indicators.StochK = defaults.StochK
	}
	if c.Indicators.StochD == 0 {
		c.Indicators.StochD = defaults.StochD
	}
	if c.Indicators.ADXPeriod == 0 {
		c.Indicators.ADXPeriod = defaults.ADXPeriod
	}
	if c.Indicators.AroonPeriod == 0 {
		c.Indicators.AroonPeriod = defaults.AroonPeriod
	}
	if c.Indicators.CCIPeriod == 0 {
		c.Indicators.CCIPeriod = defaults.CCIPeriod
	}
	if c.Indicators.MFIPeriod == 0 {
		c.Indicators.MFIPeriod = defaults.MFIPeriod
	}
	if c.Indicators.TRIXPeriod == 0 {
		c.Indicators.TRIXPeriod = defaults.TRIXPeriod
	}
	if c.Indicators.ATRPeriod == 0 {
		c.Indicators.ATRPeriod = defaults.ATRPeriod
	}

	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 15
	}
	if c.News.CacheMinutes == 0 {
		c.News.CacheMinutes = 60
	}
	if c.News.ScrapeTimeout == 0 {
		c.News.ScrapeTimeout = 30
	}

	if c.Providers.Finnhub.APIKeyEnv == "" {
		c.Providers.Finnhub.APIKeyEnv = "FINNHUB_API_KEY"
	}
	if c.Providers.AlphaVantage.APIKeyEnv == "" {
		c.Providers.AlphaVantage.APIKeyEnv = "ALPHAVANTAGE_API_KEY"
	}
	if c.Providers.Kite.APIKeyEnv == "" {
		c.Providers.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Providers.Kite.AccessTokenEnv == "" {
		c.Providers.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}

	if c.Watch.Schedule == "" {
		c.Watch.Schedule = "0 30 9 * * MON-FRI"
	}

	if c.Report.Dir == "" {
		c.Report.Dir = "reports"
	}
	if c.Report.LogPath == "" {
		c.Report.LogPath = "recommendations.jsonl"
	}
	if c.Report.RetentionDays == 0 {
		c.Report.RetentionDays = 30
	}
}
