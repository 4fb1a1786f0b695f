// Package alphavantage fetches company overviews and macro indicator
// series from the Alpha Vantage REST API.
package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"stock-companion/internal/api"
	"stock-companion/internal/signal"
)

const baseURL = "https://www.alphavantage.co"

// Provider implements FundamentalsProvider from the OVERVIEW and
// BALANCE_SHEET functions and EconomicProvider from the macro series
// functions.
type Provider struct {
	client *api.Client
	retry  *api.RetryConfig
	apiKey string
}

func New(apiKey string, opts ...api.ClientOption) *Provider {
	base := []api.ClientOption{
		api.WithBaseURL(baseURL),
		api.WithTimeout(20 * time.Second),
	}
	return &Provider{
		client: api.NewClient(append(base, opts...)...),
		retry:  api.DefaultRetryConfig(),
		apiKey: apiKey,
	}
}

func (p *Provider) get(ctx context.Context, query url.Values, out interface{}) error {
	query.Set("apikey", p.apiKey)
	req := api.NewRequest("GET", "/query?"+query.Encode()).WithContext(ctx)
	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return err
	}
	return resp.ParseJSON(out)
}

// overview is the OVERVIEW function payload; every number arrives as a
// string, with "None" and "-" standing in for missing values.
type overview struct {
	PERatio                    string `json:"PERatio"`
	PEGRatio                   string `json:"PEGRatio"`
	ProfitMargin               string `json:"ProfitMargin"`
	ReturnOnEquityTTM          string `json:"ReturnOnEquityTTM"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	Note                       string `json:"Note"`
}

// Fundamentals fetches the company OVERVIEW and emits canonical metric
// keys. A rate-limit note from the API is surfaced as an error.
func (p *Provider) Fundamentals(ctx context.Context, symbol string) (map[string]float64, error) {
	var ov overview
	query := url.Values{"function": {"OVERVIEW"}, "symbol": {symbol}}
	if err := p.get(ctx, query, &ov); err != nil {
		return nil, fmt.Errorf("alphavantage overview for %s: %w", symbol, err)
	}
	if ov.Note != "" {
		return nil, fmt.Errorf("alphavantage overview for %s: rate limited: %s", symbol, ov.Note)
	}

	metrics := map[string]float64{}
	put := func(key, raw string, scale float64) {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		metrics[key] = v * scale
	}
	put(signal.MetricPERatio, ov.PERatio, 1)
	put(signal.MetricPEGRatio, ov.PEGRatio, 1)
	put(signal.MetricProfitMargin, ov.ProfitMargin, 1)
	put(signal.MetricROE, ov.ReturnOnEquityTTM, 100)
	put(signal.MetricRevenueGrowthYoY, ov.QuarterlyRevenueGrowthYOY, 100)
	put(signal.MetricIncomeGrowthYoY, ov.QuarterlyEarningsGrowthYOY, 100)

	p.balanceSheetMetrics(ctx, symbol, metrics)

	if len(metrics) == 0 {
		return nil, fmt.Errorf("alphavantage overview for %s: no usable metrics", symbol)
	}
	return metrics, nil
}

// balanceSheet is the BALANCE_SHEET payload, reduced to the fields the
// ratio derivations need.
type balanceSheet struct {
	AnnualReports []struct {
		TotalCurrentAssets      string `json:"totalCurrentAssets"`
		TotalCurrentLiabilities string `json:"totalCurrentLiabilities"`
		TotalLiabilities        string `json:"totalLiabilities"`
		TotalShareholderEquity  string `json:"totalShareholderEquity"`
	} `json:"annualReports"`
}

// balanceSheetMetrics derives debt/equity and current ratio from the
// latest annual balance sheet. Failures leave the map untouched; the
// overview metrics stand on their own.
func (p *Provider) balanceSheetMetrics(ctx context.Context, symbol string, metrics map[string]float64) {
	var bs balanceSheet
	query := url.Values{"function": {"BALANCE_SHEET"}, "symbol": {symbol}}
	if err := p.get(ctx, query, &bs); err != nil || len(bs.AnnualReports) == 0 {
		return
	}
	latest := bs.AnnualReports[0]

	liabilities, err1 := strconv.ParseFloat(latest.TotalLiabilities, 64)
	equity, err2 := strconv.ParseFloat(latest.TotalShareholderEquity, 64)
	if err1 == nil && err2 == nil && equity > 0 {
		metrics[signal.MetricDebtToEquity] = liabilities / equity
	}

	curAssets, err3 := strconv.ParseFloat(latest.TotalCurrentAssets, 64)
	curLiabilities, err4 := strconv.ParseFloat(latest.TotalCurrentLiabilities, 64)
	if err3 == nil && err4 == nil && curLiabilities > 0 {
		metrics[signal.MetricCurrentRatio] = curAssets / curLiabilities
	}
}

// macroSeries is the shared payload shape of the macro functions.
type macroSeries struct {
	Data []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"data"`
	Note string `json:"Note"`
}

// macroFunctions maps the canonical economic indicator keys to Alpha
// Vantage function names.
var macroFunctions = []struct {
	key      string
	function string
	interval string
}{
	{key: signal.EconFedRate, function: "FEDERAL_FUNDS_RATE", interval: "monthly"},
	{key: signal.EconGDPGrowth, function: "REAL_GDP", interval: "annual"},
	{key: signal.EconInflation, function: "INFLATION", interval: ""},
	{key: signal.EconUnemployment, function: "UNEMPLOYMENT", interval: ""},
}

// Indicators fetches the latest value of each macro series. Series that
// fail or return nothing are omitted; the call errors only when every
// series is missing.
func (p *Provider) Indicators(ctx context.Context) (map[string]float64, error) {
	out := map[string]float64{}
	var firstErr error
	for _, mf := range macroFunctions {
		query := url.Values{"function": {mf.function}}
		if mf.interval != "" {
			query.Set("interval", mf.interval)
		}
		var series macroSeries
		if err := p.get(ctx, query, &series); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if series.Note != "" || len(series.Data) == 0 {
			continue
		}
		// Entries arrive newest first.
		v, err := strconv.ParseFloat(series.Data[0].Value, 64)
		if err != nil {
			continue
		}
		if mf.key == signal.EconGDPGrowth {
			v = gdpGrowth(series)
		}
		out[mf.key] = v
	}
	if len(out) == 0 {
		if firstErr != nil {
			return nil, fmt.Errorf("alphavantage indicators: %w", firstErr)
		}
		return nil, fmt.Errorf("alphavantage indicators: no data returned")
	}
	return out, nil
}

// gdpGrowth converts the REAL_GDP level series into a year over year
// growth percentage from its two newest entries.
func gdpGrowth(series macroSeries) float64 {
	if len(series.Data) < 2 {
		return 0
	}
	latest, err1 := strconv.ParseFloat(series.Data[0].Value, 64)
	prior, err2 := strconv.ParseFloat(series.Data[1].Value, 64)
	if err1 != nil || err2 != nil || prior == 0 {
		return 0
	}
	return (latest - prior) / prior * 100
}
