// Package yahoo fetches price history and fundamentals from the public
// Yahoo Finance API.
package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"stock-companion/internal/api"
	"stock-companion/internal/signal"
	"stock-companion/internal/types"
)

const (
	chartBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	summaryBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"
)

// Provider implements PriceProvider and FundamentalsProvider against the
// Yahoo chart and quoteSummary endpoints.
type Provider struct {
	client *api.Client
	retry  *api.RetryConfig
}

// New creates a Yahoo provider with browser-style headers; Yahoo rejects
// requests without them.
func New(opts ...api.ClientOption) *Provider {
	base := []api.ClientOption{api.WithTimeout(30 * time.Second)}
	return &Provider{
		client: api.NewClient(append(base, opts...)...),
		retry:  api.DefaultRetryConfig(),
	}
}

// chartResponse is the wire shape of the Yahoo chart API. Null entries
// appear for holidays and halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches OHLCV bars for the given period ("6mo", "1y", ...) and
// interval ("1d", "1wk", ...). Null bars are skipped and the result is
// sorted by timestamp.
func (p *Provider) History(ctx context.Context, symbol, period, interval string) (types.PriceSeries, error) {
	series := types.PriceSeries{Symbol: symbol, Period: period, Interval: interval}

	u := fmt.Sprintf("%s/%s?interval=%s&range=%s",
		chartBaseURL, url.PathEscape(symbol), url.QueryEscape(interval), url.QueryEscape(period))

	req := api.NewRequest("GET", u).WithContext(ctx)
	for k, v := range api.YahooFinanceHeaders() {
		req.WithHeader(k, v)
	}
	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return series, fmt.Errorf("yahoo chart for %s: %w", symbol, err)
	}

	var chart chartResponse
	if err := resp.ParseJSON(&chart); err != nil {
		return series, fmt.Errorf("yahoo chart for %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return series, fmt.Errorf("yahoo chart for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return series, fmt.Errorf("yahoo chart for %s: no data returned", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		series.Points = append(series.Points, types.PricePoint{
			Ts:     time.Unix(ts, 0).UTC(),
			Open:   deref(quote.Open[i]),
			High:   deref(quote.High[i]),
			Low:    deref(quote.Low[i]),
			Close:  deref(quote.Close[i]),
			Volume: deref(quote.Volume[i]),
		})
	}
	if len(series.Points) == 0 {
		return series, fmt.Errorf("yahoo chart for %s: all bars null", symbol)
	}
	sort.Slice(series.Points, func(i, j int) bool {
		return series.Points[i].Ts.Before(series.Points[j].Ts)
	})
	return series, nil
}

// Quote returns the latest close from a one-day chart request.
func (p *Provider) Quote(ctx context.Context, symbol string) (float64, error) {
	series, err := p.History(ctx, symbol, "1d", "1d")
	if err != nil {
		return 0, err
	}
	last, ok := series.LastClose()
	if !ok {
		return 0, fmt.Errorf("yahoo quote for %s: no price data", symbol)
	}
	return last, nil
}

// summaryResponse covers the quoteSummary modules used for fundamentals.
// Yahoo wraps every number in a {raw, fmt} object.
type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE rawValue `json:"trailingPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PegRatio rawValue `json:"pegRatio"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				DebtToEquity      rawValue `json:"debtToEquity"`
				CurrentRatio      rawValue `json:"currentRatio"`
				ProfitMargins     rawValue `json:"profitMargins"`
				ReturnOnEquity    rawValue `json:"returnOnEquity"`
				RevenueGrowth     rawValue `json:"revenueGrowth"`
				EarningsGrowth    rawValue `json:"earningsGrowth"`
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				CurrentPrice      rawValue `json:"currentPrice"`
				RecommendationKey string   `json:"recommendationKey"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type rawValue struct {
	Raw *float64 `json:"raw"`
}

// Fundamentals fetches the quoteSummary modules and emits the canonical
// metric keys. Absent metrics are omitted from the map, never zeroed.
func (p *Provider) Fundamentals(ctx context.Context, symbol string) (map[string]float64, error) {
	u := fmt.Sprintf("%s/%s?modules=summaryDetail,defaultKeyStatistics,financialData",
		summaryBaseURL, url.PathEscape(symbol))

	req := api.NewRequest("GET", u).WithContext(ctx)
	for k, v := range api.YahooFinanceHeaders() {
		req.WithHeader(k, v)
	}
	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return nil, fmt.Errorf("yahoo fundamentals for %s: %w", symbol, err)
	}

	var summary summaryResponse
	if err := resp.ParseJSON(&summary); err != nil {
		return nil, fmt.Errorf("yahoo fundamentals for %s: %w", symbol, err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo fundamentals for %s: %s", symbol, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo fundamentals for %s: no data returned", symbol)
	}

	r := summary.QuoteSummary.Result[0]
	metrics := map[string]float64{}

	put := func(key string, v rawValue) {
		if v.Raw != nil {
			metrics[key] = *v.Raw
		}
	}
	put(signal.MetricPERatio, r.SummaryDetail.TrailingPE)
	put(signal.MetricPEGRatio, r.DefaultKeyStatistics.PegRatio)
	put(signal.MetricCurrentRatio, r.FinancialData.CurrentRatio)
	put(signal.MetricProfitMargin, r.FinancialData.ProfitMargins)

	// Yahoo reports debt/equity and ROE as percentages.
	if v := r.FinancialData.DebtToEquity.Raw; v != nil {
		metrics[signal.MetricDebtToEquity] = *v / 100
	}
	if v := r.FinancialData.ReturnOnEquity.Raw; v != nil {
		metrics[signal.MetricROE] = *v * 100
	}
	if v := r.FinancialData.RevenueGrowth.Raw; v != nil {
		metrics[signal.MetricRevenueGrowthYoY] = *v * 100
	}
	if v := r.FinancialData.EarningsGrowth.Raw; v != nil {
		metrics[signal.MetricIncomeGrowthYoY] = *v * 100
	}

	if target, price := r.FinancialData.TargetMeanPrice.Raw, r.FinancialData.CurrentPrice.Raw; target != nil && price != nil && *price > 0 {
		metrics[signal.MetricPriceTargetDiff] = (*target - *price) / *price * 100
	}
	if s, ok := recommendationSignal(r.FinancialData.RecommendationKey); ok {
		metrics[signal.MetricAnalystSignal] = s
	}

	return metrics, nil
}

// recommendationSignal maps Yahoo's recommendation key onto [-1,1].
func recommendationSignal(key string) (float64, bool) {
	switch strings.ToLower(key) {
	case "strong_buy":
		return 1, true
	case "buy":
		return 0.5, true
	case "hold":
		return 0, true
	case "sell", "underperform":
		return -0.5, true
	case "strong_sell":
		return -1, true
	default:
		return 0, false
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
