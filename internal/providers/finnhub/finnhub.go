// Package finnhub fetches analyst data, earnings surprises and company
// news from the Finnhub REST API.
package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"stock-companion/internal/api"
	"stock-companion/internal/signal"
	"stock-companion/internal/types"
)

const baseURL = "https://finnhub.io/api/v1"

// Provider implements FundamentalsProvider and NewsProvider. All calls
// require an API token.
type Provider struct {
	client *api.Client
	retry  *api.RetryConfig
	token  string
}

func New(token string, opts ...api.ClientOption) *Provider {
	base := []api.ClientOption{
		api.WithBaseURL(baseURL),
		api.WithTimeout(20 * time.Second),
	}
	return &Provider{
		client: api.NewClient(append(base, opts...)...),
		retry:  api.DefaultRetryConfig(),
		token:  token,
	}
}

func (p *Provider) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	query.Set("token", p.token)
	req := api.NewRequest("GET", path+"?"+query.Encode()).WithContext(ctx)
	resp, err := p.client.DoWithRetry(req, p.retry)
	if err != nil {
		return err
	}
	return resp.ParseJSON(out)
}

type recommendationTrend struct {
	StrongBuy  int    `json:"strongBuy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strongSell"`
	Period     string `json:"period"`
}

type priceTarget struct {
	TargetMean float64 `json:"targetMean"`
	LastPrice  float64 `json:"lastPrice"`
}

type earningsSurprise struct {
	Actual   *float64 `json:"actual"`
	Estimate *float64 `json:"estimate"`
}

// Fundamentals aggregates recommendation trends, the mean price target
// and recent earnings surprises into canonical metric keys. Each endpoint
// failing individually only drops its metrics.
func (p *Provider) Fundamentals(ctx context.Context, symbol string) (map[string]float64, error) {
	metrics := map[string]float64{}
	var firstErr error

	var trends []recommendationTrend
	if err := p.get(ctx, "/stock/recommendation", url.Values{"symbol": {symbol}}, &trends); err != nil {
		firstErr = err
	} else if len(trends) > 0 {
		// Latest period first. Weighted consensus in [-1,1]: strong
		// opinions count double.
		t := trends[0]
		total := t.StrongBuy + t.Buy + t.Hold + t.Sell + t.StrongSell
		if total > 0 {
			weighted := float64(2*t.StrongBuy+t.Buy-t.Sell-2*t.StrongSell) / float64(2*total)
			metrics[signal.MetricAnalystSignal] = weighted
			metrics[signal.MetricAnalystConsensus] = (weighted + 1) / 2 * 100
		}
	}

	var target priceTarget
	if err := p.get(ctx, "/stock/price-target", url.Values{"symbol": {symbol}}, &target); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else if target.TargetMean > 0 && target.LastPrice > 0 {
		metrics[signal.MetricPriceTargetDiff] = (target.TargetMean - target.LastPrice) / target.LastPrice * 100
	}

	var surprises []earningsSurprise
	if err := p.get(ctx, "/stock/earnings", url.Values{"symbol": {symbol}}, &surprises); err != nil {
		if firstErr == nil {
			firstErr = err
		}
	} else if s, ok := averageSurprise(surprises); ok {
		metrics[signal.MetricEarningsSurprise] = s
	}

	if len(metrics) == 0 && firstErr != nil {
		return nil, fmt.Errorf("finnhub fundamentals for %s: %w", symbol, firstErr)
	}
	return metrics, nil
}

// averageSurprise is the mean surprise percentage over the reported
// quarters with both actual and estimate present.
func averageSurprise(surprises []earningsSurprise) (float64, bool) {
	var sum float64
	var n int
	for _, s := range surprises {
		if s.Actual == nil || s.Estimate == nil || *s.Estimate == 0 {
			continue
		}
		sum += (*s.Actual - *s.Estimate) / absFloat(*s.Estimate) * 100
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

type companyNewsItem struct {
	Headline string `json:"headline"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

// Headlines fetches company news from the last week. Polarity is left at
// zero; the news service scores it.
func (p *Provider) Headlines(ctx context.Context, symbol string, limit int) ([]types.Headline, error) {
	now := time.Now().UTC()
	query := url.Values{
		"symbol": {symbol},
		"from":   {now.AddDate(0, 0, -7).Format("2006-01-02")},
		"to":     {now.Format("2006-01-02")},
	}
	var items []companyNewsItem
	if err := p.get(ctx, "/company-news", query, &items); err != nil {
		return nil, fmt.Errorf("finnhub news for %s: %w", symbol, err)
	}

	headlines := make([]types.Headline, 0, limit)
	for _, item := range items {
		if item.Headline == "" {
			continue
		}
		headlines = append(headlines, types.Headline{
			Title:       item.Headline,
			Source:      item.Source,
			URL:         item.URL,
			PublishedAt: time.Unix(item.Datetime, 0).UTC(),
		})
		if len(headlines) >= limit {
			break
		}
	}
	return headlines, nil
}
