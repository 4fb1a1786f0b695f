// Package kite fetches price history from the Zerodha Kite Connect API,
// for NSE/BSE symbols that Yahoo covers poorly.
package kite

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"stock-companion/internal/types"
)

// Provider implements PriceProvider over Kite Connect historical candles.
// Kite addresses instruments by numeric token, so a symbol to token map
// comes from configuration.
type Provider struct {
	kc     *kiteconnect.Client
	tokens map[string]int
}

func New(apiKey, accessToken string, tokens map[string]int) *Provider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &Provider{kc: kc, tokens: tokens}
}

// periodDays maps Yahoo-style period tokens onto a lookback in days.
var periodDays = map[string]int{
	"1mo": 30,
	"3mo": 91,
	"6mo": 182,
	"1y":  365,
	"2y":  730,
	"5y":  1826,
}

// kiteIntervals maps Yahoo-style interval tokens onto Kite interval names.
var kiteIntervals = map[string]string{
	"1d":  "day",
	"1h":  "60minute",
	"15m": "15minute",
	"5m":  "5minute",
}

// History fetches candles for the configured instrument token. The
// context only bounds the call site; the underlying client does not
// accept one.
func (p *Provider) History(ctx context.Context, symbol, period, interval string) (types.PriceSeries, error) {
	series := types.PriceSeries{Symbol: symbol, Period: period, Interval: interval}

	token, ok := p.tokens[symbol]
	if !ok {
		return series, fmt.Errorf("kite history for %s: no instrument token configured", symbol)
	}
	days, ok := periodDays[period]
	if !ok {
		return series, fmt.Errorf("kite history for %s: unsupported period %q", symbol, period)
	}
	kiteInterval, ok := kiteIntervals[interval]
	if !ok {
		return series, fmt.Errorf("kite history for %s: unsupported interval %q", symbol, interval)
	}
	if err := ctx.Err(); err != nil {
		return series, err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -days)
	candles, err := p.kc.GetHistoricalData(token, kiteInterval, from, to, false, false)
	if err != nil {
		return series, fmt.Errorf("kite history for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return series, fmt.Errorf("kite history for %s: no data returned", symbol)
	}

	for _, c := range candles {
		series.Points = append(series.Points, types.PricePoint{
			Ts:     c.Date.Time,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: float64(c.Volume),
		})
	}
	return series, nil
}

// Quote returns the close of the most recent daily candle.
func (p *Provider) Quote(ctx context.Context, symbol string) (float64, error) {
	series, err := p.History(ctx, symbol, "1mo", "1d")
	if err != nil {
		return 0, err
	}
	last, ok := series.LastClose()
	if !ok {
		return 0, fmt.Errorf("kite quote for %s: no price data", symbol)
	}
	return last, nil
}
