package ta

import (
	"errors"
	"math"
	"testing"
	"time"

	"stock-companion/internal/types"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// risingSeries builds n bars of steadily rising prices with flat volume.
func risingSeries(n int) types.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := types.PriceSeries{Symbol: "TEST", Period: "6mo", Interval: "1d"}
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		s.Points = append(s.Points, types.PricePoint{
			Ts:     start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return s
}

func TestSMA(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	sma := SMA(vals, 3)

	if sma.Defined(0) || sma.Defined(1) {
		t.Error("Expected warm-up region to be undefined")
	}
	if !almostEqual(sma[2], 2) || !almostEqual(sma[3], 3) || !almostEqual(sma[4], 4) {
		t.Errorf("Unexpected SMA values: %v", sma[2:])
	}
}

func TestSMAShortSeries(t *testing.T) {
	sma := SMA([]float64{1, 2}, 5)
	for i := range sma {
		if sma.Defined(i) {
			t.Errorf("Expected all points undefined for short series, index %d defined", i)
		}
	}
	if _, ok := sma.Latest(); ok {
		t.Error("Expected Latest to report unavailable")
	}
}

func TestEMASeedAndRecursion(t *testing.T) {
	vals := []float64{2, 4, 6, 8, 12}
	ema := EMA(vals, 3)

	if ema.Defined(1) {
		t.Error("Expected index 1 to be in warm-up")
	}
	// Seed is SMA(2,4,6) = 4.
	if !almostEqual(ema[2], 4) {
		t.Errorf("Expected seed 4, got %f", ema[2])
	}
	// mult = 0.5: 4 + (8-4)*0.5 = 6, then 6 + (12-6)*0.5 = 9.
	if !almostEqual(ema[3], 6) || !almostEqual(ema[4], 9) {
		t.Errorf("Unexpected EMA recursion values: %f, %f", ema[3], ema[4])
	}
}

func TestMACDAlignment(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	macd, sig, hist := MACD(closes, 12, 26, 9)

	if macd.Defined(24) {
		t.Error("Expected MACD undefined before the slow EMA warms up")
	}
	if !macd.Defined(25) {
		t.Error("Expected MACD defined once the slow EMA is")
	}
	// Signal needs 9 MACD values: first at 25+9-1 = 33.
	if sig.Defined(32) || !sig.Defined(33) {
		t.Error("Expected signal line to start 9 bars into the MACD line")
	}
	for i := range closes {
		if hist.Defined(i) != (macd.Defined(i) && sig.Defined(i)) {
			t.Errorf("Histogram defined-region mismatch at index %d", i)
		}
		if hist.Defined(i) && !almostEqual(hist[i], macd[i]-sig[i]) {
			t.Errorf("Expected hist = macd - signal at index %d", i)
		}
	}
	// A steady uptrend keeps the fast EMA above the slow one.
	if last, ok := macd.Latest(); !ok || last <= 0 {
		t.Errorf("Expected positive MACD in an uptrend, got %f", last)
	}
}

func TestRSIMonotonicSeries(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
	}

	rsiUp := RSI(up, 14)
	if rsiUp.Defined(13) || !rsiUp.Defined(14) {
		t.Error("Expected RSI to be defined from index 14")
	}
	if v, _ := rsiUp.Latest(); !almostEqual(v, 100) {
		t.Errorf("Expected RSI 100 for pure gains, got %f", v)
	}

	rsiDown := RSI(down, 14)
	if v, _ := rsiDown.Latest(); !almostEqual(v, 0) {
		t.Errorf("Expected RSI 0 for pure losses, got %f", v)
	}
}

func TestRSIBounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.1, 46.0, 46.4, 46.2, 45.6, 46.2, 46.2, 46.0}
	rsi := RSI(closes, 14)
	for i := range rsi {
		if !rsi.Defined(i) {
			continue
		}
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Errorf("RSI out of [0,100] at index %d: %f", i, rsi[i])
		}
	}
}

func TestBollingerMiddleIsSMA(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	mid, upper, lower := Bollinger(closes, 20, 2)
	sma := SMA(closes, 20)

	for i := range closes {
		if mid.Defined(i) != sma.Defined(i) {
			t.Fatalf("Defined-region mismatch at index %d", i)
		}
		if !mid.Defined(i) {
			continue
		}
		if !almostEqual(mid[i], sma[i]) {
			t.Errorf("Expected middle band to equal SMA at index %d", i)
		}
		if upper[i] < mid[i] || lower[i] > mid[i] {
			t.Errorf("Expected lower <= middle <= upper at index %d", i)
		}
		// Bands are symmetric around the middle.
		if !almostEqual(upper[i]-mid[i], mid[i]-lower[i]) {
			t.Errorf("Expected symmetric bands at index %d", i)
		}
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	mid, upper, lower := Bollinger(closes, 20, 2)
	if v, _ := mid.Latest(); !almostEqual(v, 50) {
		t.Errorf("Expected middle 50, got %f", v)
	}
	u, _ := upper.Latest()
	l, _ := lower.Latest()
	if !almostEqual(u, 50) || !almostEqual(l, 50) {
		t.Errorf("Expected zero-width bands on a flat series, got %f / %f", u, l)
	}
}

func TestStochBoundsAndFlatWindow(t *testing.T) {
	highs := make([]float64, 30)
	lows := make([]float64, 30)
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
		highs[i] = closes[i] + 1
		lows[i] = closes[i] - 1
	}
	k, d := Stoch(highs, lows, closes, 14, 3)
	for i := range k {
		if k.Defined(i) && (k[i] < 0 || k[i] > 100) {
			t.Errorf("%%K out of [0,100] at index %d: %f", i, k[i])
		}
		if d.Defined(i) && (d[i] < 0 || d[i] > 100) {
			t.Errorf("%%D out of [0,100] at index %d: %f", i, d[i])
		}
	}

	// Flat window maps to the neutral 50.
	flat := make([]float64, 20)
	for i := range flat {
		flat[i] = 10
	}
	kFlat, _ := Stoch(flat, flat, flat, 14, 3)
	if v, ok := kFlat.Latest(); !ok || !almostEqual(v, 50) {
		t.Errorf("Expected %%K 50 on a flat window, got %f", v)
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100
		highs[i] = 101
		lows[i] = 99
	}
	atr := ATR(highs, lows, closes, 14)
	if atr.Defined(13) || !atr.Defined(14) {
		t.Error("Expected ATR defined from index 14")
	}
	if v, _ := atr.Latest(); !almostEqual(v, 2) {
		t.Errorf("Expected ATR 2 for a constant 2-point range, got %f", v)
	}
}

func TestOBVAccumulation(t *testing.T) {
	closes := []float64{10, 11, 10.5, 10.5, 12}
	volume := []float64{100, 200, 150, 50, 300}
	obv := OBV(closes, volume)

	// Starts at 0, +200 on the up bar, -150 down, unchanged flat, +300 up.
	want := []float64{0, 200, 50, 50, 350}
	for i, w := range want {
		if !obv.Defined(i) || !almostEqual(obv[i], w) {
			t.Errorf("Expected OBV %f at index %d, got %f", w, i, obv[i])
		}
	}
}

func TestAroonExtremes(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i := range highs {
		highs[i] = 100 + float64(i)
		lows[i] = 99 + float64(i)
	}
	up, down := Aroon(highs, lows, 14)
	if !up.Defined(14) {
		t.Fatal("Expected Aroon defined from index 14")
	}
	// In a strict uptrend the newest bar is always the period high and the
	// oldest bar in the lookback the period low.
	if v, _ := up.Latest(); !almostEqual(v, 100) {
		t.Errorf("Expected Aroon up 100 in a strict uptrend, got %f", v)
	}
	if v, _ := down.Latest(); !almostEqual(v, 0) {
		t.Errorf("Expected Aroon down 0 in a strict uptrend, got %f", v)
	}
}

func TestADXWarmupAndBounds(t *testing.T) {
	s := risingSeries(80)
	adx := ADX(s.Highs(), s.Lows(), s.Closes(), 14)

	if adx.Defined(26) {
		t.Error("Expected ADX undefined before index 27")
	}
	if !adx.Defined(27) {
		t.Error("Expected first ADX value at index 2n-1")
	}
	for i := range adx {
		if adx.Defined(i) && (adx[i] < 0 || adx[i] > 100) {
			t.Errorf("ADX out of [0,100] at index %d: %f", i, adx[i])
		}
	}
	// A long one-way trend reads as strong.
	if v, _ := adx.Latest(); v < 25 {
		t.Errorf("Expected strong-trend ADX, got %f", v)
	}
}

func TestMFIExtremes(t *testing.T) {
	s := risingSeries(20)
	mfi := MFI(s.Highs(), s.Lows(), s.Closes(), s.Volumes(), 14)
	if mfi.Defined(13) || !mfi.Defined(14) {
		t.Error("Expected MFI defined from index 14")
	}
	// All money flow is positive in a strict uptrend.
	if v, _ := mfi.Latest(); !almostEqual(v, 100) {
		t.Errorf("Expected MFI 100 in a strict uptrend, got %f", v)
	}
}

func TestTRIXSignInTrend(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i))
	}
	trix := TRIX(closes, 30)
	if v, ok := trix.Latest(); !ok || v <= 0 {
		t.Errorf("Expected positive TRIX in a compounding uptrend, got %f", v)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(types.PriceSeries{Symbol: "EMPTY"}); err == nil {
		t.Error("Expected error for empty series")
	}

	s := risingSeries(5)
	if err := Validate(s); err != nil {
		t.Errorf("Expected valid series, got %v", err)
	}

	dup := risingSeries(5)
	dup.Points[3].Ts = dup.Points[2].Ts
	err := Validate(dup)
	if err == nil {
		t.Fatal("Expected error for non-increasing timestamps")
	}
	var integrityErr *types.DataIntegrityError
	if !errors.As(err, &integrityErr) || integrityErr.Index != 3 {
		t.Errorf("Expected DataIntegrityError at index 3, got %v", err)
	}

	neg := risingSeries(5)
	neg.Points[1].Volume = -1
	if err := Validate(neg); err == nil {
		t.Error("Expected error for negative volume")
	}
}

func TestComputeAllLinesPresent(t *testing.T) {
	s := risingSeries(250)
	res, err := ComputeAll(s, DefaultParams())
	if err != nil {
		t.Fatalf("ComputeAll failed: %v", err)
	}

	wantLines := []string{
		"sma_20", "sma_50", "sma_200", "ema_12", "ema_26",
		"macd", "macd_signal", "macd_hist", "rsi",
		"bb_middle", "bb_upper", "bb_lower",
		"stoch_k", "stoch_d", "adx", "aroon_up", "aroon_down",
		"cci", "mfi", "obv", "trix", "atr",
	}
	for _, name := range wantLines {
		line, ok := res.Lines[name]
		if !ok {
			t.Errorf("Expected line %q to be computed", name)
			continue
		}
		if len(line) != len(s.Points) {
			t.Errorf("Expected line %q aligned to input length %d, got %d", name, len(s.Points), len(line))
		}
		if _, ok := res.Latest(name); !ok {
			t.Errorf("Expected line %q to have a defined latest value on 250 bars", name)
		}
	}
}

func TestComputeAllShortSeries(t *testing.T) {
	s := risingSeries(10)
	res, err := ComputeAll(s, DefaultParams())
	if err != nil {
		t.Fatalf("ComputeAll failed: %v", err)
	}
	// Ten bars is too short for every windowed indicator; lines exist but
	// carry no defined latest value.
	for _, name := range []string{"sma_20", "rsi", "macd", "adx", "trix"} {
		if _, ok := res.Latest(name); ok {
			t.Errorf("Expected line %q unavailable on 10 bars", name)
		}
	}
	// OBV has no warm-up.
	if _, ok := res.Latest("obv"); !ok {
		t.Error("Expected OBV available on any non-empty series")
	}
}

func TestComputeAllDeterministic(t *testing.T) {
	s := risingSeries(100)
	a, err := ComputeAll(s, DefaultParams())
	if err != nil {
		t.Fatalf("ComputeAll failed: %v", err)
	}
	b, err := ComputeAll(s, DefaultParams())
	if err != nil {
		t.Fatalf("ComputeAll failed: %v", err)
	}
	for name, la := range a.Lines {
		lb := b.Lines[name]
		for i := range la {
			if la.Defined(i) != lb.Defined(i) {
				t.Fatalf("Line %q determinism mismatch at index %d", name, i)
			}
			if la.Defined(i) && la[i] != lb[i] {
				t.Fatalf("Line %q value mismatch at index %d", name, i)
			}
		}
	}
}
