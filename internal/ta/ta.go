// Package ta computes technical indicators over an ordered price/volume
// series. Every function is pure: identical input produces identical
// output, and a series shorter than an indicator's window yields an
// undefined warm-up region rather than an error or a zero.
package ta

import "math"

// SMA is the simple moving average over window n. The first n-1 points
// are undefined.
func SMA(vals []float64, n int) Line {
	out := undefined(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= n {
			sum -= vals[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMA is the exponential moving average over window n, seeded with the
// SMA of the first window.
func EMA(vals []float64, n int) Line {
	return emaFrom(vals, n, 0)
}

// emaFrom computes an EMA starting at offset, used for chained EMAs
// (MACD signal, TRIX) whose inputs carry a warm-up region.
func emaFrom(vals []float64, n, offset int) Line {
	out := undefined(len(vals))
	if n <= 0 || len(vals)-offset < n {
		return out
	}
	seed := 0.0
	for i := offset; i < offset+n; i++ {
		seed += vals[i]
	}
	seed /= float64(n)
	out[offset+n-1] = seed

	mult := 2.0 / float64(n+1)
	prev := seed
	for i := offset + n; i < len(vals); i++ {
		prev = (vals[i]-prev)*mult + prev
		out[i] = prev
	}
	return out
}

// emaOfLine chains an EMA onto a line that has a leading undefined region.
func emaOfLine(l Line, n int) Line {
	start := l.firstDefined()
	if start < 0 {
		return undefined(len(l))
	}
	return emaFrom(l, n, start)
}

// MACD returns the MACD line (EMA fast − EMA slow), its signal line
// (EMA of the MACD line) and the histogram (MACD − signal).
func MACD(closes []float64, fast, slow, signal int) (macd, sig, hist Line) {
	macd = undefined(len(closes))
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	for i := range closes {
		if emaFast.Defined(i) && emaSlow.Defined(i) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}
	sig = emaOfLine(macd, signal)
	hist = undefined(len(closes))
	for i := range closes {
		if macd.Defined(i) && sig.Defined(i) {
			hist[i] = macd[i] - sig[i]
		}
	}
	return macd, sig, hist
}

// RSI is the relative strength index with Wilder's smoothing. Defined
// from index n onward (n+1 bars are needed for the first value). A zero
// average loss maps to 100, not a division error.
func RSI(closes []float64, n int) Line {
	out := undefined(len(closes))
	if n <= 0 || len(closes) < n+1 {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i <= n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(n)
	avgLoss /= float64(n)
	out[n] = rsiValue(avgGain, avgLoss)

	for i := n + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(n-1) + gain) / float64(n)
		avgLoss = (avgLoss*float64(n-1) + loss) / float64(n)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// Bollinger returns the middle band (SMA n), and upper/lower bands at
// k rolling standard deviations around it.
func Bollinger(closes []float64, n int, k float64) (mid, upper, lower Line) {
	mid = SMA(closes, n)
	upper = undefined(len(closes))
	lower = undefined(len(closes))
	for i := range closes {
		if !mid.Defined(i) {
			continue
		}
		var ss float64
		for j := i - n + 1; j <= i; j++ {
			d := closes[j] - mid[i]
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(n))
		upper[i] = mid[i] + k*sd
		lower[i] = mid[i] - k*sd
	}
	return mid, upper, lower
}

// Stoch returns the stochastic oscillator: %K over window n and
// %D = SMA(dPeriod) of %K. A flat window (highest high equals lowest
// low) yields the neutral 50 instead of dividing by zero.
func Stoch(highs, lows, closes []float64, n, dPeriod int) (k, d Line) {
	k = undefined(len(closes))
	if n <= 0 || len(closes) < n {
		return k, undefined(len(closes))
	}
	for i := n - 1; i < len(closes); i++ {
		hh := windowMax(highs, i-n+1, i)
		ll := windowMin(lows, i-n+1, i)
		if hh == ll {
			k[i] = 50
			continue
		}
		k[i] = 100 * (closes[i] - ll) / (hh - ll)
	}
	d = smaOfLine(k, dPeriod)
	return k, d
}

// smaOfLine averages a line over window n, propagating the leading
// undefined region.
func smaOfLine(l Line, n int) Line {
	out := undefined(len(l))
	start := l.firstDefined()
	if start < 0 || n <= 0 || len(l)-start < n {
		return out
	}
	sum := 0.0
	for i := start; i < len(l); i++ {
		sum += l[i]
		if i >= start+n {
			sum -= l[i-n]
		}
		if i >= start+n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// ATR is the average true range with Wilder's smoothing, defined from
// index n onward.
func ATR(highs, lows, closes []float64, n int) Line {
	out := undefined(len(closes))
	if n <= 0 || len(closes) < n+1 {
		return out
	}
	tr := trueRanges(highs, lows, closes)
	sum := 0.0
	for i := 1; i <= n; i++ {
		sum += tr[i]
	}
	prev := sum / float64(n)
	out[n] = prev
	for i := n + 1; i < len(closes); i++ {
		prev = (prev*float64(n-1) + tr[i]) / float64(n)
		out[i] = prev
	}
	return out
}

// trueRanges returns TR per bar; index 0 falls back to high-low.
func trueRanges(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		if i == 0 {
			tr[i] = highs[i] - lows[i]
			continue
		}
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return tr
}
