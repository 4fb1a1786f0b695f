package ta

import "math"

// ADX is the average directional index over window n (Wilder). The first
// value appears at index 2n-1: n bars for the smoothed DM/TR seeds plus
// n DX values for the first ADX average.
func ADX(highs, lows, closes []float64, n int) Line {
	out := undefined(len(closes))
	if n <= 0 || len(closes) < 2*n {
		return out
	}
	tr := trueRanges(highs, lows, closes)

	plusDM := make([]float64, len(closes))
	minusDM := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	// Wilder-smoothed sums seeded over the first n bars.
	var smTR, smPlus, smMinus float64
	for i := 1; i <= n; i++ {
		smTR += tr[i]
		smPlus += plusDM[i]
		smMinus += minusDM[i]
	}

	dx := undefined(len(closes))
	dx[n] = dxValue(smPlus, smMinus, smTR)
	for i := n + 1; i < len(closes); i++ {
		smTR = smTR - smTR/float64(n) + tr[i]
		smPlus = smPlus - smPlus/float64(n) + plusDM[i]
		smMinus = smMinus - smMinus/float64(n) + minusDM[i]
		dx[i] = dxValue(smPlus, smMinus, smTR)
	}

	// First ADX is the plain average of the first n DX values, then
	// Wilder-smoothed.
	sum := 0.0
	for i := n; i < 2*n; i++ {
		sum += dx[i]
	}
	prev := sum / float64(n)
	out[2*n-1] = prev
	for i := 2 * n; i < len(closes); i++ {
		prev = (prev*float64(n-1) + dx[i]) / float64(n)
		out[i] = prev
	}
	return out
}

func dxValue(plus, minus, tr float64) float64 {
	if tr == 0 {
		return 0
	}
	pdi := 100 * plus / tr
	mdi := 100 * minus / tr
	if pdi+mdi == 0 {
		return 0
	}
	return 100 * math.Abs(pdi-mdi) / (pdi + mdi)
}

// Aroon returns the Aroon up/down lines over window n: how recently the
// n-period high and low were set, scaled to [0,100]. The lookback spans
// n+1 bars, so values are defined from index n.
func Aroon(highs, lows []float64, n int) (up, down Line) {
	up = undefined(len(highs))
	down = undefined(len(highs))
	if n <= 0 || len(highs) < n+1 {
		return up, down
	}
	for i := n; i < len(highs); i++ {
		hiIdx, loIdx := i-n, i-n
		for j := i - n; j <= i; j++ {
			if highs[j] >= highs[hiIdx] {
				hiIdx = j
			}
			if lows[j] <= lows[loIdx] {
				loIdx = j
			}
		}
		up[i] = 100 * float64(n-(i-hiIdx)) / float64(n)
		down[i] = 100 * float64(n-(i-loIdx)) / float64(n)
	}
	return up, down
}

// CCI is the commodity channel index over window n using typical price
// and mean absolute deviation. A zero deviation yields 0 (neutral).
func CCI(highs, lows, closes []float64, n int) Line {
	out := undefined(len(closes))
	if n <= 0 || len(closes) < n {
		return out
	}
	tp := make([]float64, len(closes))
	for i := range closes {
		tp[i] = (highs[i] + lows[i] + closes[i]) / 3
	}
	smaTP := SMA(tp, n)
	for i := n - 1; i < len(closes); i++ {
		var dev float64
		for j := i - n + 1; j <= i; j++ {
			dev += math.Abs(tp[j] - smaTP[i])
		}
		dev /= float64(n)
		if dev == 0 {
			out[i] = 0
			continue
		}
		out[i] = (tp[i] - smaTP[i]) / (0.015 * dev)
	}
	return out
}

// TRIX is the 1-bar percent rate of change of a triple-smoothed EMA over
// window n. Warm-up is roughly 3(n-1)+1 bars.
func TRIX(closes []float64, n int) Line {
	out := undefined(len(closes))
	e1 := EMA(closes, n)
	e2 := emaOfLine(e1, n)
	e3 := emaOfLine(e2, n)
	for i := 1; i < len(closes); i++ {
		if e3.Defined(i) && e3.Defined(i-1) && e3[i-1] != 0 {
			out[i] = (e3[i] - e3[i-1]) / e3[i-1] * 100
		}
	}
	return out
}
