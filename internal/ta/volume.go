package ta

// OBV is the cumulative on-balance volume. It has no warm-up window; the
// line starts at 0 on the first bar.
func OBV(closes, volumes []float64) Line {
	out := make(Line, len(closes))
	if len(closes) == 0 {
		return out
	}
	out[0] = 0
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volumes[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volumes[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// MFI is the money flow index over window n, defined from index n onward.
// A window with no negative flow maps to 100.
func MFI(highs, lows, closes, volumes []float64, n int) Line {
	out := undefined(len(closes))
	if n <= 0 || len(closes) < n+1 {
		return out
	}
	pos := make([]float64, len(closes))
	neg := make([]float64, len(closes))
	prevTP := (highs[0] + lows[0] + closes[0]) / 3
	for i := 1; i < len(closes); i++ {
		tp := (highs[i] + lows[i] + closes[i]) / 3
		flow := tp * volumes[i]
		if tp > prevTP {
			pos[i] = flow
		} else if tp < prevTP {
			neg[i] = flow
		}
		prevTP = tp
	}
	var posSum, negSum float64
	for i := 1; i <= n; i++ {
		posSum += pos[i]
		negSum += neg[i]
	}
	out[n] = mfiValue(posSum, negSum)
	for i := n + 1; i < len(closes); i++ {
		posSum += pos[i] - pos[i-n]
		negSum += neg[i] - neg[i-n]
		out[i] = mfiValue(posSum, negSum)
	}
	return out
}

func mfiValue(pos, neg float64) float64 {
	if neg == 0 {
		return 100
	}
	ratio := pos / neg
	return 100 - 100/(1+ratio)
}
