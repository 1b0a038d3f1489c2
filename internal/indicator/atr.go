package indicator

import "math"

// TrueRange is the per-bar range including gaps from the previous close.
// The first element uses high-low.
func TrueRange(high, low, closes []float64) []float64 {
	n := min(len(high), len(low), len(closes))
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		tr := high[i] - low[i]
		if i > 0 {
			tr = math.Max(tr, math.Max(math.Abs(high[i]-closes[i-1]), math.Abs(low[i]-closes[i-1])))
		}

		out[i] = tr
	}

	return out
}

// ATR smooths the true range with an EMA of period.
func ATR(high, low, closes []float64, period int) []float64 {
	return EMA(TrueRange(high, low, closes), period)
}
