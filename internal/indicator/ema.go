package indicator

// EMA is the exponential moving average with alpha = 2/(period+1), seeded with the
// simple average of the first period values. This matches pandas ewm(adjust=False)
// after the seed.
func EMA(values []float64, period int) []float64 {
	if !valid(len(values), period) {
		return nil
	}

	seed := 0.0
	for _, v := range values[:period] {
		seed += v
	}

	seed /= float64(period)

	alpha := 2.0 / float64(period+1)

	out := make([]float64, 0, len(values)-period+1)
	out = append(out, seed)

	ema := seed
	for _, v := range values[period:] {
		ema = v*alpha + ema*(1-alpha)
		out = append(out, ema)
	}

	return out
}
