package indicator

import "math"

// BollingerBands returns the upper, middle and lower bands using the population
// standard deviation over period.
func BollingerBands(values []float64, period int, width float64) (upper, middle, lower []float64) {
	middle = SMA(values, period)
	if middle == nil {
		return nil, nil, nil
	}

	upper = make([]float64, len(middle))
	lower = make([]float64, len(middle))

	for i, mean := range middle {
		window := values[i : i+period]

		squares := 0.0
		for _, v := range window {
			squares += (v - mean) * (v - mean)
		}

		sd := math.Sqrt(squares / float64(period))
		upper[i] = mean + width*sd
		lower[i] = mean - width*sd
	}

	return upper, middle, lower
}
