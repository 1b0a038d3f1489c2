package indicator

// SMA is the simple moving average. The series has len(values)-period+1 elements.
func SMA(values []float64, period int) []float64 {
	if !valid(len(values), period) {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}

	return out
}
