package indicator

// MACD returns the fast minus slow EMA line, its signal EMA and the histogram.
// All three series are aligned to the signal line.
func MACD(values []float64, fast, slow, signal int) (line, signalLine, histogram []float64) {
	if fast >= slow {
		return nil, nil, nil
	}

	slowEMA := EMA(values, slow)
	fastEMA := EMA(values, fast)

	if slowEMA == nil {
		return nil, nil, nil
	}

	offset := len(fastEMA) - len(slowEMA)

	full := make([]float64, len(slowEMA))
	for i := range slowEMA {
		full[i] = fastEMA[i+offset] - slowEMA[i]
	}

	signalLine = EMA(full, signal)
	if signalLine == nil {
		return nil, nil, nil
	}

	line = full[len(full)-len(signalLine):]
	histogram = make([]float64, len(signalLine))

	for i := range signalLine {
		histogram[i] = line[i] - signalLine[i]
	}

	return line, signalLine, histogram
}
