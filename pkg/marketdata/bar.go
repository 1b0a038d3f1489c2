package marketdata

import "time"

// Bar is one OHLCV candle. Exchange is empty for sources that do not name one.
type Bar struct {
	Symbol       string    `json:"symbol" csv:"symbol"`
	Exchange     string    `json:"exchange" csv:"exchange"`
	Interval     Timespan  `json:"interval" csv:"interval"`
	Time         time.Time `json:"time" csv:"time"`
	Open         float64   `json:"open" csv:"open"`
	High         float64   `json:"high" csv:"high"`
	Low          float64   `json:"low" csv:"low"`
	Close        float64   `json:"close" csv:"close"`
	Volume       float64   `json:"volume" csv:"volume"`
	OpenInterest float64   `json:"open_interest" csv:"open_interest"`
}

// Filter keeps the bars inside r, preserving order.
func Filter(bars []Bar, r Range) []Bar {
	out := make([]Bar, 0, len(bars))

	for _, b := range bars {
		if r.Contains(b.Time) {
			out = append(out, b)
		}
	}

	return out
}
