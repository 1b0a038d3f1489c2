package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// BarGenerator produces deterministic futures bars for tests.
type BarGenerator struct {
	rng *rand.Rand
}

// NewBarGenerator seeds the generator. The same seed gives the same bars.
func NewBarGenerator(seed int64) *BarGenerator {
	return &BarGenerator{rng: rand.New(rand.NewSource(seed))}
}

// BarConfig shapes a generated series.
type BarConfig struct {
	Symbol   string
	Exchange string
	Interval marketdata.Timespan
	Start    time.Time
	Count    int
	// Price is the first open.
	Price float64
	// Volatility is the standard deviation of the per-bar return.
	Volatility float64
	// PriceTick rounds every price. Zero leaves prices unrounded.
	PriceTick    float64
	Volume       float64
	OpenInterest float64
}

// DefaultBarConfig is one trading morning of IF minute bars.
func DefaultBarConfig() BarConfig {
	return BarConfig{
		Symbol:       "IF2309",
		Exchange:     "CFFEX",
		Interval:     marketdata.TimespanOneMinute,
		Start:        time.Date(2023, 1, 3, 9, 30, 0, 0, time.FixedZone("CST", 8*3600)),
		Count:        120,
		Price:        4000,
		Volatility:   0.001,
		PriceTick:    0.2,
		Volume:       1000,
		OpenInterest: 150000,
	}
}

// Generate walks the close price with normally distributed returns.
func (g *BarGenerator) Generate(config BarConfig) []marketdata.Bar {
	bars := make([]marketdata.Bar, config.Count)
	step := config.Interval.Duration()
	price := config.Price
	hold := config.OpenInterest

	for i := range bars {
		open := price

		closePrice := open * (1 + config.Volatility*g.normal())
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		spread := config.Volatility * open
		high := math.Max(open, closePrice) + g.rng.Float64()*spread
		low := math.Min(open, closePrice) - g.rng.Float64()*spread

		hold += math.Round((g.rng.Float64()*2 - 1) * config.Volume * 0.1)

		bars[i] = marketdata.Bar{
			Symbol:       config.Symbol,
			Exchange:     config.Exchange,
			Interval:     config.Interval,
			Time:         config.Start.Add(time.Duration(i) * step),
			Open:         roundTo(open, config.PriceTick),
			High:         roundTo(high, config.PriceTick),
			Low:          roundTo(math.Max(low, config.PriceTick), config.PriceTick),
			Close:        roundTo(closePrice, config.PriceTick),
			Volume:       math.Round(config.Volume * (0.5 + g.rng.Float64())),
			OpenInterest: hold,
		}

		price = closePrice
	}

	return bars
}

// normal draws from the standard normal distribution with the Box-Muller transform.
func (g *BarGenerator) normal() float64 {
	u1 := 1 - g.rng.Float64()
	u2 := g.rng.Float64()

	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

func roundTo(v, tick float64) float64 {
	if tick <= 0 {
		return v
	}

	// Round twice so ticks such as 0.2 do not leave binary noise behind.
	return math.Round(math.Round(v/tick)*tick*1e6) / 1e6
}
