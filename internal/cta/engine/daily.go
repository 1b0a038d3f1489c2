package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

const dateLayout = "2006-01-02"

// DailyResult settles one trading day marked to its last close.
// Net pnl is already net of slippage since fills carry it in their price.
type DailyResult struct {
	Date       time.Time
	ClosePrice float64
	PreClose   float64
	StartPos   float64
	EndPos     float64
	TradeCount int
	Turnover   float64
	Commission float64
	Slippage   float64
	TradingPnl float64
	HoldingPnl float64
	TotalPnl   float64
	NetPnl     float64
}

// settle groups fills by trading day and marks every day with bars to market.
func (e *Engine) settle(bars []marketdata.Bar, trades []Trade) []DailyResult {
	var days []DailyResult

	index := map[time.Time]int{}

	for _, b := range bars {
		day := truncateDay(b.Time, e.cfg.Location)

		i, ok := index[day]
		if !ok {
			i = len(days)
			index[day] = i
			days = append(days, DailyResult{Date: day})
		}

		days[i].ClosePrice = b.Close
	}

	byDay := make([][]Trade, len(days))
	for _, t := range trades {
		if i, ok := index[truncateDay(t.Time, e.cfg.Location)]; ok {
			byDay[i] = append(byDay[i], t)
		}
	}

	size := decimal.NewFromFloat(e.cfg.Size)
	preClose := 0.0
	startPos := 0.0

	for i := range days {
		d := &days[i]
		d.PreClose = preClose
		d.StartPos = startPos

		if preClose == 0 {
			d.PreClose = d.ClosePrice
		}

		closePrice := decimal.NewFromFloat(d.ClosePrice)
		holding := decimal.NewFromFloat(d.StartPos).Mul(closePrice.Sub(decimal.NewFromFloat(d.PreClose))).Mul(size)

		trading := decimal.Zero
		turnover := decimal.Zero
		commission := decimal.Zero
		slippage := decimal.Zero
		endPos := d.StartPos

		for _, t := range byDay[i] {
			change := decimal.NewFromFloat(t.PositionChange())
			price := decimal.NewFromFloat(t.Price)

			trading = trading.Add(change.Mul(closePrice.Sub(price)).Mul(size))
			turnover = turnover.Add(decimal.NewFromFloat(t.Volume).Mul(size).Mul(price))
			commission = commission.Add(decimal.NewFromFloat(t.Commission))
			slippage = slippage.Add(decimal.NewFromFloat(t.Slippage))
			endPos += t.PositionChange()
		}

		total := trading.Add(holding)

		d.EndPos = endPos
		d.TradeCount = len(byDay[i])
		d.HoldingPnl = holding.InexactFloat64()
		d.TradingPnl = trading.InexactFloat64()
		d.TotalPnl = total.InexactFloat64()
		d.Turnover = turnover.InexactFloat64()
		d.Commission = commission.InexactFloat64()
		d.Slippage = slippage.InexactFloat64()
		d.NetPnl = total.Sub(commission).InexactFloat64()

		preClose = d.ClosePrice
		startPos = endPos
	}

	return days
}

func truncateDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
