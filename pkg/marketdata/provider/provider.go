// Package provider holds the remote market data sources: Sina for domestic futures,
// Binance for crypto market listings and Polygon for US stock aggregates.
package provider

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// chinaTime is the exchange clock of the domestic futures venues.
var chinaTime = time.FixedZone("CST", 8*60*60)

// BarSource returns the bars a remote source keeps for a symbol.
type BarSource interface {
	Bars(ctx context.Context, symbol string, interval marketdata.Timespan) ([]marketdata.Bar, error)
}

// Market is one tradable instrument listed by an exchange.
type Market struct {
	Symbol   string
	Base     string
	Quote    string
	Settle   string
	Type     string
	Contract string
	Active   bool
}
