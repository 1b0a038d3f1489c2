package main

import (
	"context"

	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/marketdata"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const noData = "No market data was acquired."

// runData answers one data request with the futures tool and prints the fetched table.
func (a *app) runData(ctx context.Context, request string) error {
	var stocks marketdata.StockSource

	if a.cfg.PolygonAPIKey != "" {
		polygon, err := provider.NewPolygonClient(a.cfg.PolygonAPIKey)
		if err != nil {
			return err
		}

		stocks = polygon.WithProgress(a.printer.Writer())
	}

	registry, err := marketdata.NewRegistry(provider.NewSinaClient(), stocks, contracts.Default())
	if err != nil {
		return err
	}

	store := marketdata.NewStore()
	tool := marketdata.NewFuturesTool(a.completer, registry, store, a.logger.Named("marketdata"))

	if err := a.answer(ctx, a.executor([]agent.Tool{tool}), request); err != nil {
		return err
	}

	table, ok := store.Get(marketdata.DataKey)
	if !ok {
		a.printer.Banner(noData)

		return nil
	}

	a.printer.Table(table.Columns, table.Rows)

	return nil
}
