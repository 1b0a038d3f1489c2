package engine

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// OptimizationRow is one grid point and the statistics it earned.
type OptimizationRow struct {
	Parameters      string  `csv:"parameters"`
	SharpeRatio     float64 `csv:"sharpe_ratio"`
	TotalReturn     float64 `csv:"total_return"`
	AnnualReturn    float64 `csv:"annual_return"`
	MaxDdPercent    float64 `csv:"max_ddpercent"`
	TotalNetPnl     float64 `csv:"total_net_pnl"`
	TotalTradeCount int     `csv:"total_trade_count"`
	RunID           string  `csv:"run_id"`
}

// Grid expands an optimization space into every parameter combination,
// iterating names in lexical order.
func Grid(space map[string]strategy.Space) []map[string]float64 {
	names := make([]string, 0, len(space))
	for name := range space {
		names = append(names, name)
	}

	sort.Strings(names)

	grid := []map[string]float64{{}}

	for _, name := range names {
		var next []map[string]float64

		for _, point := range grid {
			for _, v := range space[name].Values() {
				p := make(map[string]float64, len(point)+1)
				for k, pv := range point {
					p[k] = pv
				}

				p[name] = v
				next = append(next, p)
			}
		}

		grid = next
	}

	return grid
}

// Optimize backtests every grid point of the script's optimization space and ranks
// the points by sharpe ratio, best first.
func (e *Engine) Optimize(ctx context.Context, script *strategy.Script, bars []marketdata.Bar) ([]OptimizationRow, error) {
	if len(script.Optimization) == 0 {
		return nil, errors.Newf(errors.ErrCodeOptimizationFailed, "strategy %s declares no optimization space", script.Name)
	}

	grid := Grid(script.Optimization)

	bar := progressbar.NewOptions(len(grid),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionSetDescription("Optimizing "+script.Name),
		progressbar.OptionShowCount(),
	)

	rows := make([]OptimizationRow, 0, len(grid))

	for _, params := range grid {
		result, err := e.run(ctx, script, params, bars, false)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, "failed to encode parameters", err)
		}

		stats := result.Statistics.Rounded()
		rows = append(rows, OptimizationRow{
			Parameters:      string(encoded),
			SharpeRatio:     stats.SharpeRatio,
			TotalReturn:     stats.TotalReturn,
			AnnualReturn:    stats.AnnualReturn,
			MaxDdPercent:    stats.MaxDdPercent,
			TotalNetPnl:     stats.TotalNetPnl,
			TotalTradeCount: stats.TotalTradeCount,
			RunID:           result.RunID,
		})

		bar.Add(1)
	}

	bar.Finish()

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SharpeRatio > rows[j].SharpeRatio })

	e.logger.Info("optimization finished", zap.String("strategy", script.Name), zap.Int("points", len(rows)))

	return rows, nil
}
