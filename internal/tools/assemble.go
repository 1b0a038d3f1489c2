package tools

import (
	"github.com/rxtech-lab/argo-agent/internal/agent"
	"github.com/rxtech-lab/argo-agent/internal/cta"
	"github.com/rxtech-lab/argo-agent/internal/freqtrade"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

type descriptions struct {
	download         string
	backtest         string
	optimization     string
	commands         func() (llm.FunctionDecl, error)
	// Show options print the saved result after runs that do not report it themselves:
	// freqtrade hyperopt prints only its best epoch, CTA backtests print nothing.
	backtestShow     []StrategyOption
	optimizationShow []StrategyOption
}

var frameworks = map[session.Kind]descriptions{
	session.KindFreqtrade: {
		download:         "Download historical transaction data for cryptocurrencies on the basis of Freqtrade system.",
		backtest:         "Backtest strategy on the basis of Freqtrade system.",
		optimization:     "Parameter optimization of trading strategy on the basis of Freqtrade system.",
		commands:         freqtrade.CommandsFunction,
		optimizationShow: []StrategyOption{ShowResults()},
	},
	session.KindVnpy: {
		download:     "Download historical bar data for domestic futures on the basis of vnpy system.",
		backtest:     "Backtest strategy on the basis of vnpy system.",
		optimization: "Parameter optimization of trading strategy on the basis of vnpy system.",
		commands:     cta.CommandsFunction,
		backtestShow: []StrategyOption{ShowResults()},
	},
}

// Assemble returns the session tools of a framework in their fixed order.
func Assemble(env *Env, kind session.Kind) ([]agent.Tool, error) {
	d, ok := frameworks[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInternal, "no tools for framework %q", kind)
	}

	commands, err := d.commands()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to declare settings function", err)
	}

	return []agent.Tool{
		NewCommandsTool(env, commands),
		NewDataDownloadTool(env, d.download),
		NewBacktestTool(env, d.backtest, d.backtestShow...),
		NewOptimizationTool(env, d.optimization, d.optimizationShow...),
		NewStrategyCreationTool(env),
	}, nil
}
