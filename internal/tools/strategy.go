package tools

import (
	"context"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const (
	BacktestName     = "strategy_backtest"
	OptimizationName = "strategy_optimization"

	noStrategyBanner = "No strategy. You need create a new strategy"
	strategyPrompt   = "Enter the name of strategy: "

	backtested    = "The strategy backtest is complete. "
	notBacktested = "The strategy backtest did not complete. "
	optimized     = "Strategy parameter optimization is complete. "
	notOptimized  = "Strategy parameter optimization did not complete. "
)

// pickStrategy returns the configured strategy name, or asks until the user names a
// discovered strategy when tools return directly.
func (e *Env) pickStrategy(ctx context.Context) (string, error) {
	found, err := e.Session.ListStrategies(ctx)
	if err != nil {
		return "", err
	}

	if len(found) == 0 {
		return "", errors.New(errors.ErrCodeNoStrategies, noStrategyBanner)
	}

	if !e.ReturnDirect {
		return e.StrategyName, nil
	}

	names := make([]string, 0, len(found))
	for _, s := range found {
		names = append(names, s.Name)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		answer, err := e.Prompter.Ask(strategyPrompt)
		if err != nil {
			return "", err
		}

		if name := strings.TrimSpace(answer); slices.Contains(names, name) {
			return name, nil
		}
	}
}

// StrategyTool runs one strategy routine of the session on the picked strategy.
type StrategyTool struct {
	env         *Env
	name        string
	description string
	run         func(sess session.Session, ctx context.Context, strategy string) error
	// show prints the saved result after a successful run, when set.
	show        func(sess session.Session, ctx context.Context) error
	done        string
	notDone     string
}

// StrategyOption customizes a StrategyTool.
type StrategyOption func(*StrategyTool)

// ShowResults prints the saved result through the session after every successful run.
func ShowResults() StrategyOption {
	return func(t *StrategyTool) {
		switch t.name {
		case BacktestName:
			t.show = session.Session.ShowBacktest
		case OptimizationName:
			t.show = session.Session.ShowOptimization
		}
	}
}

func (t *StrategyTool) Name() string {
	return t.name
}

func (t *StrategyTool) Description() string {
	return t.description
}

func (t *StrategyTool) ReturnDirect() bool {
	return t.env.ReturnDirect
}

func (t *StrategyTool) Run(ctx context.Context, _ string) (string, error) {
	name, err := t.env.pickStrategy(ctx)
	if errors.HasCode(err, errors.ErrCodeNoStrategies) {
		t.env.Printer.Banner(noStrategyBanner)

		return t.notDone, nil
	}

	if err != nil {
		return t.env.failed(t.name, err, t.notDone)
	}

	t.env.Logger.Info("running strategy", zap.String("tool", t.name), zap.String("strategy", name))

	if err := t.run(t.env.Session, ctx, name); err != nil {
		return t.env.failed(t.name, err, t.notDone)
	}

	if t.show != nil {
		if err := t.show(t.env.Session, ctx); err != nil {
			return t.env.failed(t.name, err, t.done)
		}
	}

	return t.done, nil
}

func newStrategyTool(t *StrategyTool, opts []StrategyOption) *StrategyTool {
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// NewBacktestTool backtests the picked strategy.
func NewBacktestTool(env *Env, description string, opts ...StrategyOption) *StrategyTool {
	return newStrategyTool(&StrategyTool{
		env:         env,
		name:        BacktestName,
		description: description,
		run:         session.Session.Backtest,
		done:        backtested,
		notDone:     notBacktested,
	}, opts)
}

// NewOptimizationTool searches the parameter space of the picked strategy.
func NewOptimizationTool(env *Env, description string, opts ...StrategyOption) *StrategyTool {
	return newStrategyTool(&StrategyTool{
		env:         env,
		name:        OptimizationName,
		description: description,
		run:         session.Session.Optimize,
		done:        optimized,
		notDone:     notOptimized,
	}, opts)
}
