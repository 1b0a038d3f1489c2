// Package session defines the trading session shared by every tool in one run and the
// resolver that builds it from a project file.
package session

import (
	"context"
	"time"
)

// Kind names a trading framework.
type Kind string

const (
	KindFreqtrade Kind = "freqtrade"
	KindVnpy      Kind = "vnpy"
)

// Coverage is one downloaded dataset: a pair at a timeframe of a market type.
type Coverage struct {
	Pair      string
	Timeframe string
	Type      string
	From      time.Time
	To        time.Time
}

// StrategyInfo is one discovered strategy definition.
type StrategyInfo struct {
	Name string
	File string
}

// Session is a configured handle on one trading framework.
//
// Every method blocks until the framework finishes. Errors carry pkg/errors codes:
// configuration codes for bad settings, framework codes for everything the framework
// failed at, ErrCodeInternal for program faults.
type Session interface {
	Kind() Kind
	// Settings is the value persisted in the project file.
	Settings() Settings

	DownloadData(ctx context.Context) error
	ListData(ctx context.Context) ([]Coverage, error)
	ListStrategies(ctx context.Context) ([]StrategyInfo, error)

	Backtest(ctx context.Context, strategy string) error
	ShowBacktest(ctx context.Context) error
	Optimize(ctx context.Context, strategy string) error
	ShowOptimization(ctx context.Context) error

	// Validate downloads data for the settings and checks the result covers them.
	Validate(ctx context.Context) error

	// CanShort reports whether generated strategies may open short positions.
	CanShort() bool
	// StrategyFile is where generated strategy code is written.
	StrategyFile() string
	// StrategyPrompt renders the code generation prompt for description.
	StrategyPrompt(description string) string
	// CodeLanguage is the fence tag generated code is expected under.
	CodeLanguage() string
}

// Settings is a framework's persisted configuration block.
type Settings interface {
	Validate() error
}

// Covers reports whether listing holds every pair at timeframe for market type kind.
func Covers(listing []Coverage, pairs []string, timeframe, kind string) bool {
	for _, pair := range pairs {
		found := false

		for _, c := range listing {
			if c.Pair == pair && c.Timeframe == timeframe && c.Type == kind {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
