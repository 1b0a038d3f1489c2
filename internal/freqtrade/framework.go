package freqtrade

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const retryMessage = "Please carefully check whether the exchange, symbol, trading_mode, timeframe, and timerange correspond. "

// MarketLister enumerates an exchange's markets without going through freqtrade.
type MarketLister interface {
	Markets(ctx context.Context, futures bool) ([]provider.Market, error)
}

// Framework opens freqtrade sessions and interviews the user for their settings.
type Framework struct {
	runner  Runner
	binance MarketLister
	printer *console.Printer
	logger  *logger.Logger
}

// NewFramework lists binance markets through binance directly when lister is not nil.
func NewFramework(runner Runner, binance MarketLister, printer *console.Printer, log *logger.Logger) *Framework {
	return &Framework{runner: runner, binance: binance, printer: printer, logger: log}
}

func (f *Framework) Kind() session.Kind {
	return session.KindFreqtrade
}

func (f *Framework) Defaults() session.Settings {
	return DefaultSettings()
}

func (f *Framework) Parse(block string) (session.Settings, error) {
	return ParseSettings(block)
}

func (f *Framework) RetryMessage() string {
	return retryMessage
}

// Open prepares the user data directory and its bot config.
func (f *Framework) Open(ctx context.Context, settings session.Settings) (session.Session, error) {
	s, ok := settings.(*Settings)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInternal, "freqtrade cannot open %T settings", settings)
	}

	if err := f.runner.Run(ctx, "create-userdir", "--userdir", s.UserDataDir); err != nil {
		return nil, err
	}

	if err := WriteBotConfig(s); err != nil {
		return nil, err
	}

	return NewSession(s, f.runner, f.printer, f.logger), nil
}

// Interview asks the eight settings questions in order, printing the exchange,
// market and timeframe enumerations along the way.
func (f *Framework) Interview(ctx context.Context, prompter console.Prompter, defaults session.Settings) (session.Settings, error) {
	d, ok := defaults.(*Settings)
	if !ok {
		d = DefaultSettings()
	}

	answers := *d

	ask := func(prompt, fallback string) (string, error) {
		input, err := prompter.Ask(prompt)
		if err != nil {
			return "", err
		}

		if input = strings.TrimSpace(input); input == "" {
			return fallback, nil
		}

		return input, nil
	}

	var err error

	if answers.UserDataDir, err = ask(fmt.Sprintf("1. Project working directory(default: %s): ", d.UserDataDir), d.UserDataDir); err != nil {
		return nil, err
	}

	if err := f.enumerate(ctx, "list-exchanges", func() error { return f.runner.Run(ctx, "list-exchanges") }); err != nil {
		return nil, err
	}

	exchange, err := ask(fmt.Sprintf("2. Which cryptocurrency exchange to trade on(default: %s): ", d.Exchange), d.Exchange)
	if err != nil {
		return nil, err
	}

	answers.Exchange = strings.ToLower(exchange)

	f.printer.Println()

	mode, err := ask(fmt.Sprintf("3. Choosing a trading mode allows(futures/spot, default: %s): ", d.TradingMode), d.TradingMode)
	if err != nil {
		return nil, err
	}

	answers.TradingMode = TradingModeFutures
	if strings.ToLower(mode) == TradingModeSpot {
		answers.TradingMode = TradingModeSpot
	}

	if err := f.enumerate(ctx, "list-markets", func() error { return f.listMarkets(ctx, answers.Exchange, answers.TradingMode) }); err != nil {
		return nil, err
	}

	if answers.Pairs, err = ask("4. Which symbols to trade, different symbols are separated by `,` and can be expressed using regex.\n"+
		fmt.Sprintf("eg: `BTC/USDT:USDT, ETH/USDT, .*/USDT:USDT`(default: %s): ", d.Pairs), d.Pairs); err != nil {
		return nil, err
	}

	f.printer.Println()

	if err := f.enumerate(ctx, "list-timeframes", func() error { return f.listTimeframes(ctx, answers.Exchange) }); err != nil {
		return nil, err
	}

	if answers.Timeframe, err = ask(fmt.Sprintf("5. Which timeframe to trade(default: %s): ", d.Timeframe), d.Timeframe); err != nil {
		return nil, err
	}

	f.printer.Println()

	if answers.Timerange, err = ask("6. Which time range to use for historical data.\n"+
		fmt.Sprintf("(eg: 20230101-, 20200201-20230501, default: %s): ", d.Timerange), d.Timerange); err != nil {
		return nil, err
	}

	f.printer.Println()

	dryRun, err := ask(fmt.Sprintf("7. Whether to enable simulated transaction mode(true/false, default `%t`): ", d.DryRun), fmt.Sprint(d.DryRun))
	if err != nil {
		return nil, err
	}

	answers.DryRun = strings.ToLower(dryRun) != "false"

	f.printer.Println()

	if err := f.enumerate(ctx, "list-timeframes", func() error { return f.listTimeframes(ctx, answers.Exchange) }); err != nil {
		return nil, err
	}

	addPrompt := "8. Whether additional timeframes need to be added, different timeframes are separated by `,`.\n" +
		"This is a mandatory parameter for multi-cycle trading strategies.(eg: `15m, 30m`): "
	if d.AddTimeframes != "" {
		addPrompt = strings.TrimSuffix(addPrompt, "): ") + fmt.Sprintf(", default: `%s`): ", d.AddTimeframes)
	}

	if answers.AddTimeframes, err = ask(addPrompt, d.AddTimeframes); err != nil {
		return nil, err
	}

	return &answers, nil
}

// enumerate prints a listing. Failures are logged and skipped, only cancellation and
// internal faults stop the interview.
func (f *Framework) enumerate(ctx context.Context, name string, list func() error) error {
	err := list()
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if errors.IsInternal(err) {
		return err
	}

	f.logger.Warn("enumeration failed", zap.String("listing", name), zap.Error(err))

	return nil
}

func (f *Framework) listTimeframes(ctx context.Context, exchange string) error {
	return f.runner.Run(ctx, "list-timeframes", "--exchange", exchange)
}

func (f *Framework) listMarkets(ctx context.Context, exchange, tradingMode string) error {
	if exchange != "binance" || f.binance == nil {
		return f.runner.Run(ctx, "list-markets", "--exchange", exchange, "--trading-mode", tradingMode)
	}

	markets, err := f.binance.Markets(ctx, tradingMode == TradingModeFutures)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(markets))
	active := 0

	for _, m := range markets {
		if !m.Active {
			continue
		}

		active++
		rows = append(rows, []string{m.Symbol, m.Base, m.Quote, m.Settle, m.Type, m.Contract})
	}

	f.printer.Printf("Exchange binance has %d active markets:\n", active)
	f.printer.Table([]string{"Symbol", "Base", "Quote", "Settle", "Type", "Contract"}, rows)

	return nil
}

var _ session.Framework = (*Framework)(nil)
