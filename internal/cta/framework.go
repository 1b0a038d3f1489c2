package cta

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/cta/database"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const retryMessage = "Please carefully check whether the vt_symbol, interval, and timerange correspond. "

// Framework opens sessions on the built-in backtester rooted at one workspace directory.
type Framework struct {
	root    string
	source  provider.BarSource
	printer *console.Printer
	logger  *logger.Logger
}

// NewFramework keeps strategies and data under root. Bars are downloaded from source.
func NewFramework(root string, source provider.BarSource, printer *console.Printer, log *logger.Logger) *Framework {
	return &Framework{root: root, source: source, printer: printer, logger: log}
}

func (f *Framework) Kind() session.Kind {
	return session.KindVnpy
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

// Open installs the built-in strategy and opens the bar database.
func (f *Framework) Open(_ context.Context, settings session.Settings) (session.Session, error) {
	s, ok := settings.(*Settings)
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInternal, "vnpy cannot open %T settings", settings)
	}

	contract, err := s.Contract()
	if err != nil {
		return nil, err
	}

	if err := strategy.InstallBuiltin(filepath.Join(f.root, strategyDir)); err != nil {
		return nil, err
	}

	db, err := database.Open(filepath.Join(f.root, dataDir, database.FileName), f.logger.Named("database"))
	if err != nil {
		return nil, err
	}

	return NewSession(f.root, s, contract, f.source, db, f.printer, f.logger), nil
}

// Interview asks the four settings questions, listing exchanges and intervals first.
func (f *Framework) Interview(_ context.Context, prompter console.Prompter, defaults session.Settings) (session.Settings, error) {
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

	f.printExchanges()

	var err error

	if answers.VtSymbol, err = ask(fmt.Sprintf("1. Futures contract with exchange name, eg: IF2309.CFFEX, rb2310.SHFE(default: %s): ", d.VtSymbol), d.VtSymbol); err != nil {
		return nil, err
	}

	f.printer.Println()
	f.printIntervals()

	if answers.Interval, err = ask(fmt.Sprintf("2. Which interval to trade(default: %s): ", d.Interval), d.Interval); err != nil {
		return nil, err
	}

	f.printer.Println()

	if answers.Timerange, err = ask("3. Which time range to use for historical data.\n"+
		fmt.Sprintf("(eg: 20230101-, 20200201-20230501, default: %s): ", d.Timerange), d.Timerange); err != nil {
		return nil, err
	}

	f.printer.Println()

	dryRun, err := ask(fmt.Sprintf("4. Whether to enable simulated transaction mode(true/false, default `%t`): ", d.DryRun), fmt.Sprint(d.DryRun))
	if err != nil {
		return nil, err
	}

	answers.DryRun = strings.ToLower(dryRun) != "false"

	return &answers, nil
}

func (f *Framework) printExchanges() {
	table := contracts.Default()

	exchanges := table.Exchanges()
	rows := make([][]string, 0, len(exchanges))

	for _, ex := range exchanges {
		var products []string
		for _, c := range table.ExchangeContracts(ex.Code) {
			products = append(products, c.Product)
		}

		rows = append(rows, []string{ex.Name, ex.Code, strings.Join(products, ", ")})
	}

	f.printer.Printf("There are %d futures exchanges:\n", len(exchanges))
	f.printer.Table([]string{"Exchange", "Code", "Products"}, rows)
}

func (f *Framework) printIntervals() {
	names := make([]string, 0, len(Intervals))
	for _, i := range Intervals {
		names = append(names, i.String())
	}

	f.printer.Printf("Supported intervals: %s\n", strings.Join(names, ", "))
}

var _ session.Framework = (*Framework)(nil)
