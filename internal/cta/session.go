package cta

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/cta/database"
	"github.com/rxtech-lab/argo-agent/internal/cta/engine"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const (
	strategyDir = "strategies"
	dataDir     = "data"

	// marketType is the coverage type of every stored dataset.
	marketType = "futures"

	datetimePrintFormat = "2006-01-02 15:04:05"
	optimizationShown   = 10
)

// Session backtests Starlark strategies against bars stored in the workspace database.
type Session struct {
	root     string
	settings *Settings
	contract contracts.Contract
	source   provider.BarSource
	db       *database.Database
	printer  *console.Printer
	logger   *logger.Logger
}

func NewSession(root string, settings *Settings, contract contracts.Contract, source provider.BarSource, db *database.Database, printer *console.Printer, log *logger.Logger) *Session {
	return &Session{
		root:     root,
		settings: settings,
		contract: contract,
		source:   source,
		db:       db,
		printer:  printer,
		logger:   log,
	}
}

func (s *Session) Kind() session.Kind {
	return session.KindVnpy
}

func (s *Session) Settings() session.Settings {
	return s.settings
}

// Close releases the bar database.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) strategyDir() string {
	return filepath.Join(s.root, strategyDir)
}

func (s *Session) dataDir() string {
	return filepath.Join(s.root, dataDir)
}

func (s *Session) engine() *engine.Engine {
	return engine.New(
		engine.NewConfig(s.settings.VtSymbol, s.settings.Timespan(), s.contract),
		s.logger.Named("engine"),
		engine.WithProgress(s.printer.Writer()),
	)
}

// DownloadData fetches the history of the contract and stores the bars inside the timerange.
func (s *Session) DownloadData(ctx context.Context) error {
	symbol, err := s.settings.Symbol()
	if err != nil {
		return err
	}

	r, err := s.settings.Range()
	if err != nil {
		return err
	}

	bars, err := s.source.Bars(ctx, strings.ToUpper(symbol.Code), s.settings.Timespan())
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDownloadFailed, err, "failed to download %s", symbol)
	}

	bars = marketdata.Filter(bars, r)
	if len(bars) == 0 {
		return errors.Newf(errors.ErrCodeDownloadFailed, "no %s bars of %s inside %s", s.settings.Interval, symbol, r)
	}

	for i := range bars {
		bars[i].Symbol = symbol.Code
		bars[i].Exchange = symbol.Exchange
		bars[i].Interval = s.settings.Timespan()
	}

	if err := s.db.SaveBars(ctx, bars); err != nil {
		return errors.Wrap(errors.ErrCodeDownloadFailed, "failed to store bars", err)
	}

	s.printer.Printf("Downloaded %d %s bars of %s.\n", len(bars), s.settings.Interval, symbol)
	s.logger.Info("bars downloaded", zap.String("symbol", symbol.String()), zap.Int("bars", len(bars)))

	return nil
}

func (s *Session) ListData(ctx context.Context) ([]session.Coverage, error) {
	overview, err := s.db.Overview(ctx)
	if err != nil {
		return nil, err
	}

	listing := make([]session.Coverage, 0, len(overview))
	rows := make([][]string, 0, len(overview))

	for _, o := range overview {
		c := session.Coverage{
			Pair:      o.Symbol + "." + o.Exchange,
			Timeframe: o.Interval.String(),
			Type:      marketType,
			From:      o.Start,
			To:        o.End,
		}

		listing = append(listing, c)
		rows = append(rows, []string{
			c.Pair, c.Timeframe, strconv.Itoa(o.Count),
			c.From.Format(datetimePrintFormat), c.To.Format(datetimePrintFormat),
		})
	}

	s.printer.Printf("Found %d symbol / interval combinations.\n", len(listing))
	s.printer.Table([]string{"Symbol", "Interval", "Bars", "From", "To"}, rows)

	return listing, nil
}

func (s *Session) ListStrategies(_ context.Context) ([]session.StrategyInfo, error) {
	scripts, err := strategy.Scan(s.strategyDir(), s.logger)
	if err != nil {
		return nil, err
	}

	found := make([]session.StrategyInfo, 0, len(scripts))
	rows := make([][]string, 0, len(scripts))

	for _, sc := range scripts {
		found = append(found, session.StrategyInfo{Name: sc.Name, File: sc.File})
		rows = append(rows, []string{sc.Name, filepath.Base(sc.File)})
	}

	s.printer.Table([]string{"Strategy", "Location"}, rows)

	return found, nil
}

// bars loads the stored bars of the configured contract inside the timerange.
func (s *Session) bars(ctx context.Context) ([]marketdata.Bar, error) {
	symbol, err := s.settings.Symbol()
	if err != nil {
		return nil, err
	}

	r, err := s.settings.Range()
	if err != nil {
		return nil, err
	}

	bars, err := s.db.LoadBars(ctx, symbol.Code, symbol.Exchange, s.settings.Timespan(), r)
	if err != nil {
		return nil, err
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no %s bars of %s stored, download data first", s.settings.Interval, symbol)
	}

	return bars, nil
}

// Backtest runs strategy with its declared parameters and saves the statistics and trades.
// ShowBacktest prints them.
func (s *Session) Backtest(ctx context.Context, name string) error {
	script, err := strategy.Find(s.strategyDir(), name, s.logger)
	if err != nil {
		return err
	}

	bars, err := s.bars(ctx)
	if err != nil {
		return err
	}

	result, err := s.engine().Run(ctx, script, nil, bars)
	if err != nil {
		return s.failed(ctx, err, errors.ErrCodeBacktestFailed, "backtest of "+name+" failed")
	}

	if err := engine.SaveStatistics(s.dataDir(), result.Statistics); err != nil {
		return err
	}

	if err := engine.SaveTrades(s.dataDir(), result.Trades); err != nil {
		return err
	}

	s.printer.Printf("Backtest of %s finished with %d trades.\n", name, result.Statistics.TotalTradeCount)

	return nil
}

func (s *Session) ShowBacktest(_ context.Context) error {
	stats, err := engine.LoadStatistics(s.dataDir())
	if err != nil {
		return err
	}

	s.printer.Println()
	s.printStatistics(stats.Rounded())

	return nil
}

// printStatistics prints one "key :  value" line per statistic.
func (s *Session) printStatistics(stats engine.Statistics) {
	v := reflect.ValueOf(stats)
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		key, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		s.printer.Printf("%s :  %v\n", key, v.Field(i).Interface())
	}
}

// failed tags an engine error with code. Cancellation and internal faults pass through.
func (s *Session) failed(ctx context.Context, err error, code errors.ErrorCode, message string) error {
	if ctx.Err() != nil || errors.IsInternal(err) {
		return err
	}

	return errors.Wrap(code, message, err)
}

// Optimize backtests every point of the strategy's optimization space and saves the ranking.
func (s *Session) Optimize(ctx context.Context, name string) error {
	script, err := strategy.Find(s.strategyDir(), name, s.logger)
	if err != nil {
		return err
	}

	bars, err := s.bars(ctx)
	if err != nil {
		return err
	}

	rows, err := s.engine().Optimize(ctx, script, bars)
	if err != nil {
		return s.failed(ctx, err, errors.ErrCodeOptimizationFailed, "optimization of "+name+" failed")
	}

	if err := engine.SaveOptimization(s.dataDir(), rows); err != nil {
		return err
	}

	s.printOptimization(rows)

	return nil
}

func (s *Session) ShowOptimization(_ context.Context) error {
	rows, err := engine.LoadOptimization(s.dataDir())
	if err != nil {
		return err
	}

	s.printOptimization(rows)

	return nil
}

func (s *Session) printOptimization(rows []engine.OptimizationRow) {
	shown := rows
	if len(shown) > optimizationShown {
		shown = shown[:optimizationShown]
	}

	table := make([][]string, 0, len(shown))
	for _, r := range shown {
		table = append(table, []string{
			r.Parameters,
			fmt.Sprint(r.SharpeRatio),
			fmt.Sprint(r.TotalReturn),
			fmt.Sprint(r.MaxDdPercent),
			fmt.Sprint(r.TotalNetPnl),
			strconv.Itoa(r.TotalTradeCount),
		})
	}

	s.printer.Printf("Best %d of %d parameter sets by sharpe_ratio:\n", len(shown), len(rows))
	s.printer.Table([]string{"Parameters", "sharpe_ratio", "total_return", "max_ddpercent", "total_net_pnl", "total_trade_count"}, table)
}

// Validate downloads the configured bars and requires them in the database overview.
func (s *Session) Validate(ctx context.Context) error {
	symbol, err := s.settings.Symbol()
	if err != nil {
		return err
	}

	s.printer.Println("Downloading data and verifying parameters...")

	if err := s.DownloadData(ctx); err != nil {
		if errors.IsInternal(err) || ctx.Err() != nil {
			return err
		}

		return errors.Wrap(errors.ErrCodeProbeFailed, "validity probe download failed", err)
	}

	listing, err := s.ListData(ctx)
	if err != nil {
		return err
	}

	if !session.Covers(listing, []string{symbol.String()}, s.settings.Interval, marketType) {
		s.printer.Printf("%s download failed, please check the parameters.\n", symbol)
		s.logger.Warn("validity probe failed", zap.String("symbol", symbol.String()), zap.String("interval", s.settings.Interval))

		return errors.Newf(errors.ErrCodeProbeFailed, "%s has no %s data", symbol, s.settings.Interval)
	}

	return nil
}

// CanShort is always true, futures contracts are two sided.
func (s *Session) CanShort() bool {
	return true
}

func (s *Session) StrategyFile() string {
	return filepath.Join(s.strategyDir(), "auto_strategy"+strategy.Extension)
}

func (s *Session) StrategyPrompt(description string) string {
	return StrategyPrompt(description, s.CanShort())
}

// CodeLanguage is python, Starlark answers arrive in python fences.
func (s *Session) CodeLanguage() string {
	return "python"
}

var _ session.Session = (*Session)(nil)
