package freqtrade

import (
	"context"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/internal/session"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

const (
	hyperoptEpochs    = 20
	hyperoptLoss      = "SharpeHyperOptLoss"
	hyperoptSpaces    = "default"
	hyperoptMinTrades = 1
)

// Session runs freqtrade subcommands against one user data directory.
type Session struct {
	settings *Settings
	runner   Runner
	printer  *console.Printer
	logger   *logger.Logger
}

func NewSession(settings *Settings, runner Runner, printer *console.Printer, log *logger.Logger) *Session {
	return &Session{settings: settings, runner: runner, printer: printer, logger: log}
}

func (s *Session) Kind() session.Kind {
	return session.KindFreqtrade
}

func (s *Session) Settings() session.Settings {
	return s.settings
}

func (s *Session) configPath() string {
	return ConfigPath(s.settings)
}

func (s *Session) strategyDir() string {
	return filepath.Join(s.settings.UserDataDir, "strategies")
}

func (s *Session) dataDir() string {
	return filepath.Join(s.settings.UserDataDir, "data", s.settings.Exchange)
}

func (s *Session) DownloadData(ctx context.Context) error {
	args := []string{
		"download-data",
		"--config", s.configPath(),
		"--timerange", s.settings.Timerange,
		"--trading-mode", s.settings.TradingMode,
		"--data-format-ohlcv", "json",
		"--pairs",
	}
	args = append(args, s.settings.PairList()...)
	args = append(args, "--timeframes")
	args = append(args, s.settings.Timeframes()...)

	if err := s.runner.Run(ctx, args...); err != nil {
		return errors.Wrap(errors.ErrCodeDownloadFailed, "data download failed", err)
	}

	return nil
}

func (s *Session) ListData(_ context.Context) ([]session.Coverage, error) {
	listing, err := ScanData(s.dataDir(), s.settings.TradingMode, s.settings.PairList())
	if err != nil {
		return nil, err
	}

	s.printer.Printf("Found %d pair / timeframe combinations.\n", len(listing))
	s.printer.Table([]string{"Pair", "Timeframe", "Type", "From", "To"}, CoverageRows(listing))

	return listing, nil
}

func (s *Session) ListStrategies(_ context.Context) ([]session.StrategyInfo, error) {
	found, err := ScanStrategies(s.strategyDir())
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(found))
	for _, st := range found {
		rows = append(rows, []string{st.Name, filepath.Base(st.File)})
	}

	s.printer.Table([]string{"Strategy", "Location"}, rows)

	return found, nil
}

func (s *Session) requireStrategy(name string) error {
	found, err := ScanStrategies(s.strategyDir())
	if err != nil {
		return err
	}

	for _, st := range found {
		if st.Name == name {
			return nil
		}
	}

	return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found in %s", name, s.strategyDir())
}

// Backtest upgrades the strategy to the current interface and backtests it.
func (s *Session) Backtest(ctx context.Context, strategy string) error {
	if err := s.requireStrategy(strategy); err != nil {
		return err
	}

	if err := s.runner.Run(ctx, "strategy-updater", "--config", s.configPath(), "--strategy-list", strategy); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestFailed, "strategy update failed", err)
	}

	if err := s.runner.Run(ctx, "backtesting", "--config", s.configPath(), "--strategy", strategy); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestFailed, "backtesting failed", err)
	}

	return nil
}

func (s *Session) ShowBacktest(ctx context.Context) error {
	if err := s.runner.Run(ctx, "backtesting-show", "--config", s.configPath()); err != nil {
		return errors.Wrap(errors.ErrCodeResultNotFound, "no backtest result to show", err)
	}

	return nil
}

func (s *Session) Optimize(ctx context.Context, strategy string) error {
	if err := s.requireStrategy(strategy); err != nil {
		return err
	}

	err := s.runner.Run(ctx, "hyperopt",
		"--config", s.configPath(),
		"--strategy", strategy,
		"--epochs", strconv.Itoa(hyperoptEpochs),
		"--hyperopt-loss", hyperoptLoss,
		"--spaces", hyperoptSpaces,
		"--min-trades", strconv.Itoa(hyperoptMinTrades),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeOptimizationFailed, "hyperopt failed", err)
	}

	return nil
}

func (s *Session) ShowOptimization(ctx context.Context) error {
	if err := s.runner.Run(ctx, "hyperopt-list", "--config", s.configPath()); err != nil {
		return errors.Wrap(errors.ErrCodeResultNotFound, "no hyperopt result to show", err)
	}

	return nil
}

// Validate downloads the configured data and requires every pair at the main
// timeframe and trading mode.
func (s *Session) Validate(ctx context.Context) error {
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

	s.printer.Println("Downloading data and verifying parameters...")

	for _, pair := range s.settings.PairList() {
		if !session.Covers(listing, []string{pair}, s.settings.Timeframe, s.settings.TradingMode) {
			s.printer.Printf("%s download failed, please check the parameters.\n", pair)
			s.logger.Warn("validity probe failed", zap.String("pair", pair), zap.String("timeframe", s.settings.Timeframe))

			return errors.Newf(errors.ErrCodeProbeFailed, "%s has no %s %s data", pair, s.settings.Timeframe, s.settings.TradingMode)
		}
	}

	return nil
}

func (s *Session) CanShort() bool {
	return s.settings.CanShort()
}

func (s *Session) StrategyFile() string {
	return filepath.Join(s.strategyDir(), "auto_strategy.py")
}

func (s *Session) StrategyPrompt(description string) string {
	return StrategyPrompt(description, s.CanShort())
}

func (s *Session) CodeLanguage() string {
	return "python"
}

var _ session.Session = (*Session)(nil)
