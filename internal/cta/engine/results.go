package engine

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Result files written into the workspace data directory.
const (
	BacktestFile     = "last_backtest.json"
	TradesFile       = "last_trades.csv"
	OptimizationFile = "last_hyperopt.csv"
)

// SaveStatistics writes the rounded statistics as indented json.
func SaveStatistics(dir string, s Statistics) error {
	body, err := json.MarshalIndent(s.Rounded(), "", "    ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to encode statistics", err)
	}

	return writeFile(filepath.Join(dir, BacktestFile), body)
}

// LoadStatistics reads the last saved statistics.
func LoadStatistics(dir string) (Statistics, error) {
	path := filepath.Join(dir, BacktestFile)

	body, err := os.ReadFile(path)
	if err != nil {
		return Statistics{}, errors.Wrapf(errors.ErrCodeResultNotFound, err, "no backtest result at %s", path)
	}

	var s Statistics
	if err := json.Unmarshal(body, &s); err != nil {
		return Statistics{}, errors.Wrapf(errors.ErrCodeResultNotFound, err, "malformed backtest result %s", path)
	}

	return s, nil
}

func SaveTrades(dir string, trades []Trade) error {
	return saveCSV(filepath.Join(dir, TradesFile), &trades)
}

func SaveOptimization(dir string, rows []OptimizationRow) error {
	return saveCSV(filepath.Join(dir, OptimizationFile), &rows)
}

// LoadOptimization reads the last saved optimization ranking.
func LoadOptimization(dir string) ([]OptimizationRow, error) {
	path := filepath.Join(dir, OptimizationFile)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeResultNotFound, err, "no optimization result at %s", path)
	}
	defer f.Close()

	var rows []OptimizationRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeResultNotFound, err, "malformed optimization result %s", path)
	}

	return rows, nil
}

func saveCSV(path string, in any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create %s", filepath.Dir(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create %s", path)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(in, f); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to write %s", path)
	}

	return nil
}

func writeFile(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to create %s", filepath.Dir(path))
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeIOFailed, err, "failed to write %s", path)
	}

	return nil
}
