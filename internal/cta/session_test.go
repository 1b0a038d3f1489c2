package cta

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-agent/internal/console"
	"github.com/rxtech-lab/argo-agent/internal/cta/engine"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// fakeSource serves a sine wave of minute bars starting 2023-01-03 09:00 Beijing time.
type fakeSource struct {
	bars    int
	err     error
	symbols []string
}

func (f *fakeSource) Bars(_ context.Context, symbol string, interval marketdata.Timespan) ([]marketdata.Bar, error) {
	f.symbols = append(f.symbols, symbol)
	if f.err != nil {
		return nil, f.err
	}

	start := time.Date(2023, 1, 3, 9, 0, 0, 0, engine.ChinaTime)
	out := make([]marketdata.Bar, 0, f.bars)

	for i := 0; i < f.bars; i++ {
		price := 4000 + 40*math.Sin(float64(i)/8) + float64(i%5)
		out = append(out, marketdata.Bar{
			Symbol:   symbol,
			Interval: interval,
			Time:     start.Add(time.Duration(i) * time.Minute),
			Open:     price - 1,
			High:     price + 3,
			Low:      price - 3,
			Close:    price,
			Volume:   100,
		})
	}

	return out, nil
}

type SessionTestSuite struct {
	suite.Suite
	root    string
	out     *bytes.Buffer
	source  *fakeSource
	session *Session
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (suite *SessionTestSuite) SetupTest() {
	suite.root = suite.T().TempDir()
	suite.out = &bytes.Buffer{}
	suite.source = &fakeSource{bars: 300}

	sess, err := NewFramework(suite.root, suite.source, console.NewPrinter(suite.out), logger.NewNopLogger()).
		Open(context.Background(), DefaultSettings())
	suite.Require().NoError(err)

	suite.session = sess.(*Session)
}

func (suite *SessionTestSuite) TearDownTest() {
	suite.NoError(suite.session.Close())
}

func (suite *SessionTestSuite) TestDownloadAndList() {
	suite.Require().NoError(suite.session.DownloadData(context.Background()))
	suite.Equal([]string{"IF2309"}, suite.source.symbols)
	suite.Contains(suite.out.String(), "Downloaded 300 1m bars of IF2309.CFFEX.")

	listing, err := suite.session.ListData(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(listing, 1)
	suite.Equal("IF2309.CFFEX", listing[0].Pair)
	suite.Equal("1m", listing[0].Timeframe)
	suite.Equal("futures", listing[0].Type)
	suite.Contains(suite.out.String(), "Found 1 symbol / interval combinations.")
}

func (suite *SessionTestSuite) TestDownloadOutsideTimerange() {
	suite.session.settings.Timerange = "20240101-"

	err := suite.session.DownloadData(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeDownloadFailed))
}

func (suite *SessionTestSuite) TestValidatePasses() {
	suite.Require().NoError(suite.session.Validate(context.Background()))
	suite.Contains(suite.out.String(), "Downloading data and verifying parameters...")
}

func (suite *SessionTestSuite) TestValidateFetchFailure() {
	suite.source.err = errors.New(errors.ErrCodeMarketDataFetchFailed, "sina returned 502")

	err := suite.session.Validate(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeProbeFailed))
}

func (suite *SessionTestSuite) TestValidateInternalFault() {
	suite.source.err = errors.New(errors.ErrCodeInternal, "nil source")

	err := suite.session.Validate(context.Background())
	suite.True(errors.IsInternal(err))
	suite.False(errors.HasCode(err, errors.ErrCodeProbeFailed))
}

func (suite *SessionTestSuite) TestValidateOtherIntervalStored() {
	suite.Require().NoError(suite.session.DownloadData(context.Background()))

	suite.source.bars = 0
	suite.session.settings.Interval = "5m"

	err := suite.session.Validate(context.Background())
	suite.True(errors.HasCode(err, errors.ErrCodeProbeFailed))
}

func (suite *SessionTestSuite) TestBacktestBuiltin() {
	suite.Require().NoError(suite.session.DownloadData(context.Background()))
	suite.Require().NoError(suite.session.Backtest(context.Background(), strategy.BuiltinName))

	suite.Contains(suite.out.String(), "Backtest of AtrRsiStrategy finished with ")
	suite.NotContains(suite.out.String(), "total_days")

	_, err := os.Stat(filepath.Join(suite.root, "data", engine.BacktestFile))
	suite.NoError(err)

	_, err = os.Stat(filepath.Join(suite.root, "data", engine.TradesFile))
	suite.NoError(err)

	suite.out.Reset()
	suite.Require().NoError(suite.session.ShowBacktest(context.Background()))
	suite.Contains(suite.out.String(), "start_date :  2023-01-03")
	suite.Contains(suite.out.String(), "total_days :  1")
	suite.Contains(suite.out.String(), "sharpe_ratio :  ")
}

func (suite *SessionTestSuite) TestBacktestWithoutData() {
	err := suite.session.Backtest(context.Background(), strategy.BuiltinName)
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *SessionTestSuite) TestBacktestUnknownStrategy() {
	err := suite.session.Backtest(context.Background(), "Nope")
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyNotFound))
}

func (suite *SessionTestSuite) TestBacktestScriptError() {
	suite.Require().NoError(suite.session.DownloadData(context.Background()))

	path := filepath.Join(suite.root, "strategies", "broken.star")
	suite.Require().NoError(os.WriteFile(path, []byte("def on_bar(ctx, bar):\n    ctx.buy(bar.vwap)\n"), 0o644))

	err := suite.session.Backtest(context.Background(), "Broken")
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestFailed))
}

func (suite *SessionTestSuite) TestShowWithoutResults() {
	suite.True(errors.HasCode(suite.session.ShowBacktest(context.Background()), errors.ErrCodeResultNotFound))
	suite.True(errors.HasCode(suite.session.ShowOptimization(context.Background()), errors.ErrCodeResultNotFound))
}

func (suite *SessionTestSuite) TestOptimizeBuiltin() {
	suite.Require().NoError(suite.session.DownloadData(context.Background()))
	suite.Require().NoError(suite.session.Optimize(context.Background(), strategy.BuiltinName))
	suite.Contains(suite.out.String(), "Best 9 of 9 parameter sets by sharpe_ratio:")

	rows, err := engine.LoadOptimization(filepath.Join(suite.root, "data"))
	suite.Require().NoError(err)
	suite.Len(rows, 9)

	suite.out.Reset()
	suite.Require().NoError(suite.session.ShowOptimization(context.Background()))
	suite.Contains(suite.out.String(), "atr_length")
}

func (suite *SessionTestSuite) TestListStrategies() {
	found, err := suite.session.ListStrategies(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(strategy.BuiltinName, found[0].Name)
	suite.Contains(suite.out.String(), strategy.BuiltinFile)
}

func (suite *SessionTestSuite) TestStrategyGeneration() {
	suite.True(suite.session.CanShort())
	suite.Equal(filepath.Join(suite.root, "strategies", "auto_strategy.star"), suite.session.StrategyFile())
	suite.Equal("python", suite.session.CodeLanguage())
	suite.Contains(suite.session.StrategyPrompt("buy the dip"), "```\nbuy the dip\n```")
}
