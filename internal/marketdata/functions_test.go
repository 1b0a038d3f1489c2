package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/llm"
	"github.com/rxtech-lab/argo-agent/mocks"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	md "github.com/rxtech-lab/argo-agent/pkg/marketdata"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

type fakeFutures struct {
	bars     []md.Bar
	err      error
	symbols  []string
	interval md.Timespan
	codes    []string
}

func (f *fakeFutures) Bars(_ context.Context, symbol string, interval md.Timespan) ([]md.Bar, error) {
	f.symbols = append(f.symbols, symbol)
	f.interval = interval

	return f.bars, f.err
}

func (f *fakeFutures) DailyBars(_ context.Context, symbol string) ([]md.Bar, error) {
	f.symbols = append(f.symbols, symbol)

	return f.bars, f.err
}

func (f *fakeFutures) Quotes(_ context.Context, codes []string) ([]provider.Quote, error) {
	f.codes = codes
	if f.err != nil {
		return nil, f.err
	}

	out := make([]provider.Quote, 0, len(codes))
	for _, c := range codes {
		out = append(out, provider.Quote{Code: c, Name: c, Price: 3800, Date: "2023-07-03", Time: "14:59:59"})
	}

	return out, nil
}

type fakeStocks struct {
	ticker   string
	timespan md.Timespan
	r        md.Range
}

func (f *fakeStocks) Aggregates(_ context.Context, ticker string, timespan md.Timespan, r md.Range) ([]md.Bar, error) {
	f.ticker, f.timespan, f.r = ticker, timespan, r

	return []md.Bar{{Symbol: ticker, Time: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Close: 125.07}}, nil
}

type FunctionsTestSuite struct {
	suite.Suite
	futures  *fakeFutures
	stocks   *fakeStocks
	registry *Registry
}

func TestFunctionsSuite(t *testing.T) {
	suite.Run(t, new(FunctionsTestSuite))
}

func (suite *FunctionsTestSuite) SetupTest() {
	config := mocks.DefaultBarConfig()
	config.Count = 5

	suite.futures = &fakeFutures{bars: mocks.NewBarGenerator(1).Generate(config)}
	suite.stocks = &fakeStocks{}

	r, err := NewRegistry(suite.futures, suite.stocks, contracts.Default())
	suite.Require().NoError(err)
	suite.registry = r
}

func (suite *FunctionsTestSuite) call(name, arguments string) (*Table, error) {
	return suite.registry.Call(context.Background(), llm.FunctionCall{Name: name, Arguments: arguments})
}

func (suite *FunctionsTestSuite) TestDeclarations() {
	suite.Equal([]string{
		"futures_zh_minute_sina",
		"futures_main_sina",
		"futures_zh_spot",
		"futures_contract_detail",
		"futures_comm_info",
		"us_stock_aggregates",
	}, suite.registry.Names())

	decls := suite.registry.Declarations()
	suite.Require().Len(decls, 6)
	suite.Contains(string(decls[0].Parameters), `"enum":["1","5","15","30","60"]`)
	suite.Contains(string(decls[1].Parameters), `"required":["symbol","start_date","end_date"]`)

	withoutStocks, err := NewRegistry(suite.futures, nil, contracts.Default())
	suite.Require().NoError(err)
	suite.NotContains(withoutStocks.Names(), "us_stock_aggregates")
}

func (suite *FunctionsTestSuite) TestUnknownFunction() {
	_, err := suite.call("stock_zh_a_hist", `{}`)
	suite.True(errors.HasCode(err, errors.ErrCodeFunctionNotFound))
}

func (suite *FunctionsTestSuite) TestMalformedArguments() {
	_, err := suite.call("futures_zh_minute_sina", `{"symbol": 42}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *FunctionsTestSuite) TestMinuteBars() {
	t, err := suite.call("futures_zh_minute_sina", `{"symbol": "rb2310"}`)
	suite.Require().NoError(err)

	suite.Equal([]string{"RB2310"}, suite.futures.symbols)
	suite.Equal(md.TimespanOneMinute, suite.futures.interval)
	suite.Equal([]string{"datetime", "open", "high", "low", "close", "volume", "hold"}, t.Columns)
	suite.Equal(5, t.Len())
	suite.Equal("2023-01-03 09:30:00", t.Rows[0][0])

	_, err = suite.call("futures_zh_minute_sina", `{"symbol": "rb2310", "period": "60"}`)
	suite.Require().NoError(err)
	suite.Equal(md.TimespanOneHour, suite.futures.interval)

	_, err = suite.call("futures_zh_minute_sina", `{"symbol": "rb2310", "period": "2"}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan))
}

func (suite *FunctionsTestSuite) TestMainContract() {
	config := mocks.DefaultBarConfig()
	config.Interval = md.TimespanOneDay
	config.Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	config.Count = 10
	suite.futures.bars = mocks.NewBarGenerator(2).Generate(config)

	t, err := suite.call("futures_main_sina", `{"symbol": "rb0", "start_date": "20230103", "end_date": "20230105"}`)
	suite.Require().NoError(err)

	suite.Equal([]string{"RB0"}, suite.futures.symbols)
	suite.Require().Equal(3, t.Len())
	suite.Equal("2023-01-03", t.Rows[0][0])
	suite.Equal("2023-01-05", t.Rows[2][0])

	_, err = suite.call("futures_main_sina", `{"symbol": "rb0", "start_date": "2023", "end_date": ""}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimerange))
}

func (suite *FunctionsTestSuite) TestSpotQuotes() {
	t, err := suite.call("futures_zh_spot", `{"symbol": "IF2309, rb2310"}`)
	suite.Require().NoError(err)

	suite.Equal([]string{"CFF_RE_IF2309", "nf_RB2310"}, suite.futures.codes)
	suite.Equal(2, t.Len())
	suite.Equal("3800", t.Rows[0][5])

	_, err = suite.call("futures_zh_spot", `{"symbol": "zz2309"}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidSymbol))

	_, err = suite.call("futures_zh_spot", `{"symbol": " , "}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *FunctionsTestSuite) TestContractDetail() {
	t, err := suite.call("futures_contract_detail", `{"symbol": "IF2309.CFFEX"}`)
	suite.Require().NoError(err)

	rows := map[string]string{}
	for _, row := range t.Rows {
		rows[row[0]] = row[1]
	}

	suite.Equal("IF2309", rows["symbol"])
	suite.Equal("CFFEX", rows["exchange"])
	suite.Equal("中国金融期货交易所", rows["exchange_name"])
	suite.Equal("300", rows["size"])
	suite.Equal("0.2", rows["pricetick"])
}

func (suite *FunctionsTestSuite) TestCommissionInfo() {
	shfe, err := suite.call("futures_comm_info", `{"exchange": "上海期货交易所"}`)
	suite.Require().NoError(err)
	suite.Equal(len(contracts.Default().ExchangeContracts("SHFE")), shfe.Len())

	for _, row := range shfe.Rows {
		suite.Equal("SHFE", row[0])
	}

	all, err := suite.call("futures_comm_info", `{"exchange": "所有"}`)
	suite.Require().NoError(err)
	suite.Equal(len(contracts.Default().Contracts()), all.Len())

	_, err = suite.call("futures_comm_info", `{"exchange": "NYMEX"}`)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidExchange))
}

func (suite *FunctionsTestSuite) TestStockAggregates() {
	t, err := suite.call("us_stock_aggregates", `{"ticker": "aapl", "timespan": "1d", "start_date": "20230101", "end_date": "20230201"}`)
	suite.Require().NoError(err)

	suite.Equal("AAPL", suite.stocks.ticker)
	suite.Equal(md.TimespanOneDay, suite.stocks.timespan)
	suite.True(suite.stocks.r.End.IsSome())
	suite.Equal("2023-01-03", t.Rows[0][0])
	suite.Equal("125.07", t.Rows[0][4])
}
