package marketdata

import (
	"context"
	"regexp"
	"strings"

	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	md "github.com/rxtech-lab/argo-agent/pkg/marketdata"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata/provider"
)

const (
	minuteLayout = "2006-01-02 15:04:05"
	dayLayout    = "2006-01-02"

	// allExchanges selects every exchange in futures_comm_info.
	allExchanges = "所有"
)

var productPattern = regexp.MustCompile(`^[A-Za-z]+`)

// FuturesSource serves domestic futures history and quotes.
type FuturesSource interface {
	Bars(ctx context.Context, symbol string, interval md.Timespan) ([]md.Bar, error)
	DailyBars(ctx context.Context, symbol string) ([]md.Bar, error)
	Quotes(ctx context.Context, codes []string) ([]provider.Quote, error)
}

// StockSource serves US stock aggregates.
type StockSource interface {
	Aggregates(ctx context.Context, ticker string, timespan md.Timespan, r md.Range) ([]md.Bar, error)
}

type minuteArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"Contract code, eg: RB2310, IF2309, or RB0 for the main continuous contract."`
	Period string `json:"period,omitempty" jsonschema:"enum=1,enum=5,enum=15,enum=30,enum=60" jsonschema_description:"Minutes per bar. 1: 1 minute, 5: 5 minutes, 15: 15 minutes, 30: 30 minutes, 60: 60 minutes."`
}

type mainArgs struct {
	Symbol    string `json:"symbol" jsonschema_description:"Main continuous contract code, eg: RB0, IF0."`
	StartDate string `json:"start_date" jsonschema_description:"Start date, eg: 20200306."`
	EndDate   string `json:"end_date" jsonschema_description:"End date, eg: 20200306."`
}

type spotArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"Contract codes separated by , eg: RB2310, IF2309."`
}

type detailArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"Contract code, eg: rb2310 or IF2309.CFFEX."`
}

type commInfoArgs struct {
	Exchange string `json:"exchange" jsonschema_description:"Exchange code or Chinese name, eg: SHFE, 上海期货交易所, or 所有 for every exchange."`
}

type aggregateArgs struct {
	Ticker    string `json:"ticker" jsonschema_description:"Stock ticker, eg: AAPL."`
	Timespan  string `json:"timespan" jsonschema:"enum=1m,enum=5m,enum=15m,enum=30m,enum=1h,enum=4h,enum=1d,enum=1w" jsonschema_description:"Bar width, eg: 1d."`
	StartDate string `json:"start_date" jsonschema_description:"Start date, eg: 20230101."`
	EndDate   string `json:"end_date,omitempty" jsonschema_description:"End date, eg: 20230301. Empty means up to today."`
}

// NewRegistry declares the futures functions, plus us_stock_aggregates when stocks is not nil.
func NewRegistry(futures FuturesSource, stocks StockSource, table *contracts.Table) (*Registry, error) {
	r := newRegistry()
	f := &futuresFunctions{source: futures, table: table}

	err := register(r, "futures_zh_minute_sina", "Minute bars of Chinese futures contracts from Sina.", f.minute)
	if err == nil {
		err = register(r, "futures_main_sina", "Daily bars of the main continuous contract of a Chinese futures product from Sina.", f.main)
	}

	if err == nil {
		err = register(r, "futures_zh_spot", "Realtime quotes of Chinese futures contracts.", f.spot)
	}

	if err == nil {
		err = register(r, "futures_contract_detail", "Contract specification of a Chinese futures contract.", f.detail)
	}

	if err == nil {
		err = register(r, "futures_comm_info", "Commission rates of the contracts listed on a Chinese futures exchange.", f.commission)
	}

	if err == nil && stocks != nil {
		s := &stockFunctions{source: stocks}
		err = register(r, "us_stock_aggregates", "Aggregate bars of a US stock from Polygon.", s.aggregates)
	}

	if err != nil {
		return nil, err
	}

	return r, nil
}

type futuresFunctions struct {
	source FuturesSource
	table  *contracts.Table
}

var sinaPeriods = map[string]md.Timespan{
	"1":  md.TimespanOneMinute,
	"5":  md.TimespanFiveMinutes,
	"15": md.TimespanFifteenMinutes,
	"30": md.TimespanThirtyMinutes,
	"60": md.TimespanOneHour,
}

func (f *futuresFunctions) minute(ctx context.Context, args minuteArgs) (*Table, error) {
	if args.Symbol == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	if args.Period == "" {
		args.Period = "1"
	}

	interval, ok := sinaPeriods[args.Period]
	if !ok {
		return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported period %q", args.Period)
	}

	bars, err := f.source.Bars(ctx, strings.ToUpper(args.Symbol), interval)
	if err != nil {
		return nil, err
	}

	return barTable(bars, minuteLayout), nil
}

func (f *futuresFunctions) main(ctx context.Context, args mainArgs) (*Table, error) {
	if args.Symbol == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	r, err := md.ParseTimerange(args.StartDate + "-" + args.EndDate)
	if err != nil {
		return nil, err
	}

	bars, err := f.source.DailyBars(ctx, strings.ToUpper(args.Symbol))
	if err != nil {
		return nil, err
	}

	return barTable(md.Filter(bars, r), dayLayout), nil
}

func (f *futuresFunctions) spot(ctx context.Context, args spotArgs) (*Table, error) {
	var codes []string

	for _, symbol := range strings.Split(args.Symbol, ",") {
		if symbol = strings.TrimSpace(symbol); symbol == "" {
			continue
		}

		contract, err := f.contract(symbol)
		if err != nil {
			return nil, err
		}

		codes = append(codes, provider.QuoteCode(symbol, contract.Exchange))
	}

	if len(codes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "symbol is required")
	}

	quotes, err := f.source.Quotes(ctx, codes)
	if err != nil {
		return nil, err
	}

	t := &Table{Columns: []string{"symbol", "name", "open", "high", "low", "price", "bid", "ask", "pre_settle", "volume", "hold", "date", "time"}}
	for _, q := range quotes {
		t.Rows = append(t.Rows, []string{
			q.Code, q.Name,
			formatFloat(q.Open), formatFloat(q.High), formatFloat(q.Low), formatFloat(q.Price),
			formatFloat(q.Bid), formatFloat(q.Ask), formatFloat(q.PreSettle),
			formatFloat(q.Volume), formatFloat(q.OpenInterest),
			q.Date, q.Time,
		})
	}

	return t, nil
}

func (f *futuresFunctions) detail(_ context.Context, args detailArgs) (*Table, error) {
	code, _, _ := strings.Cut(strings.TrimSpace(args.Symbol), ".")

	c, err := f.contract(code)
	if err != nil {
		return nil, err
	}

	exchange, _ := f.table.ExchangeByName(c.Exchange)

	return &Table{
		Columns: []string{"item", "value"},
		Rows: [][]string{
			{"symbol", code},
			{"product", c.Product},
			{"name", c.Name},
			{"exchange", c.Exchange},
			{"exchange_name", exchange.Name},
			{"size", formatFloat(c.Size)},
			{"pricetick", formatFloat(c.PriceTick)},
			{"commission_rate", formatFloat(c.CommissionRate)},
		},
	}, nil
}

func (f *futuresFunctions) commission(_ context.Context, args commInfoArgs) (*Table, error) {
	var listed []contracts.Contract

	name := strings.TrimSpace(args.Exchange)
	if name == "" || name == allExchanges || strings.EqualFold(name, "all") {
		listed = f.table.Contracts()
	} else {
		exchange, ok := f.table.ExchangeByName(name)
		if !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidExchange, "unknown exchange %q", args.Exchange)
		}

		listed = f.table.ExchangeContracts(exchange.Code)
	}

	t := &Table{Columns: []string{"exchange", "product", "name", "commission_rate", "size", "pricetick"}}
	for _, c := range listed {
		t.Rows = append(t.Rows, []string{
			c.Exchange, c.Product, c.Name,
			formatFloat(c.CommissionRate), formatFloat(c.Size), formatFloat(c.PriceTick),
		})
	}

	return t, nil
}

// contract finds the product of a contract code such as rb2310 or RB0.
func (f *futuresFunctions) contract(code string) (contracts.Contract, error) {
	product := productPattern.FindString(code)

	c, ok := f.table.Product(product)
	if !ok {
		return contracts.Contract{}, errors.Newf(errors.ErrCodeInvalidSymbol, "unknown futures product in %q", code)
	}

	return c, nil
}

type stockFunctions struct {
	source StockSource
}

func (s *stockFunctions) aggregates(ctx context.Context, args aggregateArgs) (*Table, error) {
	if args.Ticker == "" {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "ticker is required")
	}

	timespan, err := md.ParseTimespan(args.Timespan)
	if err != nil {
		return nil, err
	}

	r, err := md.ParseTimerange(args.StartDate + "-" + args.EndDate)
	if err != nil {
		return nil, err
	}

	bars, err := s.source.Aggregates(ctx, strings.ToUpper(args.Ticker), timespan, r)
	if err != nil {
		return nil, err
	}

	layout := minuteLayout
	if !timespan.Intraday() {
		layout = dayLayout
	}

	return barTable(bars, layout), nil
}
