// Package engine backtests Starlark strategies over stored bars.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/cta/contracts"
	"github.com/rxtech-lab/argo-agent/internal/cta/strategy"
	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

// DefaultCapital is the starting balance of every backtest.
const DefaultCapital = 1_000_000

// ChinaTime is the exchange clock trading days are counted in.
var ChinaTime = time.FixedZone("CST", 8*3600)

// Config holds the contract terms a backtest trades under.
type Config struct {
	VtSymbol string
	Interval marketdata.Timespan
	// Size is the contract multiplier.
	Size float64
	// PriceTick doubles as the per-unit slippage.
	PriceTick float64
	// Rate is the commission charged on turnover, per side.
	Rate       float64
	Capital    float64
	AnnualDays int
	Location   *time.Location
}

// NewConfig fills a config from the contract specification.
func NewConfig(vtSymbol string, interval marketdata.Timespan, c contracts.Contract) Config {
	return Config{
		VtSymbol:   vtSymbol,
		Interval:   interval,
		Size:       c.Size,
		PriceTick:  c.PriceTick,
		Rate:       c.CommissionRate,
		Capital:    DefaultCapital,
		AnnualDays: 240,
		Location:   ChinaTime,
	}
}

// Trade is one fill of the simulated market.
type Trade struct {
	ID         string          `json:"trade_id" csv:"trade_id"`
	RunID      string          `json:"run_id" csv:"run_id"`
	Time       time.Time       `json:"datetime" csv:"datetime"`
	Action     strategy.Action `json:"action" csv:"action"`
	Price      float64         `json:"price" csv:"price"`
	Volume     float64         `json:"volume" csv:"volume"`
	Commission float64         `json:"commission" csv:"commission"`
	Slippage   float64         `json:"slippage" csv:"slippage"`
}

// PositionChange is the signed effect of the trade on the net position.
func (t Trade) PositionChange() float64 {
	if t.Action == strategy.ActionBuy || t.Action == strategy.ActionCover {
		return t.Volume
	}

	return -t.Volume
}

// Result is the outcome of one backtest run.
type Result struct {
	RunID      string
	Strategy   string
	Params     map[string]float64
	Trades     []Trade
	Daily      []DailyResult
	Statistics Statistics
}

// Engine runs backtests for one contract.
type Engine struct {
	cfg      Config
	logger   *logger.Logger
	progress io.Writer
}

type Option func(*Engine)

// WithProgress renders a progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progress = w
	}
}

func New(cfg Config, log *logger.Logger, opts ...Option) *Engine {
	if cfg.Location == nil {
		cfg.Location = ChinaTime
	}

	if cfg.AnnualDays <= 0 {
		cfg.AnnualDays = 240
	}

	if cfg.Capital <= 0 {
		cfg.Capital = DefaultCapital
	}

	e := &Engine{cfg: cfg, logger: log, progress: io.Discard}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Engine) Config() Config {
	return e.cfg
}

// Run feeds bars through the script and settles the fills day by day.
func (e *Engine) Run(ctx context.Context, script *strategy.Script, params map[string]float64, bars []marketdata.Bar) (*Result, error) {
	return e.run(ctx, script, params, bars, true)
}

func (e *Engine) run(ctx context.Context, script *strategy.Script, params map[string]float64, bars []marketdata.Bar, showProgress bool) (*Result, error) {
	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no %s bars of %s to backtest", e.cfg.Interval, e.cfg.VtSymbol)
	}

	runID := uuid.New().String()
	market := &market{cfg: e.cfg, runID: runID, logger: e.logger}

	inst, err := script.Start(ctx, params, market, e.logger)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(bars),
			progressbar.OptionSetWriter(e.progress),
			progressbar.OptionSetDescription("Backtesting "+script.Name),
			progressbar.OptionShowCount(),
		)
	}

	for _, b := range bars {
		if err := ctx.Err(); err != nil {
			inst.Stop()

			return nil, err
		}

		market.current = b
		pending := len(market.trades)

		if err := inst.OnBar(b); err != nil {
			inst.Stop()

			return nil, e.abort(ctx, err)
		}

		for _, t := range market.trades[pending:] {
			fill := strategy.Trade{Action: t.Action, Price: t.Price, Volume: t.Volume, Time: t.Time.In(e.cfg.Location).Format("2006-01-02 15:04:05")}
			if err := inst.OnTrade(fill); err != nil {
				inst.Stop()

				return nil, e.abort(ctx, err)
			}
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if err := inst.Stop(); err != nil {
		return nil, e.abort(ctx, err)
	}

	if bar != nil {
		bar.Finish()
	}

	daily := e.settle(bars, market.trades)

	e.logger.Debug("backtest finished",
		zap.String("run", runID),
		zap.String("strategy", script.Name),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(market.trades)))

	return &Result{
		RunID:      runID,
		Strategy:   script.Name,
		Params:     inst.Params(),
		Trades:     market.trades,
		Daily:      daily,
		Statistics: Calculate(daily, e.cfg.Capital, e.cfg.AnnualDays),
	}, nil
}

// abort prefers the context error when a callback was cancelled.
func (e *Engine) abort(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return err
}

// market fills strategy orders at the current close, one tick against the trader.
type market struct {
	cfg     Config
	runID   string
	current marketdata.Bar
	pos     float64
	trades  []Trade
	logger  *logger.Logger
}

func (m *market) Position() float64 {
	return m.pos
}

func (m *market) Send(action strategy.Action, volume float64) error {
	price := m.current.Close

	switch action {
	case strategy.ActionBuy:
		price += m.cfg.PriceTick
	case strategy.ActionCover:
		volume = min(volume, max(-m.pos, 0))
		price += m.cfg.PriceTick
	case strategy.ActionSell:
		volume = min(volume, max(m.pos, 0))
		price -= m.cfg.PriceTick
	case strategy.ActionShort:
		price -= m.cfg.PriceTick
	default:
		return errors.Newf(errors.ErrCodeInternal, "unknown order action %q", action)
	}

	if volume <= 0 {
		m.logger.Debug("order ignored, nothing to close", zap.String("action", string(action)), zap.Time("time", m.current.Time))

		return nil
	}

	t := Trade{
		ID:       uuid.New().String(),
		RunID:    m.runID,
		Time:     m.current.Time,
		Action:   action,
		Price:    price,
		Volume:   volume,
		Slippage: volume * m.cfg.Size * m.cfg.PriceTick,
	}
	t.Commission = t.Volume * m.cfg.Size * t.Price * m.cfg.Rate

	m.pos += t.PositionChange()
	m.trades = append(m.trades, t)

	return nil
}

var _ strategy.Broker = (*market)(nil)
