package strategy

import (
	"context"
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.uber.org/zap"

	"github.com/rxtech-lab/argo-agent/internal/logger"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
	"github.com/rxtech-lab/argo-agent/pkg/marketdata"
)

const (
	barTimeLayout = "2006-01-02 15:04:05"
	maxHistory    = 5000
)

// Action is an order intent. Positions are netted: buy and cover add, sell and short subtract.
type Action string

const (
	ActionBuy   Action = "buy"
	ActionSell  Action = "sell"
	ActionShort Action = "short"
	ActionCover Action = "cover"
)

// Broker fills the orders a running strategy sends.
type Broker interface {
	Send(action Action, volume float64) error
	Position() float64
}

// Trade is a fill reported back to on_trade.
type Trade struct {
	Action Action
	Price  float64
	Volume float64
	Time   string
}

var historyFields = []string{"open", "high", "low", "close", "volume", "open_interest"}

// Instance is one run of a script with fixed parameter values.
type Instance struct {
	script  *Script
	params  map[string]float64
	broker  Broker
	thread  *starlark.Thread
	ctx     *starlarkstruct.Struct
	history map[string][]float64
	bars    int
	logger  *logger.Logger
	release func() bool
}

// Start binds the script to broker and runs on_init then on_start.
// Values in overrides replace declared parameters; unknown names are rejected.
// Cancelling ctx aborts the running callback.
func (s *Script) Start(ctx context.Context, overrides map[string]float64, broker Broker, log *logger.Logger) (*Instance, error) {
	params := make(map[string]float64, len(s.Parameters))
	for name, v := range s.Parameters {
		params[name] = v
	}

	for name, v := range overrides {
		if _, ok := s.Parameters[name]; !ok {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "strategy %s has no parameter %q", s.Name, name)
		}

		params[name] = v
	}

	thread := &starlark.Thread{
		Name: s.Name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Info(msg, zap.String("strategy", s.Name))
		},
	}

	inst := &Instance{
		script:  s,
		params:  params,
		broker:  broker,
		thread:  thread,
		history: make(map[string][]float64, len(historyFields)),
		logger:  log,
	}
	for _, field := range historyFields {
		inst.history[field] = nil
	}

	inst.ctx = inst.newContext()
	inst.release = context.AfterFunc(ctx, func() { thread.Cancel("context cancelled") })

	if err := inst.call("on_init", inst.ctx); err != nil {
		inst.release()

		return nil, err
	}

	if err := inst.call("on_start", inst.ctx); err != nil {
		inst.release()

		return nil, err
	}

	return inst, nil
}

// Params returns the effective parameter values.
func (i *Instance) Params() map[string]float64 {
	return i.params
}

// OnBar records bar into the history arrays and calls on_bar.
func (i *Instance) OnBar(bar marketdata.Bar) error {
	values := []float64{bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.OpenInterest}
	for n, field := range historyFields {
		h := append(i.history[field], values[n])
		if len(h) > 2*maxHistory {
			h = append([]float64(nil), h[len(h)-maxHistory:]...)
		}

		i.history[field] = h
	}

	i.bars++

	return i.call("on_bar", i.ctx, barValue(bar))
}

// OnTrade reports a fill to on_trade.
func (i *Instance) OnTrade(t Trade) error {
	return i.call("on_trade", i.ctx, starlarkstruct.FromStringDict(starlark.String("trade"), starlark.StringDict{
		"action":   starlark.String(t.Action),
		"price":    starlark.Float(t.Price),
		"volume":   starlark.Float(t.Volume),
		"datetime": starlark.String(t.Time),
	}))
}

// Stop runs on_stop and detaches the instance from its context.
func (i *Instance) Stop() error {
	defer i.release()

	return i.call("on_stop", i.ctx)
}

// call invokes a callback when the script defines it.
func (i *Instance) call(name string, args ...starlark.Value) error {
	fn, ok := i.script.globals[name].(starlark.Callable)
	if !ok {
		return nil
	}

	if _, err := starlark.Call(i.thread, fn, args, nil); err != nil {
		msg := err.Error()

		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			msg = evalErr.Backtrace()
		}

		return errors.Newf(errors.ErrCodeStrategyRuntime, "%s.%s failed: %s", i.script.Name, name, msg)
	}

	return nil
}

func barValue(bar marketdata.Bar) *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(starlark.String("bar"), starlark.StringDict{
		"symbol":        starlark.String(bar.Symbol),
		"datetime":      starlark.String(bar.Time.Format(barTimeLayout)),
		"open":          starlark.Float(bar.Open),
		"high":          starlark.Float(bar.High),
		"low":           starlark.Float(bar.Low),
		"close":         starlark.Float(bar.Close),
		"volume":        starlark.Float(bar.Volume),
		"open_interest": starlark.Float(bar.OpenInterest),
	})
}

func (i *Instance) newContext() *starlarkstruct.Struct {
	return starlarkstruct.FromStringDict(starlark.String("ctx"), starlark.StringDict{
		"buy":   starlark.NewBuiltin("buy", i.order(ActionBuy)),
		"sell":  starlark.NewBuiltin("sell", i.order(ActionSell)),
		"short": starlark.NewBuiltin("short", i.order(ActionShort)),
		"cover": starlark.NewBuiltin("cover", i.order(ActionCover)),
		"pos":   starlark.NewBuiltin("pos", i.pos),
		"param": starlark.NewBuiltin("param", i.param),
		"array": starlark.NewBuiltin("array", i.array),
		"log":   starlark.NewBuiltin("log", i.log),
		"state": starlark.NewDict(8),
	})
}

func (i *Instance) order(action Action) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var volume starlark.Value = starlark.MakeInt(1)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "volume?", &volume); err != nil {
			return nil, err
		}

		v, ok := starlark.AsFloat(volume)
		if !ok || v <= 0 {
			return nil, starlarkError(b.Name(), "volume must be a positive number, got "+volume.String())
		}

		if err := i.broker.Send(action, v); err != nil {
			return nil, err
		}

		return starlark.None, nil
	}
}

func (i *Instance) pos(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}

	return starlark.Float(i.broker.Position()), nil
}

// param returns ints for parameters declared as ints so they can be used as periods.
func (i *Instance) param(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name); err != nil {
		return nil, err
	}

	v, ok := i.params[name]
	if !ok {
		return nil, starlarkError(b.Name(), fmt.Sprintf("unknown parameter %q", name))
	}

	if i.script.IsInteger(name) && v == float64(int64(v)) {
		return starlark.MakeInt64(int64(v)), nil
	}

	return starlark.Float(v), nil
}

// array returns the last n values of a bar field, or None until n bars have arrived.
func (i *Instance) array(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		field string
		n     int
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "field", &field, "n", &n); err != nil {
		return nil, err
	}

	h, ok := i.history[field]
	if !ok {
		return nil, starlarkError(b.Name(), fmt.Sprintf("unknown field %q, want one of %v", field, historyFields))
	}

	if n <= 0 || n > maxHistory {
		return nil, starlarkError(b.Name(), fmt.Sprintf("n must be between 1 and %d", maxHistory))
	}

	if len(h) < n {
		return starlark.None, nil
	}

	return floatList(h[len(h)-n:]), nil
}

func (i *Instance) log(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var msg string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "msg", &msg); err != nil {
		return nil, err
	}

	i.logger.Info(msg, zap.String("strategy", i.script.Name), zap.Int("bar", i.bars))

	return starlark.None, nil
}

func starlarkError(fn, msg string) error {
	return fmt.Errorf("%s: %s", fn, msg)
}
