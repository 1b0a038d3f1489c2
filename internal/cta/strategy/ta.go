package strategy

import (
	"math"

	starlarkmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/rxtech-lab/argo-agent/internal/indicator"
)

func predeclared() starlark.StringDict {
	return starlark.StringDict{
		"ta":   taModule,
		"math": starlarkmath.Module,
	}
}

var taModule = &starlarkstruct.Module{
	Name: "ta",
	Members: starlark.StringDict{
		"sma":  starlark.NewBuiltin("sma", movingAverage(indicator.SMA)),
		"ema":  starlark.NewBuiltin("ema", movingAverage(indicator.EMA)),
		"rsi":  starlark.NewBuiltin("rsi", movingAverage(indicator.RSI)),
		"atr":  starlark.NewBuiltin("atr", taATR),
		"boll": starlark.NewBuiltin("boll", taBoll),
		"macd": starlark.NewBuiltin("macd", taMACD),
	},
}

// movingAverage adapts a single series indicator to ta.<name>(values, n, series=False).
func movingAverage(fn func([]float64, int) []float64) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			values, n starlark.Value
			series    bool
		)

		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "values", &values, "n", &n, "series?", &series); err != nil {
			return nil, err
		}

		floats, err := toFloats(b.Name(), values)
		if err != nil {
			return nil, err
		}

		period, err := toInt(b.Name(), n)
		if err != nil {
			return nil, err
		}

		return result(fn(floats, period), series), nil
	}
}

func taATR(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		high, low, closes, n starlark.Value
		series               bool
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "high", &high, "low", &low, "close", &closes, "n", &n, "series?", &series); err != nil {
		return nil, err
	}

	h, err := toFloats(b.Name(), high)
	if err != nil {
		return nil, err
	}

	l, err := toFloats(b.Name(), low)
	if err != nil {
		return nil, err
	}

	c, err := toFloats(b.Name(), closes)
	if err != nil {
		return nil, err
	}

	period, err := toInt(b.Name(), n)
	if err != nil {
		return nil, err
	}

	return result(indicator.ATR(h, l, c, period), series), nil
}

// taBoll returns (upper, middle, lower) of the last bar, or None during warm-up.
func taBoll(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		values, n starlark.Value
		width     = starlark.Value(starlark.Float(2))
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "values", &values, "n", &n, "width?", &width); err != nil {
		return nil, err
	}

	floats, err := toFloats(b.Name(), values)
	if err != nil {
		return nil, err
	}

	period, err := toInt(b.Name(), n)
	if err != nil {
		return nil, err
	}

	w, ok := starlark.AsFloat(width)
	if !ok {
		return nil, starlarkError(b.Name(), "width must be a number")
	}

	upper, middle, lower := indicator.BollingerBands(floats, period, w)
	if len(middle) == 0 {
		return starlark.None, nil
	}

	return lastOf(upper, middle, lower), nil
}

// taMACD returns (macd, signal, histogram) of the last bar, or None during warm-up.
func taMACD(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		values             starlark.Value
		fast, slow, signal = 12, 26, 9
	)

	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "values", &values, "fast?", &fast, "slow?", &slow, "signal?", &signal); err != nil {
		return nil, err
	}

	floats, err := toFloats(b.Name(), values)
	if err != nil {
		return nil, err
	}

	line, signalLine, hist := indicator.MACD(floats, fast, slow, signal)
	if len(line) == 0 {
		return starlark.None, nil
	}

	return lastOf(line, signalLine, hist), nil
}

func lastOf(series ...[]float64) starlark.Tuple {
	out := make(starlark.Tuple, len(series))
	for i, s := range series {
		out[i] = starlark.Float(s[len(s)-1])
	}

	return out
}

func result(values []float64, series bool) starlark.Value {
	if len(values) == 0 {
		return starlark.None
	}

	if series {
		return floatList(values)
	}

	return starlark.Float(values[len(values)-1])
}

func floatList(values []float64) *starlark.List {
	elems := make([]starlark.Value, len(values))
	for i, v := range values {
		elems[i] = starlark.Float(v)
	}

	return starlark.NewList(elems)
}

func toFloats(fn string, v starlark.Value) ([]float64, error) {
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, starlarkError(fn, "got "+v.Type()+", want a list of numbers")
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var (
		out []float64
		x   starlark.Value
	)

	for iter.Next(&x) {
		f, ok := starlark.AsFloat(x)
		if !ok {
			return nil, starlarkError(fn, "got "+x.Type()+" in values, want a number")
		}

		out = append(out, f)
	}

	return out, nil
}

// toInt accepts ints and integral floats, since parameters may arrive as either.
func toInt(fn string, v starlark.Value) (int, error) {
	f, ok := starlark.AsFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, starlarkError(fn, "got "+v.String()+", want an integer period")
	}

	return int(f), nil
}
