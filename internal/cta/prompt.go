package cta

import "strings"

// DefaultStrategyName is the strategy_name generated scripts declare.
const DefaultStrategyName = "AutoStrategy"

const strategyCreatePrompt = "\n```\n{describe}\n```\n" +
	"Write a CTA futures strategy script in Starlark according to the above description, with the following requirements:\n" +
	"1. Declare `strategy_name = \"" + DefaultStrategyName + "\"`.\n" +
	"2. Declare the tunable parameters and their optimization ranges as globals:\n" +
	"- parameters = {\"fast_window\": 10, \"slow_window\": 20, \"fixed_size\": 1}\n" +
	"- optimization = {\"fast_window\": [5, 20, 5]}  # [start, end, step]\n" +
	"- can_short={can_short}, only open short positions when can_short is True\n" +
	"\n" +
	"3. Implement the following functions:\n" +
	"- on_init(ctx): initialize values kept between bars in the dict `ctx.state`\n" +
	"- on_start(ctx): called once before the first bar\n" +
	"- on_stop(ctx): called once after the last bar\n" +
	"- on_bar(ctx, bar): the trading logic, bar has symbol, datetime, open, high, low, close, volume, open_interest\n" +
	"- on_trade(ctx, trade): called after every fill, trade has action, price, volume, datetime\n" +
	"\n" +
	"4. You can use the following API, there are no imports\n" +
	"- ctx.buy(volume), ctx.sell(volume), ctx.short(volume), ctx.cover(volume): market orders at the bar close\n" +
	"- ctx.pos(): the net position, negative when short\n" +
	"- ctx.param(name): the current value of a declared parameter\n" +
	"- ctx.array(field, n): the last n values of a bar field, None until n bars have arrived\n" +
	"- ctx.log(message)\n" +
	"- ta.sma(values, n), ta.ema(values, n), ta.rsi(values, n), ta.atr(high, low, close, n): pass series=True for the whole series\n" +
	"- ta.boll(values, n, width) returns (upper, middle, lower), ta.macd(values, fast, slow, signal) returns (macd, signal, hist)\n" +
	"- math.sqrt, math.floor and the other functions of the math module\n" +
	"\n" +
	"5. Globals are frozen after loading, keep every mutable value in `ctx.state`\n" +
	"eg:\n" +
	"```\n" +
	"def on_init(ctx):\n" +
	"    ctx.state[\"entry\"] = 0.0\n" +
	"```\n" +
	"\n" +
	"Output format is as follows:\n" +
	"auto_strategy.star\n" +
	"```python\n" +
	"[strategy code]\n" +
	"```\n"

// StrategyPrompt fills the code generation prompt.
func StrategyPrompt(description string, canShort bool) string {
	literal := "False"
	if canShort {
		literal = "True"
	}

	return strings.NewReplacer("{describe}", description, "{can_short}", literal).Replace(strategyCreatePrompt)
}
