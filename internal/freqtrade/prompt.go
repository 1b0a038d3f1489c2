package freqtrade

import "strings"

// DefaultStrategyName is the class name generated strategies use.
const DefaultStrategyName = "AutoStrategy"

const strategyCreatePrompt = "\n```\n{describe}\n```\n" +
	"Write a quantitative trading strategy class using Freqtrade according to the above description, with the following requirements:\n" +
	"1. The class inherits `IStrategy` and is named `AutoStrategy`.\n" +
	"2. You need to add the following properties and add optimizable parameter spaces:\n" +
	"- can_short={can_short}\n" +
	"- minimal_roi\n" +
	"- stoploss\n" +
	"- trailing_stop\n" +
	"\n" +
	"3. Implement the following methods:\n" +
	"- populate_indicators: Populate indicators that will be used in the Buy, Sell, Short, Exit_short strategy\n" +
	"- populate_buy_trend: Based on TA indicators, populates the entry signal for the given dataframe\n" +
	"- populate_sell_trend: Based on TA indicators, populates the exit signal for the given dataframe\n" +
	"\n" +
	"4. You can use the following tool packages\n" +
	"- import numpy as np\n" +
	"- from pandas import DataFrame\n" +
	"- import talib.abstract as ta\n" +
	"- from technical.util import resample_to_interval, resampled_merge\n" +
	"- from freqtrade.strategy import (BooleanParameter, CategoricalParameter, DecimalParameter, IStrategy, IntParameter)\n" +
	"\n" +
	"5. Instead of using `Parameter` as the parameter value, use `Parameter.value`\n" +
	"eg:\n" +
	"```\n" +
	"buy_fast_period = IntParameter(5, 20, default=10, space='buy')\n" +
	"dataframe['buy_fast_ma'] = ta.SMA(dataframe['close'], timeperiod=self.buy_fast_period.value\n" +
	"```\n" +
	"\n" +
	"Output format is as follows:\n" +
	"auto_strategy.py\n" +
	"```python\n" +
	"[strategy code]\n" +
	"```\n"

// StrategyPrompt fills the code generation prompt. can_short is rendered as a python literal.
func StrategyPrompt(description string, canShort bool) string {
	literal := "False"
	if canShort {
		literal = "True"
	}

	return strings.NewReplacer("{describe}", description, "{can_short}", literal).Replace(strategyCreatePrompt)
}
