package engine

import "math"

// Statistics summarizes a backtest. Amounts are in account currency, returns and
// drawdown percentages are in percent.
type Statistics struct {
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
	TotalDays           int     `json:"total_days"`
	ProfitDays          int     `json:"profit_days"`
	LossDays            int     `json:"loss_days"`
	Capital             float64 `json:"capital"`
	EndBalance          float64 `json:"end_balance"`
	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDdPercent        float64 `json:"max_ddpercent"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration"`
	TotalNetPnl         float64 `json:"total_net_pnl"`
	DailyNetPnl         float64 `json:"daily_net_pnl"`
	TotalCommission     float64 `json:"total_commission"`
	DailyCommission     float64 `json:"daily_commission"`
	TotalSlippage       float64 `json:"total_slippage"`
	DailySlippage       float64 `json:"daily_slippage"`
	TotalTurnover       float64 `json:"total_turnover"`
	DailyTurnover       float64 `json:"daily_turnover"`
	TotalTradeCount     int     `json:"total_trade_count"`
	DailyTradeCount     float64 `json:"daily_trade_count"`
	TotalReturn         float64 `json:"total_return"`
	AnnualReturn        float64 `json:"annual_return"`
	DailyReturn         float64 `json:"daily_return"`
	ReturnStd           float64 `json:"return_std"`
	SharpeRatio         float64 `json:"sharpe_ratio"`
	ReturnDrawdownRatio float64 `json:"return_drawdown_ratio"`
}

// Calculate derives statistics from daily results. An account whose balance drops
// to zero or below reports only its dates, capital and end balance.
func Calculate(daily []DailyResult, capital float64, annualDays int) Statistics {
	s := Statistics{Capital: capital, EndBalance: capital}
	if len(daily) == 0 {
		return s
	}

	s.StartDate = daily[0].Date.Format(dateLayout)
	s.EndDate = daily[len(daily)-1].Date.Format(dateLayout)
	s.TotalDays = len(daily)

	balance := capital
	highLevel := capital
	peakDay := 0
	returns := make([]float64, 0, len(daily))

	for i, d := range daily {
		prev := balance
		balance += d.NetPnl

		if balance <= 0 {
			return Statistics{
				StartDate:  s.StartDate,
				EndDate:    s.EndDate,
				TotalDays:  s.TotalDays,
				Capital:    capital,
				EndBalance: balance,
			}
		}

		returns = append(returns, math.Log(balance/prev))

		if balance > highLevel {
			highLevel = balance
			peakDay = i
		}

		drawdown := balance - highLevel
		ddPercent := drawdown / highLevel * 100

		if drawdown < s.MaxDrawdown {
			s.MaxDrawdown = drawdown
			s.MaxDrawdownDuration = int(d.Date.Sub(daily[peakDay].Date).Hours() / 24)
		}

		s.MaxDdPercent = math.Min(s.MaxDdPercent, ddPercent)

		switch {
		case d.NetPnl > 0:
			s.ProfitDays++
		case d.NetPnl < 0:
			s.LossDays++
		}

		s.TotalNetPnl += d.NetPnl
		s.TotalCommission += d.Commission
		s.TotalSlippage += d.Slippage
		s.TotalTurnover += d.Turnover
		s.TotalTradeCount += d.TradeCount
	}

	days := float64(s.TotalDays)

	s.EndBalance = balance
	s.DailyNetPnl = s.TotalNetPnl / days
	s.DailyCommission = s.TotalCommission / days
	s.DailySlippage = s.TotalSlippage / days
	s.DailyTurnover = s.TotalTurnover / days
	s.DailyTradeCount = float64(s.TotalTradeCount) / days
	s.TotalReturn = (balance/capital - 1) * 100
	s.AnnualReturn = s.TotalReturn / days * float64(annualDays)

	mean, std := meanStd(returns)
	s.DailyReturn = mean * 100
	s.ReturnStd = std * 100

	if s.ReturnStd != 0 {
		s.SharpeRatio = s.DailyReturn / s.ReturnStd * math.Sqrt(float64(annualDays))
	}

	if s.MaxDdPercent != 0 {
		s.ReturnDrawdownRatio = -s.TotalReturn / s.MaxDdPercent
	}

	return s
}

// meanStd returns the mean and the sample standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}

	squares := 0.0
	for _, v := range values {
		squares += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(squares / float64(len(values)-1))
}

// Rounded returns the statistics with every amount rounded to six decimals.
func (s Statistics) Rounded() Statistics {
	r := func(v float64) float64 {
		return math.Round(v*1e6) / 1e6
	}

	s.Capital = r(s.Capital)
	s.EndBalance = r(s.EndBalance)
	s.MaxDrawdown = r(s.MaxDrawdown)
	s.MaxDdPercent = r(s.MaxDdPercent)
	s.TotalNetPnl = r(s.TotalNetPnl)
	s.DailyNetPnl = r(s.DailyNetPnl)
	s.TotalCommission = r(s.TotalCommission)
	s.DailyCommission = r(s.DailyCommission)
	s.TotalSlippage = r(s.TotalSlippage)
	s.DailySlippage = r(s.DailySlippage)
	s.TotalTurnover = r(s.TotalTurnover)
	s.DailyTurnover = r(s.DailyTurnover)
	s.DailyTradeCount = r(s.DailyTradeCount)
	s.TotalReturn = r(s.TotalReturn)
	s.AnnualReturn = r(s.AnnualReturn)
	s.DailyReturn = r(s.DailyReturn)
	s.ReturnStd = r(s.ReturnStd)
	s.SharpeRatio = r(s.SharpeRatio)
	s.ReturnDrawdownRatio = r(s.ReturnDrawdownRatio)

	return s
}
