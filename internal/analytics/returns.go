package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// tradingDaysPerYear scales daily volatility when the unit-consistent ratio
// variant is requested.
const tradingDaysPerYear = 252

// dailyReturns groups trades by UTC calendar day of their chronological
// time, sums net P&L per day, and converts each day's P&L to a decimal
// return against the running balance just before that day. One value per
// distinct trading day, chronological order.
func dailyReturns(trades []domain.Trade, initialBalance float64) []float64 {
	if len(trades) == 0 {
		return nil
	}

	type day struct {
		key string
		pnl float64
	}
	var days []day
	index := make(map[string]int)

	for i := range trades {
		key := trades[i].SortTime().UTC().Format("2006-01-02")
		if at, ok := index[key]; ok {
			days[at].pnl += trades[i].NetProfit()
			continue
		}
		index[key] = len(days)
		days = append(days, day{key: key, pnl: trades[i].NetProfit()})
	}

	returns := make([]float64, 0, len(days))
	balance := initialBalance
	for _, d := range days {
		denom := balance
		if denom <= 0 {
			// Balance wiped out or invalid; fall back to a unit denominator
			// so the series stays finite.
			denom = 1
		}
		returns = append(returns, d.pnl/denom)
		balance += d.pnl
	}
	return returns
}

// mean is the arithmetic mean; zero for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation (no Bessel correction).
func stddev(xs []float64, m float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// downsideDeviation is the deviation about zero computed only over the
// negative returns. Zero when no day lost money.
func downsideDeviation(xs []float64) float64 {
	sumSq := 0.0
	count := 0
	for _, x := range xs {
		if x < 0 {
			sumSq += x * x
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(count))
}

// valueAtRisk returns the daily VaR-95 and Expected Shortfall as decimals.
// VaR-95 is the value at the floor(0.05*n) index of the ascending-sorted
// returns; Expected Shortfall is the mean of all returns at or below it.
func valueAtRisk(returns []float64) (var95, shortfall float64) {
	n := len(returns)
	if n == 0 {
		return 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, returns)
	sort.Float64s(sorted)

	idx := int(math.Floor(0.05 * float64(n)))
	if idx >= n {
		idx = n - 1
	}
	var95 = sorted[idx]

	sum := 0.0
	count := 0
	for _, r := range sorted {
		if r <= var95 {
			sum += r
			count++
		}
	}
	if count > 0 {
		shortfall = sum / float64(count)
	}
	return var95, shortfall
}

// yearsBetween measures the elapsed span in 365.25-day years. A span under
// one day is too short to annualize and reports zero.
func yearsBetween(start, end time.Time) float64 {
	span := end.Sub(start)
	if span < 24*time.Hour {
		return 0
	}
	return span.Hours() / (24 * 365.25)
}

// annualizedReturn compounds the total growth over the elapsed years:
// (final/initial)^(1/years) - 1, as a decimal. When the growth ratio is not
// positive, or the span was too short to annualize (zero years), the compound
// formula is undefined and the raw total return is returned instead.
func annualizedReturn(initialBalance, finalBalance, years float64) float64 {
	totalReturn := 0.0
	if initialBalance != 0 {
		totalReturn = (finalBalance - initialBalance) / math.Abs(initialBalance)
	}
	if initialBalance <= 0 || finalBalance <= 0 || years <= 0 {
		return totalReturn
	}
	return math.Pow(finalBalance/initialBalance, 1/years) - 1
}

// returnStats bundles the per-run return statistics.
type returnStats struct {
	daily        []float64
	meanDaily    float64
	stdDaily     float64
	downsideDev  float64
	var95        float64
	shortfall    float64
	totalReturn  float64 // decimal
	annualReturn float64 // decimal
	sharpe       float64
	sortino      float64
	calmar       float64
}

// computeReturnStats derives the daily return series and every statistic
// built on it. maxDD is the signed negative drawdown percent from the equity
// pass.
//
// Sharpe and Sortino intentionally divide the annualized excess return by
// the raw daily-return deviation: that mixed convention is the established
// contract of the system. Options.AnnualizedRatios enables the
// unit-consistent variant, which scales the denominator by sqrt(252).
func computeReturnStats(trades []domain.Trade, initialBalance, finalBalance, maxDD float64, opts Options) returnStats {
	s := returnStats{daily: dailyReturns(trades, initialBalance)}

	s.meanDaily = mean(s.daily)
	s.stdDaily = stddev(s.daily, s.meanDaily)
	s.downsideDev = downsideDeviation(s.daily)
	s.var95, s.shortfall = valueAtRisk(s.daily)

	if initialBalance != 0 {
		s.totalReturn = (finalBalance - initialBalance) / math.Abs(initialBalance)
	}

	years := yearsBetween(trades[0].OpenTime, trades[len(trades)-1].SortTime())
	s.annualReturn = annualizedReturn(initialBalance, finalBalance, years)

	excess := s.annualReturn - opts.RiskFreeRate

	volDenom := s.stdDaily
	downDenom := s.downsideDev
	if opts.AnnualizedRatios {
		volDenom *= math.Sqrt(tradingDaysPerYear)
		downDenom *= math.Sqrt(tradingDaysPerYear)
	}
	if volDenom > 0 {
		s.sharpe = excess / volDenom
	}
	if downDenom > 0 {
		s.sortino = excess / downDenom
	}

	ddDecimal := math.Abs(maxDD) / 100
	if ddDecimal == 0 {
		ddDecimal = 0.0001
	}
	s.calmar = s.annualReturn / ddDecimal

	return s
}
