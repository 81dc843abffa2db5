// Package analytics turns an ordered list of closed trades into the full
// trading-performance metrics aggregate: risk/return ratios, drawdown and
// return series, outcome statistics, behavioral analyses and a buy-and-hold
// benchmark comparison.
//
// The engine is a pure function of its inputs: no I/O, no shared state, no
// randomness. Degenerate data never raises an error; every statistic falls
// back to the documented zero, capped or infinite value instead.
package analytics

import (
	"math"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// Compute calculates the full metrics aggregate for the given trades and
// starting balance. Open trades (nil close time) are ignored; the remaining
// trades are copied and sorted chronologically, so the caller's slice is
// never mutated. An empty (or all-open) trade list short-circuits to the
// all-zero Metrics value.
//
// initialBalance is expected to be positive; a non-positive balance is not
// rejected, but every ratio denominator derived from it degrades to the
// documented fallback rather than dividing by zero.
func Compute(trades []domain.Trade, initialBalance float64, opts Options) *domain.Metrics {
	closed := sortedClosed(trades)
	if len(closed) == 0 {
		return emptyMetrics()
	}

	curve := buildEquityCurve(closed, initialBalance)
	finalBalance := curve[len(curve)-1]
	maxDD, ddDuration := maxDrawdown(curve)

	returns := computeReturnStats(closed, initialBalance, finalBalance, maxDD, opts)
	outcomes := computeOutcomeStats(closed)

	m := &domain.Metrics{
		InitialBalance: initialBalance,
		FinalBalance:   finalBalance,
		TotalTrades:    len(closed),

		SharpeRatio:  returns.sharpe,
		SortinoRatio: returns.sortino,
		CalmarRatio:  returns.calmar,

		TotalReturn:      returns.totalReturn * 100,
		AnnualizedReturn: returns.annualReturn * 100,

		MaxDrawdown:         maxDD,
		MaxDrawdownDuration: ddDuration,
		VaR95:               returns.var95 * 100,
		ExpectedShortfall:   returns.shortfall * 100,

		WinRate:          outcomes.winRate,
		ProfitFactor:     outcomes.profitFact,
		AverageRiskRatio: outcomes.riskReward,
		Expectancy:       outcomes.expectancy,
		LargestWin:       outcomes.largestWin,
		LargestLoss:      outcomes.largestLoss,

		MaxConsecutiveWins:   outcomes.maxWinRun,
		MaxConsecutiveLosses: outcomes.maxLossRun,
		RecoveryFactor:       recoveryFactor(outcomes.totalNet, maxDD, curve),
		MonthlyWinRate:       outcomes.monthlyWin,

		TailRatio:    outcomes.tailRatio,
		KellyPercent: outcomes.kellyPct,

		AvgTradeDuration: avgTradeDurationHours(closed),
		AvgDailyReturn:   returns.meanDaily * 100,

		MonthlyReturns:  monthlySeries(closed, initialBalance),
		RollingDrawdown: rollingDrawdown(closed, curve),

		Benchmark:        compareBenchmark(closed, initialBalance, opts),
		Frequency:        tradingFrequency(closed),
		TimeAnalysis:     timeAnalysis(closed),
		RiskManagement:   riskManagement(closed, initialBalance),
		TradeQuality:     tradeQuality(closed),
		Streaks:          streakAnalysis(closed),
		MarketConditions: marketConditions(closed),
		SymbolStats:      symbolRollup(closed),
	}
	return m
}

// recoveryFactor divides the total net profit by the worst absolute equity
// decline. Zero when there was no drawdown or no profit to measure against.
func recoveryFactor(totalNet, maxDDPct float64, curve []float64) float64 {
	if maxDDPct == 0 {
		return 0
	}
	peak := curve[0]
	worstDecline := 0.0
	for _, equity := range curve[1:] {
		if equity > peak {
			peak = equity
			continue
		}
		if decline := peak - equity; decline > worstDecline {
			worstDecline = decline
		}
	}
	if worstDecline == 0 {
		return 0
	}
	return totalNet / worstDecline
}

// emptyMetrics is the well-defined result for an empty trade list: every
// numeric field zero regardless of the supplied balance, every list empty,
// the current streak none. Returning it up front avoids every
// division-by-zero path in the passes.
func emptyMetrics() *domain.Metrics {
	return &domain.Metrics{
		MonthlyReturns:  []domain.MonthlyPoint{},
		RollingDrawdown: []domain.DrawdownPoint{},
		TimeAnalysis: domain.TimeAnalysis{
			BestHours: []domain.HourBucket{},
			Days:      []domain.DayBucket{},
			Sessions:  []domain.SessionBucket{},
		},
		RiskManagement:   domain.RiskManagement{Buckets: []domain.RiskBucket{}},
		Streaks:          domain.StreakAnalysis{Current: domain.Streak{Type: domain.StreakNone}},
		MarketConditions: []domain.ConditionBucket{},
		SymbolStats:      []domain.SymbolStats{},
	}
}

// IsFinitePercent reports whether v is a plain finite percentage, which the
// presentation layer uses to decide between a number and an "∞" badge for
// fields like profit factor.
func IsFinitePercent(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
