package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// sortedClosed returns the closed trades in chronological order by close
// time (open time when close is missing), without mutating the input.
func sortedClosed(trades []domain.Trade) []domain.Trade {
	closed := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.IsClosed() {
			closed = append(closed, t)
		}
	}
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].SortTime().Before(closed[j].SortTime())
	})
	return closed
}

// buildEquityCurve produces the running-balance sequence: one point for the
// initial balance plus one per trade, each advancing by the trade's net P&L.
func buildEquityCurve(trades []domain.Trade, initialBalance float64) []float64 {
	curve := make([]float64, 0, len(trades)+1)
	curve = append(curve, initialBalance)
	balance := initialBalance
	for i := range trades {
		balance += trades[i].NetProfit()
		curve = append(curve, balance)
	}
	return curve
}

// maxDrawdown walks the equity curve tracking the running peak and returns
// the worst decline as a signed negative percent, together with the longest
// run of consecutive points without a new equity peak. Recovering to exactly
// the prior peak does not end the run; only a strictly higher point does. An
// open-ended drawdown at the end of the curve still counts up to the last
// point. Curves with fewer than two points have no drawdown.
func maxDrawdown(curve []float64) (float64, int) {
	if len(curve) < 2 {
		return 0, 0
	}

	peak := curve[0]
	worst := 0.0
	run := 0
	longest := 0

	for _, equity := range curve[1:] {
		if equity > peak {
			peak = equity
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
		if peak > 0 {
			dd := (peak - equity) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}

	return -worst, longest
}

// rollingDrawdown returns the drawdown from the running peak at every equity
// point. Point zero carries the first trade's open time; every other point
// carries its trade's chronological time.
func rollingDrawdown(trades []domain.Trade, curve []float64) []domain.DrawdownPoint {
	points := make([]domain.DrawdownPoint, 0, len(curve))
	if len(curve) == 0 {
		return points
	}

	peak := curve[0]
	for i, equity := range curve {
		if equity > peak {
			peak = equity
		}
		dd := 0.0
		if peak > 0 && equity < peak {
			dd = -(peak - equity) / peak * 100
		}
		p := domain.DrawdownPoint{Equity: equity, Drawdown: dd}
		if i == 0 {
			p.Time = trades[0].OpenTime
		} else {
			p.Time = trades[i-1].SortTime()
		}
		points = append(points, p)
	}
	return points
}

// monthlySeries rolls the trade list up into calendar months: per-month
// return against the balance at month start, worst intra-month drawdown,
// win rate, and trade count.
func monthlySeries(trades []domain.Trade, initialBalance float64) []domain.MonthlyPoint {
	if len(trades) == 0 {
		return []domain.MonthlyPoint{}
	}

	type monthAcc struct {
		startBalance float64
		balance      float64
		peak         float64
		worstDD      float64
		wins         int
		trades       int
	}

	var keys []string
	months := make(map[string]*monthAcc)
	balance := initialBalance

	for i := range trades {
		ts := trades[i].SortTime().UTC()
		key := fmt.Sprintf("%04d-%02d", ts.Year(), int(ts.Month()))
		acc, ok := months[key]
		if !ok {
			acc = &monthAcc{startBalance: balance, balance: balance, peak: balance}
			months[key] = acc
			keys = append(keys, key)
		}

		net := trades[i].NetProfit()
		acc.balance += net
		balance += net
		acc.trades++
		if net > 0 {
			acc.wins++
		}
		if acc.balance > acc.peak {
			acc.peak = acc.balance
		} else if acc.peak > 0 {
			dd := (acc.peak - acc.balance) / acc.peak * 100
			if dd > acc.worstDD {
				acc.worstDD = dd
			}
		}
	}

	sort.Strings(keys)
	series := make([]domain.MonthlyPoint, 0, len(keys))
	for _, key := range keys {
		acc := months[key]
		ret := 0.0
		if acc.startBalance != 0 {
			ret = (acc.balance - acc.startBalance) / math.Abs(acc.startBalance) * 100
		}
		winRate := 0.0
		if acc.trades > 0 {
			winRate = float64(acc.wins) / float64(acc.trades) * 100
		}
		series = append(series, domain.MonthlyPoint{
			Month:    key,
			Return:   ret,
			Drawdown: -acc.worstDD,
			WinRate:  winRate,
			Trades:   acc.trades,
		})
	}
	return series
}
