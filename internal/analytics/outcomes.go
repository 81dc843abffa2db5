package analytics

import (
	"math"
	"sort"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// outcomeStats bundles the per-trade outcome statistics.
type outcomeStats struct {
	wins        int
	losses      int
	winRate     float64 // percent
	profitFact  float64
	expectancy  float64
	avgWin      float64
	avgLoss     float64 // absolute value
	riskReward  float64
	largestWin  float64
	largestLoss float64
	maxWinRun   int
	maxLossRun  int
	kellyPct    float64
	tailRatio   float64
	monthlyWin  float64 // percent
	totalNet    float64
}

// computeOutcomeStats derives every statistic that only depends on the
// per-trade net P&L values. Trades must be in chronological order.
func computeOutcomeStats(trades []domain.Trade) outcomeStats {
	var s outcomeStats
	n := len(trades)
	if n == 0 {
		return s
	}

	grossProfit := 0.0
	grossLoss := 0.0 // absolute
	s.largestWin = math.Inf(-1)
	s.largestLoss = math.Inf(1)

	for i := range trades {
		net := trades[i].NetProfit()
		s.totalNet += net
		switch {
		case net > 0:
			s.wins++
			grossProfit += net
		case net < 0:
			s.losses++
			grossLoss += -net
		}
		if net > s.largestWin {
			s.largestWin = net
		}
		if net < s.largestLoss {
			s.largestLoss = net
		}
	}

	s.winRate = float64(s.wins) / float64(n) * 100
	s.expectancy = s.totalNet / float64(n)

	switch {
	case grossLoss > 0:
		s.profitFact = grossProfit / grossLoss
	case grossProfit > 0:
		s.profitFact = math.Inf(1)
	}

	if s.wins > 0 {
		s.avgWin = grossProfit / float64(s.wins)
	}
	if s.losses > 0 {
		s.avgLoss = grossLoss / float64(s.losses)
	}

	switch {
	case s.losses > 0 && s.wins > 0:
		s.riskReward = s.avgWin / s.avgLoss
	case s.wins > 0:
		s.riskReward = math.Inf(1)
	}

	s.maxWinRun, s.maxLossRun = consecutiveRuns(trades)
	s.kellyPct = kellyPercent(s.wins, s.losses, float64(n), s.avgWin, s.avgLoss)
	s.tailRatio = tailRatio(trades)
	s.monthlyWin = monthlyWinRate(trades)

	return s
}

// consecutiveRuns finds the longest run of strictly positive and strictly
// negative net-P&L trades. A trade of the opposite sign or an exact
// breakeven resets the counter.
func consecutiveRuns(trades []domain.Trade) (maxWins, maxLosses int) {
	winRun := 0
	lossRun := 0
	for i := range trades {
		net := trades[i].NetProfit()
		switch {
		case net > 0:
			winRun++
			lossRun = 0
		case net < 0:
			lossRun++
			winRun = 0
		default:
			winRun = 0
			lossRun = 0
		}
		if winRun > maxWins {
			maxWins = winRun
		}
		if lossRun > maxLosses {
			maxLosses = lossRun
		}
	}
	return maxWins, maxLosses
}

// kellyPercent computes winRate - (1-winRate)/payoffRatio with the win rate
// taken over all trades, clamped to [0, 25] percent. Zero when either side
// of the ledger is empty.
func kellyPercent(wins, losses int, total, avgWin, avgLoss float64) float64 {
	if wins == 0 || losses == 0 || avgLoss == 0 {
		return 0
	}
	winRate := float64(wins) / total
	payoff := avgWin / avgLoss
	kelly := (winRate - (1-winRate)/payoff) * 100
	if kelly < 0 {
		return 0
	}
	if kelly > 25 {
		return 25
	}
	return kelly
}

// tailRatio divides the mean of the top 10% of trades by net P&L (at least
// one trade) by the mean magnitude of the bottom 10%. Requires at least 10
// trades, else 0.
func tailRatio(trades []domain.Trade) float64 {
	n := len(trades)
	if n < 10 {
		return 0
	}

	nets := make([]float64, n)
	for i := range trades {
		nets[i] = trades[i].NetProfit()
	}
	sort.Float64s(nets)

	bucket := n / 10
	if bucket < 1 {
		bucket = 1
	}

	topSum := 0.0
	for _, v := range nets[n-bucket:] {
		topSum += v
	}
	bottomSum := 0.0
	for _, v := range nets[:bucket] {
		bottomSum += math.Abs(v)
	}
	if bottomSum == 0 {
		return 0
	}
	return (topSum / float64(bucket)) / (bottomSum / float64(bucket))
}

// monthlyWinRate averages, across calendar months containing at least one
// trade, that month's percentage of winning trades.
func monthlyWinRate(trades []domain.Trade) float64 {
	type counts struct {
		wins  int
		total int
	}
	months := make(map[string]*counts)
	for i := range trades {
		key := trades[i].SortTime().UTC().Format("2006-01")
		c, ok := months[key]
		if !ok {
			c = &counts{}
			months[key] = c
		}
		c.total++
		if trades[i].NetProfit() > 0 {
			c.wins++
		}
	}
	if len(months) == 0 {
		return 0
	}

	sum := 0.0
	for _, c := range months {
		sum += float64(c.wins) / float64(c.total) * 100
	}
	return sum / float64(len(months))
}
