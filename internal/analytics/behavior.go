package analytics

import (
	"math"
	"sort"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

const (
	prematureHoldMinutes  = 5
	overheldHoldMinutes   = 24 * 60
	symbolProfitFactorCap = 999
)

// tradingFrequency measures how often the account trades: trades per elapsed
// calendar day (floored at one day), scaled to weeks (x7) and months
// (x30.44), plus the mean gap in hours between one trade's close and the
// next trade's open.
func tradingFrequency(trades []domain.Trade) domain.TradingFrequency {
	var f domain.TradingFrequency
	n := len(trades)
	if n == 0 {
		return f
	}

	span := trades[n-1].SortTime().Sub(trades[0].OpenTime)
	days := span.Hours() / 24
	if days < 1 {
		days = 1
	}
	f.TradesPerDay = float64(n) / days
	f.TradesPerWeek = f.TradesPerDay * 7
	f.TradesPerMonth = f.TradesPerDay * 30.44

	if n > 1 {
		sum := 0.0
		for i := 0; i < n-1; i++ {
			sum += trades[i+1].OpenTime.Sub(trades[i].SortTime()).Hours()
		}
		f.AvgHoursBetweenTrades = sum / float64(n-1)
	}
	return f
}

// timeAnalysis buckets trades by UTC hour of day, weekday, and trading
// session of their open time. Hour buckets report the six best hours by mean
// net P&L; day buckets come back in Monday..Sunday order; sessions cover
// Asian 00-08, European 08-16 and American 16-24 UTC.
func timeAnalysis(trades []domain.Trade) domain.TimeAnalysis {
	var ta domain.TimeAnalysis
	if len(trades) == 0 {
		ta.BestHours = []domain.HourBucket{}
		ta.Days = []domain.DayBucket{}
		ta.Sessions = []domain.SessionBucket{}
		return ta
	}

	type acc struct {
		sum  float64
		wins int
		n    int
	}
	var hours [24]acc
	var days [7]acc
	var sessions [3]acc

	for i := range trades {
		open := trades[i].OpenTime.UTC()
		net := trades[i].NetProfit()

		h := open.Hour()
		hours[h].sum += net
		hours[h].n++

		// Weekday indexed Monday=0 .. Sunday=6.
		d := (int(open.Weekday()) + 6) % 7
		days[d].sum += net
		days[d].n++
		if net > 0 {
			days[d].wins++
		}

		s := h / 8
		sessions[s].sum += net
		sessions[s].n++
		if net > 0 {
			sessions[s].wins++
		}
	}

	var hourBuckets []domain.HourBucket
	for h, a := range hours {
		if a.n == 0 {
			continue
		}
		hourBuckets = append(hourBuckets, domain.HourBucket{
			Hour:      h,
			AvgReturn: a.sum / float64(a.n),
			Trades:    a.n,
		})
	}
	sort.SliceStable(hourBuckets, func(i, j int) bool {
		if hourBuckets[i].AvgReturn != hourBuckets[j].AvgReturn {
			return hourBuckets[i].AvgReturn > hourBuckets[j].AvgReturn
		}
		return hourBuckets[i].Hour < hourBuckets[j].Hour
	})
	if len(hourBuckets) > 6 {
		hourBuckets = hourBuckets[:6]
	}
	ta.BestHours = hourBuckets

	dayNames := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	ta.Days = make([]domain.DayBucket, 0, 7)
	for d, a := range days {
		if a.n == 0 {
			continue
		}
		ta.Days = append(ta.Days, domain.DayBucket{
			Day:       dayNames[d],
			AvgReturn: a.sum / float64(a.n),
			Trades:    a.n,
			WinRate:   float64(a.wins) / float64(a.n) * 100,
		})
	}

	sessionNames := []string{"Asian", "European", "American"}
	ta.Sessions = make([]domain.SessionBucket, 0, 3)
	for s, a := range sessions {
		bucket := domain.SessionBucket{Name: sessionNames[s], Trades: a.n}
		if a.n > 0 {
			bucket.AvgReturn = a.sum / float64(a.n)
			bucket.WinRate = float64(a.wins) / float64(a.n) * 100
		}
		ta.Sessions = append(ta.Sessions, bucket)
	}
	return ta
}

// tradeRisk estimates the money at risk on one trade. With a stop-loss the
// risk is the entry-to-stop distance times size. Without one, a losing trade
// uses its realized loss as the proxy; a winning trade is assigned a
// synthetic 2% of position value. The synthetic figure is a deliberate
// fallback for journals that never recorded stops, not a measurement.
func tradeRisk(t *domain.Trade) float64 {
	if t.StopLoss != nil {
		switch t.Direction {
		case domain.DirectionSell:
			return math.Abs(*t.StopLoss-t.OpenPrice) * t.Size
		default:
			return math.Abs(t.OpenPrice-*t.StopLoss) * t.Size
		}
	}
	if net := t.NetProfit(); net < 0 {
		return -net
	}
	return 0.02 * t.OpenPrice * t.Size
}

// riskManagement expresses each trade's estimated risk as a percent of the
// running balance at that point and buckets it into Low (0-1%), Medium
// (1-3%), High (3-5%) and VeryHigh (5%+), alongside raw position-size
// statistics.
func riskManagement(trades []domain.Trade, initialBalance float64) domain.RiskManagement {
	rm := domain.RiskManagement{Buckets: []domain.RiskBucket{}}
	n := len(trades)
	if n == 0 {
		return rm
	}

	labels := []string{"Low", "Medium", "High", "VeryHigh"}
	type acc struct {
		sum float64
		n   int
	}
	var buckets [4]acc

	balance := initialBalance
	riskSum := 0.0
	sizes := make([]float64, n)

	for i := range trades {
		t := &trades[i]
		sizes[i] = t.Size

		denom := balance
		if denom <= 0 {
			denom = 1
		}
		riskPct := tradeRisk(t) / denom * 100
		riskSum += riskPct

		var at int
		switch {
		case riskPct < 1:
			at = 0
		case riskPct < 3:
			at = 1
		case riskPct < 5:
			at = 2
		default:
			at = 3
		}
		buckets[at].sum += t.NetProfit()
		buckets[at].n++

		balance += t.NetProfit()
	}

	rm.AvgRiskPercent = riskSum / float64(n)
	for i, a := range buckets {
		bucket := domain.RiskBucket{Label: labels[i], Trades: a.n}
		if a.n > 0 {
			bucket.AvgReturn = a.sum / float64(a.n)
		}
		rm.Buckets = append(rm.Buckets, bucket)
	}

	sizeMean := mean(sizes)
	maxSize := 0.0
	for _, s := range sizes {
		if s > maxSize {
			maxSize = s
		}
	}
	rm.Sizing = domain.PositionSizing{
		AvgSize:    sizeMean,
		MaxSize:    maxSize,
		StdDevSize: stddev(sizes, sizeMean),
	}
	return rm
}

// tradeQuality summarizes hold-time discipline from the recorded durations.
// Trades without a duration are skipped from the averages; efficiency is the
// fraction of all trades that are profitable and held within [5min, 24h].
func tradeQuality(trades []domain.Trade) domain.TradeQuality {
	var q domain.TradeQuality
	n := len(trades)
	if n == 0 {
		return q
	}

	sumMinutes := 0.0
	counted := 0
	shortest := math.Inf(1)
	longest := 0.0
	efficient := 0

	for i := range trades {
		t := &trades[i]
		if t.DurationMinutes == nil {
			continue
		}
		minutes := *t.DurationMinutes
		sumMinutes += minutes
		counted++
		if minutes < shortest {
			shortest = minutes
		}
		if minutes > longest {
			longest = minutes
		}
		if minutes < prematureHoldMinutes {
			q.PrematureExits++
		}
		if minutes > overheldHoldMinutes {
			q.OverheldTrades++
		}
		if t.NetProfit() > 0 && minutes >= prematureHoldMinutes && minutes <= overheldHoldMinutes {
			efficient++
		}
	}

	if counted > 0 {
		q.AvgHoldHours = sumMinutes / float64(counted) / 60
		q.ShortestHoldHours = shortest / 60
		q.LongestHoldHours = longest / 60
	}
	q.Efficiency = float64(efficient) / float64(n)
	return q
}

// streakAnalysis tracks win and loss runs chronologically. A streak ends
// only on the opposite-sign outcome; zero-P&L trades neither extend nor
// break it. Recovery time counts trades from the first loss of a streak to
// the win that ends it, inclusive.
func streakAnalysis(trades []domain.Trade) domain.StreakAnalysis {
	sa := domain.StreakAnalysis{Current: domain.Streak{Type: domain.StreakNone}}

	var winRuns, lossRuns []int
	var recoveries []int
	current := domain.StreakNone
	run := 0

	endRun := func() {
		if run == 0 {
			return
		}
		if current == domain.StreakWin {
			winRuns = append(winRuns, run)
			if run > sa.MaxWinStreak {
				sa.MaxWinStreak = run
			}
		} else {
			lossRuns = append(lossRuns, run)
			if run > sa.MaxLossStreak {
				sa.MaxLossStreak = run
			}
		}
	}

	for i := range trades {
		net := trades[i].NetProfit()
		if net == 0 {
			continue
		}
		outcome := domain.StreakWin
		if net < 0 {
			outcome = domain.StreakLoss
		}

		if outcome == current {
			run++
			continue
		}
		if current == domain.StreakLoss && outcome == domain.StreakWin {
			recoveries = append(recoveries, run+1)
		}
		endRun()
		current = outcome
		run = 1
	}
	endRun()

	if current != domain.StreakNone {
		sa.Current = domain.Streak{Type: current, Count: run}
	}

	sa.AvgWinStreak = meanInts(winRuns)
	sa.AvgLossStreak = meanInts(lossRuns)
	sa.AvgRecoveryTime = meanInts(recoveries)
	sa.RecoveredStreaks = len(recoveries)
	return sa
}

func meanInts(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

// classifyCondition labels the market condition a trade was taken in from
// its price movement and hold time: volatile when movement per hour exceeds
// 0.5% or total movement 3%, trending when movement exceeds 0.8% over more
// than two hours, sideways otherwise.
func classifyCondition(t *domain.Trade) string {
	movement := 0.0
	if t.OpenPrice != 0 {
		movement = math.Abs(t.ClosePrice-t.OpenPrice) / math.Abs(t.OpenPrice) * 100
	}

	hours := 0.0
	if t.DurationMinutes != nil {
		hours = *t.DurationMinutes / 60
	}
	perHour := movement
	if hours > 0 {
		perHour = movement / hours
	}

	switch {
	case perHour > 0.5 || movement > 3:
		return "volatile"
	case movement > 0.8 && hours > 2:
		return "trending"
	default:
		return "sideways"
	}
}

// marketConditions reports count, mean return and win rate per classified
// condition, in a fixed volatile/trending/sideways order.
func marketConditions(trades []domain.Trade) []domain.ConditionBucket {
	order := []string{"volatile", "trending", "sideways"}
	type acc struct {
		sum  float64
		wins int
		n    int
	}
	accs := make(map[string]*acc, 3)
	for _, name := range order {
		accs[name] = &acc{}
	}

	for i := range trades {
		a := accs[classifyCondition(&trades[i])]
		net := trades[i].NetProfit()
		a.sum += net
		a.n++
		if net > 0 {
			a.wins++
		}
	}

	buckets := make([]domain.ConditionBucket, 0, 3)
	for _, name := range order {
		a := accs[name]
		bucket := domain.ConditionBucket{Condition: name, Trades: a.n}
		if a.n > 0 {
			bucket.AvgReturn = a.sum / float64(a.n)
			bucket.WinRate = float64(a.wins) / float64(a.n) * 100
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// symbolRollup groups trades by symbol and reports count, total and mean net
// P&L, win rate, mean hold time and a display-capped profit factor per
// symbol, sorted by total return descending.
func symbolRollup(trades []domain.Trade) []domain.SymbolStats {
	type acc struct {
		total       float64
		wins        int
		n           int
		grossProfit float64
		grossLoss   float64
		holdSum     float64
		holdN       int
	}
	accs := make(map[string]*acc)
	var symbols []string

	for i := range trades {
		t := &trades[i]
		a, ok := accs[t.Symbol]
		if !ok {
			a = &acc{}
			accs[t.Symbol] = a
			symbols = append(symbols, t.Symbol)
		}
		net := t.NetProfit()
		a.total += net
		a.n++
		if net > 0 {
			a.wins++
			a.grossProfit += net
		} else if net < 0 {
			a.grossLoss += -net
		}
		if hours, ok := t.HoldHours(); ok {
			a.holdSum += hours
			a.holdN++
		}
	}

	stats := make([]domain.SymbolStats, 0, len(symbols))
	for _, sym := range symbols {
		a := accs[sym]
		s := domain.SymbolStats{
			Symbol:      sym,
			Trades:      a.n,
			TotalReturn: a.total,
			AvgReturn:   a.total / float64(a.n),
			WinRate:     float64(a.wins) / float64(a.n) * 100,
		}
		if a.holdN > 0 {
			s.AvgHoldHours = a.holdSum / float64(a.holdN)
		}
		switch {
		case a.grossLoss > 0:
			s.ProfitFactor = a.grossProfit / a.grossLoss
		case a.grossProfit > 0:
			s.ProfitFactor = symbolProfitFactorCap
		}
		if s.ProfitFactor > symbolProfitFactorCap {
			s.ProfitFactor = symbolProfitFactorCap
		}
		stats = append(stats, s)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalReturn != stats[j].TotalReturn {
			return stats[i].TotalReturn > stats[j].TotalReturn
		}
		return stats[i].Symbol < stats[j].Symbol
	})
	return stats
}

// avgTradeDurationHours is the mean recorded hold time in hours; trades with
// unknown duration are skipped.
func avgTradeDurationHours(trades []domain.Trade) float64 {
	sum := 0.0
	n := 0
	for i := range trades {
		if hours, ok := trades[i].HoldHours(); ok {
			sum += hours
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
