package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// Helper to create a closed trade with a given net P&L carried in Profit.
func makeTrade(id string, net float64, openAt, closeAt time.Time) domain.Trade {
	duration := closeAt.Sub(openAt).Minutes()
	return domain.Trade{
		ID:              id,
		Symbol:          "EURUSD",
		Direction:       domain.DirectionBuy,
		Size:            1,
		OpenPrice:       1.10,
		ClosePrice:      1.10,
		OpenTime:        openAt,
		CloseTime:       &closeAt,
		Profit:          net,
		DurationMinutes: &duration,
	}
}

func at(day int, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestCompute_EmptyInput(t *testing.T) {
	m := Compute(nil, 10000, DefaultOptions())

	if m.InitialBalance != 0 || m.FinalBalance != 0 || m.TotalTrades != 0 {
		t.Fatalf("expected zeroed balances, got initial=%v final=%v trades=%d",
			m.InitialBalance, m.FinalBalance, m.TotalTrades)
	}
	if m.SharpeRatio != 0 || m.MaxDrawdown != 0 || m.WinRate != 0 || m.KellyPercent != 0 {
		t.Fatal("expected zeroed statistics for empty input")
	}
	if m.MonthlyReturns == nil || len(m.MonthlyReturns) != 0 {
		t.Fatal("expected empty monthly returns slice")
	}
	if m.RollingDrawdown == nil || len(m.RollingDrawdown) != 0 {
		t.Fatal("expected empty rolling drawdown slice")
	}
	if m.Streaks.Current.Type != domain.StreakNone || m.Streaks.Current.Count != 0 {
		t.Fatalf("expected none current streak, got %+v", m.Streaks.Current)
	}
}

func TestCompute_OpenTradesIgnored(t *testing.T) {
	open := domain.Trade{
		ID:        "open1",
		Symbol:    "EURUSD",
		Direction: domain.DirectionBuy,
		OpenTime:  at(1, 10),
		Profit:    500,
	}

	m := Compute([]domain.Trade{open}, 10000, DefaultOptions())
	if m.TotalTrades != 0 {
		t.Fatalf("expected open trade to be excluded, got %d trades", m.TotalTrades)
	}
}

func TestCompute_SingleWinningTrade(t *testing.T) {
	trades := []domain.Trade{makeTrade("t1", 100, at(1, 10), at(1, 12))}

	m := Compute(trades, 1000, DefaultOptions())

	if m.TotalTrades != 1 {
		t.Fatalf("TotalTrades = %d, want 1", m.TotalTrades)
	}
	if m.FinalBalance != 1100 {
		t.Fatalf("FinalBalance = %v, want 1100", m.FinalBalance)
	}
	if math.Abs(m.TotalReturn-10) > 0.0001 {
		t.Fatalf("TotalReturn = %v, want 10", m.TotalReturn)
	}
	if m.WinRate != 100 {
		t.Fatalf("WinRate = %v, want 100", m.WinRate)
	}
	if m.MaxDrawdown != 0 {
		t.Fatalf("MaxDrawdown = %v, want 0", m.MaxDrawdown)
	}
	if !math.IsInf(m.ProfitFactor, 1) {
		t.Fatalf("ProfitFactor = %v, want +Inf", m.ProfitFactor)
	}
	if m.Streaks.Current.Type != domain.StreakWin || m.Streaks.Current.Count != 1 {
		t.Fatalf("current streak = %+v, want win/1", m.Streaks.Current)
	}
}

func TestCompute_SingleDayHistoryNotAnnualized(t *testing.T) {
	trades := []domain.Trade{makeTrade("t1", 100, at(1, 10), at(1, 12))}

	m := Compute(trades, 10000, DefaultOptions())

	if math.Abs(m.TotalReturn-1) > 0.0001 {
		t.Fatalf("TotalReturn = %v, want 1", m.TotalReturn)
	}
	if math.Abs(m.AnnualizedReturn-m.TotalReturn) > 0.0001 {
		t.Fatalf("AnnualizedReturn = %v, want the raw total %v", m.AnnualizedReturn, m.TotalReturn)
	}
	// Zero drawdown, so Calmar divides the 1% total by the 0.0001 fallback.
	if math.Abs(m.CalmarRatio-100) > 0.0001 {
		t.Fatalf("CalmarRatio = %v, want 100", m.CalmarRatio)
	}
}

func TestCompute_SingleLosingTrade(t *testing.T) {
	trades := []domain.Trade{makeTrade("t1", -50, at(1, 10), at(1, 12))}

	m := Compute(trades, 1000, DefaultOptions())

	if m.FinalBalance != 950 {
		t.Fatalf("FinalBalance = %v, want 950", m.FinalBalance)
	}
	if math.Abs(m.MaxDrawdown-(-5)) > 0.0001 {
		t.Fatalf("MaxDrawdown = %v, want -5", m.MaxDrawdown)
	}
	if m.WinRate != 0 {
		t.Fatalf("WinRate = %v, want 0", m.WinRate)
	}
	if m.ProfitFactor != 0 {
		t.Fatalf("ProfitFactor = %v, want 0", m.ProfitFactor)
	}
	if math.Abs(m.LargestLoss-(-50)) > 0.0001 {
		t.Fatalf("LargestLoss = %v, want -50", m.LargestLoss)
	}
}

func TestCompute_NetProfitIncludesCosts(t *testing.T) {
	trade := makeTrade("t1", 10, at(1, 10), at(1, 12))
	trade.Commission = -2
	trade.Swap = -1

	m := Compute([]domain.Trade{trade}, 1000, DefaultOptions())

	if math.Abs(m.FinalBalance-1007) > 0.0001 {
		t.Fatalf("FinalBalance = %v, want 1007", m.FinalBalance)
	}
	if math.Abs(m.Expectancy-7) > 0.0001 {
		t.Fatalf("Expectancy = %v, want 7", m.Expectancy)
	}
	if math.Abs(m.LargestWin-7) > 0.0001 {
		t.Fatalf("LargestWin = %v, want 7", m.LargestWin)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 10, at(1, 10), at(1, 12)),
		makeTrade("t2", -5, at(2, 9), at(2, 15)),
		makeTrade("t3", 20, at(4, 14), at(5, 10)),
	}

	first := Compute(trades, 5000, DefaultOptions())
	for run := 0; run < 5; run++ {
		if got := Compute(trades, 5000, DefaultOptions()); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d produced a different result", run)
		}
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("late", 10, at(5, 10), at(5, 12)),
		makeTrade("early", -5, at(1, 9), at(1, 15)),
	}
	original := make([]domain.Trade, len(trades))
	copy(original, trades)

	Compute(trades, 5000, DefaultOptions())

	if !reflect.DeepEqual(trades, original) {
		t.Fatal("input slice was reordered or mutated")
	}
}

func TestCompute_UnsortedInputSortedByCloseTime(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("late", -100, at(10, 10), at(10, 12)),
		makeTrade("early", 100, at(1, 9), at(1, 15)),
	}

	m := Compute(trades, 1000, DefaultOptions())

	// Sorted order is win then loss; the drawdown comes off the 1100 peak.
	want := -100.0 / 1100 * 100
	if math.Abs(m.MaxDrawdown-want) > 0.0001 {
		t.Fatalf("MaxDrawdown = %v, want %v", m.MaxDrawdown, want)
	}
}

func TestCompute_StreakScenario(t *testing.T) {
	nets := []float64{10, 10, -5, -5, -5, 20}
	trades := make([]domain.Trade, len(nets))
	for i, net := range nets {
		trades[i] = makeTrade(string(rune('a'+i)), net, at(i+1, 10), at(i+1, 12))
	}

	m := Compute(trades, 1000, DefaultOptions())

	if m.MaxConsecutiveWins != 2 {
		t.Fatalf("MaxConsecutiveWins = %d, want 2", m.MaxConsecutiveWins)
	}
	if m.MaxConsecutiveLosses != 3 {
		t.Fatalf("MaxConsecutiveLosses = %d, want 3", m.MaxConsecutiveLosses)
	}
	if m.Streaks.MaxWinStreak != 2 || m.Streaks.MaxLossStreak != 3 {
		t.Fatalf("streaks = %+v, want max win 2, max loss 3", m.Streaks)
	}
	if m.Streaks.Current.Type != domain.StreakWin || m.Streaks.Current.Count != 1 {
		t.Fatalf("current streak = %+v, want win/1", m.Streaks.Current)
	}
	// Loss run of 3 plus the recovering win.
	if m.Streaks.RecoveredStreaks != 1 || math.Abs(m.Streaks.AvgRecoveryTime-4) > 0.0001 {
		t.Fatalf("recovery = %d streaks, avg %v, want 1 and 4",
			m.Streaks.RecoveredStreaks, m.Streaks.AvgRecoveryTime)
	}
}

func TestCompute_BenchmarkBounds(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 100, at(1, 10), at(1, 12)),
		makeTrade("t2", 50, at(8, 10), at(8, 12)),
		makeTrade("t3", -25, at(20, 10), at(20, 12)),
	}

	m := Compute(trades, 1000, DefaultOptions())
	b := m.Benchmark

	if b.Symbol != "EURUSD" {
		t.Fatalf("benchmark symbol = %q, want EURUSD", b.Symbol)
	}
	if b.AnnualGrowthRate != 0.08 {
		t.Fatalf("growth rate = %v, want 0.08 for a currency pair", b.AnnualGrowthRate)
	}
	if b.TotalPeriods < 1 {
		t.Fatalf("TotalPeriods = %d, want >= 1", b.TotalPeriods)
	}
	if b.WinningPeriods < 0 || b.WinningPeriods > b.TotalPeriods {
		t.Fatalf("WinningPeriods = %d out of %d", b.WinningPeriods, b.TotalPeriods)
	}
	if math.Abs(b.StrategyFinal-1125) > 0.0001 {
		t.Fatalf("StrategyFinal = %v, want 1125", b.StrategyFinal)
	}
	if math.Abs((b.StrategyReturn-b.BenchmarkReturn)-b.Outperformance) > 0.0001 {
		t.Fatal("outperformance is not the return difference")
	}
}

func TestCompute_DrawdownNeverPositive(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 10, at(1, 10), at(1, 12)),
		makeTrade("t2", -30, at(2, 10), at(2, 12)),
		makeTrade("t3", 5, at(3, 10), at(3, 12)),
		makeTrade("t4", -2, at(4, 10), at(4, 12)),
	}

	m := Compute(trades, 1000, DefaultOptions())

	if m.MaxDrawdown > 0 {
		t.Fatalf("MaxDrawdown = %v, want <= 0", m.MaxDrawdown)
	}
	for _, p := range m.RollingDrawdown {
		if p.Drawdown > 0 {
			t.Fatalf("rolling drawdown %v at %v is positive", p.Drawdown, p.Time)
		}
	}
}
