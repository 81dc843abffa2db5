package analytics

import (
	"math"
	"testing"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

func TestBuildEquityCurve(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 100, at(1, 9), at(1, 10)),
		makeTrade("t2", -40, at(2, 9), at(2, 10)),
	}

	curve := buildEquityCurve(trades, 1000)
	want := []float64{1000, 1100, 1060}
	if len(curve) != len(want) {
		t.Fatalf("curve has %d points, want %d", len(curve), len(want))
	}
	for i := range want {
		if curve[i] != want[i] {
			t.Fatalf("curve[%d] = %v, want %v", i, curve[i], want[i])
		}
	}
}

func TestMaxDrawdown_TracksWorstDecline(t *testing.T) {
	// Peak 1200, trough 900: 25% down. Recovery does not erase it.
	curve := []float64{1000, 1200, 1000, 900, 1300}

	dd, duration := maxDrawdown(curve)
	if math.Abs(dd-(-25)) > 1e-9 {
		t.Fatalf("maxDrawdown = %v, want -25", dd)
	}
	if duration != 2 {
		t.Fatalf("duration = %d, want 2", duration)
	}
}

func TestMaxDrawdown_MonotonicCurve(t *testing.T) {
	dd, duration := maxDrawdown([]float64{1000, 1100, 1200, 1300})
	if dd != 0 || duration != 0 {
		t.Fatalf("got %v/%d, want 0/0 for a rising curve", dd, duration)
	}
}

func TestMaxDrawdown_TooFewPoints(t *testing.T) {
	if dd, duration := maxDrawdown([]float64{1000}); dd != 0 || duration != 0 {
		t.Fatalf("got %v/%d, want 0/0", dd, duration)
	}
}

func TestMaxDrawdown_RecoveryToPriorPeakKeepsRun(t *testing.T) {
	// Touching the 1000 peak again is not a new peak; the run continues
	// until equity closes strictly above it.
	curve := []float64{1000, 900, 1000, 950, 1100}

	dd, duration := maxDrawdown(curve)
	if math.Abs(dd-(-10)) > 1e-9 {
		t.Fatalf("maxDrawdown = %v, want -10", dd)
	}
	if duration != 3 {
		t.Fatalf("duration = %d, want 3", duration)
	}
}

func TestMaxDrawdown_OpenEndedRun(t *testing.T) {
	// Curve ends below its peak; the trailing run still counts.
	_, duration := maxDrawdown([]float64{1000, 1100, 1050, 1020, 990})
	if duration != 3 {
		t.Fatalf("duration = %d, want 3", duration)
	}
}

func TestRollingDrawdown_FirstPointUsesOpenTime(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 100, at(1, 9), at(1, 10)),
		makeTrade("t2", -40, at(2, 9), at(2, 10)),
	}
	curve := buildEquityCurve(trades, 1000)

	points := rollingDrawdown(trades, curve)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	if !points[0].Time.Equal(at(1, 9)) {
		t.Fatalf("points[0].Time = %v, want the first open time", points[0].Time)
	}
	if points[0].Drawdown != 0 || points[1].Drawdown != 0 {
		t.Fatal("expected no drawdown at or before the peak")
	}
	want := -40.0 / 1100 * 100
	if math.Abs(points[2].Drawdown-want) > 1e-9 {
		t.Fatalf("points[2].Drawdown = %v, want %v", points[2].Drawdown, want)
	}
}

func TestMonthlySeries_PerMonthReturns(t *testing.T) {
	trades := []domain.Trade{
		makeTrade("t1", 100, at(1, 9), at(1, 10)),
		makeTrade("t2", -50, at(10, 9), at(10, 10)),
	}
	april := makeTrade("t3", 210, at(1, 9), at(1, 10))
	aprilClose := at(1, 10).AddDate(0, 1, 0)
	aprilOpen := at(1, 9).AddDate(0, 1, 0)
	april.OpenTime = aprilOpen
	april.CloseTime = &aprilClose
	trades = append(trades, april)

	series := monthlySeries(trades, 1000)
	if len(series) != 2 {
		t.Fatalf("got %d months, want 2", len(series))
	}

	march := series[0]
	if march.Month != "2024-03" {
		t.Fatalf("first month = %q, want 2024-03", march.Month)
	}
	if math.Abs(march.Return-5) > 1e-9 {
		t.Fatalf("march return = %v, want 5", march.Return)
	}
	if march.Trades != 2 || math.Abs(march.WinRate-50) > 1e-9 {
		t.Fatalf("march = %+v, want 2 trades at 50%% win rate", march)
	}
	// Intra-month: 1000 -> 1100 -> 1050.
	wantDD := -50.0 / 1100 * 100
	if math.Abs(march.Drawdown-wantDD) > 1e-9 {
		t.Fatalf("march drawdown = %v, want %v", march.Drawdown, wantDD)
	}

	aprilPoint := series[1]
	if aprilPoint.Month != "2024-04" {
		t.Fatalf("second month = %q, want 2024-04", aprilPoint.Month)
	}
	// April starts from the 1050 carried balance.
	if math.Abs(aprilPoint.Return-20) > 1e-9 {
		t.Fatalf("april return = %v, want 20", aprilPoint.Return)
	}
}

func TestSortedClosed_FiltersAndOrders(t *testing.T) {
	closed := makeTrade("b", 10, at(5, 9), at(5, 10))
	earlier := makeTrade("a", 10, at(1, 9), at(1, 10))
	open := domain.Trade{ID: "open", OpenTime: at(2, 9)}

	result := sortedClosed([]domain.Trade{closed, open, earlier})
	if len(result) != 2 {
		t.Fatalf("got %d trades, want 2", len(result))
	}
	if result[0].ID != "a" || result[1].ID != "b" {
		t.Fatalf("order = %s,%s, want a,b", result[0].ID, result[1].ID)
	}
}
