package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/analytics"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder
	m := r.Metrics

	// Header
	sb.WriteString("# Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Initial Balance | %.2f |\n", r.DataSummary.InitialBalance))
	sb.WriteString(fmt.Sprintf("| Final Balance | %.2f |\n", m.FinalBalance))
	sb.WriteString(fmt.Sprintf("| Closed Trades | %d |\n", r.DataSummary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Open Trades (excluded) | %d |\n", r.DataSummary.OpenTrades))
	sb.WriteString(fmt.Sprintf("| Symbols | %d |\n", r.DataSummary.SymbolCount))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range | %s to %s |\n",
			r.DataSummary.DateRangeStart.Format("2006-01-02"),
			r.DataSummary.DateRangeEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Risk-Adjusted Returns
	sb.WriteString("## Risk-Adjusted Returns\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Sharpe Ratio | %.2f |\n", m.SharpeRatio))
	sb.WriteString(fmt.Sprintf("| Sortino Ratio | %.2f |\n", m.SortinoRatio))
	sb.WriteString(fmt.Sprintf("| Calmar Ratio | %.2f |\n", m.CalmarRatio))
	sb.WriteString(fmt.Sprintf("| Total Return | %.2f%% |\n", m.TotalReturn))
	sb.WriteString(fmt.Sprintf("| Annualized Return | %.2f%% |\n", m.AnnualizedReturn))
	sb.WriteString(fmt.Sprintf("| Max Drawdown | %.2f%% |\n", m.MaxDrawdown))
	sb.WriteString(fmt.Sprintf("| Max Drawdown Duration | %d |\n", m.MaxDrawdownDuration))
	sb.WriteString(fmt.Sprintf("| VaR 95 (daily) | %.2f%% |\n", m.VaR95))
	sb.WriteString(fmt.Sprintf("| Expected Shortfall | %.2f%% |\n", m.ExpectedShortfall))
	sb.WriteString("\n")

	// Trade Analysis
	sb.WriteString("## Trade Analysis\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", m.WinRate))
	sb.WriteString(fmt.Sprintf("| Profit Factor | %s |\n", formatRatio(m.ProfitFactor)))
	sb.WriteString(fmt.Sprintf("| Avg Risk/Reward | %s |\n", formatRatio(m.AverageRiskRatio)))
	sb.WriteString(fmt.Sprintf("| Expectancy | %.2f |\n", m.Expectancy))
	sb.WriteString(fmt.Sprintf("| Largest Win | %.2f |\n", m.LargestWin))
	sb.WriteString(fmt.Sprintf("| Largest Loss | %.2f |\n", m.LargestLoss))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Wins | %d |\n", m.MaxConsecutiveWins))
	sb.WriteString(fmt.Sprintf("| Max Consecutive Losses | %d |\n", m.MaxConsecutiveLosses))
	sb.WriteString(fmt.Sprintf("| Recovery Factor | %.2f |\n", m.RecoveryFactor))
	sb.WriteString(fmt.Sprintf("| Monthly Win Rate | %.2f%% |\n", m.MonthlyWinRate))
	sb.WriteString(fmt.Sprintf("| Tail Ratio | %.2f |\n", m.TailRatio))
	sb.WriteString(fmt.Sprintf("| Kelly %% | %.2f |\n", m.KellyPercent))
	sb.WriteString(fmt.Sprintf("| Avg Trade Duration (h) | %.2f |\n", m.AvgTradeDuration))
	sb.WriteString(fmt.Sprintf("| Avg Daily Return | %.4f%% |\n", m.AvgDailyReturn))
	sb.WriteString("\n")

	// Benchmark
	sb.WriteString("## Buy & Hold Benchmark\n\n")
	if m.Benchmark.Symbol != "" {
		b := m.Benchmark
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Symbol | %s |\n", b.Symbol))
		sb.WriteString(fmt.Sprintf("| Assumed Annual Growth | %.2f%% |\n", b.AnnualGrowthRate*100))
		sb.WriteString(fmt.Sprintf("| Strategy Return | %.2f%% |\n", b.StrategyReturn))
		sb.WriteString(fmt.Sprintf("| Benchmark Return | %.2f%% |\n", b.BenchmarkReturn))
		sb.WriteString(fmt.Sprintf("| Outperformance | %.2f pp |\n", b.Outperformance))
		sb.WriteString(fmt.Sprintf("| Winning Periods | %d / %d |\n", b.WinningPeriods, b.TotalPeriods))
	} else {
		sb.WriteString("No benchmark available.\n")
	}
	sb.WriteString("\n")

	// Monthly Returns
	sb.WriteString("## Monthly Returns\n\n")
	if len(m.MonthlyReturns) > 0 {
		sb.WriteString("| Month | Return | Drawdown | WinRate | Trades |\n")
		sb.WriteString("|-------|--------|----------|---------|--------|\n")
		for _, mp := range m.MonthlyReturns {
			sb.WriteString(fmt.Sprintf("| %s | %.2f%% | %.2f%% | %.2f%% | %d |\n",
				mp.Month, mp.Return, mp.Drawdown, mp.WinRate, mp.Trades))
		}
	} else {
		sb.WriteString("No monthly data available.\n")
	}
	sb.WriteString("\n")

	// Time Analysis
	sb.WriteString("## Time Analysis\n\n")
	if len(m.TimeAnalysis.Sessions) > 0 {
		sb.WriteString("### Sessions\n\n")
		sb.WriteString("| Session | Trades | AvgReturn | WinRate |\n")
		sb.WriteString("|---------|--------|-----------|--------|\n")
		for _, s := range m.TimeAnalysis.Sessions {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f%% |\n",
				s.Name, s.Trades, s.AvgReturn, s.WinRate))
		}
		sb.WriteString("\n")
	}
	if len(m.TimeAnalysis.Days) > 0 {
		sb.WriteString("### Days\n\n")
		sb.WriteString("| Day | Trades | AvgReturn | WinRate |\n")
		sb.WriteString("|-----|--------|-----------|--------|\n")
		for _, d := range m.TimeAnalysis.Days {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f%% |\n",
				d.Day, d.Trades, d.AvgReturn, d.WinRate))
		}
		sb.WriteString("\n")
	}
	if len(m.TimeAnalysis.BestHours) > 0 {
		sb.WriteString("### Best Hours\n\n")
		sb.WriteString("| Hour | Trades | AvgReturn |\n")
		sb.WriteString("|------|--------|----------|\n")
		for _, h := range m.TimeAnalysis.BestHours {
			sb.WriteString(fmt.Sprintf("| %02d:00 | %d | %.2f |\n", h.Hour, h.Trades, h.AvgReturn))
		}
		sb.WriteString("\n")
	}

	// Risk Management
	sb.WriteString("## Risk Management\n\n")
	sb.WriteString(fmt.Sprintf("Average risk per trade: %.2f%%\n\n", m.RiskManagement.AvgRiskPercent))
	if len(m.RiskManagement.Buckets) > 0 {
		sb.WriteString("| Risk Band | Trades | AvgReturn |\n")
		sb.WriteString("|-----------|--------|----------|\n")
		for _, b := range m.RiskManagement.Buckets {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", b.Label, b.Trades, b.AvgReturn))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Position sizing: avg %.2f, max %.2f, stddev %.2f\n\n",
		m.RiskManagement.Sizing.AvgSize, m.RiskManagement.Sizing.MaxSize, m.RiskManagement.Sizing.StdDevSize))

	// Trade Quality
	sb.WriteString("## Trade Quality\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Avg Hold (h) | %.2f |\n", m.TradeQuality.AvgHoldHours))
	sb.WriteString(fmt.Sprintf("| Shortest Hold (h) | %.2f |\n", m.TradeQuality.ShortestHoldHours))
	sb.WriteString(fmt.Sprintf("| Longest Hold (h) | %.2f |\n", m.TradeQuality.LongestHoldHours))
	sb.WriteString(fmt.Sprintf("| Premature Exits | %d |\n", m.TradeQuality.PrematureExits))
	sb.WriteString(fmt.Sprintf("| Overheld Trades | %d |\n", m.TradeQuality.OverheldTrades))
	sb.WriteString(fmt.Sprintf("| Efficiency | %.2f |\n", m.TradeQuality.Efficiency))
	sb.WriteString("\n")

	// Streaks
	sb.WriteString("## Streaks\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Max Win Streak | %d |\n", m.Streaks.MaxWinStreak))
	sb.WriteString(fmt.Sprintf("| Max Loss Streak | %d |\n", m.Streaks.MaxLossStreak))
	sb.WriteString(fmt.Sprintf("| Avg Win Streak | %.2f |\n", m.Streaks.AvgWinStreak))
	sb.WriteString(fmt.Sprintf("| Avg Loss Streak | %.2f |\n", m.Streaks.AvgLossStreak))
	sb.WriteString(fmt.Sprintf("| Current Streak | %s (%d) |\n", m.Streaks.Current.Type, m.Streaks.Current.Count))
	sb.WriteString(fmt.Sprintf("| Avg Recovery (trades) | %.2f |\n", m.Streaks.AvgRecoveryTime))
	sb.WriteString("\n")

	// Market Conditions
	sb.WriteString("## Market Conditions\n\n")
	if len(m.MarketConditions) > 0 {
		sb.WriteString("| Condition | Trades | AvgReturn | WinRate |\n")
		sb.WriteString("|-----------|--------|-----------|--------|\n")
		for _, c := range m.MarketConditions {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f%% |\n",
				c.Condition, c.Trades, c.AvgReturn, c.WinRate))
		}
	} else {
		sb.WriteString("No market condition data available.\n")
	}
	sb.WriteString("\n")

	// Symbol Performance
	sb.WriteString("## Symbol Performance\n\n")
	if len(m.SymbolStats) > 0 {
		sb.WriteString("| Symbol | Trades | Total | AvgReturn | WinRate | AvgHold (h) | ProfitFactor |\n")
		sb.WriteString("|--------|--------|-------|-----------|---------|-------------|-------------|\n")
		for _, s := range m.SymbolStats {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f%% | %.2f | %.2f |\n",
				s.Symbol, s.Trades, s.TotalReturn, s.AvgReturn, s.WinRate, s.AvgHoldHours, s.ProfitFactor))
		}
	} else {
		sb.WriteString("No symbol data available.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatRatio prints a ratio, replacing non-finite values with an infinity
// marker.
func formatRatio(v float64) string {
	if !analytics.IsFinitePercent(v) {
		return "∞"
	}
	return fmt.Sprintf("%.2f", v)
}
