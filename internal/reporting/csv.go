package reporting

import (
	"fmt"
	"strings"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// RenderCSV renders the per-symbol rollup as CSV string.
func RenderCSV(stats []domain.SymbolStats) string {
	var sb strings.Builder

	// Header
	sb.WriteString("symbol,trades,total_return,avg_return,win_rate,avg_hold_hours,profit_factor\n")

	// Rows
	for _, s := range stats {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f\n",
			s.Symbol,
			s.Trades,
			s.TotalReturn,
			s.AvgReturn,
			s.WinRate,
			s.AvgHoldHours,
			s.ProfitFactor,
		))
	}

	return sb.String()
}

// RenderMonthlyCSV renders the monthly return series as CSV string.
func RenderMonthlyCSV(points []domain.MonthlyPoint) string {
	var sb strings.Builder

	sb.WriteString("month,return,drawdown,win_rate,trades\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("%s,%.6f,%.6f,%.6f,%d\n",
			p.Month, p.Return, p.Drawdown, p.WinRate, p.Trades))
	}

	return sb.String()
}
