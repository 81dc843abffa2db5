package reporting

import (
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// Report is the rendered-ready performance report for one account history.
type Report struct {
	// Metadata
	GeneratedAt time.Time

	// Data Summary
	DataSummary DataSummary

	// Full analytics aggregate
	Metrics *domain.Metrics
}

// DataSummary describes the analyzed trade set.
type DataSummary struct {
	InitialBalance float64
	TotalTrades    int
	OpenTrades     int // excluded from analysis
	SymbolCount    int
	DateRangeStart time.Time
	DateRangeEnd   time.Time
}
