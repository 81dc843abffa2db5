package reporting

import (
	"context"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/analytics"
	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage"
)

// Generator produces performance reports from stored trade histories.
type Generator struct {
	tradeStore storage.TradeStore
	opts       analytics.Options
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(tradeStore storage.TradeStore, opts analytics.Options) *Generator {
	return &Generator{
		tradeStore: tradeStore,
		opts:       opts,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads every stored trade and produces a complete report.
func (g *Generator) Generate(ctx context.Context, initialBalance float64) (*Report, error) {
	stored, err := g.tradeStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	trades := make([]domain.Trade, len(stored))
	for i, t := range stored {
		trades[i] = *t
	}

	return g.FromTrades(trades, initialBalance), nil
}

// FromTrades produces a report directly from an in-memory trade list, for
// callers that load journals themselves.
func (g *Generator) FromTrades(trades []domain.Trade, initialBalance float64) *Report {
	metrics := analytics.Compute(trades, initialBalance, g.opts)

	return &Report{
		GeneratedAt: g.now(),
		DataSummary: summarize(trades, initialBalance),
		Metrics:     metrics,
	}
}

// summarize computes the data description independently of the analytics
// passes, so the summary still reflects open trades the engine skips.
func summarize(trades []domain.Trade, initialBalance float64) DataSummary {
	summary := DataSummary{InitialBalance: initialBalance}

	symbols := make(map[string]struct{})
	for i := range trades {
		t := &trades[i]
		if !t.IsClosed() {
			summary.OpenTrades++
			continue
		}
		summary.TotalTrades++
		symbols[t.Symbol] = struct{}{}

		ts := t.SortTime()
		if summary.DateRangeStart.IsZero() || ts.Before(summary.DateRangeStart) {
			summary.DateRangeStart = ts
		}
		if ts.After(summary.DateRangeEnd) {
			summary.DateRangeEnd = ts
		}
	}
	summary.SymbolCount = len(symbols)
	return summary
}
