package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Gaspava/traderlar-community-sub000/internal/config"
	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/journal"
	"github.com/Gaspava/traderlar-community-sub000/internal/observability"
	"github.com/Gaspava/traderlar-community-sub000/internal/reporting"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage"
	chstore "github.com/Gaspava/traderlar-community-sub000/internal/storage/clickhouse"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage/memory"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage/migrations"
	pgstore "github.com/Gaspava/traderlar-community-sub000/internal/storage/postgres"
)

func main() {
	// Input
	journalPath := flag.String("journal", "", "Path to a JSON trade journal")
	useFixtures := flag.Bool("use-fixtures", false, "Analyze the built-in sample trades")
	balance := flag.Float64("balance", 0, "Initial balance (overrides the journal's)")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	persist := flag.Bool("persist", false, "Persist journal trades to storage before analysis")

	// Configuration and output
	configPath := flag.String("config", "", "Path to YAML config file")
	outputDir := flag.String("output-dir", ".", "Directory for generated reports")
	metricsAddr := flag.String("metrics-addr", "", "Address for the Prometheus /metrics endpoint (disabled if empty)")

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	opts := cfg.Options()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
		cancel()
	}()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	store, cleanup, err := buildStore(ctx, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatal("connect storage", zap.Error(err))
	}
	defer cleanup()

	var trades []domain.Trade
	var initialBalance float64
	if *useFixtures {
		trades, initialBalance = fixtureTrades()
		observability.RecordTradesLoaded("fixtures", len(trades))
	} else {
		trades, initialBalance, err = loadTrades(ctx, store, *journalPath, *balance, *persist, logger)
		if err != nil {
			logger.Fatal("load trades", zap.Error(err))
		}
	}
	if initialBalance <= 0 {
		logger.Fatal("initial balance must be positive; pass --balance or set it in the journal")
	}

	generator := reporting.NewGenerator(store, opts)

	started := time.Now()
	report := generator.FromTrades(trades, initialBalance)
	observability.RecordAnalysis(report.Metrics.TotalTrades, time.Since(started).Seconds())

	logger.Info("analysis complete",
		zap.Int("trades", report.Metrics.TotalTrades),
		zap.Float64("total_return_pct", report.Metrics.TotalReturn),
		zap.Float64("sharpe", report.Metrics.SharpeRatio),
		zap.Float64("max_drawdown_pct", report.Metrics.MaxDrawdown),
	)

	if err := writeReports(report, *outputDir); err != nil {
		logger.Fatal("write reports", zap.Error(err))
	}
	logger.Info("reports written", zap.String("dir", *outputDir))
}

// buildStore picks the trade store backing the run. With no DSN the run is
// journal-only and uses the in-memory store.
func buildStore(ctx context.Context, postgresDSN, clickhouseDSN string) (storage.TradeStore, func(), error) {
	switch {
	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pgstore.NewTradeStore(pool), pool.Close, nil

	case clickhouseDSN != "":
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, err
		}
		return chstore.NewTradeHistoryStore(conn), func() { conn.Close() }, nil

	default:
		return memory.NewTradeStore(), func() {}, nil
	}
}

// loadTrades reads the journal when given, otherwise pulls the full history
// from the store. The returned balance is the journal's unless overridden.
func loadTrades(
	ctx context.Context,
	store storage.TradeStore,
	journalPath string,
	balanceOverride float64,
	persist bool,
	logger *zap.Logger,
) ([]domain.Trade, float64, error) {
	if journalPath == "" {
		stored, err := store.GetAll(ctx)
		if err != nil {
			return nil, 0, err
		}
		observability.RecordTradesLoaded("storage", len(stored))

		trades := make([]domain.Trade, len(stored))
		for i, t := range stored {
			trades[i] = *t
		}
		return trades, balanceOverride, nil
	}

	j, err := journal.Load(journalPath)
	if err != nil {
		return nil, 0, err
	}
	observability.RecordTradesLoaded("journal", len(j.Trades))
	observability.RecordOpenTradesSkipped(len(j.OpenTrades))
	if len(j.OpenTrades) > 0 {
		logger.Info("open trades excluded from analysis", zap.Int("count", len(j.OpenTrades)))
	}

	if persist {
		batch := make([]*domain.Trade, len(j.Trades))
		for i := range j.Trades {
			batch[i] = &j.Trades[i]
		}
		if err := store.InsertBulk(ctx, batch); err != nil {
			return nil, 0, err
		}
		logger.Info("journal persisted", zap.Int("trades", len(batch)))
	}

	balance := j.InitialBalance
	if balanceOverride > 0 {
		balance = balanceOverride
	}
	return j.Trades, balance, nil
}

// writeReports renders and writes the Markdown report and CSV exports.
func writeReports(report *reporting.Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	md := reporting.RenderMarkdown(report)
	if err := os.WriteFile(filepath.Join(dir, "REPORT.md"), []byte(md), 0o644); err != nil {
		return err
	}
	observability.RecordReportGenerated("markdown")

	csv := reporting.RenderCSV(report.Metrics.SymbolStats)
	if err := os.WriteFile(filepath.Join(dir, "SYMBOLS.csv"), []byte(csv), 0o644); err != nil {
		return err
	}
	monthly := reporting.RenderMonthlyCSV(report.Metrics.MonthlyReturns)
	if err := os.WriteFile(filepath.Join(dir, "MONTHLY.csv"), []byte(monthly), 0o644); err != nil {
		return err
	}
	observability.RecordReportGenerated("csv")

	return nil
}

// fixtureTrades returns a small deterministic trade history for trying the
// pipeline without a journal or database.
func fixtureTrades() ([]domain.Trade, float64) {
	mk := func(id, symbol string, direction domain.Direction, size, openPrice, closePrice, profit float64, day, hour, holdMinutes int) domain.Trade {
		openAt := time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
		closeAt := openAt.Add(time.Duration(holdMinutes) * time.Minute)
		duration := float64(holdMinutes)
		return domain.Trade{
			ID:              id,
			Ticket:          id,
			Symbol:          symbol,
			Direction:       direction,
			Size:            size,
			OpenPrice:       openPrice,
			ClosePrice:      closePrice,
			OpenTime:        openAt,
			CloseTime:       &closeAt,
			Profit:          profit,
			Commission:      -0.7,
			Swap:            -0.2,
			DurationMinutes: &duration,
		}
	}

	trades := []domain.Trade{
		mk("fx-001", "EURUSD", domain.DirectionBuy, 1.0, 1.0850, 1.0910, 60, 1, 9, 180),
		mk("fx-002", "EURUSD", domain.DirectionSell, 0.5, 1.0920, 1.0950, -15, 4, 14, 90),
		mk("fx-003", "XAUUSD", domain.DirectionBuy, 0.1, 2150, 2185, 35, 5, 3, 420),
		mk("fx-004", "EURUSD", domain.DirectionBuy, 1.0, 1.0880, 1.0930, 50, 7, 10, 240),
		mk("fx-005", "BTCUSD", domain.DirectionBuy, 0.02, 61000, 59800, -24, 11, 20, 600),
		mk("fx-006", "EURUSD", domain.DirectionSell, 0.8, 1.0940, 1.0890, 40, 12, 8, 150),
		mk("fx-007", "XAUUSD", domain.DirectionSell, 0.1, 2190, 2170, 20, 14, 16, 200),
		mk("fx-008", "EURUSD", domain.DirectionBuy, 1.2, 1.0860, 1.0840, -24, 18, 11, 300),
		mk("fx-009", "EURUSD", domain.DirectionBuy, 1.0, 1.0830, 1.0900, 70, 20, 9, 2000),
		mk("fx-010", "BTCUSD", domain.DirectionSell, 0.02, 60400, 59900, 10, 25, 22, 45),
	}
	return trades, 10000
}

// serveMetrics exposes Prometheus metrics. Failure to bind is not fatal to
// the analysis run.
func serveMetrics(addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	logger.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}
