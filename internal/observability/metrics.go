// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	TradesLoaded       *prometheus.CounterVec
	TradesRejected     *prometheus.CounterVec
	OpenTradesSkipped  prometheus.Counter

	// Analysis metrics
	AnalysesRun      prometheus.Counter
	AnalysisDuration prometheus.Histogram
	TradesAnalyzed   prometheus.Histogram

	// Reporting metrics
	ReportsGenerated *prometheus.CounterVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_analytics"
	}

	return &Metrics{
		// Ingestion metrics
		TradesLoaded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trades_loaded_total",
			Help:      "Total number of trades loaded by source",
		}, []string{"source"}),
		TradesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "trades_rejected_total",
			Help:      "Total number of trades rejected during validation by reason",
		}, []string{"reason"}),
		OpenTradesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "open_trades_skipped_total",
			Help:      "Total number of open trades excluded from analysis",
		}),

		// Analysis metrics
		AnalysesRun: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of analytics runs",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Duration of analytics runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TradesAnalyzed: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "trades_per_run",
			Help:      "Number of closed trades per analytics run",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 6),
		}),

		// Reporting metrics
		ReportsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated by format",
		}, []string{"format"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Duration of database queries in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTradesLoaded increments the trades loaded counter.
func RecordTradesLoaded(source string, n int) {
	DefaultMetrics.TradesLoaded.WithLabelValues(source).Add(float64(n))
}

// RecordTradeRejected records a validation rejection.
func RecordTradeRejected(reason string) {
	DefaultMetrics.TradesRejected.WithLabelValues(reason).Inc()
}

// RecordOpenTradesSkipped counts open trades excluded from analysis.
func RecordOpenTradesSkipped(n int) {
	DefaultMetrics.OpenTradesSkipped.Add(float64(n))
}

// RecordAnalysis records one analytics run.
func RecordAnalysis(tradeCount int, seconds float64) {
	DefaultMetrics.AnalysesRun.Inc()
	DefaultMetrics.AnalysisDuration.Observe(seconds)
	DefaultMetrics.TradesAnalyzed.Observe(float64(tradeCount))
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated(format string) {
	DefaultMetrics.ReportsGenerated.WithLabelValues(format).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
