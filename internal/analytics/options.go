package analytics

// Sampling selects how often the benchmark comparison scores a "period".
type Sampling string

const (
	// SamplingWeekly scores on week boundaries (Sundays, UTC).
	SamplingWeekly Sampling = "weekly"
	// SamplingDaily scores every calendar day.
	SamplingDaily Sampling = "daily"
)

// BenchmarkRates are the assumed annualized growth rates (decimals) assigned
// to the buy-and-hold benchmark by symbol class.
type BenchmarkRates struct {
	Currency float64
	Crypto   float64
	Gold     float64
	Default  float64
}

// Options tunes an analytics run. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// RiskFreeRate is the annualized risk-free rate as a decimal.
	RiskFreeRate float64

	// AnnualizedRatios switches Sharpe/Sortino to a unit-consistent
	// denominator (daily volatility scaled by sqrt(252)). Off by default:
	// the established contract divides the annualized excess return by the
	// raw daily-return deviation.
	AnnualizedRatios bool

	// BenchmarkSampling selects the winning-period cadence for the
	// buy-and-hold comparison.
	BenchmarkSampling Sampling

	// Benchmark holds the assumed annual growth rates per symbol class.
	Benchmark BenchmarkRates
}

// DefaultOptions returns the standard analysis configuration: 2% risk-free
// rate, the established ratio convention, weekly benchmark sampling, and the
// stock/forex/crypto/gold growth-rate heuristics.
func DefaultOptions() Options {
	return Options{
		RiskFreeRate:      0.02,
		AnnualizedRatios:  false,
		BenchmarkSampling: SamplingWeekly,
		Benchmark: BenchmarkRates{
			Currency: 0.08,
			Crypto:   0.15,
			Gold:     0.07,
			Default:  0.10,
		},
	}
}
