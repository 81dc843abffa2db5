// Package config loads the analysis configuration from YAML with sensible
// defaults, mapping it onto the analytics engine's Options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Gaspava/traderlar-community-sub000/internal/analytics"
)

// Rates configures the assumed annual benchmark growth per symbol class.
type Rates struct {
	Currency float64 `yaml:"currency"`
	Crypto   float64 `yaml:"crypto"`
	Gold     float64 `yaml:"gold"`
	Default  float64 `yaml:"default"`
}

// Config is the YAML-facing analysis configuration.
type Config struct {
	RiskFreeRate      float64 `yaml:"risk_free_rate"`
	AnnualizedRatios  bool    `yaml:"annualized_ratios"`
	BenchmarkSampling string  `yaml:"benchmark_sampling"`
	BenchmarkRates    Rates   `yaml:"benchmark_rates"`
}

// Default returns the configuration matching analytics.DefaultOptions.
func Default() Config {
	opts := analytics.DefaultOptions()
	return Config{
		RiskFreeRate:      opts.RiskFreeRate,
		AnnualizedRatios:  opts.AnnualizedRatios,
		BenchmarkSampling: string(opts.BenchmarkSampling),
		BenchmarkRates: Rates{
			Currency: opts.Benchmark.Currency,
			Crypto:   opts.Benchmark.Crypto,
			Gold:     opts.Benchmark.Gold,
			Default:  opts.Benchmark.Default,
		},
	}
}

// Load reads a YAML file over the defaults. A missing path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch analytics.Sampling(c.BenchmarkSampling) {
	case analytics.SamplingWeekly, analytics.SamplingDaily:
	default:
		return fmt.Errorf("invalid benchmark_sampling %q: want %q or %q",
			c.BenchmarkSampling, analytics.SamplingWeekly, analytics.SamplingDaily)
	}
	if c.RiskFreeRate < 0 || c.RiskFreeRate >= 1 {
		return fmt.Errorf("risk_free_rate %v out of range [0, 1)", c.RiskFreeRate)
	}
	return nil
}

// Options converts the configuration into engine options.
func (c Config) Options() analytics.Options {
	return analytics.Options{
		RiskFreeRate:      c.RiskFreeRate,
		AnnualizedRatios:  c.AnnualizedRatios,
		BenchmarkSampling: analytics.Sampling(c.BenchmarkSampling),
		Benchmark: analytics.BenchmarkRates{
			Currency: c.BenchmarkRates.Currency,
			Crypto:   c.BenchmarkRates.Crypto,
			Gold:     c.BenchmarkRates.Gold,
			Default:  c.BenchmarkRates.Default,
		},
	}
}
