package analytics

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// mostTradedSymbol picks the symbol with the most trades; ties break
// lexicographically for determinism.
func mostTradedSymbol(trades []domain.Trade) string {
	counts := make(map[string]int)
	for i := range trades {
		counts[trades[i].Symbol]++
	}
	symbols := make([]string, 0, len(counts))
	for sym := range counts {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	best := ""
	bestCount := -1
	for _, sym := range symbols {
		if counts[sym] > bestCount {
			best = sym
			bestCount = counts[sym]
		}
	}
	return best
}

var cryptoTickers = []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOGE", "BNB", "LTC", "CRYPTO"}

var currencyCodes = []string{"EUR", "GBP", "JPY", "CHF", "AUD", "NZD", "CAD", "USD"}

// benchmarkGrowthRate assigns an assumed annualized growth rate by symbol
// name: gold-like tickers, crypto-like tickers, six-letter currency pairs,
// then the stock/other default. Gold and crypto are checked before the
// currency-pair match so XAUUSD and BTCUSD classify by their base asset.
func benchmarkGrowthRate(symbol string, rates BenchmarkRates) float64 {
	s := strings.ToUpper(symbol)

	if strings.Contains(s, "XAU") || strings.Contains(s, "GOLD") {
		return rates.Gold
	}
	for _, ticker := range cryptoTickers {
		if strings.Contains(s, ticker) {
			return rates.Crypto
		}
	}
	if isCurrencyPair(s) {
		return rates.Currency
	}
	return rates.Default
}

func isCurrencyPair(s string) bool {
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 6 {
		return false
	}
	return isCurrencyCode(s[:3]) && isCurrencyCode(s[3:])
}

func isCurrencyCode(code string) bool {
	for _, c := range currencyCodes {
		if code == c {
			return true
		}
	}
	return false
}

// compareBenchmark builds two parallel daily equity curves from the first
// trade's open date to the last trade's close date: the benchmark compounds
// every day at the implied daily rate (1+annual)^(1/365)-1 while the
// strategy advances only on days a trade closes, by that day's net P&L.
// Winning periods count the sampling days (Sundays by default) on which the
// strategy balance exceeds the benchmark's; a span containing no sampling
// day still scores one period from the final balances.
func compareBenchmark(trades []domain.Trade, initialBalance float64, opts Options) domain.BenchmarkComparison {
	var cmp domain.BenchmarkComparison
	if len(trades) == 0 {
		return cmp
	}

	cmp.Symbol = mostTradedSymbol(trades)
	cmp.AnnualGrowthRate = benchmarkGrowthRate(cmp.Symbol, opts.Benchmark)
	dailyRate := math.Pow(1+cmp.AnnualGrowthRate, 1.0/365) - 1

	// Net P&L per UTC close date.
	pnlByDay := make(map[string]float64)
	for i := range trades {
		key := trades[i].SortTime().UTC().Format("2006-01-02")
		pnlByDay[key] += trades[i].NetProfit()
	}

	start := dateOnly(trades[0].OpenTime.UTC())
	end := dateOnly(trades[len(trades)-1].SortTime().UTC())

	strategy := initialBalance
	benchmark := initialBalance
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		benchmark *= 1 + dailyRate
		if pnl, ok := pnlByDay[day.Format("2006-01-02")]; ok {
			strategy += pnl
		}
		if opts.BenchmarkSampling == SamplingDaily || day.Weekday() == time.Sunday {
			cmp.TotalPeriods++
			if strategy > benchmark {
				cmp.WinningPeriods++
			}
		}
	}

	if cmp.TotalPeriods == 0 {
		cmp.TotalPeriods = 1
		if strategy > benchmark {
			cmp.WinningPeriods = 1
		}
	}

	cmp.StrategyFinal = strategy
	cmp.BenchmarkFinal = benchmark
	if initialBalance != 0 {
		denom := math.Abs(initialBalance)
		cmp.StrategyReturn = (strategy - initialBalance) / denom * 100
		cmp.BenchmarkReturn = (benchmark - initialBalance) / denom * 100
	}
	cmp.Outperformance = cmp.StrategyReturn - cmp.BenchmarkReturn
	return cmp
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
