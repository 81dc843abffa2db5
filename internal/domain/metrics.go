package domain

import "time"

// Metrics is the aggregate produced by one analytics run over a closed-trade
// list. It is purely derived: built fresh on every invocation, never mutated
// in place. Percentage fields hold plain percents (12.5 means 12.5%).
type Metrics struct {
	// Inputs echoed back for the presentation layer.
	InitialBalance float64
	FinalBalance   float64
	TotalTrades    int

	// Core ratios.
	SharpeRatio  float64
	SortinoRatio float64
	CalmarRatio  float64

	// Returns.
	TotalReturn      float64 // percent
	AnnualizedReturn float64 // percent

	// Risk.
	MaxDrawdown         float64 // percent, signed negative
	MaxDrawdownDuration int     // consecutive equity-curve points below peak
	VaR95               float64 // percent, daily
	ExpectedShortfall   float64 // percent, daily

	// Trade analysis.
	WinRate          float64 // percent
	ProfitFactor     float64 // +Inf when there are wins and no losses
	AverageRiskRatio float64 // avg win / avg |loss|, +Inf when no losers
	Expectancy       float64 // mean net P&L per trade
	LargestWin       float64
	LargestLoss      float64

	// Consistency.
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	RecoveryFactor       float64
	MonthlyWinRate       float64 // percent

	// Advanced.
	TailRatio    float64
	KellyPercent float64 // clamped to [0, 25]

	// Time performance.
	AvgTradeDuration float64 // hours
	AvgDailyReturn   float64 // percent

	// Series.
	MonthlyReturns  []MonthlyPoint
	RollingDrawdown []DrawdownPoint

	// Sub-analyses.
	Benchmark        BenchmarkComparison
	Frequency        TradingFrequency
	TimeAnalysis     TimeAnalysis
	RiskManagement   RiskManagement
	TradeQuality     TradeQuality
	Streaks          StreakAnalysis
	MarketConditions []ConditionBucket
	SymbolStats      []SymbolStats
}

// MonthlyPoint is one calendar month of the strategy's history.
type MonthlyPoint struct {
	Month    string  // "2006-01"
	Return   float64 // percent, against the balance at month start
	Drawdown float64 // percent, signed negative, worst within the month
	WinRate  float64 // percent
	Trades   int
}

// DrawdownPoint is one point of the equity curve with its drawdown from the
// running peak.
type DrawdownPoint struct {
	Time     time.Time
	Equity   float64
	Drawdown float64 // percent, signed negative
}

// BenchmarkComparison is the strategy vs buy-and-hold head-to-head.
type BenchmarkComparison struct {
	Symbol           string
	AnnualGrowthRate float64 // assumed benchmark rate, decimal
	StrategyReturn   float64 // percent
	BenchmarkReturn  float64 // percent
	Outperformance   float64 // percentage points
	WinningPeriods   int
	TotalPeriods     int
	StrategyFinal    float64
	BenchmarkFinal   float64
}

// TradingFrequency describes how often the account trades.
type TradingFrequency struct {
	TradesPerDay          float64
	TradesPerWeek         float64
	TradesPerMonth        float64
	AvgHoursBetweenTrades float64
}

// TimeAnalysis groups performance by time of day and day of week.
type TimeAnalysis struct {
	BestHours []HourBucket // top 6 by mean return, descending
	Days      []DayBucket  // Monday..Sunday
	Sessions  []SessionBucket
}

// HourBucket is performance within one UTC hour of day.
type HourBucket struct {
	Hour      int
	AvgReturn float64 // mean net P&L
	Trades    int
}

// DayBucket is performance on one weekday.
type DayBucket struct {
	Day       string
	AvgReturn float64
	Trades    int
	WinRate   float64 // percent
}

// SessionBucket is performance within one UTC trading session.
type SessionBucket struct {
	Name      string
	AvgReturn float64
	Trades    int
	WinRate   float64 // percent
}

// RiskManagement summarizes per-trade risk taken.
type RiskManagement struct {
	AvgRiskPercent float64 // mean per-trade risk as % of running balance
	Buckets        []RiskBucket
	Sizing         PositionSizing
}

// RiskBucket is one risk band (Low/Medium/High/VeryHigh).
type RiskBucket struct {
	Label     string
	Trades    int
	AvgReturn float64
}

// PositionSizing holds raw position-size statistics.
type PositionSizing struct {
	AvgSize    float64
	MaxSize    float64
	StdDevSize float64
}

// TradeQuality summarizes hold-time discipline.
type TradeQuality struct {
	AvgHoldHours      float64
	ShortestHoldHours float64
	LongestHoldHours  float64
	PrematureExits    int     // held under 5 minutes
	OverheldTrades    int     // held over 24 hours
	Efficiency        float64 // fraction profitable and held within [5min, 24h]
}

// StreakType labels the state of the running streak tracker.
type StreakType string

const (
	StreakNone StreakType = "none"
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
)

// Streak is the streak in progress at the end of the series.
type Streak struct {
	Type  StreakType
	Count int
}

// StreakAnalysis summarizes win/loss runs. Zero-P&L trades neither extend
// nor break a streak.
type StreakAnalysis struct {
	MaxWinStreak     int
	MaxLossStreak    int
	AvgWinStreak     float64
	AvgLossStreak    float64
	Current          Streak
	AvgRecoveryTime  float64 // trades from the start of a loss streak to the win that ends it
	RecoveredStreaks int
}

// ConditionBucket is performance under one classified market condition
// (volatile, trending, sideways).
type ConditionBucket struct {
	Condition string
	Trades    int
	AvgReturn float64
	WinRate   float64 // percent
}

// SymbolStats is the per-symbol rollup.
type SymbolStats struct {
	Symbol       string
	Trades       int
	TotalReturn  float64 // net P&L
	AvgReturn    float64
	WinRate      float64 // percent
	AvgHoldHours float64
	ProfitFactor float64 // display-capped at 999
}
