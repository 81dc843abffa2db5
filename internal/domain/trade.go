package domain

import "time"

// Direction is the side of a trade.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Trade represents one journal entry for a (possibly still open) trade.
// Optional fields are pointers: a nil StopLoss means no stop was recorded,
// a nil CloseTime means the trade is still open and is excluded from
// analytics, a nil DurationMinutes means the hold time is unknown.
//
// Prices may be placeholders for risk/reward-only journal entries, so P&L
// is never derived from OpenPrice/ClosePrice. The only P&L identity used
// anywhere is NetProfit = Profit + Commission + Swap.
type Trade struct {
	ID        string
	Ticket    string
	Symbol    string
	Direction Direction

	Size       float64
	OpenPrice  float64
	ClosePrice float64
	StopLoss   *float64
	TakeProfit *float64

	OpenTime  time.Time
	CloseTime *time.Time

	// Profit is the gross P&L excluding commission and swap.
	// Commission and Swap are signed (costs are negative).
	Profit     float64
	Commission float64
	Swap       float64

	DurationMinutes *float64
}

// NetProfit returns the net P&L of the trade: profit + commission + swap.
func (t *Trade) NetProfit() float64 {
	return t.Profit + t.Commission + t.Swap
}

// IsClosed reports whether the trade has a close time.
func (t *Trade) IsClosed() bool {
	return t.CloseTime != nil
}

// SortTime is the chronological key used to order trades: close time when
// present, open time otherwise.
func (t *Trade) SortTime() time.Time {
	if t.CloseTime != nil {
		return *t.CloseTime
	}
	return t.OpenTime
}

// HoldHours returns the recorded hold time in hours and whether it is known.
func (t *Trade) HoldHours() (float64, bool) {
	if t.DurationMinutes == nil {
		return 0, false
	}
	return *t.DurationMinutes / 60.0, true
}
