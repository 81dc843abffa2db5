// Package journal loads trade journals from JSON exports and validates them
// before analysis. The loader is the boundary between untrusted input and the
// analytics engine: everything it returns satisfies the engine's input
// contract (close time after open time, non-empty identifiers, known
// direction).
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/observability"
)

// Validation errors.
var (
	ErrNoBalance       = errors.New("journal: initial balance must be positive")
	ErrMissingID       = errors.New("journal: trade has no id")
	ErrBadDirection    = errors.New("journal: direction must be buy or sell")
	ErrCloseBeforeOpen = errors.New("journal: close time precedes open time")
)

// Journal is a parsed trade journal ready for analysis. Open trades from the
// source file are preserved separately so callers can report on them; the
// analytics engine only consumes Trades.
type Journal struct {
	InitialBalance float64
	Trades         []domain.Trade
	OpenTrades     []domain.Trade
}

type journalFile struct {
	InitialBalance float64     `json:"initial_balance"`
	Trades         []tradeJSON `json:"trades"`
}

type tradeJSON struct {
	ID              string   `json:"id"`
	Ticket          string   `json:"ticket"`
	Symbol          string   `json:"symbol"`
	Direction       string   `json:"direction"`
	Size            float64  `json:"size"`
	OpenPrice       float64  `json:"open_price"`
	ClosePrice      float64  `json:"close_price"`
	StopLoss        *float64 `json:"stop_loss,omitempty"`
	TakeProfit      *float64 `json:"take_profit,omitempty"`
	OpenTime        string   `json:"open_time"`
	CloseTime       *string  `json:"close_time,omitempty"`
	Profit          float64  `json:"profit"`
	Commission      float64  `json:"commission"`
	Swap            float64  `json:"swap"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
}

// Load reads and validates a journal file.
func Load(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return Parse(data)
}

// Parse validates raw journal JSON.
func Parse(data []byte) (*Journal, error) {
	var file journalFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}

	if file.InitialBalance <= 0 {
		return nil, ErrNoBalance
	}

	j := &Journal{InitialBalance: file.InitialBalance}
	for i, raw := range file.Trades {
		t, err := convertTrade(raw)
		if err != nil {
			observability.RecordTradeRejected(rejectReason(err))
			return nil, fmt.Errorf("trade %d (%s): %w", i, raw.ID, err)
		}
		if t.IsClosed() {
			j.Trades = append(j.Trades, t)
		} else {
			j.OpenTrades = append(j.OpenTrades, t)
		}
	}
	return j, nil
}

// rejectReason maps a validation error to its metric label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingID):
		return "missing_id"
	case errors.Is(err, ErrBadDirection):
		return "bad_direction"
	case errors.Is(err, ErrCloseBeforeOpen):
		return "close_before_open"
	default:
		return "bad_time"
	}
}

func convertTrade(raw tradeJSON) (domain.Trade, error) {
	var t domain.Trade

	if raw.ID == "" {
		return t, ErrMissingID
	}

	direction := domain.Direction(raw.Direction)
	if direction != domain.DirectionBuy && direction != domain.DirectionSell {
		return t, ErrBadDirection
	}

	openTime, err := time.Parse(time.RFC3339, raw.OpenTime)
	if err != nil {
		return t, fmt.Errorf("parse open_time: %w", err)
	}

	var closeTime *time.Time
	if raw.CloseTime != nil {
		parsed, err := time.Parse(time.RFC3339, *raw.CloseTime)
		if err != nil {
			return t, fmt.Errorf("parse close_time: %w", err)
		}
		if parsed.Before(openTime) {
			return t, ErrCloseBeforeOpen
		}
		closeTime = &parsed
	}

	t = domain.Trade{
		ID:              raw.ID,
		Ticket:          raw.Ticket,
		Symbol:          raw.Symbol,
		Direction:       direction,
		Size:            raw.Size,
		OpenPrice:       raw.OpenPrice,
		ClosePrice:      raw.ClosePrice,
		StopLoss:        raw.StopLoss,
		TakeProfit:      raw.TakeProfit,
		OpenTime:        openTime,
		CloseTime:       closeTime,
		Profit:          raw.Profit,
		Commission:      raw.Commission,
		Swap:            raw.Swap,
		DurationMinutes: raw.DurationMinutes,
	}
	return t, nil
}
