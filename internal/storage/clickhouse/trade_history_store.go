package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/observability"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage"
)

// observe records duration and error telemetry for one store call.
func observe(operation string, start time.Time, err *error) {
	observability.RecordDBQuery("clickhouse", operation, time.Since(start).Seconds(), *err)
}

// TradeHistoryStore implements storage.TradeStore over ClickHouse. It backs
// the broker-history import path, where whole account histories are appended
// in bulk and read back for analysis.
//
// ClickHouse MergeTree does not enforce uniqueness at insert time, so
// duplicate detection happens via an explicit existence check before insert.
type TradeHistoryStore struct {
	conn *Conn
}

// NewTradeHistoryStore creates a new TradeHistoryStore.
func NewTradeHistoryStore(conn *Conn) *TradeHistoryStore {
	return &TradeHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeHistoryStore)(nil)

const historyColumns = `
	id, ticket, symbol, direction, size,
	open_price, close_price, stop_loss, take_profit,
	open_time, close_time,
	profit, commission, swap, duration_minutes
`

// Insert adds a single trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeHistoryStore) Insert(ctx context.Context, t *domain.Trade) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.Trade{t})
}

// InsertBulk appends multiple trades. Fails the entire batch on any
// duplicate, including duplicates within the batch itself.
func (s *TradeHistoryStore) InsertBulk(ctx context.Context, trades []*domain.Trade) (err error) {
	if len(trades) == 0 {
		return nil
	}
	defer observe("insert_bulk", time.Now(), &err)

	seen := make(map[string]struct{}, len(trades))
	for _, t := range trades {
		if t == nil || t.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, dup := seen[t.ID]; dup {
			return storage.ErrDuplicateKey
		}
		seen[t.ID] = struct{}{}
	}

	for _, t := range trades {
		exists, err := s.exists(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_history (`+historyColumns+`)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, t := range trades {
		err = batch.Append(
			t.ID, t.Ticket, t.Symbol, string(t.Direction), t.Size,
			t.OpenPrice, t.ClosePrice, t.StopLoss, t.TakeProfit,
			t.OpenTime, t.CloseTime,
			t.Profit, t.Commission, t.Swap, t.DurationMinutes,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

func (s *TradeHistoryStore) exists(ctx context.Context, id string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM trade_history WHERE id = ?`, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if missing.
func (s *TradeHistoryStore) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	trades, err := s.queryTrades(ctx, "get_by_id", `
		SELECT `+historyColumns+`
		FROM trade_history
		WHERE id = ?
		LIMIT 1
	`, id)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, storage.ErrNotFound
	}
	return trades[0], nil
}

// GetAll retrieves every trade ordered chronologically.
func (s *TradeHistoryStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	return s.queryTrades(ctx, "get_all", `
		SELECT `+historyColumns+`
		FROM trade_history
		ORDER BY coalesce(close_time, open_time) ASC, id ASC
	`)
}

// GetBySymbol retrieves all trades for a symbol ordered chronologically.
func (s *TradeHistoryStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.Trade, error) {
	return s.queryTrades(ctx, "get_by_symbol", `
		SELECT `+historyColumns+`
		FROM trade_history
		WHERE symbol = ?
		ORDER BY coalesce(close_time, open_time) ASC, id ASC
	`, symbol)
}

// GetByTimeRange retrieves trades within [start, end] inclusive, ordered
// chronologically.
func (s *TradeHistoryStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error) {
	return s.queryTrades(ctx, "get_by_time_range", `
		SELECT `+historyColumns+`
		FROM trade_history
		WHERE coalesce(close_time, open_time) BETWEEN ? AND ?
		ORDER BY coalesce(close_time, open_time) ASC, id ASC
	`, start, end)
}

func (s *TradeHistoryStore) queryTrades(ctx context.Context, operation, query string, args ...any) (_ []*domain.Trade, err error) {
	defer observe(operation, time.Now(), &err)

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trade history: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var direction string
		err := rows.Scan(
			&t.ID, &t.Ticket, &t.Symbol, &direction, &t.Size,
			&t.OpenPrice, &t.ClosePrice, &t.StopLoss, &t.TakeProfit,
			&t.OpenTime, &t.CloseTime,
			&t.Profit, &t.Commission, &t.Swap, &t.DurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade history row: %w", err)
		}
		t.Direction = domain.Direction(direction)
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade history: %w", err)
	}
	return trades, nil
}
