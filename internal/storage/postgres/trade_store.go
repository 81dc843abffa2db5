package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
	"github.com/Gaspava/traderlar-community-sub000/internal/observability"
	"github.com/Gaspava/traderlar-community-sub000/internal/storage"
)

// observe records duration and error telemetry for one store call.
func observe(operation string, start time.Time, err *error) {
	observability.RecordDBQuery("postgres", operation, time.Since(start).Seconds(), *err)
}

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

const tradeColumns = `
	id, ticket, symbol, direction, size,
	open_price, close_price, stop_loss, take_profit,
	open_time, close_time,
	profit, commission, swap, duration_minutes
`

const insertTradeQuery = `
	INSERT INTO trades (
		id, ticket, symbol, direction, size,
		open_price, close_price, stop_loss, take_profit,
		open_time, close_time,
		profit, commission, swap, duration_minutes
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11,
		$12, $13, $14, $15
	)
`

func insertArgs(t *domain.Trade) []any {
	return []any{
		t.ID, t.Ticket, t.Symbol, string(t.Direction), t.Size,
		t.OpenPrice, t.ClosePrice, t.StopLoss, t.TakeProfit,
		t.OpenTime, t.CloseTime,
		t.Profit, t.Commission, t.Swap, t.DurationMinutes,
	}
}

// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.Trade) (err error) {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}
	defer observe("insert", time.Now(), &err)

	_, err = s.pool.Exec(ctx, insertTradeQuery, insertArgs(t)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades atomically. Fails the entire batch on any
// duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.Trade) (err error) {
	if len(trades) == 0 {
		return nil
	}
	defer observe("insert_bulk", time.Now(), &err)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range trades {
		if t == nil || t.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertTradeQuery, insertArgs(t)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a trade by its ID. Returns ErrNotFound if missing.
func (s *TradeStore) GetByID(ctx context.Context, id string) (_ *domain.Trade, err error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE id = $1`
	defer observe("get_by_id", time.Now(), &err)

	row := s.pool.QueryRow(ctx, query, id)
	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trade by id: %w", err)
	}
	return t, nil
}

// GetAll retrieves every trade ordered chronologically.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trades
		ORDER BY COALESCE(close_time, open_time) ASC, id ASC`

	return s.queryTrades(ctx, "get_all", query)
}

// GetBySymbol retrieves all trades for a symbol ordered chronologically.
func (s *TradeStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trades
		WHERE symbol = $1
		ORDER BY COALESCE(close_time, open_time) ASC, id ASC`

	return s.queryTrades(ctx, "get_by_symbol", query, symbol)
}

// GetByTimeRange retrieves trades within [start, end] inclusive, ordered
// chronologically.
func (s *TradeStore) GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error) {
	query := `SELECT ` + tradeColumns + `
		FROM trades
		WHERE COALESCE(close_time, open_time) BETWEEN $1 AND $2
		ORDER BY COALESCE(close_time, open_time) ASC, id ASC`

	return s.queryTrades(ctx, "get_by_time_range", query, start, end)
}

func (s *TradeStore) queryTrades(ctx context.Context, operation, query string, args ...any) (_ []*domain.Trade, err error) {
	defer observe(operation, time.Now(), &err)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	var t domain.Trade
	var direction string
	err := row.Scan(
		&t.ID, &t.Ticket, &t.Symbol, &direction, &t.Size,
		&t.OpenPrice, &t.ClosePrice, &t.StopLoss, &t.TakeProfit,
		&t.OpenTime, &t.CloseTime,
		&t.Profit, &t.Commission, &t.Swap, &t.DurationMinutes,
	)
	if err != nil {
		return nil, err
	}
	t.Direction = domain.Direction(direction)
	return &t, nil
}
