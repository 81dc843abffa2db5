// Package storage defines the persistence boundary that supplies trade
// records to the analytics engine. The engine itself never touches a store;
// commands load trades through a TradeStore and hand the slice over.
package storage

import (
	"context"
	"time"

	"github.com/Gaspava/traderlar-community-sub000/internal/domain"
)

// TradeStore provides access to journal trade storage.
type TradeStore interface {
	// Insert adds a new trade. Returns ErrDuplicateKey if the ID exists.
	Insert(ctx context.Context, t *domain.Trade) error

	// InsertBulk adds multiple trades atomically. Fails the entire batch on
	// any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.Trade) error

	// GetByID retrieves a trade by its ID. Returns ErrNotFound if missing.
	GetByID(ctx context.Context, id string) (*domain.Trade, error)

	// GetAll retrieves every trade, ordered by close time ASC (open time
	// when the trade is still open).
	GetAll(ctx context.Context) ([]*domain.Trade, error)

	// GetBySymbol retrieves all trades for a symbol, ordered by close time ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.Trade, error)

	// GetByTimeRange retrieves trades whose chronological time falls within
	// [start, end] (inclusive), ordered by close time ASC.
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Trade, error)
}
