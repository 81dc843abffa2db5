package storage

import "errors"

// Storage errors shared by all TradeStore implementations.
var (
	// ErrNotFound is returned when a requested trade does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when inserting a trade whose ID already
	// exists. Journal stores are append-only; corrections are new records.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
)
