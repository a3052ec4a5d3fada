package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the key was already used for a different order request.
var ErrIdempotencyConflict = errors.New("idempotency key reused with a different order")

// IdempotencyRecord ties a client-supplied Idempotency-Key to the order it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so PlaceOrder retries replay the first order.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record. An existing key with the same hash and order is returned as is;
	// any other existing record is returned together with ErrIdempotencyConflict.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
