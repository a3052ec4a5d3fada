package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

func TestIdempotencyStore_SaveReplayAndConflict(t *testing.T) {
	ctx := context.Background()
	store := NewIdempotencyStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.WithClock(func() time.Time { return fixed })

	missing, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, missing)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	require.Equal(t, fixed, saved.CreatedAt)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", OrderID: "o-1"})
	require.NoError(t, err)
	require.Equal(t, "o-1", again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h", OrderID: "o-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "o-1", existing.OrderID)
}
