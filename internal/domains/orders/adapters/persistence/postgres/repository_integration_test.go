//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	"github.com/Apurer/petify-api/internal/domains/orders/ports"
	"github.com/Apurer/petify-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("petify_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T, id, customer string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, customer, []domain.Item{
		{ProductID: "p-1", Quantity: 2, Price: decimal.RequireFromString("4.25"), Snapshot: domain.Snapshot{Name: "Chew toy"}},
	}, domain.MethodCard)
	require.NoError(t, err)
	return order
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newOrder(t, "o-1", "c-1"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("8.50").Equal(saved.TotalAmount))
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "Chew toy", saved.Items[0].Snapshot.Name)
	assert.Equal(t, domain.MethodCard, saved.PaymentMethod)
}

func TestRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t, "o-1", "c-1")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.UpdateStatus(domain.StatusShipped, domain.PaymentPaid))
	require.NoError(t, order.RequestRefund())
	updated, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, updated.Status)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	assert.True(t, updated.RefundRequested)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	for _, tc := range []struct{ id, customer string }{{"o-1", "c-1"}, {"o-2", "c-2"}, {"o-3", "c-1"}} {
		_, err := repo.Save(ctx, newOrder(t, tc.id, tc.customer))
		require.NoError(t, err)
	}

	list, err := repo.List(ctx, ports.Filter{CustomerID: "c-1"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, repo.Delete(ctx, "o-1"))
	_, err = repo.GetByID(ctx, "o-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "o-1"), ports.ErrNotFound)
}

func TestIdempotencyStore_ConflictOnReusedKey(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	missing, err := store.Get(ctx, "checkout-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "h1", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", replayed.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "h2", OrderID: "o-2"})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, existing)
	assert.Equal(t, "h1", existing.RequestHash)
}
