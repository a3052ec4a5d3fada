//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
	"github.com/Apurer/petify-api/internal/platform/migrations"
)

func setupAdminsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestAdminRepository_CRUD(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupAdminsPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	admin, err := domain.NewAdmin("Root", "Root@Example.com", "hash", domain.RoleSuperAdmin)
	require.NoError(t, err)
	saved, err := repo.Save(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, "root@example.com", saved.Email)

	dup, err := domain.NewAdmin("Other", "root@example.com", "hash", domain.RoleAdmin)
	require.NoError(t, err)
	_, err = repo.Save(ctx, dup)
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	saved.PasswordHash = "rotated"
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)
	found, err := repo.GetByEmail(ctx, "ROOT@example.com")
	require.NoError(t, err)
	require.Equal(t, "rotated", found.PasswordHash)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	require.ErrorIs(t, repo.Delete(ctx, saved.ID), ports.ErrNotFound)
}

func TestSessionStore_PurgeExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, cleanup := setupAdminsPostgresContainer(t)
	defer cleanup()

	store := NewSessionStore(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "admin-1", "token-1"))
	require.NoError(t, store.Save(ctx, "admin-1", "token-2"))
	store.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	require.NoError(t, store.Save(ctx, "admin-2", "stale"))
	store.now = time.Now

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), purged)

	var count int64
	require.NoError(t, db.Model(&sessionRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
