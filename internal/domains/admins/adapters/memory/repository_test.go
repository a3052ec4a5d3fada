package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

func TestRepository_UniqueEmail(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	first, err := repo.Save(ctx, &domain.Admin{Name: "A", Email: "a@example.com", PasswordHash: "h", Role: domain.RoleAdmin})
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	_, err = repo.Save(ctx, &domain.Admin{Name: "B", Email: "a@example.com", PasswordHash: "h", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, ports.ErrDuplicateEmail)

	first.Name = "Renamed"
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)
	found, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "Renamed", found.Name)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "admin-1", "refresh"))
	token, ok := store.Token("admin-1")
	require.True(t, ok)
	require.Equal(t, "refresh", token)

	require.NoError(t, store.Delete(ctx, "admin-1"))
	_, ok = store.Token("admin-1")
	require.False(t, ok)
}
