package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
	"github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

func TestRepository_ListFiltersNewestFirst(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	seed := []*domain.Rating{
		{TargetID: "p1", TargetType: domain.TargetProduct, Score: 5, CustomerID: "c1", CreatedAt: base},
		{TargetID: "p1", TargetType: domain.TargetProduct, Score: 3, CustomerID: "c2", CreatedAt: base.Add(time.Hour)},
		{TargetID: "s1", TargetType: domain.TargetSeller, Score: 4, CustomerID: "c1", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range seed {
		_, err := repo.Save(ctx, r)
		require.NoError(t, err)
	}

	product, err := repo.List(ctx, ports.Filter{TargetType: domain.TargetProduct, TargetID: "p1"})
	require.NoError(t, err)
	require.Len(t, product, 2)
	require.Equal(t, 3, product[0].Score)

	mine, err := repo.List(ctx, ports.Filter{CustomerID: "c1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, domain.TargetSeller, mine[0].TargetType)

	require.NoError(t, repo.Delete(ctx, seed[0].ID))
	_, err = repo.GetByID(ctx, seed[0].ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, seed[0].ID), ports.ErrNotFound)
}
