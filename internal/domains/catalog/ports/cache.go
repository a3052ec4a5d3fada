package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// CategoryCache is a best-effort lookaside store for categories. Failures are
// swallowed by implementations; a miss is always safe.
type CategoryCache interface {
	Get(ctx context.Context, id string) (*projection.Projection[*domain.Category], bool)
	Set(ctx context.Context, category *projection.Projection[*domain.Category])
	Invalidate(ctx context.Context, ids ...string)
}

// CachedCategoryRepository is implemented by caching decorators. Uncached
// returns the repository behind the cache for reads that feed a write.
type CachedCategoryRepository interface {
	CategoryRepository
	Uncached() CategoryRepository
}
