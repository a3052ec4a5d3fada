// Package cache adds a read-through category cache in front of a category repository.
package cache

import (
	"context"
	"sync"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var (
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
	_ ports.MoveApplier        = (*CategoryRepository)(nil)

	_ ports.CachedCategoryRepository = (*CategoryRepository)(nil)
)

// Recorder observes cache lookups.
type Recorder interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// CategoryRepository caches GetByID and invalidates on every write. A miss
// only fills the cache when no write to that category landed while the inner
// read was in flight.
type CategoryRepository struct {
	inner    ports.CategoryRepository
	cache    ports.CategoryCache
	recorder Recorder

	mu          sync.Mutex
	generations map[string]uint64
}

// Option customizes the decorator.
type Option func(*CategoryRepository)

// WithRecorder reports hits and misses to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *CategoryRepository) { r.recorder = rec }
}

// NewCategoryRepository decorates inner with cache.
func NewCategoryRepository(inner ports.CategoryRepository, cache ports.CategoryCache, opts ...Option) *CategoryRepository {
	r := &CategoryRepository{inner: inner, cache: cache, generations: map[string]uint64{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save writes through and invalidates the entry.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) (*projection.Projection[*domain.Category], error) {
	saved, err := r.inner.Save(ctx, category)
	if category != nil && category.ID != "" {
		r.invalidate(ctx, category.ID)
	}
	return saved, err
}

// ApplyMove forwards to the inner repository when it supports transactions.
func (r *CategoryRepository) ApplyMove(ctx context.Context, source, target *domain.Category) error {
	applier, ok := r.inner.(ports.MoveApplier)
	if !ok {
		return ports.ErrTransactionsUnsupported
	}
	err := applier.ApplyMove(ctx, source, target)
	ids := make([]string, 0, 2)
	for _, c := range []*domain.Category{source, target} {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	r.invalidate(ctx, ids...)
	return err
}

// GetByID serves from cache, falling back to the inner repository.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Category], error) {
	if cached, ok := r.cache.Get(ctx, id); ok {
		if r.recorder != nil {
			r.recorder.CacheHit("category")
		}
		return cached, nil
	}
	if r.recorder != nil {
		r.recorder.CacheMiss("category")
	}
	generation := r.generation(id)
	found, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.fill(ctx, found, generation)
	return found, nil
}

// Uncached returns the decorated repository.
func (r *CategoryRepository) Uncached() ports.CategoryRepository {
	return r.inner
}

// FindByPetType is not cached.
func (r *CategoryRepository) FindByPetType(ctx context.Context, petType string) (*projection.Projection[*domain.Category], error) {
	return r.inner.FindByPetType(ctx, petType)
}

// Delete removes the category and its cache entry.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	err := r.inner.Delete(ctx, id)
	r.invalidate(ctx, id)
	return err
}

// List is not cached.
func (r *CategoryRepository) List(ctx context.Context) ([]*projection.Projection[*domain.Category], error) {
	return r.inner.List(ctx)
}

func (r *CategoryRepository) generation(id string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generations[id]
}

// fill caches found unless the category was invalidated after generation was read.
func (r *CategoryRepository) fill(ctx context.Context, found *projection.Projection[*domain.Category], generation uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if found == nil || found.Entity == nil || r.generations[found.Entity.ID] != generation {
		return
	}
	r.cache.Set(ctx, found)
}

func (r *CategoryRepository) invalidate(ctx context.Context, ids ...string) {
	r.mu.Lock()
	for _, id := range ids {
		r.generations[id]++
	}
	r.mu.Unlock()
	r.cache.Invalidate(ctx, ids...)
}
