package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var (
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
	_ ports.MoveApplier        = (*CategoryRepository)(nil)
)

// CategoryRepository keeps categories in memory for local runs and tests.
type CategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*storedCategory
	now        func() time.Time
}

type storedCategory struct {
	category *domain.Category
	metadata projection.Metadata
}

// NewCategoryRepository constructs an empty store.
func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{
		categories: map[string]*storedCategory{},
		now:        time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *CategoryRepository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Save inserts or replaces a category, assigning an ID to new ones.
func (r *CategoryRepository) Save(_ context.Context, category *domain.Category) (*projection.Projection[*domain.Category], error) {
	if category == nil {
		return nil, errors.New("cannot save nil category")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.saveLocked(category)
	if err != nil {
		return nil, err
	}
	return categoryCopy(stored), nil
}

// ApplyMove writes both categories under one lock; either both land or neither does.
func (r *CategoryRepository) ApplyMove(_ context.Context, source, target *domain.Category) error {
	if source == nil || target == nil {
		return errors.New("cannot apply move with nil category")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range []*domain.Category{source, target} {
		if _, ok := r.categories[c.ID]; !ok {
			return ports.ErrCategoryNotFound
		}
		if err := r.checkPetTypeLocked(c); err != nil {
			return err
		}
	}
	if _, err := r.saveLocked(source); err != nil {
		return err
	}
	_, err := r.saveLocked(target)
	return err
}

// GetByID fetches a category.
func (r *CategoryRepository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	return categoryCopy(entry), nil
}

// FindByPetType fetches the category owning petType.
func (r *CategoryRepository) FindByPetType(_ context.Context, petType string) (*projection.Projection[*domain.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.categories {
		if entry.category.PetType == petType {
			return categoryCopy(entry), nil
		}
	}
	return nil, ports.ErrCategoryNotFound
}

// Delete removes a category.
func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

// List returns every category, oldest first.
func (r *CategoryRepository) List(_ context.Context) ([]*projection.Projection[*domain.Category], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Category], 0, len(r.categories))
	for _, entry := range r.categories {
		list = append(list, categoryCopy(entry))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

func (r *CategoryRepository) saveLocked(category *domain.Category) (*storedCategory, error) {
	clone := category.Clone()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
		category.ID = clone.ID
	}
	if err := r.checkPetTypeLocked(clone); err != nil {
		return nil, err
	}
	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if existing, ok := r.categories[clone.ID]; ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	}
	stored := &storedCategory{category: clone, metadata: metadata}
	r.categories[clone.ID] = stored
	return stored, nil
}

func (r *CategoryRepository) checkPetTypeLocked(category *domain.Category) error {
	for id, entry := range r.categories {
		if id != category.ID && entry.category.PetType == category.PetType {
			return ports.ErrDuplicatePetType
		}
	}
	return nil
}

func categoryCopy(entry *storedCategory) *projection.Projection[*domain.Category] {
	return &projection.Projection[*domain.Category]{
		Entity:   entry.category.Clone(),
		Metadata: entry.metadata,
	}
}
