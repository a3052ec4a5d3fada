package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository keeps products in memory.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*storedProduct
	now      func() time.Time
}

type storedProduct struct {
	product  *domain.Product
	metadata projection.Metadata
}

// NewProductRepository constructs an empty store.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: map[string]*storedProduct{},
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source.
func (r *ProductRepository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Save inserts or replaces a product.
func (r *ProductRepository) Save(_ context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := product.Clone()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
		product.ID = clone.ID
	}
	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if existing, ok := r.products[clone.ID]; ok {
		metadata.CreatedAt = existing.metadata.CreatedAt
	}
	stored := &storedProduct{product: clone, metadata: metadata}
	r.products[clone.ID] = stored
	return productCopy(stored), nil
}

// GetByID fetches a product, deleted or not.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return productCopy(entry), nil
}

// List returns live products matching filter, oldest first.
func (r *ProductRepository) List(_ context.Context, filter ports.ProductFilter) ([]*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	query := strings.ToLower(filter.NameQuery)
	var list []*projection.Projection[*domain.Product]
	for _, entry := range r.products {
		p := entry.product
		if p.IsDeleted {
			continue
		}
		if filter.PetTypeID != "" && p.PetTypeID != filter.PetTypeID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		list = append(list, productCopy(entry))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

func productCopy(entry *storedProduct) *projection.Projection[*domain.Product] {
	return &projection.Projection[*domain.Product]{
		Entity:   entry.product.Clone(),
		Metadata: entry.metadata,
	}
}
