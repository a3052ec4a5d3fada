package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps sellers in memory with the same version checks as the databases.
type Repository struct {
	mu      sync.RWMutex
	sellers map[string]*storedSeller
	now     func() time.Time
}

type storedSeller struct {
	seller   *domain.Seller
	metadata projection.Metadata
}

// NewRepository constructs an empty store.
func NewRepository() *Repository {
	return &Repository{sellers: map[string]*storedSeller{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (r *Repository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Create stores a new seller.
func (r *Repository) Create(_ context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if seller == nil {
		return nil, errors.New("cannot save nil seller")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	if _, exists := r.sellers[seller.ID]; exists {
		return nil, ports.ErrConflict
	}
	if err := r.checkEmailLocked(seller.ID, seller.Email); err != nil {
		return nil, err
	}
	seller.Version = 1
	now := r.now()
	stored := &storedSeller{seller: seller.Clone(), metadata: projection.Metadata{CreatedAt: now, UpdatedAt: now}}
	r.sellers[seller.ID] = stored
	return sellerCopy(stored), nil
}

// Update replaces a seller when its Version matches the stored one.
func (r *Repository) Update(_ context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if seller == nil {
		return nil, errors.New("cannot save nil seller")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sellers[seller.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.seller.Version != seller.Version {
		return nil, ports.ErrConflict
	}
	if err := r.checkEmailLocked(seller.ID, seller.Email); err != nil {
		return nil, err
	}
	next := seller.Clone()
	next.Version = seller.Version + 1
	stored.seller = next
	stored.metadata.UpdatedAt = r.now()
	return sellerCopy(stored), nil
}

// GetByID fetches a seller.
func (r *Repository) GetByID(_ context.Context, id string) (*projection.Projection[*domain.Seller], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.sellers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return sellerCopy(stored), nil
}

// GetByEmail fetches a seller by normalized email.
func (r *Repository) GetByEmail(_ context.Context, email string) (*projection.Projection[*domain.Seller], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, stored := range r.sellers {
		if stored.seller.Email == email {
			return sellerCopy(stored), nil
		}
	}
	return nil, ports.ErrNotFound
}

// Delete removes a seller.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sellers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.sellers, id)
	return nil
}

// List returns sellers oldest first.
func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*projection.Projection[*domain.Seller], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Seller], 0, len(r.sellers))
	for _, stored := range r.sellers {
		if filter.Verification != "" && stored.seller.Verification != filter.Verification {
			continue
		}
		list = append(list, sellerCopy(stored))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
		}
		return list[i].Entity.ID < list[j].Entity.ID
	})
	return list, nil
}

func (r *Repository) checkEmailLocked(id, email string) error {
	for otherID, stored := range r.sellers {
		if otherID != id && stored.seller.Email == email {
			return ports.ErrDuplicateEmail
		}
	}
	return nil
}

func sellerCopy(stored *storedSeller) *projection.Projection[*domain.Seller] {
	return projection.New(stored.seller.Clone(), stored.metadata.CreatedAt, stored.metadata.UpdatedAt)
}
