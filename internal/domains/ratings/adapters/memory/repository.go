package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
	"github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps ratings in memory.
type Repository struct {
	mu      sync.RWMutex
	ratings map[string]*domain.Rating
}

func NewRepository() *Repository {
	return &Repository{ratings: map[string]*domain.Rating{}}
}

func (r *Repository) Save(_ context.Context, rating *domain.Rating) (*domain.Rating, error) {
	if rating == nil {
		return nil, errors.New("cannot save nil rating")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if rating.ID == "" {
		rating.ID = uuid.NewString()
	}
	stored := *rating
	r.ratings[rating.ID] = &stored
	out := stored
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rating, ok := r.ratings[id]; ok {
		out := *rating
		return &out, nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ratings[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.ratings, id)
	return nil
}

// List returns matching ratings, newest first.
func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Rating, 0, len(r.ratings))
	for _, rating := range r.ratings {
		if filter.TargetType != "" && rating.TargetType != filter.TargetType {
			continue
		}
		if filter.TargetID != "" && rating.TargetID != filter.TargetID {
			continue
		}
		if filter.CustomerID != "" && rating.CustomerID != filter.CustomerID {
			continue
		}
		out := *rating
		list = append(list, &out)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}
