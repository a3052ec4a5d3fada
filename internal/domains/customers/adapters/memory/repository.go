package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
	"github.com/Apurer/petify-api/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps customers in memory.
type Repository struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewRepository() *Repository {
	return &Repository{customers: map[string]*domain.Customer{}}
}

// Save inserts or replaces a customer; emails are unique.
func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("cannot save nil customer")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	for id, existing := range r.customers {
		if id != customer.ID && existing.Email == customer.Email {
			return nil, ports.ErrDuplicateEmail
		}
	}
	r.customers[customer.ID] = customer.Clone()
	return customer.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.customers[id]; ok {
		return c.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Email == email {
			return c.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

// List returns customers ordered by email.
func (r *Repository) List(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list, nil
}
