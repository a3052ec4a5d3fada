package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps admins in memory.
type Repository struct {
	mu     sync.RWMutex
	admins map[string]*domain.Admin
}

func NewRepository() *Repository {
	return &Repository{admins: map[string]*domain.Admin{}}
}

// Save inserts or replaces an admin; emails are unique.
func (r *Repository) Save(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if admin == nil {
		return nil, errors.New("cannot save nil admin")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin.ID == "" {
		admin.ID = uuid.NewString()
	}
	for id, existing := range r.admins {
		if id != admin.ID && existing.Email == admin.Email {
			return nil, ports.ErrDuplicateEmail
		}
	}
	copy := *admin
	r.admins[admin.ID] = &copy
	out := copy
	return &out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.admins[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.admins {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.admins, id)
	return nil
}

// List returns admins ordered by email.
func (r *Repository) List(_ context.Context) ([]*domain.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Admin, 0, len(r.admins))
	for _, a := range r.admins {
		copy := *a
		list = append(list, &copy)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list, nil
}
