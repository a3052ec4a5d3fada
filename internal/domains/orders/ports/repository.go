package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// Filter narrows List. Empty fields match everything.
type Filter struct {
	CustomerID string
}

// Repository abstracts persistence for orders.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*domain.Order, error)
}
