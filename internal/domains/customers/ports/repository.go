package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
)

var ErrNotFound = errors.New("customer not found")
var ErrDuplicateEmail = errors.New("email already registered")

// Repository persists customers. Save assigns an ID to new customers.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Customer, error)
}
