package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var (
	ErrNotFound    = errors.New("seller not found")
	ErrPetNotFound = errors.New("pet not found")
	// ErrConflict is returned when an update carries a stale Version.
	ErrConflict = errors.New("seller was modified concurrently")
	// ErrDuplicateEmail is returned when the unique email index rejected a write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Filter narrows seller listings. An empty Verification lists every seller.
type Filter struct {
	Verification domain.Verification
}

// Repository persists seller aggregates with optimistic locking.
type Repository interface {
	// Create assigns an ID and Version 1.
	Create(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error)
	// Update succeeds only when seller.Version equals the stored version, then increments it.
	Update(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Seller], error)
	GetByEmail(ctx context.Context, email string) (*projection.Projection[*domain.Seller], error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*projection.Projection[*domain.Seller], error)
}
