package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
)

var ErrNotFound = errors.New("admin not found")
var ErrDuplicateEmail = errors.New("admin already exists")

// Repository persists admins. Save assigns an ID to new admins.
type Repository interface {
	Save(ctx context.Context, admin *domain.Admin) (*domain.Admin, error)
	GetByID(ctx context.Context, id string) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.Admin, error)
}
