package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
)

var ErrNotFound = errors.New("rating not found")

// Filter narrows List. Empty fields match everything.
type Filter struct {
	TargetType domain.TargetType
	TargetID   string
	CustomerID string
}

// Repository persists ratings. Save assigns an ID to new ratings.
type Repository interface {
	Save(ctx context.Context, rating *domain.Rating) (*domain.Rating, error)
	GetByID(ctx context.Context, id string) (*domain.Rating, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter) ([]*domain.Rating, error)
}
