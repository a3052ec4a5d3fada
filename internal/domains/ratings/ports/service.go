package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
)

// ErrForbidden rejects a change to another customer's rating.
var ErrForbidden = errors.New("rating belongs to another customer")

// Actor is the caller of a mutating use case. Staff may change any rating.
type Actor struct {
	ID    string
	Staff bool
}

// CreateInput carries a new rating.
type CreateInput struct {
	TargetID   string
	TargetType string
	Score      int
	Review     string
	CustomerID string
}

// UpdateInput patches a rating. Nil fields are left unchanged.
type UpdateInput struct {
	ID     string
	Score  *int
	Review *string
	Actor  Actor
}

// Service exposes rating use cases.
type Service interface {
	CreateRating(ctx context.Context, input CreateInput) (*domain.Rating, error)
	GetRating(ctx context.Context, id string) (*domain.Rating, error)
	ListRatings(ctx context.Context, filter Filter) ([]*domain.Rating, error)
	UpdateRating(ctx context.Context, input UpdateInput) (*domain.Rating, error)
	DeleteRating(ctx context.Context, id string, actor Actor) error
	Summary(ctx context.Context, targetType domain.TargetType, targetID string) (domain.Summary, error)
	RefreshSummary(ctx context.Context, targetType domain.TargetType, targetID string) (domain.Summary, error)
}
