package ports

import (
	"context"
	"errors"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrMoveNotFound     = errors.New("move intent not found")

	// ErrTransactionsUnsupported is returned by MoveApplier implementations that cannot open a transaction.
	ErrTransactionsUnsupported = errors.New("transactions unsupported")

	// ErrDuplicatePetType is returned by repositories whose unique index on pet_type rejected a write.
	ErrDuplicatePetType = errors.New("pet type already exists")
)

// CategoryRepository persists categories. Save assigns an ID when the category has none.
type CategoryRepository interface {
	Save(ctx context.Context, category *domain.Category) (*projection.Projection[*domain.Category], error)
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Category], error)
	// FindByPetType matches the normalized pet type exactly.
	FindByPetType(ctx context.Context, petType string) (*projection.Projection[*domain.Category], error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*projection.Projection[*domain.Category], error)
}

// MoveApplier is implemented by repositories able to persist both sides of a
// subcategory move in one transaction.
type MoveApplier interface {
	ApplyMove(ctx context.Context, source, target *domain.Category) error
}

// MoveJournal records subcategory move intents so partially applied moves can be found and repaired.
type MoveJournal interface {
	Record(ctx context.Context, intent *domain.MoveIntent) (*domain.MoveIntent, error)
	// Advance moves the intent to state and stores lastError. An empty state keeps the current one.
	Advance(ctx context.Context, id string, state domain.MoveState, lastError string) error
	Get(ctx context.Context, id string) (*domain.MoveIntent, error)
	ListIncomplete(ctx context.Context) ([]*domain.MoveIntent, error)
}

// ProductFilter narrows product listings. Soft-deleted products are never listed.
type ProductFilter struct {
	PetTypeID string
	// NameQuery matches product names case-insensitively as a substring.
	NameQuery string
}

// ProductRepository persists products.
type ProductRepository interface {
	Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error)
	// GetByID returns soft-deleted products too.
	GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error)
	List(ctx context.Context, filter ProductFilter) ([]*projection.Projection[*domain.Product], error)
}
