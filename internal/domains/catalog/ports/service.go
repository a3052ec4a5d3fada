package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
)

// CategoryService exposes the category store use cases.
type CategoryService interface {
	CreateCategory(ctx context.Context, input types.CreateCategoryInput) (*types.CategoryProjection, error)
	GetCategory(ctx context.Context, id string) (*types.CategoryProjection, error)
	FindByPetType(ctx context.Context, petType string) (*types.CategoryProjection, error)
	ListCategories(ctx context.Context) ([]*types.CategoryProjection, error)
	AddSubcategory(ctx context.Context, input types.AddSubcategoryInput) (*types.CategoryProjection, error)
	RenameSubcategory(ctx context.Context, input types.RenameSubcategoryInput) (*types.RenameSubcategoryResult, error)
	RemoveSubcategory(ctx context.Context, input types.RemoveSubcategoryInput) (*types.CategoryProjection, error)
	RenameCategory(ctx context.Context, input types.RenameCategoryInput) (*types.CategoryProjection, error)
	DeleteCategory(ctx context.Context, id string) error

	// Step-wise move API used by durable orchestrators.
	PrepareMove(ctx context.Context, input types.RenameSubcategoryInput) (*domain.MoveIntent, error)
	ApplyMoveSource(ctx context.Context, intentID string) error
	ApplyMoveTarget(ctx context.Context, intentID string) error
	CompleteMove(ctx context.Context, intentID string) (*types.RenameSubcategoryResult, error)
	ReconcileMoves(ctx context.Context) (*types.ReconcileResult, error)
}

// ProductValidator checks that a (pet type, product category) pair is legal.
type ProductValidator interface {
	ValidatePetType(ctx context.Context, petTypeID string) error
	ValidateProductCategory(ctx context.Context, petTypeID, productCategory string) error
}

// ProductService exposes product use cases.
type ProductService interface {
	CreateProduct(ctx context.Context, input types.CreateProductInput) (*types.ProductProjection, error)
	UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*types.ProductProjection, error)
	GetProduct(ctx context.Context, id string) (*types.ProductProjection, error)
	ListProducts(ctx context.Context, query types.ProductQuery) ([]*types.ProductProjection, error)
	DeleteProduct(ctx context.Context, id string) error
	// ApplyRatingSummary stores the review aggregate computed by the ratings context.
	ApplyRatingSummary(ctx context.Context, id string, average float64, total int) error
}
