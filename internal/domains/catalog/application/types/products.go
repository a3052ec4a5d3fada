package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// ProductProjection is a product plus persistence timestamps.
type ProductProjection = projection.Projection[*domain.Product]

// ProductMutationInput carries optional product fields; nil means "leave unchanged".
type ProductMutationInput struct {
	Name            *string
	Brand           *string
	PetTypeID       *string
	ProductCategory *string
	Tags            *[]string
	Description     *string
	Images          *[]string
	Season          *string
	Price           *decimal.Decimal
	Stock           *int
	Discount        *decimal.Decimal
	Variants        *[]domain.Variant
	IsActive        *bool
	AddedByAdminID  *string
}

// CreateProductInput creates a product. Name, price, stock, pet type and category are required.
type CreateProductInput struct {
	ProductMutationInput
}

// UpdateProductInput patches an existing product.
type UpdateProductInput struct {
	ID string
	ProductMutationInput
}

// ProductQuery lists non-deleted products.
type ProductQuery struct {
	PetTypeID string
	Search    string
}
