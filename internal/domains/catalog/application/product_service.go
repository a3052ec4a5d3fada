package application

import (
	"context"
	"strings"

	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.ProductService = (*ProductService)(nil)

// ProductService orchestrates product use cases.
type ProductService struct {
	repo      ports.ProductRepository
	validator ports.ProductValidator
}

// NewProductService wires products with their repository and category validator.
func NewProductService(repo ports.ProductRepository, validator ports.ProductValidator) *ProductService {
	return &ProductService{repo: repo, validator: validator}
}

// CreateProduct validates and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input types.CreateProductInput) (*types.ProductProjection, error) {
	if input.Price == nil {
		return nil, mapError(ErrPriceRequired)
	}
	if input.Stock == nil {
		return nil, mapError(ErrStockRequired)
	}
	product := &domain.Product{IsActive: true}
	applyMutation(product, input.ProductMutationInput)
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.validator.ValidateProductCategory(ctx, product.PetTypeID, product.ProductCategory); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProduct patches a product. The category pair is validated only when the
// patch names a pet type; membership is checked only when it also names a category.
func (s *ProductService) UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*types.ProductProjection, error) {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, mapError(err)
	}
	if current.Entity.IsDeleted {
		return nil, mapError(domain.ErrProductAlreadyDeleted)
	}
	product := current.Entity.Clone()
	applyMutation(product, input.ProductMutationInput)
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if input.PetTypeID != nil {
		var err error
		if input.ProductCategory != nil {
			err = s.validator.ValidateProductCategory(ctx, product.PetTypeID, product.ProductCategory)
		} else {
			err = s.validator.ValidatePetType(ctx, product.PetTypeID)
		}
		if err != nil {
			return nil, err
		}
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetProduct loads a product, including soft-deleted ones.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*types.ProductProjection, error) {
	found, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, mapError(err)
	}
	return found, nil
}

// ListProducts returns non-deleted products, optionally by pet type or name search.
func (s *ProductService) ListProducts(ctx context.Context, query types.ProductQuery) ([]*types.ProductProjection, error) {
	list, err := s.repo.List(ctx, ports.ProductFilter{
		PetTypeID: strings.TrimSpace(query.PetTypeID),
		NameQuery: strings.TrimSpace(query.Search),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return list, nil
}

// DeleteProduct soft-deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return mapError(err)
	}
	product := current.Entity.Clone()
	if err := product.SoftDelete(); err != nil {
		return mapError(err)
	}
	if _, err := s.repo.Save(ctx, product); err != nil {
		return mapError(err)
	}
	return nil
}

// ApplyRatingSummary overwrites the review aggregate. Deleted products keep
// their score so that a restore shows the last known rating.
func (s *ProductService) ApplyRatingSummary(ctx context.Context, id string, average float64, total int) error {
	if total < 0 || average < 0 || average > 5 {
		return mapError(ErrInvalidRatingSummary)
	}
	current, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return mapError(err)
	}
	product := current.Entity.Clone()
	product.AvgRating = average
	product.TotalReviews = total
	if _, err := s.repo.Save(ctx, product); err != nil {
		return mapError(err)
	}
	return nil
}

func applyMutation(p *domain.Product, in types.ProductMutationInput) {
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.PetTypeID != nil {
		p.PetTypeID = strings.TrimSpace(*in.PetTypeID)
	}
	if in.ProductCategory != nil {
		p.ProductCategory = *in.ProductCategory
	}
	if in.Tags != nil {
		p.Tags = append([]string(nil), (*in.Tags)...)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Images != nil {
		p.Images = append([]string(nil), (*in.Images)...)
	}
	if in.Season != nil {
		p.Season = *in.Season
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Variants != nil {
		p.Variants = append([]domain.Variant(nil), (*in.Variants)...)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.AddedByAdminID != nil {
		p.AddedByAdminID = *in.AddedByAdminID
	}
}
