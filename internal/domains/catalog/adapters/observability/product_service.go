package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Apurer/petify-api/internal/domains/catalog/application"
	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.ProductService = (*ProductService)(nil)

// ProductService decorates product use cases with tracing, logging, and metrics.
type ProductService struct {
	instrumentation
	inner ports.ProductService
}

// NewProductService wires a decorator around the product service.
func NewProductService(inner ports.ProductService, opts ...Option) *ProductService {
	return &ProductService{instrumentation: newInstrumentation(opts), inner: inner}
}

// CreateProduct adds a product.
func (s *ProductService) CreateProduct(ctx context.Context, input types.CreateProductInput) (*types.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		s.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to create product")
	}
	s.recordChanged(ctx, "create", result)
	return result, nil
}

// UpdateProduct patches a product.
func (s *ProductService) UpdateProduct(ctx context.Context, input types.UpdateProductInput) (*types.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "ProductService.UpdateProduct", attribute.String("product.id", input.ID))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, input)
	if err != nil {
		s.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product_id", input.ID))
	}
	s.recordChanged(ctx, "update", result)
	return result, nil
}

// GetProduct loads a product.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*types.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "ProductService.GetProduct", attribute.String("product.id", id))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product_id", id))
	}
	return result, nil
}

// ListProducts lists products.
func (s *ProductService) ListProducts(ctx context.Context, query types.ProductQuery) ([]*types.ProductProjection, error) {
	ctx, span := s.startSpan(ctx, "ProductService.ListProducts",
		attribute.String("product.pet_type_id", query.PetTypeID),
		attribute.String("product.search", query.Search),
	)
	defer span.End()

	result, err := s.inner.ListProducts(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.result.count", len(result)))
	return result, nil
}

// DeleteProduct soft-deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.startSpan(ctx, "ProductService.DeleteProduct", attribute.String("product.id", id))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product_id", id))
	}
	addCounter(ctx, s.metrics.productsChanged, 1, attribute.String("operation", "delete"))
	s.logInfo(ctx, "product deleted", slog.String("product_id", id))
	return nil
}

func (s *ProductService) ApplyRatingSummary(ctx context.Context, id string, average float64, total int) error {
	ctx, span := s.startSpan(ctx, "ProductService.ApplyRatingSummary",
		attribute.String("product.id", id),
		attribute.Float64("product.avg_rating", average),
		attribute.Int("product.total_reviews", total),
	)
	defer span.End()

	if err := s.inner.ApplyRatingSummary(ctx, id, average, total); err != nil {
		return s.handleError(ctx, span, err, "failed to apply rating summary", slog.String("product_id", id))
	}
	addCounter(ctx, s.metrics.productsChanged, 1, attribute.String("operation", "rating"))
	return nil
}

func (s *ProductService) recordChanged(ctx context.Context, operation string, result *types.ProductProjection) {
	addCounter(ctx, s.metrics.productsChanged, 1, attribute.String("operation", operation))
	if result == nil || result.Entity == nil {
		return
	}
	s.logInfo(ctx, "product changed",
		slog.String("operation", operation),
		slog.String("product_id", result.Entity.ID),
		slog.String("pet_type_id", result.Entity.PetTypeID),
		slog.String("product_category", result.Entity.ProductCategory),
	)
}

func (s *ProductService) recordRejected(ctx context.Context, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidPetType):
		addCounter(ctx, s.metrics.productsRejected, 1, attribute.String("reason", "invalid_pet_type"))
	case errors.Is(err, application.ErrInvalidCategory):
		addCounter(ctx, s.metrics.productsRejected, 1, attribute.String("reason", "invalid_category"))
	}
}
