// Package targets connects ratings to the catalog and seller contexts.
package targets

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
	ratingports "github.com/Apurer/petify-api/internal/domains/ratings/ports"
	sellerports "github.com/Apurer/petify-api/internal/domains/sellers/ports"
)

var (
	_ ratingports.TargetChecker    = (*Products)(nil)
	_ ratingports.SummaryPublisher = (*Products)(nil)
	_ ratingports.TargetChecker    = (*Sellers)(nil)
)

// Products resolves product ratings against the catalog and stores their
// summary on the product.
type Products struct {
	products catalogports.ProductService
}

func NewProducts(products catalogports.ProductService) *Products {
	return &Products{products: products}
}

// Exists rejects missing and soft-deleted products.
func (p *Products) Exists(ctx context.Context, id string) error {
	found, err := p.products.GetProduct(ctx, id)
	if errors.Is(err, catalogports.ErrProductNotFound) {
		return fmt.Errorf("%w: product %s", ratingports.ErrTargetNotFound, id)
	}
	if err != nil {
		return err
	}
	if found.Entity.IsDeleted {
		return fmt.Errorf("%w: product %s is deleted", ratingports.ErrTargetNotFound, id)
	}
	return nil
}

func (p *Products) PublishSummary(ctx context.Context, id string, summary domain.Summary) error {
	return p.products.ApplyRatingSummary(ctx, id, summary.Average, summary.Total)
}

// Sellers resolves seller ratings against the seller registry.
type Sellers struct {
	sellers sellerports.Service
}

func NewSellers(sellers sellerports.Service) *Sellers {
	return &Sellers{sellers: sellers}
}

func (s *Sellers) Exists(ctx context.Context, id string) error {
	_, err := s.sellers.GetSeller(ctx, id)
	if errors.Is(err, sellerports.ErrNotFound) {
		return fmt.Errorf("%w: seller %s", ratingports.ErrTargetNotFound, id)
	}
	return err
}
