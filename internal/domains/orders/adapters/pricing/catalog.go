// Package pricing quotes order lines from the product catalog.
package pricing

import (
	"context"
	"errors"
	"fmt"

	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
)

var _ orderports.Catalog = (*Catalog)(nil)

// Catalog quotes the discounted product price and freezes name and first image.
type Catalog struct {
	products catalogports.ProductService
}

func NewCatalog(products catalogports.ProductService) *Catalog {
	return &Catalog{products: products}
}

func (c *Catalog) Quote(ctx context.Context, productID string) (orderports.Quote, error) {
	found, err := c.products.GetProduct(ctx, productID)
	if errors.Is(err, catalogports.ErrProductNotFound) {
		return orderports.Quote{}, fmt.Errorf("%w: %s", orderports.ErrProductUnavailable, productID)
	}
	if err != nil {
		return orderports.Quote{}, err
	}
	product := found.Entity
	if product.IsDeleted || !product.IsActive {
		return orderports.Quote{}, fmt.Errorf("%w: %s", orderports.ErrProductUnavailable, productID)
	}
	snapshot := domain.Snapshot{Name: product.Name}
	if len(product.Images) > 0 {
		snapshot.Image = product.Images[0]
	}
	return orderports.Quote{Price: product.SalePrice(), Snapshot: snapshot}, nil
}
