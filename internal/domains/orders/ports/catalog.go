package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
)

// ErrProductUnavailable is returned for order lines naming a missing or deleted product.
var ErrProductUnavailable = errors.New("product unavailable")

// Quote is the catalog's current price and display details for one product.
type Quote struct {
	Price    decimal.Decimal
	Snapshot domain.Snapshot
}

// Catalog prices order lines.
type Catalog interface {
	Quote(ctx context.Context, productID string) (Quote, error)
}
