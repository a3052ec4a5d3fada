package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
)

// PlaceOrderInput carries a new order.
type PlaceOrderInput struct {
	CustomerID    string
	Items         []domain.Item
	PaymentMethod domain.PaymentMethod
	// IdempotencyKey replays the first order placed with the same key.
	IdempotencyKey string
}

// UpdateStatusInput sets the order and/or payment status.
type UpdateStatusInput struct {
	OrderID       string
	Status        domain.Status
	PaymentStatus domain.PaymentStatus
}

// Service exposes order use cases.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter Filter) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, input UpdateStatusInput) (*domain.Order, error)
	RequestRefund(ctx context.Context, id string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) error
}
