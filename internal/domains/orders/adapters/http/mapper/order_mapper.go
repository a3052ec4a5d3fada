package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/petify-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/petify-api/internal/domains/orders/ports"
)

// Snapshot is the product detail frozen on an order line.
type Snapshot struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Item is the transport shape of an order line.
type Item struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Snapshot  Snapshot        `json:"product_snapshot"`
}

// Order is the transport shape of an order.
type Order struct {
	ID              string          `json:"_id"`
	CustomerID      string          `json:"customer_id"`
	Products        []Item          `json:"products"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	OrderStatus     string          `json:"order_status"`
	RefundRequested bool            `json:"refund_requested"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PlaceOrder is the POST /orders body. The total is computed server side.
type PlaceOrder struct {
	CustomerID    string `json:"customer_id"`
	Products      []Item `json:"products"`
	PaymentMethod string `json:"payment_method"`
}

// StatusUpdate is the PATCH /orders/:id/status body.
type StatusUpdate struct {
	OrderStatus   string `json:"order_status"`
	PaymentStatus string `json:"payment_status"`
}

func ToPlaceOrderInput(body PlaceOrder) orderports.PlaceOrderInput {
	items := make([]orderdomain.Item, 0, len(body.Products))
	for _, item := range body.Products {
		items = append(items, orderdomain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Snapshot:  orderdomain.Snapshot{Name: item.Snapshot.Name, Image: item.Snapshot.Image},
		})
	}
	return orderports.PlaceOrderInput{
		CustomerID:    body.CustomerID,
		Items:         items,
		PaymentMethod: orderdomain.PaymentMethod(body.PaymentMethod),
	}
}

func ToStatusInput(id string, body StatusUpdate) orderports.UpdateStatusInput {
	return orderports.UpdateStatusInput{
		OrderID:       id,
		Status:        orderdomain.Status(body.OrderStatus),
		PaymentStatus: orderdomain.PaymentStatus(body.PaymentStatus),
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *orderdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := make([]Item, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Snapshot:  Snapshot{Name: item.Snapshot.Name, Image: item.Snapshot.Image},
		})
	}
	return Order{
		ID:              order.ID,
		CustomerID:      order.CustomerID,
		Products:        items,
		TotalAmount:     order.TotalAmount,
		PaymentStatus:   string(order.PaymentStatus),
		PaymentMethod:   string(order.PaymentMethod),
		OrderStatus:     string(order.Status),
		RefundRequested: order.RefundRequested,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func FromDomainOrders(list []*orderdomain.Order) []Order {
	out := make([]Order, 0, len(list))
	for _, o := range list {
		out = append(out, FromDomainOrder(o))
	}
	return out
}
