package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus enumerates payment progression.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// PaymentMethod enumerates accepted payment methods.
type PaymentMethod string

const (
	MethodCashOnDelivery PaymentMethod = "cod"
	MethodCard           PaymentMethod = "card"
	MethodPayPal         PaymentMethod = "paypal"
)

var (
	ErrMissingCustomer      = errors.New("customer id is required")
	ErrNoItems              = errors.New("order must contain at least one item")
	ErrMissingProduct       = errors.New("item product id is required")
	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrNegativePrice        = errors.New("item price must not be negative")
	ErrInvalidStatus        = errors.New("order status is invalid")
	ErrInvalidPaymentStatus = errors.New("payment status is invalid")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
	ErrRefundNotAllowed     = errors.New("refund can only be requested for paid orders")
)

// Snapshot freezes the product details shown at purchase time.
type Snapshot struct {
	Name  string
	Image string
}

// Item is one order line.
type Item struct {
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Snapshot  Snapshot
}

// Subtotal is Price times Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order models a customer purchase.
type Order struct {
	ID              string
	CustomerID      string
	Items           []Item
	TotalAmount     decimal.Decimal
	PaymentStatus   PaymentStatus
	PaymentMethod   PaymentMethod
	Status          Status
	RefundRequested bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder validates the items, applies defaults and computes the total.
func NewOrder(id, customerID string, items []Item, method PaymentMethod) (*Order, error) {
	if method == "" {
		method = MethodCashOnDelivery
	}
	order := &Order{
		ID:            strings.TrimSpace(id),
		CustomerID:    strings.TrimSpace(customerID),
		Items:         append([]Item(nil), items...),
		PaymentStatus: PaymentPending,
		PaymentMethod: method,
		Status:        StatusPending,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	order.TotalAmount = order.Total()
	return order, nil
}

// Total sums the item subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrMissingCustomer
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrMissingProduct
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrNegativePrice
		}
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if !o.PaymentStatus.Valid() {
		return ErrInvalidPaymentStatus
	}
	if !o.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

// UpdateStatus sets the order and/or payment status. Empty values are left unchanged.
func (o *Order) UpdateStatus(status Status, payment PaymentStatus) error {
	if status != "" && !status.Valid() {
		return ErrInvalidStatus
	}
	if payment != "" && !payment.Valid() {
		return ErrInvalidPaymentStatus
	}
	if status != "" {
		o.Status = status
	}
	if payment != "" {
		o.PaymentStatus = payment
	}
	return nil
}

// RequestRefund flags a paid order for refund.
func (o *Order) RequestRefund() error {
	if o.PaymentStatus != PaymentPaid {
		return ErrRefundNotAllowed
	}
	o.RefundRequested = true
	return nil
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	default:
		return false
	}
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCashOnDelivery, MethodCard, MethodPayPal:
		return true
	default:
		return false
	}
}
