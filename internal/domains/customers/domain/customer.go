package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName       = errors.New("name is required")
	ErrEmptyPassword   = errors.New("password is required")
	ErrInvalidEmail    = errors.New("email must contain '@'")
	ErrWeakPassword    = errors.New("password must be at least 4 characters")
	ErrEmptyProductID  = errors.New("product_id is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// CartItem is one product line held in a customer's cart.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Customer is a storefront shopper account.
type Customer struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	Cart         []CartItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCustomer builds a customer with an empty cart. The password hash is
// produced by the caller.
func NewCustomer(name, email, phone, address, passwordHash string) (*Customer, error) {
	customer := &Customer{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Address:      address,
		PasswordHash: passwordHash,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	return customer, nil
}

// ValidatePassword checks basic strength of a plain-text password.
func ValidatePassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 4 {
		return ErrWeakPassword
	}
	return nil
}

// Validate normalises the profile and re-applies core invariants.
func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrEmptyName
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(c.PasswordHash) == "" {
		return ErrEmptyPassword
	}
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	for _, item := range c.Cart {
		if item.ProductID == "" {
			return ErrEmptyProductID
		}
		if item.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// AddToCart adds quantity of a product, merging into an existing line.
// A zero quantity adds one unit.
func (c *Customer) AddToCart(productID string, quantity int) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrEmptyProductID
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		quantity = 1
	}
	for i := range c.Cart {
		if c.Cart[i].ProductID == productID {
			c.Cart[i].Quantity += quantity
			return nil
		}
	}
	c.Cart = append(c.Cart, CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveFromCart drops every line for the product. Removing an absent
// product is a no-op.
func (c *Customer) RemoveFromCart(productID string) {
	productID = strings.TrimSpace(productID)
	kept := c.Cart[:0]
	for _, item := range c.Cart {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Cart = kept
}

// Clone returns a deep copy so callers never share the cart slice.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	out := *c
	out.Cart = append([]CartItem(nil), c.Cart...)
	return &out
}
