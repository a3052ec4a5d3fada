package mapper

import (
	"time"

	customerdomain "github.com/Apurer/petify-api/internal/domains/customers/domain"
	customerports "github.com/Apurer/petify-api/internal/domains/customers/ports"
)

// CartItem is one cart line on the wire.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Customer is the transport shape of a customer; the password hash is never rendered.
type Customer struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Cart      []CartItem `json:"cart"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Signup is the POST /customers/signup body.
type Signup struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Password    string `json:"password"`
	AccountType string `json:"account_type"`
}

// Credentials is the customer login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate is the PUT /customers/:id body.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Password *string `json:"password"`
}

// AddCartItem is the POST /customers/:id/cart body.
type AddCartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func ToRegisterInput(body Signup) customerports.RegisterInput {
	return customerports.RegisterInput{
		Name:        body.Name,
		Email:       body.Email,
		Phone:       body.Phone,
		Address:     body.Address,
		Password:    body.Password,
		AccountType: body.AccountType,
	}
}

func ToUpdateInput(id string, body ProfileUpdate) customerports.UpdateInput {
	return customerports.UpdateInput{
		ID:       id,
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Address:  body.Address,
		Password: body.Password,
	}
}

func ToCartInput(id string, body AddCartItem) customerports.CartInput {
	return customerports.CartInput{CustomerID: id, ProductID: body.ProductID, Quantity: body.Quantity}
}

func FromCart(items []customerdomain.CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func FromCustomer(c *customerdomain.Customer) Customer {
	if c == nil {
		return Customer{}
	}
	return Customer{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Cart:      FromCart(c.Cart),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromCustomerList(list []*customerdomain.Customer) []Customer {
	out := make([]Customer, 0, len(list))
	for _, c := range list {
		out = append(out, FromCustomer(c))
	}
	return out
}
