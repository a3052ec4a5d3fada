package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	IssuePair(subject, role string) (auth.TokenPair, error)
}

// RegisterInput creates a customer account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	Password string
	// AccountType, when set, must be "customer".
	AccountType string
}

// UpdateInput patches a profile. Nil fields are left unchanged.
type UpdateInput struct {
	ID       string
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	Password *string
}

// CartInput adds a product line to a cart.
type CartInput struct {
	CustomerID string
	ProductID  string
	Quantity   int
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Customer *domain.Customer
	Tokens   auth.TokenPair
}

// Service exposes customer use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
	Update(ctx context.Context, input UpdateInput) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	AddToCart(ctx context.Context, input CartInput) (*domain.Customer, error)
	RemoveFromCart(ctx context.Context, customerID, productID string) (*domain.Customer, error)
}
