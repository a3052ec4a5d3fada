package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// TokenIssuer signs login tokens.
type TokenIssuer interface {
	IssuePair(subject, role string) (auth.TokenPair, error)
}

// RegisterInput creates an admin account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Admin  *domain.Admin
	Tokens auth.TokenPair
}

// Service exposes admin bounded context use cases to adapters.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Admin, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, id string)
	Get(ctx context.Context, id string) (*domain.Admin, error)
	List(ctx context.Context) ([]*domain.Admin, error)
	ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error
	Delete(ctx context.Context, id string) error
	EnsureBootstrapAdmin(ctx context.Context, input RegisterInput) (*domain.Admin, bool, error)
}
