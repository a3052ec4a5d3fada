package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
	"github.com/Apurer/petify-api/internal/domains/customers/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

const accountTypeCustomer = "customer"

// Service exposes customer bounded context use cases.
type Service struct {
	repo   ports.Repository
	tokens ports.TokenIssuer
	clock  func() time.Time
}

type Option func(*Service)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewService(repo ports.Repository, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{repo: repo, tokens: tokens, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.Customer, error) {
	if accountType := strings.ToLower(strings.TrimSpace(input.AccountType)); accountType != "" && accountType != accountTypeCustomer {
		return nil, mapError(ErrAccountType)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	customer, err := domain.NewCustomer(input.Name, email, input.Phone, input.Address, hash)
	if err != nil {
		return nil, mapError(err)
	}
	now := s.clock().UTC()
	customer.CreatedAt, customer.UpdatedAt = now, now
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login answers ErrNotFound for an unknown email and ErrInvalidCredentials
// for a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}
	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(customer.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	pair, err := s.tokens.IssuePair(customer.ID, auth.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return &ports.LoginResult{Customer: customer, Tokens: pair}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

// Update patches the profile. A new password is re-hashed.
func (s *Service) Update(ctx context.Context, input ports.UpdateInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, strings.TrimSpace(input.ID))
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != customer.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, ErrDuplicateEmail
			} else if !errors.Is(err, ports.ErrNotFound) {
				return nil, err
			}
		}
		customer.Email = email
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, mapError(err)
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		customer.PasswordHash = hash
	}
	return s.save(ctx, customer)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

func (s *Service) AddToCart(ctx context.Context, input ports.CartInput) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, strings.TrimSpace(input.CustomerID))
	if err != nil {
		return nil, err
	}
	if err := customer.AddToCart(input.ProductID, input.Quantity); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, customer)
}

func (s *Service) RemoveFromCart(ctx context.Context, customerID, productID string) (*domain.Customer, error) {
	customer, err := s.repo.GetByID(ctx, strings.TrimSpace(customerID))
	if err != nil {
		return nil, err
	}
	customer.RemoveFromCart(productID)
	return s.save(ctx, customer)
}

func (s *Service) save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := customer.Validate(); err != nil {
		return nil, mapError(err)
	}
	customer.UpdatedAt = s.clock().UTC()
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
