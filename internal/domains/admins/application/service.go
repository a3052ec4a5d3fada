package application

import (
	"context"
	"errors"
	"strings"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// Service exposes admin bounded context use cases.
type Service struct {
	repo     ports.Repository
	sessions ports.SessionStore
	tokens   ports.TokenIssuer
}

func NewService(repo ports.Repository, sessions ports.SessionStore, tokens ports.TokenIssuer) *Service {
	if sessions == nil {
		sessions = ports.NoopSessionStore
	}
	return &Service{repo: repo, sessions: sessions, tokens: tokens}
}

// Register creates an admin. Callers are expected to have checked that the
// requester is a superadmin.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*domain.Admin, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
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
	admin, err := domain.NewAdmin(input.Name, email, hash, role)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, admin)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(admin.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	pair, err := s.tokens.IssuePair(admin.ID, string(admin.Role))
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, admin.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return &ports.LoginResult{Admin: admin, Tokens: pair}, nil
}

func (s *Service) Logout(ctx context.Context, id string) {
	if strings.TrimSpace(id) == "" {
		return
	}
	_ = s.sessions.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Admin, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) List(ctx context.Context) ([]*domain.Admin, error) {
	return s.repo.List(ctx)
}

// ChangePassword replaces the password after checking the old one.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if strings.TrimSpace(oldPassword) == "" {
		return mapError(domain.ErrEmptyPassword)
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return mapError(err)
	}
	admin, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !auth.CheckPassword(admin.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	admin.PasswordHash = hash
	if _, err := s.repo.Save(ctx, admin); err != nil {
		return mapError(err)
	}
	_ = s.sessions.Delete(ctx, admin.ID)
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_ = s.sessions.Delete(ctx, id)
	return s.repo.Delete(ctx, strings.TrimSpace(id))
}

// EnsureBootstrapAdmin creates a superadmin from input when none exists yet.
// It reports whether an admin was created.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, input ports.RegisterInput) (*domain.Admin, bool, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, a := range admins {
		if a.IsSuperAdmin() {
			return a, false, nil
		}
	}
	if strings.TrimSpace(input.Name) == "" {
		input.Name = "Super Admin"
	}
	input.Role = string(domain.RoleSuperAdmin)
	created, err := s.Register(ctx, input)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

var _ ports.Service = (*Service)(nil)
