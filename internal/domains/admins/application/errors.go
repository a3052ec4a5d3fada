package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid admin input")
	// ErrDuplicateEmail signals an email already owned by another admin.
	ErrDuplicateEmail = errors.New("admin already exists")
	// ErrInvalidCredentials wraps password mismatches.
	ErrInvalidCredentials = errors.New("invalid password")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidRole) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	return err
}
