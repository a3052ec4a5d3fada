package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
	"github.com/Apurer/petify-api/internal/domains/customers/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid customer input")
	// ErrDuplicateEmail signals an email already owned by another customer.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials wraps password mismatches.
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrAccountType rejects sign-ups for anything other than a customer account.
	ErrAccountType = errors.New("only customer account type is allowed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrWeakPassword) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyProductID) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, ErrAccountType) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	return err
}
