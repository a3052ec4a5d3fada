package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
)

var (
	// ErrInvalidInput signals the request violated a seller invariant.
	ErrInvalidInput = errors.New("invalid seller input")
	// ErrDuplicateEmail signals an email already owned by another seller.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials signals a password mismatch at login.
	ErrInvalidCredentials = errors.New("invalid password")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDuplicateEmail) {
		return err
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrInvalidDecision) ||
		errors.Is(err, domain.ErrEmptyPetType) ||
		errors.Is(err, domain.ErrEmptyBreed) ||
		errors.Is(err, domain.ErrInvalidGender) ||
		errors.Is(err, domain.ErrNegativeAge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", ErrDuplicateEmail, err)
	}
	if errors.Is(err, domain.ErrPetNotRegistered) {
		return fmt.Errorf("%w: %w", ports.ErrPetNotFound, err)
	}
	return err
}
