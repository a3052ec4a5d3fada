package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/orders/domain"
	"github.com/Apurer/petify-api/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingCustomer) ||
		errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrMissingProduct) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) ||
		errors.Is(err, domain.ErrInvalidPaymentMethod) ||
		errors.Is(err, domain.ErrRefundNotAllowed) ||
		errors.Is(err, ports.ErrProductUnavailable) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
