package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
)

// ErrInvalidInput signals the request violated a rating invariant.
var ErrInvalidInput = errors.New("invalid rating input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTarget) ||
		errors.Is(err, domain.ErrInvalidTargetType) ||
		errors.Is(err, domain.ErrScoreOutOfRange) ||
		errors.Is(err, domain.ErrEmptyCustomer) ||
		errors.Is(err, domain.ErrReviewTooLong) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
