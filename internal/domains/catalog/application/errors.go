package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var (
	// ErrInvalidInput signals a missing or malformed field.
	ErrInvalidInput = errors.New("invalid catalog input")
	// ErrDuplicateKind signals a uniqueness violation on a pet type or subcategory name.
	ErrDuplicateKind = errors.New("duplicate entry")
	// ErrInvalidPetType signals a product referencing a category that does not exist.
	ErrInvalidPetType = errors.New("invalid pet type")
	// ErrInvalidCategory signals a product category that is not offered by its pet type.
	ErrInvalidCategory = errors.New("invalid product category")
	// ErrMoveIncomplete signals a subcategory move that may be partially applied.
	// Callers must re-read both categories; a journaled move is repaired by ReconcileMoves.
	ErrMoveIncomplete = errors.New("subcategory move incomplete")

	ErrPriceRequired = errors.New("price is required")
	ErrStockRequired = errors.New("stock is required")

	ErrInvalidRatingSummary = errors.New("rating summary out of range")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrDuplicateKind) || errors.Is(err, ErrMoveIncomplete) {
		return err
	}
	if errors.Is(err, domain.ErrEmptyPetType) ||
		errors.Is(err, domain.ErrEmptySubcategory) ||
		errors.Is(err, domain.ErrEmptyProductName) ||
		errors.Is(err, domain.ErrMissingPetType) ||
		errors.Is(err, domain.ErrMissingCategory) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidDiscount) ||
		errors.Is(err, ErrPriceRequired) ||
		errors.Is(err, ErrStockRequired) ||
		errors.Is(err, ErrInvalidRatingSummary) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrDuplicateSubcategory) || errors.Is(err, ports.ErrDuplicatePetType) {
		return fmt.Errorf("%w: %w", ErrDuplicateKind, err)
	}
	if errors.Is(err, domain.ErrProductAlreadyDeleted) {
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	}
	return err
}
