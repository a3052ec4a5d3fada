package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

// MatchPolicy selects how a product category is compared with a pet type's subcategories.
type MatchPolicy string

const (
	// MatchExact requires the literal spelling stored on the category.
	MatchExact MatchPolicy = "exact"
	// MatchCaseInsensitive accepts any casing, like the category store's own duplicate checks.
	MatchCaseInsensitive MatchPolicy = "case-insensitive"
)

// ParseMatchPolicy maps a configuration value to a policy. Empty means MatchExact.
func ParseMatchPolicy(raw string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchCaseInsensitive, "insensitive", "fold":
		return MatchCaseInsensitive, nil
	default:
		return "", fmt.Errorf("unknown category match policy %q", raw)
	}
}

var _ ports.ProductValidator = (*Validator)(nil)

// Validator gates product writes on the category store.
type Validator struct {
	categories ports.CategoryRepository
	policy     MatchPolicy
}

// NewValidator builds a validator reading categories from repo.
func NewValidator(categories ports.CategoryRepository, policy MatchPolicy) *Validator {
	if policy == "" {
		policy = MatchExact
	}
	return &Validator{categories: categories, policy: policy}
}

// Policy reports the configured match policy.
func (v *Validator) Policy() MatchPolicy {
	return v.policy
}

// ValidatePetType fails with ErrInvalidPetType when petTypeID names no category.
func (v *Validator) ValidatePetType(ctx context.Context, petTypeID string) error {
	_, err := v.lookup(ctx, petTypeID)
	return err
}

// ValidateProductCategory fails with ErrInvalidPetType when petTypeID names no
// category and with ErrInvalidCategory when productCategory is not offered by it.
func (v *Validator) ValidateProductCategory(ctx context.Context, petTypeID, productCategory string) error {
	found, err := v.lookup(ctx, petTypeID)
	if err != nil {
		return err
	}
	for _, name := range found.Entity.ProductCategories {
		if v.matches(name, productCategory) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not offered for %q", ErrInvalidCategory, productCategory, found.Entity.PetType)
}

func (v *Validator) lookup(ctx context.Context, petTypeID string) (*types.CategoryProjection, error) {
	found, err := v.categories.GetByID(ctx, strings.TrimSpace(petTypeID))
	if errors.Is(err, ports.ErrCategoryNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPetType, petTypeID)
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (v *Validator) matches(stored, candidate string) bool {
	if v.policy == MatchCaseInsensitive {
		return strings.EqualFold(stored, strings.TrimSpace(candidate))
	}
	return stored == candidate
}
