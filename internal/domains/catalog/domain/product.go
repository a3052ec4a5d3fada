package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyProductName      = errors.New("product name is required")
	ErrMissingPetType        = errors.New("pet_type_id is required")
	ErrMissingCategory       = errors.New("product_category is required")
	ErrNegativePrice         = errors.New("price must not be negative")
	ErrNegativeStock         = errors.New("stock must not be negative")
	ErrInvalidDiscount       = errors.New("discount must be between 0 and 100")
	ErrProductAlreadyDeleted = errors.New("product already deleted")
)

var hundred = decimal.NewFromInt(100)

// Variant is a purchasable size or weight of a product.
type Variant struct {
	Weight   string
	Price    decimal.Decimal
	Stock    int
	Discount decimal.Decimal
}

// Product is a catalog item referencing a Category by PetTypeID.
type Product struct {
	ID              string
	Name            string
	Brand           string
	PetTypeID       string
	ProductCategory string
	Tags            []string
	Description     string
	Images          []string
	Season          string
	Price           decimal.Decimal
	Stock           int
	Discount        decimal.Decimal
	Variants        []Variant
	AvgRating       float64
	TotalReviews    int
	AddedByAdminID  string
	IsActive        bool
	IsDeleted       bool
}

// Validate checks the field-level invariants of a product. Category membership is
// checked by the application layer, which can see the catalog.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProductName
	}
	if strings.TrimSpace(p.PetTypeID) == "" {
		return ErrMissingPetType
	}
	if strings.TrimSpace(p.ProductCategory) == "" {
		return ErrMissingCategory
	}
	if err := validatePricing(p.Price, p.Stock, p.Discount); err != nil {
		return err
	}
	for _, v := range p.Variants {
		if err := validatePricing(v.Price, v.Stock, v.Discount); err != nil {
			return err
		}
	}
	return nil
}

// SoftDelete flips the deletion flag. The product stays addressable by ID.
func (p *Product) SoftDelete() error {
	if p.IsDeleted {
		return ErrProductAlreadyDeleted
	}
	p.IsDeleted = true
	return nil
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Tags = append([]string(nil), p.Tags...)
	clone.Images = append([]string(nil), p.Images...)
	clone.Variants = append([]Variant(nil), p.Variants...)
	return &clone
}

// SalePrice is Price less the percentage Discount, rounded to cents.
func (p *Product) SalePrice() decimal.Decimal {
	return p.Price.Mul(hundred.Sub(p.Discount)).Div(hundred).Round(2)
}

func validatePricing(price decimal.Decimal, stock int, discount decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	if stock < 0 {
		return ErrNegativeStock
	}
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return ErrInvalidDiscount
	}
	return nil
}
