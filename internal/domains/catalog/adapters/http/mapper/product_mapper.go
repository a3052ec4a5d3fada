package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
)

// Variant is the transport shape of a product variant.
type Variant struct {
	Weight   string          `json:"weight"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Discount decimal.Decimal `json:"discount"`
}

// Product is the transport shape of a product.
type Product struct {
	ID              string          `json:"_id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand,omitempty"`
	PetTypeID       string          `json:"pet_type_id"`
	ProductCategory string          `json:"product_category"`
	Tags            []string        `json:"tags"`
	Description     string          `json:"description,omitempty"`
	Images          []string        `json:"images"`
	Season          string          `json:"season,omitempty"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	Discount        decimal.Decimal `json:"discount"`
	Variants        []Variant       `json:"variants"`
	AvgRating       float64         `json:"avg_rating"`
	TotalReviews    int             `json:"total_reviews"`
	AddedByAdminID  string          `json:"added_by_admin_id,omitempty"`
	IsActive        bool            `json:"is_active"`
	IsDeleted       bool            `json:"is_deleted"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ProductMutation is the create/update body. Absent fields stay unchanged on update.
type ProductMutation struct {
	Name            *string          `json:"name"`
	Brand           *string          `json:"brand"`
	PetTypeID       *string          `json:"pet_type_id"`
	ProductCategory *string          `json:"product_category"`
	Tags            *[]string        `json:"tags"`
	Description     *string          `json:"description"`
	Images          *[]string        `json:"images"`
	Season          *string          `json:"season"`
	Price           *decimal.Decimal `json:"price"`
	Stock           *int             `json:"stock"`
	Discount        *decimal.Decimal `json:"discount"`
	Variants        *[]Variant       `json:"variants"`
	IsActive        *bool            `json:"is_active"`
	AddedByAdminID  *string          `json:"added_by_admin_id"`
}

// ToMutationInput converts a transport body to the application input.
func ToMutationInput(m ProductMutation) catalogtypes.ProductMutationInput {
	in := catalogtypes.ProductMutationInput{
		Name:            m.Name,
		Brand:           m.Brand,
		PetTypeID:       m.PetTypeID,
		ProductCategory: m.ProductCategory,
		Tags:            m.Tags,
		Description:     m.Description,
		Images:          m.Images,
		Season:          m.Season,
		Price:           m.Price,
		Stock:           m.Stock,
		Discount:        m.Discount,
		IsActive:        m.IsActive,
		AddedByAdminID:  m.AddedByAdminID,
	}
	if m.Variants != nil {
		variants := make([]domain.Variant, 0, len(*m.Variants))
		for _, v := range *m.Variants {
			variants = append(variants, domain.Variant{Weight: v.Weight, Price: v.Price, Stock: v.Stock, Discount: v.Discount})
		}
		in.Variants = &variants
	}
	return in
}

// FromProduct converts a projection to its transport shape.
func FromProduct(p *catalogtypes.ProductProjection) Product {
	if p == nil || p.Entity == nil {
		return Product{}
	}
	e := p.Entity
	variants := make([]Variant, 0, len(e.Variants))
	for _, v := range e.Variants {
		variants = append(variants, Variant{Weight: v.Weight, Price: v.Price, Stock: v.Stock, Discount: v.Discount})
	}
	return Product{
		ID:              e.ID,
		Name:            e.Name,
		Brand:           e.Brand,
		PetTypeID:       e.PetTypeID,
		ProductCategory: e.ProductCategory,
		Tags:            append([]string{}, e.Tags...),
		Description:     e.Description,
		Images:          append([]string{}, e.Images...),
		Season:          e.Season,
		Price:           e.Price,
		Stock:           e.Stock,
		Discount:        e.Discount,
		Variants:        variants,
		AvgRating:       e.AvgRating,
		TotalReviews:    e.TotalReviews,
		AddedByAdminID:  e.AddedByAdminID,
		IsActive:        e.IsActive,
		IsDeleted:       e.IsDeleted,
		CreatedAt:       p.Metadata.CreatedAt,
		UpdatedAt:       p.Metadata.UpdatedAt,
	}
}

// FromProductList converts a projection list.
func FromProductList(list []*catalogtypes.ProductProjection) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromProduct(p))
	}
	return out
}
