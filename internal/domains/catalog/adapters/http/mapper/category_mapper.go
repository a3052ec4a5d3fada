package mapper

import (
	"time"

	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
)

// Category is the transport shape of a category.
type Category struct {
	ID                string    `json:"_id"`
	PetType           string    `json:"pet_type"`
	ProductCategories []string  `json:"product_categories"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// CreateCategory is the POST /categories body.
type CreateCategory struct {
	PetType           string   `json:"pet_type"`
	ProductCategories []string `json:"product_categories"`
}

// CategoryUpdate is the PUT/PATCH /categories/:id body. Exactly one shape is
// expected: NewCategory adds, OldSubcategory+NewSubcategory renames or moves,
// PetType renames the category itself.
type CategoryUpdate struct {
	NewCategory      *string `json:"newCategory"`
	OldSubcategory   *string `json:"oldSubcategory"`
	NewSubcategory   *string `json:"newSubcategory"`
	NewPetType       *string `json:"newPetType"`
	TargetCategoryID *string `json:"targetCategoryId"`
	PetType          *string `json:"pet_type"`
}

// MoveResponse is returned when a subcategory changes category.
type MoveResponse struct {
	Message        string   `json:"message"`
	MoveID         string   `json:"moveId,omitempty"`
	SourceCategory Category `json:"sourceCategory"`
	TargetCategory Category `json:"targetCategory"`
}

// ToRenameInput builds the rename/move input for a category update.
func ToRenameInput(categoryID string, body CategoryUpdate) catalogtypes.RenameSubcategoryInput {
	return catalogtypes.RenameSubcategoryInput{
		CategoryID:       categoryID,
		OldName:          deref(body.OldSubcategory),
		NewName:          deref(body.NewSubcategory),
		TargetPetType:    deref(body.NewPetType),
		TargetCategoryID: deref(body.TargetCategoryID),
	}
}

// FromCategory converts a projection to its transport shape.
func FromCategory(p *catalogtypes.CategoryProjection) Category {
	if p == nil || p.Entity == nil {
		return Category{}
	}
	subcategories := append([]string{}, p.Entity.ProductCategories...)
	return Category{
		ID:                p.Entity.ID,
		PetType:           p.Entity.PetType,
		ProductCategories: subcategories,
		IsActive:          p.Entity.IsActive,
		CreatedAt:         p.Metadata.CreatedAt,
		UpdatedAt:         p.Metadata.UpdatedAt,
	}
}

// FromCategoryList converts a projection list.
func FromCategoryList(list []*catalogtypes.CategoryProjection) []Category {
	out := make([]Category, 0, len(list))
	for _, p := range list {
		out = append(out, FromCategory(p))
	}
	return out
}

// FromMove renders a cross-category move.
func FromMove(result *catalogtypes.RenameSubcategoryResult) MoveResponse {
	return MoveResponse{
		Message:        "Subcategory moved",
		MoveID:         result.MoveID,
		SourceCategory: FromCategory(result.Source),
		TargetCategory: FromCategory(result.Target),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
