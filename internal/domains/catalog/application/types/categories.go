package types

import (
	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

// CategoryProjection is a category plus persistence timestamps.
type CategoryProjection = projection.Projection[*domain.Category]

// CreateCategoryInput creates a pet type with optional initial subcategories.
type CreateCategoryInput struct {
	PetType           string
	ProductCategories []string
}

// AddSubcategoryInput appends a subcategory to a category.
type AddSubcategoryInput struct {
	CategoryID string
	Name       string
}

// RenameSubcategoryInput renames a subcategory, optionally moving it to another
// category identified either by ID or by pet type.
type RenameSubcategoryInput struct {
	CategoryID       string
	OldName          string
	NewName          string
	TargetCategoryID string
	TargetPetType    string
}

// RenameSubcategoryResult reports the categories touched by a rename or move.
// Target is nil for a rename in place.
type RenameSubcategoryResult struct {
	Moved  bool
	MoveID string
	Source *CategoryProjection
	Target *CategoryProjection
}

// RemoveSubcategoryInput removes an exact subcategory entry.
type RemoveSubcategoryInput struct {
	CategoryID string
	Name       string
}

// RenameCategoryInput changes a category's pet type.
type RenameCategoryInput struct {
	CategoryID string
	PetType    string
}

// ReconcileResult summarizes a repair pass over incomplete moves.
type ReconcileResult struct {
	Examined   int
	Completed  int
	RolledBack int
	Failed     map[string]string
}
