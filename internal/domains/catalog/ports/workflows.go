package ports

import (
	"context"

	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
)

// MoveOrchestrator runs subcategory renames, executing moves durably when possible.
type MoveOrchestrator interface {
	MoveSubcategory(ctx context.Context, input types.RenameSubcategoryInput) (*types.RenameSubcategoryResult, error)
}
