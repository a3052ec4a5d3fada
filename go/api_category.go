package petifyserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/petify-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/petify-api/internal/shared/errors"
)

// CategoryAPI wires HTTP transport with the category store and the move orchestrator.
type CategoryAPI struct {
	service catalogports.CategoryService
	moves   catalogports.MoveOrchestrator
}

// NewCategoryAPI creates a CategoryAPI. A nil orchestrator renames through the service directly.
func NewCategoryAPI(service catalogports.CategoryService, moves catalogports.MoveOrchestrator) CategoryAPI {
	return CategoryAPI{service: service, moves: moves}
}

// Post /api/categories
func (api *CategoryAPI) CreateCategory(c *gin.Context) {
	var payload catalogmapper.CreateCategory
	if !bindJSON(c, &payload) {
		return
	}
	saved, err := api.service.CreateCategory(c.Request.Context(), catalogtypes.CreateCategoryInput{
		PetType:           payload.PetType,
		ProductCategories: payload.ProductCategories,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromCategory(saved))
}

// Get /api/categories
func (api *CategoryAPI) ListCategories(c *gin.Context) {
	list, err := api.service.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromCategoryList(list))
}

// Get /api/categories/:id
func (api *CategoryAPI) GetCategory(c *gin.Context) {
	found, err := api.service.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromCategory(found))
}

// Put|Patch /api/categories/:id
// The body selects the operation: add a subcategory, rename or move one, or rename the category.
func (api *CategoryAPI) UpdateCategory(c *gin.Context) {
	var payload catalogmapper.CategoryUpdate
	if !bindJSON(c, &payload) {
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()
	switch {
	case payload.NewCategory != nil:
		updated, err := api.service.AddSubcategory(ctx, catalogtypes.AddSubcategoryInput{CategoryID: id, Name: *payload.NewCategory})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, catalogmapper.FromCategory(updated))
	case payload.OldSubcategory != nil || payload.NewSubcategory != nil:
		result, err := api.renameSubcategory(c, catalogmapper.ToRenameInput(id, payload))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if result.Moved {
			c.JSON(http.StatusOK, catalogmapper.FromMove(result))
			return
		}
		c.JSON(http.StatusOK, catalogmapper.FromCategory(result.Source))
	case payload.PetType != nil:
		updated, err := api.service.RenameCategory(ctx, catalogtypes.RenameCategoryInput{CategoryID: id, PetType: *payload.PetType})
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, catalogmapper.FromCategory(updated))
	default:
		respondProblem(c, apierrors.ErrBadRequest.WithDetail("expected newCategory, oldSubcategory/newSubcategory or pet_type"))
	}
}

func (api *CategoryAPI) renameSubcategory(c *gin.Context, input catalogtypes.RenameSubcategoryInput) (*catalogtypes.RenameSubcategoryResult, error) {
	if api.moves != nil {
		return api.moves.MoveSubcategory(c.Request.Context(), input)
	}
	return api.service.RenameSubcategory(c.Request.Context(), input)
}

// Delete /api/categories/:id/subcategories/:name
func (api *CategoryAPI) RemoveSubcategory(c *gin.Context) {
	updated, err := api.service.RemoveSubcategory(c.Request.Context(), catalogtypes.RemoveSubcategoryInput{
		CategoryID: c.Param("id"),
		Name:       c.Param("name"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromCategory(updated))
}

// Delete /api/categories/:id
func (api *CategoryAPI) DeleteCategory(c *gin.Context) {
	if err := api.service.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Category deleted"))
}

// Post /api/categories/moves/reconcile
func (api *CategoryAPI) ReconcileMoves(c *gin.Context) {
	result, err := api.service.ReconcileMoves(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	failed := result.Failed
	if failed == nil {
		failed = map[string]string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"examined":   result.Examined,
		"completed":  result.Completed,
		"rolledBack": result.RolledBack,
		"failed":     failed,
	})
}

func trimmedQuery(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}
