package petifyserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/petify-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

// ProductAPI wires HTTP transport with the product service.
type ProductAPI struct {
	service catalogports.ProductService
}

func NewProductAPI(service catalogports.ProductService) ProductAPI {
	return ProductAPI{service: service}
}

// Post /api/products
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload catalogmapper.ProductMutation
	if !bindJSON(c, &payload) {
		return
	}
	if payload.AddedByAdminID == nil {
		if principal, ok := auth.PrincipalFrom(c); ok {
			payload.AddedByAdminID = &principal.Subject
		}
	}
	saved, err := api.service.CreateProduct(c.Request.Context(), catalogtypes.CreateProductInput{
		ProductMutationInput: catalogmapper.ToMutationInput(payload),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, catalogmapper.FromProduct(saved))
}

// Put /api/products/:id
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload catalogmapper.ProductMutation
	if !bindJSON(c, &payload) {
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), catalogtypes.UpdateProductInput{
		ID:                   c.Param("id"),
		ProductMutationInput: catalogmapper.ToMutationInput(payload),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProduct(updated))
}

// Get /api/products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	found, err := api.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProduct(found))
}

// Get /api/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	api.list(c, catalogtypes.ProductQuery{PetTypeID: trimmedQuery(c, "pet_type_id")})
}

// Get /api/products/category/:categoryId
func (api *ProductAPI) ListProductsByCategory(c *gin.Context) {
	api.list(c, catalogtypes.ProductQuery{PetTypeID: c.Param("categoryId")})
}

// Get /api/products/search?q=
func (api *ProductAPI) SearchProducts(c *gin.Context) {
	api.list(c, catalogtypes.ProductQuery{Search: trimmedQuery(c, "q")})
}

func (api *ProductAPI) list(c *gin.Context, query catalogtypes.ProductQuery) {
	list, err := api.service.ListProducts(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProductList(list))
}

// Delete /api/products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse("Product deleted"))
}
