package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/petify-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/petify-api/internal/domains/catalog/application/types"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

type catalogFixture struct {
	categories *CategoryService
	products   *ProductService
	dogID      string
	catID      string
}

func newCatalogFixture(t *testing.T, policy MatchPolicy) *catalogFixture {
	t.Helper()
	categoryRepo := catalogmemory.NewCategoryRepository()
	categories := NewCategoryService(categoryRepo)
	dog, cat := seedCategories(t, categories)
	return &catalogFixture{
		categories: categories,
		products:   NewProductService(catalogmemory.NewProductRepository(), NewValidator(categoryRepo, policy)),
		dogID:      dog.Entity.ID,
		catID:      cat.Entity.ID,
	}
}

func strPtr(s string) *string { return &s }

func productInput(name, petTypeID, category string) types.CreateProductInput {
	price := decimal.RequireFromString("19.99")
	stock := 5
	return types.CreateProductInput{ProductMutationInput: types.ProductMutationInput{
		Name:            strPtr(name),
		PetTypeID:       strPtr(petTypeID),
		ProductCategory: strPtr(category),
		Price:           &price,
		Stock:           &stock,
	}}
}

func TestValidator_ExactPolicy(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()

	created, err := f.products.CreateProduct(ctx, productInput("Kibble", f.dogID, "Food"))
	require.NoError(t, err)
	require.True(t, created.Entity.IsActive)
	require.True(t, created.Entity.Price.Equal(decimal.RequireFromString("19.99")))

	_, err = f.products.CreateProduct(ctx, productInput("Kibble", f.dogID, "food"))
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = f.products.CreateProduct(ctx, productInput("Kibble", f.dogID, "Litter"))
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = f.products.CreateProduct(ctx, productInput("Kibble", "missing", "Food"))
	require.ErrorIs(t, err, ErrInvalidPetType)
}

func TestValidator_CaseInsensitivePolicy(t *testing.T) {
	f := newCatalogFixture(t, MatchCaseInsensitive)

	_, err := f.products.CreateProduct(context.Background(), productInput("Kibble", f.dogID, "fOOD"))
	require.NoError(t, err)
}

func TestParseMatchPolicy(t *testing.T) {
	policy, err := ParseMatchPolicy("")
	require.NoError(t, err)
	require.Equal(t, MatchExact, policy)

	policy, err = ParseMatchPolicy("Case-Insensitive")
	require.NoError(t, err)
	require.Equal(t, MatchCaseInsensitive, policy)

	_, err = ParseMatchPolicy("fuzzy")
	require.Error(t, err)
}

func TestCreateProduct_RequiresPriceAndStock(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()

	input := productInput("Kibble", f.dogID, "Food")
	input.Price = nil
	_, err := f.products.CreateProduct(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)

	input = productInput("Kibble", f.dogID, "Food")
	input.Stock = nil
	_, err = f.products.CreateProduct(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)

	input = productInput("Kibble", f.dogID, "Food")
	discount := decimal.NewFromInt(150)
	input.Discount = &discount
	_, err = f.products.CreateProduct(ctx, input)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateProduct_StaleCategorySurvivesUnrelatedPatch(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()

	created, err := f.products.CreateProduct(ctx, productInput("Squeaky Bone", f.dogID, "Toys"))
	require.NoError(t, err)

	_, err = f.categories.RemoveSubcategory(ctx, types.RemoveSubcategoryInput{CategoryID: f.dogID, Name: "Toys"})
	require.NoError(t, err)

	updated, err := f.products.UpdateProduct(ctx, types.UpdateProductInput{
		ID:                   created.Entity.ID,
		ProductMutationInput: types.ProductMutationInput{Name: strPtr("Squeaky Bone XL")},
	})
	require.NoError(t, err)
	require.Equal(t, "Toys", updated.Entity.ProductCategory)
	require.Equal(t, created.Metadata.CreatedAt, updated.Metadata.CreatedAt)

	_, err = f.products.UpdateProduct(ctx, types.UpdateProductInput{
		ID:                   created.Entity.ID,
		ProductMutationInput: types.ProductMutationInput{PetTypeID: strPtr(f.dogID), ProductCategory: strPtr("Toys")},
	})
	require.ErrorIs(t, err, ErrInvalidCategory)

	moved, err := f.products.UpdateProduct(ctx, types.UpdateProductInput{
		ID:                   created.Entity.ID,
		ProductMutationInput: types.ProductMutationInput{PetTypeID: strPtr(f.catID)},
	})
	require.NoError(t, err)
	require.Equal(t, f.catID, moved.Entity.PetTypeID)

	_, err = f.products.UpdateProduct(ctx, types.UpdateProductInput{
		ID:                   created.Entity.ID,
		ProductMutationInput: types.ProductMutationInput{PetTypeID: strPtr("missing")},
	})
	require.ErrorIs(t, err, ErrInvalidPetType)
}

func TestDeleteProduct_SoftDeletes(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()

	created, err := f.products.CreateProduct(ctx, productInput("Kibble", f.dogID, "Food"))
	require.NoError(t, err)
	require.NoError(t, f.products.DeleteProduct(ctx, created.Entity.ID))

	found, err := f.products.GetProduct(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.True(t, found.Entity.IsDeleted)

	list, err := f.products.ListProducts(ctx, types.ProductQuery{})
	require.NoError(t, err)
	require.Empty(t, list)

	err = f.products.DeleteProduct(ctx, created.Entity.ID)
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	_, err = f.products.UpdateProduct(ctx, types.UpdateProductInput{ID: created.Entity.ID})
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestListProducts_FiltersByPetTypeAndName(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()

	_, err := f.products.CreateProduct(ctx, productInput("Chicken Kibble", f.dogID, "Food"))
	require.NoError(t, err)
	_, err = f.products.CreateProduct(ctx, productInput("Rope Toy", f.dogID, "Toys"))
	require.NoError(t, err)
	_, err = f.products.CreateProduct(ctx, productInput("Clumping Litter", f.catID, "Litter"))
	require.NoError(t, err)

	dogs, err := f.products.ListProducts(ctx, types.ProductQuery{PetTypeID: f.dogID})
	require.NoError(t, err)
	require.Len(t, dogs, 2)

	found, err := f.products.ListProducts(ctx, types.ProductQuery{Search: "kIBBLE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Chicken Kibble", found[0].Entity.Name)
}

func TestApplyRatingSummary(t *testing.T) {
	f := newCatalogFixture(t, MatchExact)
	ctx := context.Background()
	created, err := f.products.CreateProduct(ctx, productInput("Kibble", f.dogID, "Food"))
	require.NoError(t, err)

	require.NoError(t, f.products.ApplyRatingSummary(ctx, created.Entity.ID, 4.5, 2))
	got, err := f.products.GetProduct(ctx, created.Entity.ID)
	require.NoError(t, err)
	require.InDelta(t, 4.5, got.Entity.AvgRating, 0.0001)
	require.Equal(t, 2, got.Entity.TotalReviews)

	require.ErrorIs(t, f.products.ApplyRatingSummary(ctx, created.Entity.ID, 6, 1), ErrInvalidInput)
	require.ErrorIs(t, f.products.ApplyRatingSummary(ctx, "missing", 3, 1), ports.ErrProductNotFound)
}
