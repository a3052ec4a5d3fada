package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryNormalizesPetType(t *testing.T) {
	c, err := NewCategory("c1", "  Dog ", []string{"Food", "Toys"})
	require.NoError(t, err)
	require.Equal(t, "dog", c.PetType)
	require.True(t, c.IsActive)
	require.Equal(t, []string{"Food", "Toys"}, c.ProductCategories)

	_, err = NewCategory("c2", "   ", nil)
	require.ErrorIs(t, err, ErrEmptyPetType)

	_, err = NewCategory("c3", "cat", []string{"Toys", "toys"})
	require.ErrorIs(t, err, ErrDuplicateSubcategory)
}

func TestAddSubcategoryIgnoresCase(t *testing.T) {
	c, err := NewCategory("c1", "dog", []string{"Food"})
	require.NoError(t, err)

	require.ErrorIs(t, c.AddSubcategory("food"), ErrDuplicateSubcategory)
	require.ErrorIs(t, c.AddSubcategory(" "), ErrEmptySubcategory)
	require.NoError(t, c.AddSubcategory("Toys"))
	require.Equal(t, []string{"Food", "Toys"}, c.ProductCategories)
}

func TestRenameSubcategoryInPlace(t *testing.T) {
	c, err := NewCategory("c1", "dog", []string{"Food", "Toys", "Beds"})
	require.NoError(t, err)

	require.ErrorIs(t, c.RenameSubcategory("Leashes", "Collars"), ErrSubcategoryNotFound)
	require.ErrorIs(t, c.RenameSubcategory("Food", "TOYS"), ErrDuplicateSubcategory)

	// changing only the case of the renamed entry is allowed
	require.NoError(t, c.RenameSubcategory("Food", "FOOD"))
	require.NoError(t, c.RenameSubcategory("Toys", "Chew Toys"))
	require.Equal(t, []string{"FOOD", "Chew Toys", "Beds"}, c.ProductCategories)
}

func TestRemoveSubcategoryDoesNotAliasClones(t *testing.T) {
	c, err := NewCategory("c1", "dog", []string{"Food", "Toys", "Beds"})
	require.NoError(t, err)
	clone := c.Clone()

	require.NoError(t, c.RemoveSubcategory("Food"))
	require.ErrorIs(t, c.RemoveSubcategory("Food"), ErrSubcategoryNotFound)
	require.Equal(t, []string{"Toys", "Beds"}, c.ProductCategories)
	require.Equal(t, []string{"Food", "Toys", "Beds"}, clone.ProductCategories)
}

func TestMoveIntentReplayIsIdempotent(t *testing.T) {
	source, err := NewCategory("src", "dog", []string{"Toys"})
	require.NoError(t, err)
	target, err := NewCategory("dst", "cat", nil)
	require.NoError(t, err)
	intent := &MoveIntent{SourceID: "src", TargetID: "dst", OldName: "Toys", NewName: "Cat Toys"}

	for i := 0; i < 2; i++ {
		intent.ApplySource(source)
		require.NoError(t, intent.ApplyTarget(target))
	}
	require.Empty(t, source.ProductCategories)
	require.Equal(t, []string{"Cat Toys"}, target.ProductCategories)
}

func TestProductValidate(t *testing.T) {
	p := &Product{Name: "Kibble", PetTypeID: "c1", ProductCategory: "Food", Price: decimal.RequireFromString("9.99"), Stock: 3}
	require.NoError(t, p.Validate())

	missing := p.Clone()
	missing.ProductCategory = ""
	require.ErrorIs(t, missing.Validate(), ErrMissingCategory)

	negative := p.Clone()
	negative.Variants = []Variant{{Weight: "1kg", Price: decimal.NewFromInt(-1)}}
	require.ErrorIs(t, negative.Validate(), ErrNegativePrice)

	discount := p.Clone()
	discount.Discount = decimal.NewFromInt(120)
	require.ErrorIs(t, discount.Validate(), ErrInvalidDiscount)

	require.NoError(t, p.SoftDelete())
	require.ErrorIs(t, p.SoftDelete(), ErrProductAlreadyDeleted)
}
