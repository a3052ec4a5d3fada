package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyPetType         = errors.New("pet_type is required")
	ErrEmptySubcategory     = errors.New("subcategory name is required")
	ErrDuplicateSubcategory = errors.New("subcategory already exists")
	ErrSubcategoryNotFound  = errors.New("original subcategory not found")
)

// Category groups the product subcategories offered for one pet type.
type Category struct {
	ID                string
	PetType           string
	ProductCategories []string
	IsActive          bool
}

// NewCategory builds an active category, normalizing the pet type and rejecting
// duplicate subcategories.
func NewCategory(id, petType string, subcategories []string) (*Category, error) {
	c := &Category{ID: strings.TrimSpace(id), IsActive: true}
	if err := c.Rename(petType); err != nil {
		return nil, err
	}
	for _, name := range subcategories {
		if err := c.AddSubcategory(name); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NormalizePetType trims and lowercases a pet type for storage and comparison.
func NormalizePetType(petType string) string {
	return strings.ToLower(strings.TrimSpace(petType))
}

// Rename replaces the pet type.
func (c *Category) Rename(petType string) error {
	normalized := NormalizePetType(petType)
	if normalized == "" {
		return ErrEmptyPetType
	}
	c.PetType = normalized
	return nil
}

// Contains reports whether name is present with exactly this spelling.
func (c *Category) Contains(name string) bool {
	return c.index(name) >= 0
}

// HasSubcategory reports whether name is present, ignoring case.
func (c *Category) HasSubcategory(name string) bool {
	return c.indexFold(name, -1) >= 0
}

// AddSubcategory appends name unless an entry equal to it ignoring case exists.
func (c *Category) AddSubcategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptySubcategory
	}
	if c.HasSubcategory(name) {
		return ErrDuplicateSubcategory
	}
	c.ProductCategories = append(c.ProductCategories, name)
	return nil
}

// RenameSubcategory replaces oldName in place. oldName must match exactly; newName
// must not collide, ignoring case, with any other entry.
func (c *Category) RenameSubcategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if strings.TrimSpace(oldName) == "" || newName == "" {
		return ErrEmptySubcategory
	}
	idx := c.index(oldName)
	if idx < 0 {
		return ErrSubcategoryNotFound
	}
	if c.indexFold(newName, idx) >= 0 {
		return ErrDuplicateSubcategory
	}
	c.ProductCategories[idx] = newName
	return nil
}

// RemoveSubcategory deletes the exact entry name.
func (c *Category) RemoveSubcategory(name string) error {
	idx := c.index(name)
	if idx < 0 {
		return ErrSubcategoryNotFound
	}
	c.ProductCategories = append(c.ProductCategories[:idx:idx], c.ProductCategories[idx+1:]...)
	return nil
}

// Clone returns a deep copy.
func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	clone := *c
	clone.ProductCategories = append([]string(nil), c.ProductCategories...)
	return &clone
}

func (c *Category) index(name string) int {
	for i, existing := range c.ProductCategories {
		if existing == name {
			return i
		}
	}
	return -1
}

// indexFold finds name ignoring case, skipping position skip.
func (c *Category) indexFold(name string, skip int) int {
	name = strings.TrimSpace(name)
	for i, existing := range c.ProductCategories {
		if i == skip {
			continue
		}
		if strings.EqualFold(existing, name) {
			return i
		}
	}
	return -1
}
