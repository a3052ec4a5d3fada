package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var (
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
	_ ports.MoveApplier        = (*CategoryRepository)(nil)
)

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	repo := &CategoryRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&categoryRecord{})
	}
	return repo
}

// categoryRecord stores subcategories as a text array; pet_type is unique.
type categoryRecord struct {
	ID                string         `gorm:"primaryKey;column:id;size:64"`
	PetType           string         `gorm:"column:pet_type;uniqueIndex"`
	ProductCategories pq.StringArray `gorm:"column:product_categories;type:text[]"`
	IsActive          bool           `gorm:"column:is_active"`
	CreatedAt         time.Time      `gorm:"column:created_at;index"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Save inserts or updates a category.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) (*projection.Projection[*domain.Category], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	record := toCategoryRecord(category)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"pet_type":           record.PetType,
				"product_categories": record.ProductCategories,
				"is_active":          record.IsActive,
				"updated_at":         gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return r.GetByID(ctx, record.ID)
}

// ApplyMove updates both categories in one transaction.
func (r *CategoryRepository) ApplyMove(ctx context.Context, source, target *domain.Category) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if source == nil || target == nil {
		return errors.New("category is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range []*domain.Category{source, target} {
			record := toCategoryRecord(c)
			result := tx.Model(&categoryRecord{}).
				Where("id = ?", record.ID).
				Updates(map[string]any{
					"pet_type":           record.PetType,
					"product_categories": record.ProductCategories,
					"is_active":          record.IsActive,
					"updated_at":         gorm.Expr("NOW()"),
				})
			if result.Error != nil {
				return translateError(result.Error)
			}
			if result.RowsAffected == 0 {
				return ports.ErrCategoryNotFound
			}
		}
		return nil
	})
}

// GetByID fetches a category by identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Category], error) {
	return r.first(ctx, "id = ?", id)
}

// FindByPetType fetches the category owning petType.
func (r *CategoryRepository) FindByPetType(ctx context.Context, petType string) (*projection.Projection[*domain.Category], error) {
	return r.first(ctx, "pet_type = ?", petType)
}

// Delete removes a category by identifier.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&categoryRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// List returns every category, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]*projection.Projection[*domain.Category], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []categoryRecord
	if err := r.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Category], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *CategoryRepository) first(ctx context.Context, query string, arg any) (*projection.Projection[*domain.Category], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record categoryRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *CategoryRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres category repository not configured")
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicatePetType
	}
	return err
}

func toCategoryRecord(c *domain.Category) categoryRecord {
	subs := make(pq.StringArray, len(c.ProductCategories))
	copy(subs, c.ProductCategories)
	return categoryRecord{
		ID:                c.ID,
		PetType:           c.PetType,
		ProductCategories: subs,
		IsActive:          c.IsActive,
	}
}

func (r categoryRecord) toProjection() *projection.Projection[*domain.Category] {
	category := &domain.Category{
		ID:                r.ID,
		PetType:           r.PetType,
		ProductCategories: append([]string(nil), r.ProductCategories...),
		IsActive:          r.IsActive,
	}
	return projection.New(category, r.CreatedAt, r.UpdatedAt)
}
