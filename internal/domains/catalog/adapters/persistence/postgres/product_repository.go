package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in PostgreSQL using GORM.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	repo := &ProductRepository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&productRecord{})
	}
	return repo
}

type productRecord struct {
	ID              string           `gorm:"primaryKey;column:id;size:64"`
	Name            string           `gorm:"column:name"`
	Brand           string           `gorm:"column:brand"`
	PetTypeID       string           `gorm:"column:pet_type_id;size:64;index:idx_products_pet_type"`
	ProductCategory string           `gorm:"column:product_category"`
	Tags            pq.StringArray   `gorm:"column:tags;type:text[]"`
	Description     string           `gorm:"column:description"`
	Images          pq.StringArray   `gorm:"column:images;type:text[]"`
	Season          string           `gorm:"column:season"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2)"`
	Stock           int              `gorm:"column:stock"`
	Discount        decimal.Decimal  `gorm:"column:discount;type:numeric(5,2)"`
	Variants        []variantPayload `gorm:"column:variants;serializer:json"`
	AvgRating       float64          `gorm:"column:avg_rating"`
	TotalReviews    int              `gorm:"column:total_reviews"`
	AddedByAdminID  string           `gorm:"column:added_by_admin_id"`
	IsActive        bool             `gorm:"column:is_active"`
	IsDeleted       bool             `gorm:"column:is_deleted;index:idx_products_pet_type"`
	CreatedAt       time.Time        `gorm:"column:created_at;index"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type variantPayload struct {
	Weight   string          `json:"weight"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Discount decimal.Decimal `json:"discount"`
}

// Save inserts or updates a product.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	record := toProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "brand", "pet_type_id", "product_category", "tags", "description",
				"images", "season", "price", "stock", "discount", "variants", "avg_rating",
				"total_reviews", "added_by_admin_id", "is_active", "is_deleted", "updated_at",
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product, deleted or not.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns live products matching filter, oldest first.
func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Where("is_deleted = ?", false)
	if filter.PetTypeID != "" {
		query = query.Where("pet_type_id = ?", filter.PetTypeID)
	}
	if filter.NameQuery != "" {
		query = query.Where("name ILIKE ?", "%"+escapeLike(filter.NameQuery)+"%")
	}
	var records []productRecord
	if err := query.Order("created_at, id").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *ProductRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '%' || ch == '_' || ch == '\\' {
			out = append(out, '\\')
		}
		out = append(out, ch)
	}
	return string(out)
}

func toProductRecord(p *domain.Product) productRecord {
	variants := make([]variantPayload, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, variantPayload{Weight: v.Weight, Price: v.Price, Stock: v.Stock, Discount: v.Discount})
	}
	return productRecord{
		ID:              p.ID,
		Name:            p.Name,
		Brand:           p.Brand,
		PetTypeID:       p.PetTypeID,
		ProductCategory: p.ProductCategory,
		Tags:            pq.StringArray(append([]string(nil), p.Tags...)),
		Description:     p.Description,
		Images:          pq.StringArray(append([]string(nil), p.Images...)),
		Season:          p.Season,
		Price:           p.Price,
		Stock:           p.Stock,
		Discount:        p.Discount,
		Variants:        variants,
		AvgRating:       p.AvgRating,
		TotalReviews:    p.TotalReviews,
		AddedByAdminID:  p.AddedByAdminID,
		IsActive:        p.IsActive,
		IsDeleted:       p.IsDeleted,
	}
}

func (r productRecord) toProjection() *projection.Projection[*domain.Product] {
	product := &domain.Product{
		ID:              r.ID,
		Name:            r.Name,
		Brand:           r.Brand,
		PetTypeID:       r.PetTypeID,
		ProductCategory: r.ProductCategory,
		Tags:            append([]string(nil), r.Tags...),
		Description:     r.Description,
		Images:          append([]string(nil), r.Images...),
		Season:          r.Season,
		Price:           r.Price,
		Stock:           r.Stock,
		Discount:        r.Discount,
		AvgRating:       r.AvgRating,
		TotalReviews:    r.TotalReviews,
		AddedByAdminID:  r.AddedByAdminID,
		IsActive:        r.IsActive,
		IsDeleted:       r.IsDeleted,
	}
	for _, v := range r.Variants {
		product.Variants = append(product.Variants, domain.Variant{Weight: v.Weight, Price: v.Price, Stock: v.Stock, Discount: v.Discount})
	}
	return projection.New(product, r.CreatedAt, r.UpdatedAt)
}
