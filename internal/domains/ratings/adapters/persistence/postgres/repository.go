package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/ratings/domain"
	"github.com/Apurer/petify-api/internal/domains/ratings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists ratings in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&ratingRecord{})
	}
	return repo
}

type ratingRecord struct {
	ID         string    `gorm:"primaryKey;column:id;size:64"`
	TargetID   string    `gorm:"column:target_id;size:64;index:idx_ratings_target"`
	TargetType string    `gorm:"column:target_type;type:varchar(16);index:idx_ratings_target"`
	Score      int       `gorm:"column:rating"`
	Review     string    `gorm:"column:review;type:text"`
	CustomerID string    `gorm:"column:customer_id;size:64;index"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (ratingRecord) TableName() string { return "ratings" }

// Save inserts or updates a rating keyed by ID.
func (r *Repository) Save(ctx context.Context, rating *domain.Rating) (*domain.Rating, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, errors.New("rating is nil")
	}
	clone := *rating
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
		rating.ID = clone.ID
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Rating, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ratingRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Delete(&ratingRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns matching ratings, newest first.
func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Rating, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&ratingRecord{})
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", string(filter.TargetType))
	}
	if filter.TargetID != "" {
		query = query.Where("target_id = ?", filter.TargetID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	var records []ratingRecord
	if err := query.Order("created_at DESC").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	ratings := make([]*domain.Rating, 0, len(records))
	for i := range records {
		ratings = append(ratings, records[i].toDomain())
	}
	return ratings, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres rating repository not configured")
	}
	return nil
}

func toRecord(rating *domain.Rating) ratingRecord {
	return ratingRecord{
		ID:         rating.ID,
		TargetID:   rating.TargetID,
		TargetType: string(rating.TargetType),
		Score:      rating.Score,
		Review:     rating.Review,
		CustomerID: rating.CustomerID,
		CreatedAt:  rating.CreatedAt,
		UpdatedAt:  rating.UpdatedAt,
	}
}

func (r ratingRecord) toDomain() *domain.Rating {
	return &domain.Rating{
		ID:         r.ID,
		TargetID:   r.TargetID,
		TargetType: domain.TargetType(r.TargetType),
		Score:      r.Score,
		Review:     r.Review,
		CustomerID: r.CustomerID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}
