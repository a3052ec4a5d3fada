package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists sellers in PostgreSQL using GORM. Pets are stored as a JSON column.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&sellerRecord{})
	}
	return repo
}

// sellerRecord stores pets as serialized JSON; email is unique.
type sellerRecord struct {
	ID              string         `gorm:"primaryKey;column:id;size:64"`
	Name            string         `gorm:"column:name"`
	Email           string         `gorm:"column:email;uniqueIndex"`
	Phone           string         `gorm:"column:phone"`
	PasswordHash    string         `gorm:"column:password_hash"`
	CNIC            string         `gorm:"column:cnic"`
	Address         string         `gorm:"column:address"`
	ProfileImage    string         `gorm:"column:profile_image"`
	ServicesOffered pq.StringArray `gorm:"column:services_offered;type:text[]"`
	Verification    string         `gorm:"column:verification;index"`
	AdminComment    string         `gorm:"column:admin_comment"`
	Pets            []petPayload   `gorm:"column:pets;serializer:json"`
	RefreshToken    string         `gorm:"column:refresh_token"`
	Version         int64          `gorm:"column:version"`
	CreatedAt       time.Time      `gorm:"column:created_at;index"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (sellerRecord) TableName() string { return "sellers" }

type petPayload struct {
	ID            string   `json:"id"`
	PetType       string   `json:"pet_type"`
	Breed         string   `json:"breed"`
	Gender        string   `json:"gender"`
	Age           *int     `json:"age,omitempty"`
	Descriptions  string   `json:"descriptions"`
	Images        []string `json:"images"`
	MedicalReport string   `json:"medical_report"`
	Status        string   `json:"status"`
	AdminComment  string   `json:"admin_comment"`
}

// Create inserts a new seller at version 1.
func (r *Repository) Create(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, errors.New("seller is nil")
	}
	if seller.ID == "" {
		seller.ID = uuid.NewString()
	}
	seller.Version = 1
	record := toRecord(seller)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translateError(err)
	}
	return r.GetByID(ctx, record.ID)
}

// Update writes the seller when the stored version equals seller.Version.
func (r *Repository) Update(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, errors.New("seller is nil")
	}
	record := toRecord(seller)
	result := r.db.WithContext(ctx).Model(&sellerRecord{}).
		Where("id = ? AND version = ?", record.ID, seller.Version).
		Updates(map[string]any{
			"name":             record.Name,
			"email":            record.Email,
			"phone":            record.Phone,
			"password_hash":    record.PasswordHash,
			"cnic":             record.CNIC,
			"address":          record.Address,
			"profile_image":    record.ProfileImage,
			"services_offered": record.ServicesOffered,
			"verification":     record.Verification,
			"admin_comment":    record.AdminComment,
			"pets":             mustJSON(record.Pets),
			"refresh_token":    record.RefreshToken,
			"version":          gorm.Expr("version + 1"),
			"updated_at":       gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, record.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrConflict
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a seller.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Seller], error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail fetches a seller by normalized email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*projection.Projection[*domain.Seller], error) {
	return r.first(ctx, "email = ?", email)
}

// Delete removes a seller.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&sellerRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns sellers oldest first.
func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*projection.Projection[*domain.Seller], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at, id")
	if filter.Verification != "" {
		query = query.Where("verification = ?", string(filter.Verification))
	}
	var records []sellerRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Seller], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*projection.Projection[*domain.Seller], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record sellerRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres seller repository not configured")
	}
	return nil
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ports.ErrDuplicateEmail
	}
	return err
}
