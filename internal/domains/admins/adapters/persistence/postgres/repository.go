package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists admins in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&adminRecord{})
	}
	return repo
}

type adminRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:admin_name"`
	Email     string    `gorm:"column:admin_email;uniqueIndex"`
	Password  string    `gorm:"column:password_hash"`
	Role      string    `gorm:"column:role;type:varchar(32)"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (adminRecord) TableName() string { return "admins" }

// Save inserts or updates an admin keyed by ID.
func (r *Repository) Save(ctx context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, errors.New("admin is nil")
	}
	clone := *admin
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
		admin.ID = clone.ID
	}
	record := toRecord(&clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"admin_name", "admin_email", "password_hash", "role", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an admin by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.first(ctx, "id = ?", strings.TrimSpace(id))
}

// GetByEmail fetches an admin by lowercased email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.first(ctx, "admin_email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// Delete removes an admin by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Delete(&adminRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all admins ordered by email.
func (r *Repository) List(ctx context.Context) ([]*domain.Admin, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []adminRecord
	if err := r.db.WithContext(ctx).Order("admin_email").Find(&records).Error; err != nil {
		return nil, err
	}
	admins := make([]*domain.Admin, 0, len(records))
	for i := range records {
		admins = append(admins, records[i].toDomain())
	}
	return admins, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record adminRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres admin repository not configured")
	}
	return nil
}

func toRecord(admin *domain.Admin) adminRecord {
	return adminRecord{
		ID:       admin.ID,
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.PasswordHash,
		Role:     string(admin.Role),
	}
}

func (r adminRecord) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.Password,
		Role:         domain.Role(r.Role),
	}
}
