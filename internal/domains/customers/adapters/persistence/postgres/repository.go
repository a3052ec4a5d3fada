package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/customers/domain"
	"github.com/Apurer/petify-api/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&customerRecord{})
	}
	return repo
}

// customerRecord keeps the cart as a JSON column; lines are only ever read
// with their owner.
type customerRecord struct {
	ID        string        `gorm:"primaryKey;column:id;size:64"`
	Name      string        `gorm:"column:name"`
	Email     string        `gorm:"column:email;uniqueIndex"`
	Phone     string        `gorm:"column:phone"`
	Address   string        `gorm:"column:address"`
	Password  string        `gorm:"column:password_hash"`
	Cart      []cartPayload `gorm:"column:cart;type:text;serializer:json"`
	CreatedAt time.Time     `gorm:"column:created_at;index"`
	UpdatedAt time.Time     `gorm:"column:updated_at"`
}

type cartPayload struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (customerRecord) TableName() string { return "customers" }

// Save inserts or updates a customer keyed by ID.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := customer.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	if clone.ID == "" {
		clone.ID = uuid.NewString()
		customer.ID = clone.ID
	}
	record := toRecord(clone)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "phone", "address", "password_hash", "cart", "updated_at"}),
		}).
		Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a customer by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", strings.TrimSpace(id))
}

// GetByEmail fetches a customer by lowercased email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// Delete removes a customer by identifier.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Delete(&customerRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns all customers ordered by email.
func (r *Repository) List(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("email").Find(&records).Error; err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		customers = append(customers, records[i].toDomain())
	}
	return customers, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
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
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(c *domain.Customer) customerRecord {
	cart := make([]cartPayload, 0, len(c.Cart))
	for _, item := range c.Cart {
		cart = append(cart, cartPayload{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return customerRecord{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Password:  c.PasswordHash,
		Cart:      cart,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r customerRecord) toDomain() *domain.Customer {
	cart := make([]domain.CartItem, 0, len(r.Cart))
	for _, item := range r.Cart {
		cart = append(cart, domain.CartItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return &domain.Customer{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Address:      r.Address,
		PasswordHash: r.Password,
		Cart:         cart,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
