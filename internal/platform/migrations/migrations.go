package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&moveIntentRecord{},
		&sellerRecord{},
		&adminRecord{},
		&adminSessionRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
		&customerRecord{},
		&ratingRecord{},
	)
}

// Category schema mirrors the catalog Postgres adapter.
type categoryRecord struct {
	ID                string         `gorm:"primaryKey;column:id;size:64"`
	PetType           string         `gorm:"column:pet_type;uniqueIndex"`
	ProductCategories pq.StringArray `gorm:"column:product_categories;type:text[]"`
	IsActive          bool           `gorm:"column:is_active"`
	CreatedAt         time.Time      `gorm:"column:created_at;index"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
}

func (categoryRecord) TableName() string { return "categories" }

// Product schema mirrors the catalog Postgres adapter. JSON columns are text.
type productRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	Name            string          `gorm:"column:name"`
	Brand           string          `gorm:"column:brand"`
	PetTypeID       string          `gorm:"column:pet_type_id;size:64;index:idx_products_pet_type"`
	ProductCategory string          `gorm:"column:product_category"`
	Tags            pq.StringArray  `gorm:"column:tags;type:text[]"`
	Description     string          `gorm:"column:description"`
	Images          pq.StringArray  `gorm:"column:images;type:text[]"`
	Season          string          `gorm:"column:season"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Stock           int             `gorm:"column:stock"`
	Discount        decimal.Decimal `gorm:"column:discount;type:numeric(5,2)"`
	Variants        string          `gorm:"column:variants;type:text"`
	AvgRating       float64         `gorm:"column:avg_rating"`
	TotalReviews    int             `gorm:"column:total_reviews"`
	AddedByAdminID  string          `gorm:"column:added_by_admin_id"`
	IsActive        bool            `gorm:"column:is_active"`
	IsDeleted       bool            `gorm:"column:is_deleted;index:idx_products_pet_type"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Move intent schema mirrors the catalog move journal.
type moveIntentRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	SourceID  string    `gorm:"column:source_id;size:64"`
	TargetID  string    `gorm:"column:target_id;size:64"`
	OldName   string    `gorm:"column:old_name"`
	NewName   string    `gorm:"column:new_name"`
	State     string    `gorm:"column:state;type:varchar(32);index"`
	LastError string    `gorm:"column:last_error"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (moveIntentRecord) TableName() string { return "category_move_intents" }

// Seller schema mirrors the sellers Postgres adapter.
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
	Pets            string         `gorm:"column:pets;type:text"`
	RefreshToken    string         `gorm:"column:refresh_token"`
	Version         int64          `gorm:"column:version"`
	CreatedAt       time.Time      `gorm:"column:created_at;index"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

func (sellerRecord) TableName() string { return "sellers" }

// Admin schema mirrors the admins Postgres adapter.
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

// Session schema mirrors the admin session store.
type adminSessionRecord struct {
	AdminID   string     `gorm:"primaryKey;column:admin_id;size:64"`
	Token     string     `gorm:"column:token;size:1024"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (adminSessionRecord) TableName() string { return "admin_sessions" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              string          `gorm:"primaryKey;column:id;size:64"`
	CustomerID      string          `gorm:"column:customer_id;size:64;index"`
	Items           string          `gorm:"column:items;type:text"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)"`
	PaymentStatus   string          `gorm:"column:payment_status;type:varchar(16)"`
	PaymentMethod   string          `gorm:"column:payment_method;type:varchar(16)"`
	OrderStatus     string          `gorm:"column:order_status;type:varchar(16);index"`
	RefundRequested bool            `gorm:"column:refund_requested"`
	CreatedAt       time.Time       `gorm:"column:created_at;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Customer schema mirrors the customers Postgres adapter. The cart is JSON.
type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name"`
	Email     string    `gorm:"column:email;uniqueIndex"`
	Phone     string    `gorm:"column:phone"`
	Address   string    `gorm:"column:address"`
	Password  string    `gorm:"column:password_hash"`
	Cart      string    `gorm:"column:cart;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Rating schema mirrors the ratings Postgres adapter.
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
