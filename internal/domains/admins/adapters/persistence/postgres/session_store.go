package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

// SessionStore persists admin refresh tokens in PostgreSQL.
type SessionStore struct {
	db       *gorm.DB
	sessionT time.Duration
	now      func() time.Time
}

// DefaultSessionTTL matches the default refresh token lifetime.
const DefaultSessionTTL = 30 * 24 * time.Hour

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB, sessionTTL time.Duration) *SessionStore {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &SessionStore{db: db, sessionT: sessionTTL, now: time.Now}
}

type sessionRecord struct {
	AdminID   string     `gorm:"primaryKey;column:admin_id;size:64"`
	Token     string     `gorm:"column:token;size:1024"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "admin_sessions" }

// Save upserts the session of adminID; one session per admin.
func (s *SessionStore) Save(ctx context.Context, adminID, token string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	adminID = strings.TrimSpace(adminID)
	token = strings.TrimSpace(token)
	if adminID == "" || token == "" {
		return errors.New("admin id and token are required")
	}
	expiry := s.now().Add(s.sessionT)
	rec := sessionRecord{AdminID: adminID, Token: token, ExpiresAt: &expiry}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "admin_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Delete removes the session of adminID.
func (s *SessionStore) Delete(ctx context.Context, adminID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&sessionRecord{}, "admin_id = ?", adminID).Error
}

// PurgeExpired removes all expired sessions and reports how many were removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).Delete(&sessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
