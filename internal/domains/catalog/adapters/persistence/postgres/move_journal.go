package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.MoveJournal = (*MoveJournal)(nil)

// MoveJournal stores subcategory move intents in PostgreSQL.
type MoveJournal struct {
	db *gorm.DB
}

// NewMoveJournal wires the journal. Caller manages DB lifecycle.
func NewMoveJournal(db *gorm.DB) *MoveJournal {
	journal := &MoveJournal{db: db}
	if db != nil {
		_ = db.AutoMigrate(&moveIntentRecord{})
	}
	return journal
}

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

// Record inserts a new intent.
func (j *MoveJournal) Record(ctx context.Context, intent *domain.MoveIntent) (*domain.MoveIntent, error) {
	if err := j.ensureDB(); err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, errors.New("move intent is nil")
	}
	record := moveIntentRecord{
		ID:       intent.ID,
		SourceID: intent.SourceID,
		TargetID: intent.TargetID,
		OldName:  intent.OldName,
		NewName:  intent.NewName,
		State:    string(intent.State),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.State == "" {
		record.State = string(domain.MovePending)
	}
	if err := j.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return j.Get(ctx, record.ID)
}

// Advance updates state and last error. An empty state keeps the current one.
func (j *MoveJournal) Advance(ctx context.Context, id string, state domain.MoveState, lastError string) error {
	if err := j.ensureDB(); err != nil {
		return err
	}
	updates := map[string]any{
		"last_error": lastError,
		"updated_at": gorm.Expr("NOW()"),
	}
	if state != "" {
		updates["state"] = string(state)
	}
	result := j.db.WithContext(ctx).Model(&moveIntentRecord{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrMoveNotFound
	}
	return nil
}

// Get fetches an intent.
func (j *MoveJournal) Get(ctx context.Context, id string) (*domain.MoveIntent, error) {
	if err := j.ensureDB(); err != nil {
		return nil, err
	}
	var record moveIntentRecord
	if err := j.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrMoveNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListIncomplete returns intents not yet completed or rolled back, oldest first.
func (j *MoveJournal) ListIncomplete(ctx context.Context) ([]*domain.MoveIntent, error) {
	if err := j.ensureDB(); err != nil {
		return nil, err
	}
	var records []moveIntentRecord
	if err := j.db.WithContext(ctx).
		Where("state NOT IN ?", []string{string(domain.MoveCompleted), string(domain.MoveRolledBack)}).
		Order("created_at").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*domain.MoveIntent, 0, len(records))
	for i := range records {
		list = append(list, records[i].toDomain())
	}
	return list, nil
}

func (j *MoveJournal) ensureDB() error {
	if j == nil || j.db == nil {
		return errors.New("postgres move journal not configured")
	}
	return nil
}

func (r moveIntentRecord) toDomain() *domain.MoveIntent {
	return &domain.MoveIntent{
		ID:        r.ID,
		SourceID:  r.SourceID,
		TargetID:  r.TargetID,
		OldName:   r.OldName,
		NewName:   r.NewName,
		State:     domain.MoveState(r.State),
		LastError: r.LastError,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
