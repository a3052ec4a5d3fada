package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.MoveJournal = (*MoveJournal)(nil)

// MoveJournal records move intents in memory.
type MoveJournal struct {
	mu      sync.RWMutex
	intents map[string]*domain.MoveIntent
	now     func() time.Time
}

// NewMoveJournal constructs an empty journal.
func NewMoveJournal() *MoveJournal {
	return &MoveJournal{intents: map[string]*domain.MoveIntent{}, now: time.Now}
}

// WithClock overrides the timestamp source.
func (j *MoveJournal) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.now = now
}

// Record stores a new intent.
func (j *MoveJournal) Record(_ context.Context, intent *domain.MoveIntent) (*domain.MoveIntent, error) {
	if intent == nil {
		return nil, errors.New("cannot record nil move intent")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	clone := *intent
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	if clone.State == "" {
		clone.State = domain.MovePending
	}
	timestamp := j.now()
	clone.CreatedAt = timestamp
	clone.UpdatedAt = timestamp
	j.intents[clone.ID] = &clone
	out := clone
	return &out, nil
}

// Advance updates state and last error.
func (j *MoveJournal) Advance(_ context.Context, id string, state domain.MoveState, lastError string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	intent, ok := j.intents[id]
	if !ok {
		return ports.ErrMoveNotFound
	}
	if state != "" {
		intent.State = state
	}
	intent.LastError = lastError
	intent.UpdatedAt = j.now()
	return nil
}

// Get fetches an intent.
func (j *MoveJournal) Get(_ context.Context, id string) (*domain.MoveIntent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	intent, ok := j.intents[id]
	if !ok {
		return nil, ports.ErrMoveNotFound
	}
	out := *intent
	return &out, nil
}

// ListIncomplete returns unfinished intents, oldest first.
func (j *MoveJournal) ListIncomplete(_ context.Context) ([]*domain.MoveIntent, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var list []*domain.MoveIntent
	for _, intent := range j.intents {
		if intent.Finished() {
			continue
		}
		out := *intent
		list = append(list, &out)
	}
	sort.Slice(list, func(a, b int) bool { return list[a].CreatedAt.Before(list[b].CreatedAt) })
	return list, nil
}
