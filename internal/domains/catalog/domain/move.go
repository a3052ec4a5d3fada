package domain

import "time"

// MoveState tracks how far a subcategory move has been applied.
type MoveState string

const (
	MovePending       MoveState = "pending"
	MoveSourceRemoved MoveState = "source_removed"
	MoveCompleted     MoveState = "completed"
	// MoveRolledBack marks a move whose target vanished; the old name was restored to the source.
	MoveRolledBack MoveState = "rolled_back"
)

// MoveIntent is the journal entry written before a subcategory moves between
// two categories. An intent that is not completed marks a move that may be
// partially applied.
type MoveIntent struct {
	ID        string
	SourceID  string
	TargetID  string
	OldName   string
	NewName   string
	State     MoveState
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Finished reports whether the intent needs no further work.
func (m *MoveIntent) Finished() bool {
	return m != nil && (m.State == MoveCompleted || m.State == MoveRolledBack)
}

// ApplySource removes the old name from source. It is a no-op when the entry is
// already gone, so replays are safe.
func (m *MoveIntent) ApplySource(source *Category) {
	if source == nil {
		return
	}
	_ = source.RemoveSubcategory(m.OldName)
}

// RestoreSource puts the old name back into source, used when the target is gone.
func (m *MoveIntent) RestoreSource(source *Category) error {
	if source == nil || source.HasSubcategory(m.OldName) {
		return nil
	}
	return source.AddSubcategory(m.OldName)
}

// ApplyTarget appends the new name to target unless it is already there.
func (m *MoveIntent) ApplyTarget(target *Category) error {
	if target == nil {
		return nil
	}
	if target.HasSubcategory(m.NewName) {
		return nil
	}
	return target.AddSubcategory(m.NewName)
}
