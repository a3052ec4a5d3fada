package ports

import "context"

// SessionStore keeps the refresh token issued at an admin's last login.
type SessionStore interface {
	Save(ctx context.Context, adminID, token string) error
	Delete(ctx context.Context, adminID string) error
}

// NoopSessionStore is a safe default when callers do not need session persistence.
var NoopSessionStore SessionStore = noopSessionStore{}

type noopSessionStore struct{}

func (noopSessionStore) Save(_ context.Context, _ string, _ string) error { return nil }
func (noopSessionStore) Delete(_ context.Context, _ string) error         { return nil }
