package memory

import (
	"context"
	"sync"

	"github.com/Apurer/petify-api/internal/domains/admins/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, adminID, token string) error {
	s.sessions.Store(adminID, token)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, adminID string) error {
	s.sessions.Delete(adminID)
	return nil
}

// Token returns the stored refresh token for adminID.
func (s *SessionStore) Token(adminID string) (string, bool) {
	v, ok := s.sessions.Load(adminID)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}
