package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/petify-api/internal/domains/admins/domain"
	"github.com/Apurer/petify-api/internal/domains/admins/ports"
	"github.com/Apurer/petify-api/internal/platform/auth"
)

type fakeAdminRepo struct {
	admins map[string]*domain.Admin
	nextID int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*domain.Admin{}}
}

func (f *fakeAdminRepo) Save(_ context.Context, admin *domain.Admin) (*domain.Admin, error) {
	if admin.ID == "" {
		f.nextID++
		admin.ID = fmt.Sprintf("admin-%d", f.nextID)
	}
	copy := *admin
	f.admins[admin.ID] = &copy
	return &copy, nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if a, ok := f.admins[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			copy := *a
			return &copy, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (f *fakeAdminRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.admins[id]; !ok {
		return ports.ErrNotFound
	}
	delete(f.admins, id)
	return nil
}

func (f *fakeAdminRepo) List(_ context.Context) ([]*domain.Admin, error) {
	var list []*domain.Admin
	for _, a := range f.admins {
		copy := *a
		list = append(list, &copy)
	}
	return list, nil
}

type fakeSessionStore struct {
	sessions map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]string{}}
}

func (f *fakeSessionStore) Save(_ context.Context, adminID, token string) error {
	f.sessions[adminID] = token
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, adminID string) error {
	delete(f.sessions, adminID)
	return nil
}

func newTestIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-secret", AccessTTL: time.Hour})
	require.NoError(t, err)
	return issuer
}

func TestRegisterAndLoginAdmin(t *testing.T) {
	repo := newFakeAdminRepo()
	sessions := newFakeSessionStore()
	issuer := newTestIssuer(t)
	svc := NewService(repo, sessions, issuer)

	created, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Mod", Email: "Mod@Example.com", Password: "secret"})
	require.NoError(t, err)
	require.Equal(t, "mod@example.com", created.Email)
	require.Equal(t, domain.RoleAdmin, created.Role)
	require.NotEqual(t, "secret", created.PasswordHash)

	result, err := svc.Login(context.Background(), "mod@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, result.Tokens.RefreshToken, sessions.sessions[created.ID])

	principal, err := issuer.Parse(result.Tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, principal.Role)

	_, err = svc.Login(context.Background(), "mod@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	svc.Logout(context.Background(), created.ID)
	_, ok := sessions.sessions[created.ID]
	require.False(t, ok)
}

func TestRegisterAdmin_Validation(t *testing.T) {
	svc := NewService(newFakeAdminRepo(), nil, newTestIssuer(t))

	_, err := svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "abc"})
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "abcd", Role: "owner"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(context.Background(), ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "abcd"})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), ports.RegisterInput{Name: "B", Email: "A@example.com", Password: "abcd"})
	require.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestChangePassword(t *testing.T) {
	sessions := newFakeSessionStore()
	svc := NewService(newFakeAdminRepo(), sessions, newTestIssuer(t))
	ctx := context.Background()

	admin, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "old-pass"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "a@example.com", "old-pass")
	require.NoError(t, err)

	require.ErrorIs(t, svc.ChangePassword(ctx, admin.ID, "nope", "new-pass"), ErrInvalidCredentials)
	require.ErrorIs(t, svc.ChangePassword(ctx, admin.ID, "old-pass", ""), ErrInvalidInput)
	require.ErrorIs(t, svc.ChangePassword(ctx, "missing", "old-pass", "new-pass"), ports.ErrNotFound)

	require.NoError(t, svc.ChangePassword(ctx, admin.ID, "old-pass", "new-pass"))
	require.Empty(t, sessions.sessions)
	_, err = svc.Login(ctx, "a@example.com", "new-pass")
	require.NoError(t, err)
}

func TestEnsureBootstrapAdmin_Idempotent(t *testing.T) {
	repo := newFakeAdminRepo()
	svc := NewService(repo, nil, newTestIssuer(t))
	ctx := context.Background()
	input := ports.RegisterInput{Email: "root@example.com", Password: "bootstrap"}

	first, created, err := svc.EnsureBootstrapAdmin(ctx, input)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, domain.RoleSuperAdmin, first.Role)
	require.Equal(t, "Super Admin", first.Name)

	second, created, err := svc.EnsureBootstrapAdmin(ctx, input)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, repo.admins, 1)
}

func TestDeleteAdmin(t *testing.T) {
	svc := NewService(newFakeAdminRepo(), nil, newTestIssuer(t))
	ctx := context.Background()

	admin, err := svc.Register(ctx, ports.RegisterInput{Name: "A", Email: "a@example.com", Password: "abcd"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, admin.ID))
	require.ErrorIs(t, svc.Delete(ctx, admin.ID), ports.ErrNotFound)
	_, err = svc.Get(ctx, admin.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
