package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/mirror"
)

type recordingCloser struct{ closed []string }

func (c *recordingCloser) Close(adminID string) { c.closed = append(c.closed, adminID) }

func adminSession(uid string) *domain.Session {
	return &domain.Session{
		Token:    "tok-" + uid,
		Identity: domain.Identity{UID: uid, Email: uid + "@example.com", EmailVerified: true},
	}
}

func TestAdminService_LoginAdmin(t *testing.T) {
	auth := newStubAuth()
	auth.session = adminSession("a1")
	store := newStubUserStore(&domain.User{ID: "a1", Role: domain.RoleAdmin})
	svc := NewAdminService(auth, store, mirror.New(), false, zerolog.Nop())
	svc.now = fixedClock(crudNow)

	session, profile, err := svc.Login(context.Background(), "a1@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-a1", session.Token)
	assert.Equal(t, crudNow, profile.LastLogin)
	require.Len(t, store.patches["a1"], 1)
	assert.Equal(t, crudNow, *store.patches["a1"][0].LastLogin)
}

func TestAdminService_LoginNonAdminRevokes(t *testing.T) {
	auth := newStubAuth()
	auth.session = adminSession("u1")
	store := newStubUserStore(&domain.User{ID: "u1", Role: domain.RoleUser})
	svc := NewAdminService(auth, store, mirror.New(), true, zerolog.Nop())

	_, _, err := svc.Login(context.Background(), "u1@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, []string{"tok-u1"}, auth.signedOut)
}

func TestAdminService_EnterBootstrap(t *testing.T) {
	id := &domain.Identity{UID: "new", Email: "new@example.com"}

	store := newStubUserStore()
	svc := NewAdminService(newStubAuth(), store, mirror.New(), false, zerolog.Nop())
	_, err := svc.Enter(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, store.users)

	svc = NewAdminService(newStubAuth(), store, mirror.New(), true, zerolog.Nop())
	profile, err := svc.Enter(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, defaultAdminName, profile.DisplayName)
	assert.Equal(t, domain.RoleAdmin, profile.Role)
	assert.True(t, profile.IsAdmin)
	assert.Contains(t, store.users, "new")
}

func TestAdminService_EnterAcceptsAdminFlag(t *testing.T) {
	store := newStubUserStore(&domain.User{ID: "f1", Role: domain.RoleUser, IsAdmin: true})
	svc := NewAdminService(newStubAuth(), store, mirror.New(), false, zerolog.Nop())

	_, err := svc.Enter(context.Background(), &domain.Identity{UID: "f1"})
	assert.NoError(t, err)
}

func TestAdminService_Authorize(t *testing.T) {
	m := mirror.New()
	m.Load([]*domain.User{{ID: "a1", Role: domain.RoleAdmin}, {ID: "u1", Role: domain.RoleUser}})
	store := newStubUserStore(&domain.User{ID: "a2", Role: domain.RoleAdmin})
	svc := NewAdminService(newStubAuth(), store, m, false, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Authorize(ctx, "a1")
	assert.NoError(t, err)
	_, err = svc.Authorize(ctx, "a2")
	assert.NoError(t, err, "falls back to the store")
	_, err = svc.Authorize(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.Authorize(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	store.getErr = errors.New("timeout")
	_, err = svc.Authorize(ctx, "ghost")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrForbidden)
}

func TestAdminService_LogoutClosesSessions(t *testing.T) {
	auth := newStubAuth()
	closer := &recordingCloser{}
	svc := NewAdminService(auth, newStubUserStore(), mirror.New(), false, zerolog.Nop(), closer)

	require.NoError(t, svc.Logout(context.Background(), "a1", "tok-a1"))
	assert.Equal(t, []string{"a1"}, closer.closed)
	assert.Equal(t, []string{"tok-a1"}, auth.signedOut)
}
