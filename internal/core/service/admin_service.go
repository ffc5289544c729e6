package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const defaultAdminName = "Admin User"

// SessionCloser releases per-admin resources on logout.
type SessionCloser interface {
	Close(adminID string)
}

// AdminService gates the dashboard: only profiles with the admin role or the
// admin flag get in. With bootstrap enabled, a signed-in account that has no
// profile yet becomes an administrator.
type AdminService struct {
	auth      ports.AuthProvider
	store     ports.UserStore
	mirror    *mirror.Mirror
	bootstrap bool
	closers   []SessionCloser
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAdminService(auth ports.AuthProvider, store ports.UserStore, m *mirror.Mirror, bootstrap bool, logger zerolog.Logger, closers ...SessionCloser) *AdminService {
	return &AdminService{
		auth:      auth,
		store:     store,
		mirror:    m,
		bootstrap: bootstrap,
		closers:   closers,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

// Login signs in and enters the dashboard. A non-admin session is revoked
// straight away.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Session, *domain.User, error) {
	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	profile, err := s.Enter(ctx, &session.Identity)
	if err != nil {
		if serr := s.auth.SignOut(ctx, session.Token); serr != nil {
			s.logger.Warn().Err(serr).Str("uid", session.Identity.UID).Msg("revoke rejected session failed")
		}
		return nil, nil, err
	}
	return session, profile, nil
}

func (s *AdminService) Enter(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	now := s.now()

	profile, err := s.store.Get(ctx, identity.UID)
	if errors.Is(err, domain.ErrUserNotFound) {
		if !s.bootstrap {
			return nil, domain.ErrForbidden
		}
		return s.createAdmin(ctx, identity, now)
	}
	if err != nil {
		return nil, fmt.Errorf("load admin profile: %w", err)
	}

	if !profile.Administrator() {
		s.logger.Warn().Str("uid", identity.UID).Msg("dashboard access denied")
		return nil, domain.ErrForbidden
	}

	if err := s.store.Update(ctx, identity.UID, domain.UserPatch{LastLogin: &now}); err != nil {
		return nil, fmt.Errorf("record admin login: %w", err)
	}
	profile.LastLogin = now
	return profile, nil
}

func (s *AdminService) createAdmin(ctx context.Context, identity *domain.Identity, now time.Time) (*domain.User, error) {
	name := identity.DisplayName
	if name == "" {
		name = defaultAdminName
	}
	profile := &domain.User{
		ID:            identity.UID,
		Email:         identity.Email,
		DisplayName:   name,
		PhotoURL:      identity.PhotoURL,
		Role:          domain.RoleAdmin,
		IsAdmin:       true,
		EmailVerified: identity.EmailVerified,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		LastLogin:     now,
	}
	if err := s.store.Set(ctx, profile); err != nil {
		return nil, fmt.Errorf("create admin profile: %w", err)
	}
	s.logger.Info().Str("uid", identity.UID).Msg("admin profile bootstrapped")
	return profile, nil
}

// Authorize reads the profile from the mirror, falling back to the store for
// records the mirror has not seen yet.
func (s *AdminService) Authorize(ctx context.Context, uid string) (*domain.User, error) {
	profile, ok := s.mirror.Get(uid)
	if !ok {
		var err error
		profile, err = s.store.Get(ctx, uid)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		if err != nil {
			return nil, fmt.Errorf("authorize: %w", err)
		}
	}
	if !profile.Administrator() {
		return nil, domain.ErrForbidden
	}
	return profile, nil
}

// Logout releases the admin's dashboard state and revokes the token.
func (s *AdminService) Logout(ctx context.Context, uid, token string) error {
	for _, c := range s.closers {
		c.Close(uid)
	}
	if err := s.auth.SignOut(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("uid", uid).Msg("admin logged out")
	return nil
}
