package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/mirror"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

// UserService dispatches admin CRUD commands to the store. It never touches
// the mirror contents: the change stream brings every write back.
type UserService struct {
	store  ports.UserStore
	mirror *mirror.Mirror
	now    func() time.Time
	logger zerolog.Logger
}

func NewUserService(store ports.UserStore, m *mirror.Mirror, logger zerolog.Logger) *UserService {
	return &UserService{
		store:  store,
		mirror: m,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create stores a new profile under a generated key. Emails already present
// in the mirror are rejected.
func (s *UserService) Create(ctx context.Context, actor string, in ports.CreateUserInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	if s.mirror.HasEmail(email) {
		metrics.UserWritesTotal.WithLabelValues("create", "error").Inc()
		return nil, domain.ErrEmailExists
	}

	user := &domain.User{
		Email:         email,
		DisplayName:   strings.TrimSpace(in.DisplayName),
		Role:          in.Role,
		Status:        in.Status,
		IsPremium:     in.Role == domain.RolePremium,
		EmailVerified: true,
		CreatedAt:     s.now(),
		CreatedBy:     actor,
	}

	id, err := s.store.Push(ctx, user)
	if err != nil {
		metrics.UserWritesTotal.WithLabelValues("create", "error").Inc()
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id

	metrics.UserWritesTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Str("uid", id).Str("actor", actor).Msg("user created")
	return user, nil
}

// Update merges the edit form into the record and bumps its version. The
// mirror is told to expect the new version so that notifications describing
// the previous state are dropped.
func (s *UserService) Update(ctx context.Context, actor, id string, in ports.UpdateUserInput) error {
	current, ok := s.mirror.Get(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	version := current.Version + 1
	name := strings.TrimSpace(in.DisplayName)
	now := s.now()
	patch := domain.UserPatch{
		DisplayName: &name,
		Role:        &in.Role,
		Status:      &in.Status,
		UpdatedAt:   &now,
		UpdatedBy:   &actor,
		Version:     &version,
	}

	s.mirror.Expect(id, version)
	if err := s.store.Update(ctx, id, patch); err != nil {
		s.mirror.Forget(id, version)
		metrics.UserWritesTotal.WithLabelValues("update", "error").Inc()
		return fmt.Errorf("update user %s: %w", id, err)
	}

	metrics.UserWritesTotal.WithLabelValues("update", "ok").Inc()
	s.logger.Info().Str("uid", id).Str("actor", actor).Int64("version", version).Msg("user updated")
	return nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, ok := s.mirror.Get(id); !ok {
		return domain.ErrUserNotFound
	}
	if err := s.store.Delete(ctx, id); err != nil {
		metrics.UserWritesTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete user %s: %w", id, err)
	}

	metrics.UserWritesTotal.WithLabelValues("delete", "ok").Inc()
	s.logger.Info().Str("uid", id).Msg("user deleted")
	return nil
}

// Get reads from the mirror.
func (s *UserService) Get(id string) (*domain.User, error) {
	u, ok := s.mirror.Get(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}
