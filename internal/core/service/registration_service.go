package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashblogger/admin-console/internal/api/metrics"
	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

var ErrUnknownField = errors.New("unknown form field")

const (
	maxUserAgent = 200

	msgVerifyEmail    = "Account created successfully! Please check your email and click the verification link before signing in."
	msgFederatedNew   = "Account created successfully! Redirecting to your dashboard..."
	msgFederatedKnown = "Welcome back! Redirecting to your dashboard..."
)

// RegistrationService runs the sign-up flows: account creation through the
// auth provider, then the profile record in the users collection.
type RegistrationService struct {
	auth   ports.AuthProvider
	store  ports.UserStore
	events ports.RegistrationLog
	form   *formValidator
	now    func() time.Time
	logger zerolog.Logger
}

func NewRegistrationService(auth ports.AuthProvider, store ports.UserStore, events ports.RegistrationLog, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		auth:   auth,
		store:  store,
		events: events,
		form:   newFormValidator(),
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// CheckField validates one field the way the form does while typing.
func (s *RegistrationService) CheckField(form ports.RegistrationForm, field string) (ports.FieldCheck, error) {
	return s.form.check(form, field)
}

// RegisterWithEmail validates the form, creates the account, sets its
// display name, sends the verification mail and writes the profile record.
func (s *RegistrationService) RegisterWithEmail(ctx context.Context, form ports.RegistrationForm) (*ports.RegistrationResult, error) {
	start := time.Now()
	defer func() {
		metrics.RegistrationDuration.WithLabelValues(domain.MethodEmail).Observe(time.Since(start).Seconds())
	}()

	if err := s.form.validate(form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues(domain.MethodEmail, "invalid").Inc()
		return nil, err
	}

	first := strings.TrimSpace(form.FirstName)
	last := strings.TrimSpace(form.LastName)
	displayName := first + " " + last

	identity, err := s.auth.SignUp(ctx, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		return nil, s.failed(domain.MethodEmail, "sign up", err)
	}
	if err := s.auth.UpdateProfile(ctx, identity.UID, displayName, ""); err != nil {
		return nil, s.failed(domain.MethodEmail, "update profile", err)
	}
	if err := s.auth.SendEmailVerification(ctx, identity.UID); err != nil {
		return nil, s.failed(domain.MethodEmail, "send verification", err)
	}

	user := &domain.User{
		ID:                 identity.UID,
		Email:              identity.Email,
		DisplayName:        displayName,
		FirstName:          first,
		LastName:           last,
		Role:               domain.RoleUser,
		IsPremium:          false,
		EmailVerified:      false,
		MarketingEmails:    form.MarketingEmails,
		CreatedAt:          s.now(),
		RegistrationMethod: domain.MethodEmail,
		Status:             domain.StatusActive,
	}
	if err := s.store.Set(ctx, user); err != nil {
		return nil, s.failed(domain.MethodEmail, "write profile", err)
	}

	s.logRegistration(ctx, user.ID, domain.MethodEmail, form.UserAgent)
	metrics.RegistrationsTotal.WithLabelValues(domain.MethodEmail, "ok").Inc()
	s.logger.Info().Str("uid", user.ID).Str("method", domain.MethodEmail).Msg("user registered")

	return &ports.RegistrationResult{User: user, NewAccount: true, Message: msgVerifyEmail}, nil
}

// RegisterWithFederated signs in with an identity-provider token. A known
// profile only has its login recorded; otherwise a profile is created from the
// provider's name, photo and verification state.
func (s *RegistrationService) RegisterWithFederated(ctx context.Context, req ports.FederatedRequest) (*ports.RegistrationResult, error) {
	start := time.Now()
	defer func() {
		metrics.RegistrationDuration.WithLabelValues(domain.MethodGoogle).Observe(time.Since(start).Seconds())
	}()

	session, err := s.auth.SignInFederated(ctx, req.IDToken)
	if err != nil {
		return nil, s.failed(domain.MethodGoogle, "federated sign in", err)
	}
	id := session.Identity
	now := s.now()

	existing, err := s.store.Get(ctx, id.UID)
	switch {
	case err == nil:
		method := domain.MethodGoogle
		if err := s.store.Update(ctx, id.UID, domain.UserPatch{LastLogin: &now, LoginMethod: &method}); err != nil {
			return nil, s.failed(domain.MethodGoogle, "record login", err)
		}
		existing.LastLogin = now
		existing.LoginMethod = method
		metrics.RegistrationsTotal.WithLabelValues(domain.MethodGoogle, "ok").Inc()
		return &ports.RegistrationResult{User: existing, Session: session, Message: msgFederatedKnown}, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, s.failed(domain.MethodGoogle, "read profile", err)
	}

	first, last := splitName(id.DisplayName)
	displayName := id.DisplayName
	if displayName == "" {
		displayName = first
	}
	user := &domain.User{
		ID:                 id.UID,
		Email:              id.Email,
		DisplayName:        displayName,
		FirstName:          first,
		LastName:           last,
		PhotoURL:           id.PhotoURL,
		Role:               domain.RoleUser,
		EmailVerified:      id.EmailVerified,
		MarketingEmails:    req.MarketingEmails,
		CreatedAt:          now,
		LastLogin:          now,
		RegistrationMethod: domain.MethodGoogle,
		Provider:           providerGoogle,
		Status:             domain.StatusActive,
	}
	if err := s.store.Set(ctx, user); err != nil {
		return nil, s.failed(domain.MethodGoogle, "write profile", err)
	}

	s.logRegistration(ctx, user.ID, domain.MethodGoogle, req.UserAgent)
	metrics.RegistrationsTotal.WithLabelValues(domain.MethodGoogle, "ok").Inc()
	s.logger.Info().Str("uid", user.ID).Str("method", domain.MethodGoogle).Msg("user registered")

	return &ports.RegistrationResult{User: user, Session: session, NewAccount: true, Message: msgFederatedNew}, nil
}

func (s *RegistrationService) failed(method, step string, err error) error {
	metrics.RegistrationsTotal.WithLabelValues(method, "error").Inc()
	s.logger.Warn().Err(err).Str("method", method).Str("step", step).Msg("registration failed")
	var aerr *domain.AuthError
	if errors.As(err, &aerr) {
		return err
	}
	return fmt.Errorf("%s: %w", step, err)
}

// logRegistration appends the analytics event. Failure does not undo the
// registration.
func (s *RegistrationService) logRegistration(ctx context.Context, uid, method, userAgent string) {
	ev := domain.RegistrationEvent{
		UID:       uid,
		Method:    method,
		Timestamp: s.now(),
		UserAgent: truncate(userAgent, maxUserAgent),
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("registration event not recorded")
	}
}

// splitName takes the first word as the first name and the rest as the last
// name. A blank name yields "User".
func splitName(name string) (first, last string) {
	parts := strings.Split(name, " ")
	first = parts[0]
	if first == "" {
		first = "User"
	}
	last = strings.Join(parts[1:], " ")
	return first, last
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
