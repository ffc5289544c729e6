package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/dashblogger/admin-console/internal/core/domain"
	"github.com/dashblogger/admin-console/internal/core/ports"
)

const (
	// minProviderPassword mirrors the account service's own floor; the
	// registration form enforces a stricter one.
	minProviderPassword = 6
	defaultTokenTTL     = 24 * time.Hour
	providerPassword    = "password"
	providerGoogle      = "google.com"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService is the local account service: credentials in the credential
// repository, bcrypt hashes, HS256 session tokens that can be revoked.
type AuthService struct {
	creds     ports.CredentialRepository
	revoked   ports.TokenRevocation
	mailer    ports.VerificationSender
	federated *FederatedVerifier
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

func NewAuthService(
	creds ports.CredentialRepository,
	revoked ports.TokenRevocation,
	mailer ports.VerificationSender,
	federated *FederatedVerifier,
	jwtSecret string,
	tokenTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{
		creds:     creds,
		revoked:   revoked,
		mailer:    mailer,
		federated: federated,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	email = strings.TrimSpace(email)
	if !emailPattern.MatchString(email) {
		return nil, domain.NewAuthError(domain.AuthInvalidEmail, nil)
	}
	if len(password) < minProviderPassword {
		return nil, domain.NewAuthError(domain.AuthWeakPassword, nil)
	}

	if _, err := s.creds.FindByEmail(ctx, email); err == nil {
		return nil, domain.NewAuthError(domain.AuthEmailInUse, nil)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewAuthError(domain.AuthNetworkFailed, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	cred, err := s.creds.Create(ctx, &domain.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     providerPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.NewAuthError(domain.AuthEmailInUse, err)
		}
		return nil, domain.NewAuthError(domain.AuthNetworkFailed, err)
	}

	return identityOf(cred), nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	if email == "" || password == "" {
		return nil, domain.NewAuthError(domain.AuthWrongPassword, domain.ErrInvalidCredentials)
	}

	cred, err := s.creds.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.NewAuthError(domain.AuthUserNotFound, err)
		}
		return nil, domain.NewAuthError(domain.AuthNetworkFailed, err)
	}
	if cred.PasswordHash == "" {
		return nil, domain.NewAuthError(domain.AuthDifferentCredential, nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.NewAuthError(domain.AuthWrongPassword, domain.ErrInvalidCredentials)
	}

	return s.issue(identityOf(cred), false)
}

// SignInFederated accepts an identity token from the configured provider.
// The first sign-in creates the credential; an email already registered with
// a password is refused.
func (s *AuthService) SignInFederated(ctx context.Context, idToken string) (*domain.Session, error) {
	if s.federated == nil {
		return nil, domain.NewAuthError(domain.AuthOperationNotAllowed, nil)
	}
	claims, err := s.federated.Verify(idToken)
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthInvalidIDToken, err)
	}

	cred, err := s.creds.FindByEmail(ctx, claims.Email)
	switch {
	case err == nil:
		if cred.Provider != providerGoogle {
			return nil, domain.NewAuthError(domain.AuthDifferentCredential, nil)
		}
		return s.issue(identityOf(cred), false)
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, domain.NewAuthError(domain.AuthNetworkFailed, err)
	}

	now := s.now()
	cred, err = s.creds.Create(ctx, &domain.Credential{
		UID:           uuid.NewString(),
		Email:         claims.Email,
		DisplayName:   claims.Name,
		PhotoURL:      claims.Picture,
		Provider:      providerGoogle,
		EmailVerified: claims.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, domain.NewAuthError(domain.AuthNetworkFailed, err)
	}
	return s.issue(identityOf(cred), true)
}

// SignOut revokes token for the rest of its lifetime. Tokens that are
// already expired need no revocation.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil
		}
		return domain.NewAuthError(domain.AuthInvalidIDToken, err)
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	if err := s.creds.UpdateProfile(ctx, uid, displayName, photoURL); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewAuthError(domain.AuthUserNotFound, err)
		}
		return domain.NewAuthError(domain.AuthNetworkFailed, err)
	}
	return nil
}

// SendEmailVerification queues a verification mail for uid.
func (s *AuthService) SendEmailVerification(ctx context.Context, uid string) error {
	cred, err := s.creds.FindByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.NewAuthError(domain.AuthUserNotFound, err)
		}
		return domain.NewAuthError(domain.AuthNetworkFailed, err)
	}

	msg := domain.VerificationMessage{
		UID:         cred.UID,
		Email:       cred.Email,
		DisplayName: cred.DisplayName,
		RequestedAt: s.now(),
	}
	if err := s.mailer.SendVerification(ctx, msg); err != nil {
		return domain.NewAuthError(domain.AuthNetworkFailed, err)
	}
	if err := s.creds.MarkVerificationSent(ctx, uid); err != nil {
		s.logger.Warn().Err(err).Str("uid", uid).Msg("mark verification sent failed")
	}
	return nil
}

// Verify checks signature, expiry and revocation of a session token.
func (s *AuthService) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.NewAuthError(domain.AuthUserTokenExpired, domain.ErrSessionExpired)
		}
		return nil, domain.NewAuthError(domain.AuthInvalidIDToken, err)
	}

	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation check: %w", err)
	}
	if revoked {
		return nil, domain.NewAuthError(domain.AuthUserTokenExpired, domain.ErrSessionExpired)
	}

	return &domain.Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		DisplayName:   claims.Name,
		EmailVerified: claims.EmailVerified,
		Provider:      claims.Provider,
	}, nil
}

type sessionClaims struct {
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	Provider      string `json:"provider"`
	jwt.RegisteredClaims
}

func (s *AuthService) issue(id *domain.Identity, newAccount bool) (*domain.Session, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	claims := sessionClaims{
		Email:         id.Email,
		Name:          id.DisplayName,
		EmailVerified: id.EmailVerified,
		Provider:      id.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &domain.Session{Token: signed, ExpiresAt: exp, Identity: *id, NewAccount: newAccount}, nil
}

func (s *AuthService) parse(token string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(s.jwtSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func identityOf(c *domain.Credential) *domain.Identity {
	return &domain.Identity{
		UID:           c.UID,
		Email:         c.Email,
		DisplayName:   c.DisplayName,
		PhotoURL:      c.PhotoURL,
		EmailVerified: c.EmailVerified,
		Provider:      c.Provider,
	}
}
