package ports

import (
	"context"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// AuthProvider is the account service. Failures carry a *domain.AuthError.
type AuthProvider interface {
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	// SignInFederated exchanges an identity-provider token for a session,
	// creating the account on first use.
	SignInFederated(ctx context.Context, idToken string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
	SendEmailVerification(ctx context.Context, uid string) error
	// Verify validates a session token and returns its identity.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// RegistrationLog records sign-up analytics events.
type RegistrationLog interface {
	Append(ctx context.Context, event domain.RegistrationEvent) error
}

// VerificationSender delivers verification emails out of band.
type VerificationSender interface {
	SendVerification(ctx context.Context, msg domain.VerificationMessage) error
}
