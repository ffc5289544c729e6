package ports

import (
	"context"
	"time"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// CredentialRepository persists sign-in credentials for the local auth adapter.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByUID(ctx context.Context, uid string) (*domain.Credential, error)
	Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error)
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
	MarkVerificationSent(ctx context.Context, uid string) error
}

// TokenRevocation remembers signed-out session tokens until they expire.
type TokenRevocation interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
