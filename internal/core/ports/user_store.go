package ports

import (
	"context"

	"github.com/dashblogger/admin-console/internal/core/domain"
)

// UserStore is the remote users collection. It behaves like a keyed tree
// node: point reads and writes, merge updates, appends with a generated key,
// and a change subscription.
type UserStore interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	// Set replaces the record stored under user.ID.
	Set(ctx context.Context, user *domain.User) error
	// Update merges the non-nil fields of patch into the record.
	Update(ctx context.Context, id string, patch domain.UserPatch) error
	// Push stores user under a generated key and returns that key.
	Push(ctx context.Context, user *domain.User) (string, error)
	Delete(ctx context.Context, id string) error
	// List returns the first limit records by insertion order; limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*domain.User, error)
	// Watch streams insert/update/delete notifications until ctx is cancelled.
	// The returned channel is closed when the stream ends.
	Watch(ctx context.Context) (<-chan domain.Change, error)
}
