package port

import (
	"context"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
)

// SessionRepository deals with session storage.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	// GetWithUser loads a session joined with its owning user. It returns
	// repository.ErrNotFound when no row matches; expiry is NOT evaluated
	// here, the caller owns the lazy-purge policy.
	GetWithUser(ctx context.Context, token string) (*domain.SessionWithUser, error)
	// Delete removes every session row carrying the token. Deleting zero
	// rows is not an error.
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	// DeleteExpired purges sessions whose expiry precedes the reference
	// time and reports how many rows were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int, error)
}
