package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// OAuthProvider abstracts one external identity provider. Implementations
// encapsulate provider-specific quirks (e.g. GitHub's secondary email
// lookup) so the sign-in orchestration stays provider-agnostic.
type OAuthProvider interface {
	Name() string
	// AuthURL builds the provider authorization URL carrying the supplied
	// anti-forgery state.
	AuthURL(state string) string
	// Profile exchanges the authorization code and assembles a normalized
	// profile. Any failure (network, missing token, missing profile) is an
	// authentication failure for the caller, never a crash.
	Profile(ctx context.Context, code string) (*domain.OAuthProfile, error)
}
