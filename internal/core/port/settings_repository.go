package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// SettingsUpdate carries mutable site settings. Nil fields are left untouched.
type SettingsUpdate struct {
	RegistrationEnabled *bool
	OAuthEnabled        *bool
	DefaultLocale       *string
}

// SettingsRepository loads and mutates the single-row site settings record.
type SettingsRepository interface {
	// Get returns the current settings, falling back to
	// domain.DefaultSiteSettings when the row does not exist yet.
	Get(ctx context.Context) (domain.SiteSettings, error)
	Update(ctx context.Context, update SettingsUpdate) (domain.SiteSettings, error)
}
