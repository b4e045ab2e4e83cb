package domain

import "time"

// SiteSettings is the single-row feature gate record consulted by the
// registration and OAuth sign-in flows.
type SiteSettings struct {
	RegistrationEnabled bool
	OAuthEnabled        bool
	DefaultLocale       string
	UpdatedAt           time.Time
}

// DefaultSiteSettings returns the gate values used when the settings row
// has not been created yet.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		RegistrationEnabled: true,
		OAuthEnabled:        true,
		DefaultLocale:       "en",
	}
}
