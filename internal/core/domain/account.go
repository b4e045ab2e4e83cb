package domain

import "time"

// Account links a user to one external identity provider's account.
// The pair (Provider, ProviderAccountID) is unique.
type Account struct {
	ID                string
	UserID            string
	Provider          string
	ProviderAccountID string
	CreatedAt         time.Time
}

// OAuthProfile is the normalized view of a provider profile after the
// authorization-code exchange.
type OAuthProfile struct {
	ID        string
	Email     string
	Name      *string
	AvatarURL *string
}
