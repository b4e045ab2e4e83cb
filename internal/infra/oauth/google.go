package oauth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

const (
	googleProviderName = "google"

	googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

// GoogleConfig holds the Google OAuth client credentials.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Google implements port.OAuthProvider against the Google OAuth flow.
type Google struct {
	cfg         *oauth2.Config
	userinfoURL string
}

// NewGoogle creates a Google OAuth provider with the given configuration.
func NewGoogle(cfg GoogleConfig) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// Name returns the provider identifier persisted on account links.
func (g *Google) Name() string {
	return googleProviderName
}

// AuthURL builds the Google authorization URL carrying the supplied state.
func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

type googleUserinfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Profile exchanges the authorization code and fetches the userinfo resource.
func (g *Google) Profile(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google exchange code: %w", err)
	}

	client := g.cfg.Client(ctx, token)

	var info googleUserinfo
	if err := getJSON(ctx, client, g.userinfoURL, &info); err != nil {
		return nil, fmt.Errorf("google fetch userinfo: %w", err)
	}

	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("google userinfo is incomplete")
	}

	profile := &domain.OAuthProfile{
		ID:    info.Sub,
		Email: info.Email,
	}
	if info.Name != "" {
		name := info.Name
		profile.Name = &name
	}
	if info.Picture != "" {
		picture := info.Picture
		profile.AvatarURL = &picture
	}

	return profile, nil
}

var _ port.OAuthProvider = (*Google)(nil)
