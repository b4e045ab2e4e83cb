package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

const (
	githubProviderName = "github"

	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubConfig holds the GitHub OAuth application credentials.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GitHub implements port.OAuthProvider against the GitHub OAuth app flow.
type GitHub struct {
	cfg *oauth2.Config
	// API endpoints are fields so tests can point the provider at a
	// local server.
	userURL   string
	emailsURL string
}

// NewGitHub creates a GitHub OAuth provider with the given configuration.
func NewGitHub(cfg GitHubConfig) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     endpoints.GitHub,
		},
		userURL:   githubUserURL,
		emailsURL: githubEmailsURL,
	}
}

// Name returns the provider identifier persisted on account links.
func (g *GitHub) Name() string {
	return githubProviderName
}

// AuthURL builds the GitHub authorization URL carrying the supplied state.
func (g *GitHub) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

type githubUser struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Profile exchanges the authorization code and assembles a normalized
// profile. GitHub omits the email on the user resource when it is marked
// private, so a secondary lookup against the emails endpoint recovers the
// primary verified address.
func (g *GitHub) Profile(ctx context.Context, code string) (*domain.OAuthProfile, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github exchange code: %w", err)
	}

	client := g.cfg.Client(ctx, token)

	var user githubUser
	if err := getJSON(ctx, client, g.userURL, &user); err != nil {
		return nil, fmt.Errorf("github fetch user: %w", err)
	}

	email := user.Email
	if email == "" {
		var emails []githubEmail
		if err := getJSON(ctx, client, g.emailsURL, &emails); err != nil {
			return nil, fmt.Errorf("github fetch emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, fmt.Errorf("github profile has no usable email")
	}

	profile := &domain.OAuthProfile{
		ID:    strconv.FormatInt(user.ID, 10),
		Email: email,
	}
	if name := firstNonEmpty(user.Name, user.Login); name != "" {
		profile.Name = &name
	}
	if user.AvatarURL != "" {
		avatar := user.AvatarURL
		profile.AvatarURL = &avatar
	}

	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

var _ port.OAuthProvider = (*GitHub)(nil)
