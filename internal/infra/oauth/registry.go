package oauth

import (
	"fmt"
	"sort"

	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/config"
)

// Registry holds the providers configured at startup, keyed by name.
type Registry struct {
	providers map[string]port.OAuthProvider
}

// NewRegistry builds the provider set from configuration. Providers with
// missing credentials are silently left out; requesting them later yields
// a not-configured error.
func NewRegistry(cfg config.OAuthSettings, callbackBase string) *Registry {
	providers := make(map[string]port.OAuthProvider)

	if cfg.GitHub.Configured() {
		p := NewGitHub(GitHubConfig{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  callbackURL(callbackBase, "github"),
		})
		providers[p.Name()] = p
	}

	if cfg.Google.Configured() {
		p := NewGoogle(GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  callbackURL(callbackBase, "google"),
		})
		providers[p.Name()] = p
	}

	return &Registry{providers: providers}
}

// callbackURL builds the redirect URI the router serves for a provider.
func callbackURL(base, name string) string {
	return fmt.Sprintf("%s/api/auth/callback/%s", base, name)
}

// Provider returns the named provider or an error when it is not configured.
func (r *Registry) Provider(name string) (port.OAuthProvider, error) {
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("oauth provider %q is not configured", name)
	}
	return provider, nil
}

// Names lists the configured provider names in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
