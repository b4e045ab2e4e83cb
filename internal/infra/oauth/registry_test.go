package oauth

import (
	"net/url"
	"testing"

	"github.com/velostra/platform-api/internal/infra/config"
)

func allConfigured() config.OAuthSettings {
	return config.OAuthSettings{
		GitHub: config.OAuthProviderSettings{ClientID: "gh-id", ClientSecret: "gh-secret"},
		Google: config.OAuthProviderSettings{ClientID: "gg-id", ClientSecret: "gg-secret"},
	}
}

func TestRegistrySkipsUnconfiguredProviders(t *testing.T) {
	registry := NewRegistry(config.OAuthSettings{
		GitHub: config.OAuthProviderSettings{ClientID: "gh-id", ClientSecret: "gh-secret"},
	}, "http://localhost:8080")

	names := registry.Names()
	if len(names) != 1 || names[0] != "github" {
		t.Fatalf("expected only github, got %v", names)
	}

	if _, err := registry.Provider("google"); err == nil {
		t.Fatal("expected an error for the unconfigured provider")
	}
}

// The redirect URI registered with the provider must be the callback
// route the router actually serves, or the provider bounces the browser
// to a 404 and the code exchange rejects the mismatched redirect_uri.
func TestRegistryRedirectURIMatchesCallbackRoute(t *testing.T) {
	registry := NewRegistry(allConfigured(), "http://localhost:8080")

	for _, name := range []string{"github", "google"} {
		provider, err := registry.Provider(name)
		if err != nil {
			t.Fatalf("provider %s: %v", name, err)
		}

		authURL, err := url.Parse(provider.AuthURL("state123"))
		if err != nil {
			t.Fatalf("parse auth url for %s: %v", name, err)
		}

		redirect := authURL.Query().Get("redirect_uri")
		want := "http://localhost:8080/api/auth/callback/" + name
		if redirect != want {
			t.Fatalf("provider %s registered redirect_uri %q, want %q", name, redirect, want)
		}
	}
}
