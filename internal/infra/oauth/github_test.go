package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func newGitHubTestServer(t *testing.T, userEmail string) (*httptest.Server, *GitHub) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gho_test","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if userEmail != "" {
			_, _ = w.Write([]byte(`{"id":12345,"email":"` + userEmail + `","name":"Octo Cat","login":"octocat","avatar_url":"https://example.com/a.png"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":12345,"email":"","name":"","login":"octocat","avatar_url":""}`))
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"email":"secondary@example.com","primary":false,"verified":true},
			{"email":"primary@example.com","primary":true,"verified":true}
		]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	provider := NewGitHub(GitHubConfig{ClientID: "id", ClientSecret: "secret"})
	provider.cfg.Endpoint = oauth2.Endpoint{
		AuthURL:  server.URL + "/login/oauth/authorize",
		TokenURL: server.URL + "/login/oauth/access_token",
	}
	provider.userURL = server.URL + "/user"
	provider.emailsURL = server.URL + "/user/emails"

	return server, provider
}

func TestGitHubProfile(t *testing.T) {
	_, provider := newGitHubTestServer(t, "octo@example.com")

	profile, err := provider.Profile(context.Background(), "test-code")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.ID != "12345" {
		t.Fatalf("expected provider account id 12345, got %s", profile.ID)
	}
	if profile.Email != "octo@example.com" {
		t.Fatalf("unexpected email: %s", profile.Email)
	}
	if profile.Name == nil || *profile.Name != "Octo Cat" {
		t.Fatalf("expected profile name populated")
	}
	if profile.AvatarURL == nil {
		t.Fatalf("expected avatar url populated")
	}
}

func TestGitHubProfilePrivateEmailFallback(t *testing.T) {
	_, provider := newGitHubTestServer(t, "")

	profile, err := provider.Profile(context.Background(), "test-code")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.Email != "primary@example.com" {
		t.Fatalf("expected primary verified email, got %s", profile.Email)
	}
	// Falls back to the login when the display name is unset.
	if profile.Name == nil || *profile.Name != "octocat" {
		t.Fatalf("expected login used as name fallback")
	}
}

func TestGitHubAuthURLCarriesState(t *testing.T) {
	provider := NewGitHub(GitHubConfig{ClientID: "id", ClientSecret: "secret"})

	url := provider.AuthURL("state-token-1")
	if url == "" {
		t.Fatalf("expected non-empty auth url")
	}
	if !strings.Contains(url, "state=state-token-1") {
		t.Fatalf("expected state parameter in auth url: %s", url)
	}
	if !strings.Contains(url, "client_id=id") {
		t.Fatalf("expected client_id parameter in auth url: %s", url)
	}
}
