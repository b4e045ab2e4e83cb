package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
)

type oauthFixture struct {
	svc      *OAuthService
	users    *stubUserRepo
	accounts *stubAccountRepo
	settings *stubSettingsRepo
	events   *recordingPublisher
}

func newOAuthFixture(provider *stubProvider, settings domain.SiteSettings) *oauthFixture {
	users := newStubUserRepo()
	accounts := newStubAccountRepo()
	settingsRepo := &stubSettingsRepo{settings: settings}
	events := &recordingPublisher{}
	sessions := NewSessionService(newStubSessionRepo(users), time.Hour)

	return &oauthFixture{
		svc:      NewOAuthService(newStubRegistry(provider), users, accounts, settingsRepo, sessions, &stubGeoIP{}, events),
		users:    users,
		accounts: accounts,
		settings: settingsRepo,
		events:   events,
	}
}

func githubProfile() *domain.OAuthProfile {
	name := "Alice"
	return &domain.OAuthProfile{ID: "gh-42", Email: "alice@example.com", Name: &name}
}

func TestOAuthService_SignInExistingLink(t *testing.T) {
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, domain.DefaultSiteSettings())

	ctx := context.Background()
	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusActive}
	if err := f.users.Create(ctx, seed); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.accounts.Create(ctx, domain.Account{ID: "acct-1", UserID: "user-1", Provider: "github", ProviderAccountID: "gh-42"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	user, session, err := f.svc.SignIn(ctx, "github", "code", nil)
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected the linked user, got %s", user.ID)
	}
	if session.UserID != "user-1" {
		t.Fatal("expected a session for the linked user")
	}
	if len(f.events.registered) != 0 {
		t.Fatal("an existing link must not publish a registration event")
	}
	if len(f.events.loggedIn) != 1 || f.events.loggedIn[0].Method != "github" {
		t.Fatalf("expected one github login event, got %+v", f.events.loggedIn)
	}
}

func TestOAuthService_SignInMatchesByEmail(t *testing.T) {
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, domain.DefaultSiteSettings())

	ctx := context.Background()
	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusActive}
	if err := f.users.Create(ctx, seed); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	user, _, err := f.svc.SignIn(ctx, "github", "code", nil)
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Fatalf("expected the email-matched user, got %s", user.ID)
	}

	link, err := f.accounts.GetByProviderAccount(ctx, "github", "gh-42")
	if err != nil {
		t.Fatalf("expected the provider link to be attached: %v", err)
	}
	if link.UserID != "user-1" {
		t.Fatalf("link attached to wrong user: %s", link.UserID)
	}
	if len(f.events.registered) != 0 {
		t.Fatal("matching an existing user must not publish a registration event")
	}
}

func TestOAuthService_SignInRegistersNewUser(t *testing.T) {
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, domain.DefaultSiteSettings())

	ctx := context.Background()
	user, session, err := f.svc.SignIn(ctx, "github", "code", nil)
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
	if user.HasPassword() {
		t.Fatal("oauth-created users must not carry a password hash")
	}
	if user.EmailVerifiedAt == nil {
		t.Fatal("provider-vouched email should be marked verified")
	}
	if session.UserID != user.ID {
		t.Fatal("expected the new user to land signed in")
	}
	if len(f.events.registered) != 1 || f.events.registered[0].Method != "github" {
		t.Fatalf("expected one github registration event, got %+v", f.events.registered)
	}

	// A second sign-in with the same profile converges on the same user.
	again, _, err := f.svc.SignIn(ctx, "github", "code", nil)
	if err != nil {
		t.Fatalf("repeat SignIn returned error: %v", err)
	}
	if again.ID != user.ID {
		t.Fatalf("repeat sign-in created a second user: %s vs %s", again.ID, user.ID)
	}
	if len(f.events.registered) != 1 {
		t.Fatalf("repeat sign-in must not publish another registration event, got %d", len(f.events.registered))
	}
}

func TestOAuthService_SignInRegistrationClosed(t *testing.T) {
	settings := domain.DefaultSiteSettings()
	settings.RegistrationEnabled = false
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, settings)

	_, _, err := f.svc.SignIn(context.Background(), "github", "code", nil)
	if !errors.Is(err, ErrRegistrationDisabled) {
		t.Fatalf("expected ErrRegistrationDisabled, got %v", err)
	}
}

func TestOAuthService_SignInOAuthDisabled(t *testing.T) {
	settings := domain.DefaultSiteSettings()
	settings.OAuthEnabled = false
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, settings)

	if _, _, err := f.svc.SignIn(context.Background(), "github", "code", nil); !errors.Is(err, ErrOAuthDisabled) {
		t.Fatalf("expected ErrOAuthDisabled from SignIn, got %v", err)
	}
	if _, err := f.svc.AuthURL(context.Background(), "github", "state"); !errors.Is(err, ErrOAuthDisabled) {
		t.Fatalf("expected ErrOAuthDisabled from AuthURL, got %v", err)
	}
}

func TestOAuthService_SignInExchangeFailure(t *testing.T) {
	provider := &stubProvider{name: "github", err: errors.New("bad code")}
	f := newOAuthFixture(provider, domain.DefaultSiteSettings())

	_, _, err := f.svc.SignIn(context.Background(), "github", "code", nil)
	if !errors.Is(err, ErrOAuthExchangeFailed) {
		t.Fatalf("expected ErrOAuthExchangeFailed, got %v", err)
	}
}

func TestOAuthService_SignInBannedLinkedUser(t *testing.T) {
	provider := &stubProvider{name: "github", profile: githubProfile()}
	f := newOAuthFixture(provider, domain.DefaultSiteSettings())

	ctx := context.Background()
	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusBanned}
	if err := f.users.Create(ctx, seed); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := f.accounts.Create(ctx, domain.Account{ID: "acct-1", UserID: "user-1", Provider: "github", ProviderAccountID: "gh-42"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	_, _, err := f.svc.SignIn(ctx, "github", "code", nil)
	if !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}
