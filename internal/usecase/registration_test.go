package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/infra/security"
)

func newRegistrationFixture(settings domain.SiteSettings, country *string) (*RegistrationService, *stubUserRepo, *recordingPublisher) {
	users := newStubUserRepo()
	sessions := newStubSessionRepo(users)
	events := &recordingPublisher{}
	svc := NewRegistrationService(
		users,
		&stubSettingsRepo{settings: settings},
		NewSessionService(sessions, time.Hour),
		&stubGeoIP{country: country},
		security.DefaultPasswordValidator(),
		events,
	)
	return svc, users, events
}

func TestRegistrationService_RegisterSuccess(t *testing.T) {
	country := "DE"
	svc, users, events := newRegistrationFixture(domain.DefaultSiteSettings(), &country)

	name := "Alice"
	ip := "203.0.113.7"
	user, session, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.COM ",
		Password: "Sup3rSecret",
		Name:     &name,
		IP:       &ip,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Country == nil || *user.Country != "DE" {
		t.Fatalf("expected country DE, got %v", user.Country)
	}
	if user.Role != domain.UserRoleUser || user.Status != domain.UserStatusActive {
		t.Fatalf("expected an active regular user, got role=%s status=%s", user.Role, user.Status)
	}
	if session.UserID != user.ID {
		t.Fatal("expected the new user to land signed in")
	}
	if _, err := users.GetByEmail(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if len(events.registered) != 1 || events.registered[0].Method != "credentials" {
		t.Fatalf("expected one credentials registration event, got %+v", events.registered)
	}
}

func TestRegistrationService_RegisterDisabled(t *testing.T) {
	settings := domain.DefaultSiteSettings()
	settings.RegistrationEnabled = false
	svc, _, _ := newRegistrationFixture(settings, nil)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "Sup3rSecret",
	})
	if !errors.Is(err, ErrRegistrationDisabled) {
		t.Fatalf("expected ErrRegistrationDisabled, got %v", err)
	}
}

func TestRegistrationService_RegisterWeakPassword(t *testing.T) {
	svc, _, _ := newRegistrationFixture(domain.DefaultSiteSettings(), nil)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "alice@example.com",
		Password: "abc",
	})

	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
	// "abc" misses the length, uppercase, and digit rules at once.
	if len(policyErr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %d: %v", len(policyErr.Violations), policyErr.Violations)
	}
}

func TestRegistrationService_RegisterEmailTaken(t *testing.T) {
	svc, users, _ := newRegistrationFixture(domain.DefaultSiteSettings(), nil)

	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusActive}
	if err := users.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "ALICE@example.com",
		Password: "Sup3rSecret",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}
