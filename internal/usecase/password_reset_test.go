package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/infra/security"
)

func newResetFixture(t *testing.T, seed ...domain.User) (*PasswordResetService, *stubUserRepo, *stubSessionRepo, *recordingPublisher) {
	t.Helper()

	users := newStubUserRepo(seed...)
	sessions := newStubSessionRepo(users)
	events := &recordingPublisher{}
	svc := NewPasswordResetService(
		users,
		NewSessionService(sessions, time.Hour),
		security.DefaultPasswordValidator(),
		events,
		zap.NewNop(),
	)
	return svc, users, sessions, events
}

func TestPasswordResetService_ForgotUnknownEmail(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)

	token, err := svc.Forgot(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatalf("Forgot must not fail for unknown emails: %v", err)
	}
	if token != "" {
		t.Fatal("unknown email must not yield a token")
	}
}

func TestPasswordResetService_ForgotStoresHashedToken(t *testing.T) {
	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusActive}
	svc, users, _, _ := newResetFixture(t, seed)

	ctx := context.Background()
	token, err := svc.Forgot(ctx, "Alice@Example.com")
	if err != nil {
		t.Fatalf("Forgot returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token for a known email")
	}

	stored, err := users.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.ResetTokenHash == nil || *stored.ResetTokenHash != security.HashToken(token) {
		t.Fatal("stored hash does not match the issued token")
	}
	if *stored.ResetTokenHash == token {
		t.Fatal("the raw token must never be persisted")
	}
	if stored.ResetTokenExpires == nil || !stored.ResetTokenExpires.After(time.Now().UTC()) {
		t.Fatal("expected a future expiry on the reset token")
	}
}

func TestPasswordResetService_ResetSuccess(t *testing.T) {
	seed := domain.User{ID: "user-1", Email: "alice@example.com", Status: domain.UserStatusActive}
	svc, users, sessions, events := newResetFixture(t, seed)

	ctx := context.Background()
	for _, token := range []string{"sess-a", "sess-b"} {
		if err := sessions.Create(ctx, domain.Session{Token: token, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	token, err := svc.Forgot(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Forgot returned error: %v", err)
	}

	if err := svc.Reset(ctx, token, "N3wSecretPass"); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}

	stored, err := users.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if ok, _ := security.VerifyPassword("N3wSecretPass", stored.PasswordHash); !ok {
		t.Fatal("new password does not verify against the stored hash")
	}
	if stored.ResetTokenHash != nil {
		t.Fatal("reset token must be cleared after use")
	}
	if len(sessions.sessions) != 0 {
		t.Fatalf("expected all sessions revoked, %d remain", len(sessions.sessions))
	}
	if len(events.pwChanged) != 1 || events.pwChanged[0].SessionsRevoked != 2 {
		t.Fatalf("expected one change event with 2 revoked sessions, got %+v", events.pwChanged)
	}

	// The token is single-use.
	if err := svc.Reset(ctx, token, "An0therSecret"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid on reuse, got %v", err)
	}
}

func TestPasswordResetService_ResetInvalidToken(t *testing.T) {
	svc, _, _, _ := newResetFixture(t)

	if err := svc.Reset(context.Background(), "bogus", "N3wSecretPass"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
	if err := svc.Reset(context.Background(), "", "N3wSecretPass"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid for empty token, got %v", err)
	}
}

func TestPasswordResetService_ResetExpiredToken(t *testing.T) {
	hash := security.HashToken("stale-token")
	expired := time.Now().UTC().Add(-time.Minute)
	seed := domain.User{
		ID:                "user-1",
		Email:             "alice@example.com",
		Status:            domain.UserStatusActive,
		ResetTokenHash:    &hash,
		ResetTokenExpires: &expired,
	}
	svc, users, _, _ := newResetFixture(t, seed)

	ctx := context.Background()
	if err := svc.Reset(ctx, "stale-token", "N3wSecretPass"); !errors.Is(err, ErrResetTokenExpired) {
		t.Fatalf("expected ErrResetTokenExpired, got %v", err)
	}

	stored, err := users.GetByID(ctx, "user-1")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.ResetTokenHash != nil {
		t.Fatal("expired token must be cleared on rejection")
	}
}

func TestPasswordResetService_ResetWeakPassword(t *testing.T) {
	hash := security.HashToken("good-token")
	future := time.Now().UTC().Add(time.Hour)
	seed := domain.User{
		ID:                "user-1",
		Email:             "alice@example.com",
		Status:            domain.UserStatusActive,
		ResetTokenHash:    &hash,
		ResetTokenExpires: &future,
	}
	svc, _, _, _ := newResetFixture(t, seed)

	err := svc.Reset(context.Background(), "good-token", "abc")
	var policyErr *PasswordPolicyError
	if !errors.As(err, &policyErr) {
		t.Fatalf("expected PasswordPolicyError, got %v", err)
	}
}
