package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrSessionNotFound indicates no session matches the presented token.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates the session expired before validation.
	ErrSessionExpired = errors.New("session expired")
)

// SessionService issues and resolves opaque session tokens. Expired
// sessions are purged lazily on the read path; the optional sweeper
// handles rows nobody ever reads back.
type SessionService struct {
	sessions port.SessionRepository
	ttl      time.Duration
}

// NewSessionService constructs a SessionService with the configured lifetime.
func NewSessionService(sessions port.SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{sessions: sessions, ttl: ttl}
}

// Issue creates a fresh session for the user and returns it.
func (s *SessionService) Issue(ctx context.Context, userID string) (domain.Session, error) {
	now := time.Now().UTC()
	session := domain.Session{
		Token:     security.GenerateSessionToken(),
		UserID:    userID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// Resolve loads the session and its user. A session past its expiry is
// deleted on the spot and reported as expired.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.SessionWithUser, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	record, err := s.sessions.GetWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if !record.Session.IsValid(time.Now().UTC()) {
		// Lazy purge: the expired row is gone before the caller sees it.
		if err := s.sessions.Delete(ctx, token); err != nil {
			return nil, fmt.Errorf("purge expired session: %w", err)
		}
		return nil, ErrSessionExpired
	}

	return record, nil
}

// Revoke deletes the session carrying the token. Revoking an absent or
// already-deleted token is a no-op.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeAllForUser deletes every session the user holds and reports how
// many were removed.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	removed, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return removed, nil
}

// PurgeExpired removes every session past its expiry.
func (s *SessionService) PurgeExpired(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	return removed, nil
}
