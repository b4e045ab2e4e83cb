package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email or password is incorrect.
	// The same error covers unknown accounts, wrong passwords, and
	// password-less OAuth accounts so responses never reveal which
	// of the three it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactiveAccount indicates the account is banned or deactivated.
	ErrInactiveAccount = errors.New("account is not active")
)

// AuthService coordinates credential login and logout.
type AuthService struct {
	users    port.UserRepository
	sessions *SessionService
	events   port.EventPublisher
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users port.UserRepository, sessions *SessionService, events port.EventPublisher) *AuthService {
	return &AuthService{users: users, sessions: sessions, events: events}
}

// Login validates the credential pair and issues a session. Lookup misses,
// hash mismatches, and accounts without a password all collapse into
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, ip *string) (domain.User, domain.Session, error) {
	if email == "" || password == "" {
		return domain.User{}, domain.Session{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, domain.Session{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if !user.HasPassword() {
		return domain.User{}, domain.Session{}, ErrInvalidCredentials
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.User{}, domain.Session{}, ErrInvalidCredentials
	}

	if !user.CanSignIn() {
		return domain.User{}, domain.Session{}, ErrInactiveAccount
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	// Best effort: a publish failure never fails the login.
	_ = s.events.PublishUserLoggedIn(ctx, domain.UserLoggedInEvent{
		EventID:    uuid.NewString(),
		UserID:     user.ID,
		Method:     "credentials",
		IP:         ip,
		LoggedInAt: time.Now().UTC(),
	})

	return *user, session, nil
}

// Logout revokes the presented session token. Unknown tokens succeed
// silently so logout stays idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}
