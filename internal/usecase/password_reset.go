package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/logger"
	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/repository"
)

const (
	resetTokenBytes = 32
	resetTokenTTL   = time.Hour
)

var (
	// ErrResetTokenInvalid indicates the reset token does not match any account.
	ErrResetTokenInvalid = errors.New("password reset token invalid")
	// ErrResetTokenExpired indicates the reset token is past its expiry.
	ErrResetTokenExpired = errors.New("password reset token expired")
)

// PasswordResetService drives the forgot/reset password flow. Tokens are
// stored hashed so a database leak never exposes a usable token.
type PasswordResetService struct {
	users     port.UserRepository
	sessions  *SessionService
	validator *security.PasswordValidator
	events    port.EventPublisher
	log       *zap.Logger
}

// NewPasswordResetService constructs a PasswordResetService instance.
func NewPasswordResetService(
	users port.UserRepository,
	sessions *SessionService,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		users:     users,
		sessions:  sessions,
		validator: validator,
		events:    events,
		log:       log,
	}
}

// Forgot issues a reset token for the account holding the email. The
// outcome is identical for unknown emails so the endpoint cannot be used
// to enumerate accounts; the returned token is non-empty only when an
// account matched, and only the development surface may expose it.
func (s *PasswordResetService) Forgot(ctx context.Context, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", nil
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info("password reset requested for unknown email",
				zap.String("email", logger.MaskEmail(normalized)),
			)
			return "", nil
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	token, err := security.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, security.HashToken(token), expiresAt); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}

	s.log.Info("password reset token issued",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Time("expires_at", expiresAt),
	)

	return token, nil
}

// Reset consumes the token and sets the new password. Every session the
// user holds is revoked so a stolen session does not survive the reset.
func (s *PasswordResetService) Reset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrResetTokenInvalid
	}

	user, err := s.users.GetByResetTokenHash(ctx, security.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("lookup reset token: %w", err)
	}

	if user.ResetTokenExpires == nil || user.ResetTokenExpires.Before(time.Now().UTC()) {
		_ = s.users.ClearResetToken(ctx, user.ID)
		return ErrResetTokenExpired
	}

	if result := s.validator.Validate(newPassword); !result.Valid {
		return &PasswordPolicyError{Violations: result.Errors}
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := time.Now().UTC()
	if err := s.users.UpdatePassword(ctx, user.ID, hash, changedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}

	revoked, err := s.sessions.RevokeAllForUser(ctx, user.ID)
	if err != nil {
		return err
	}

	_ = s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		EventID:         uuid.NewString(),
		UserID:          user.ID,
		ChangedAt:       changedAt,
		SessionsRevoked: revoked,
	})

	return nil
}
