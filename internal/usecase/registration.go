package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrRegistrationDisabled indicates sign-up is switched off in the
	// site settings.
	ErrRegistrationDisabled = errors.New("registration is disabled")
	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email is already registered")
)

// PasswordPolicyError carries every violated password rule so the caller
// can surface the complete list.
type PasswordPolicyError struct {
	Violations []string
}

// Error implements error for PasswordPolicyError.
func (e *PasswordPolicyError) Error() string {
	return "password does not meet policy: " + strings.Join(e.Violations, "; ")
}

// RegisterInput captures the credential sign-up payload.
type RegisterInput struct {
	Email    string
	Password string
	Name     *string
	IP       *string
}

// RegistrationService creates credential accounts and signs them in.
type RegistrationService struct {
	users     port.UserRepository
	settings  port.SettingsRepository
	sessions  *SessionService
	geoip     port.GeoIPResolver
	validator *security.PasswordValidator
	events    port.EventPublisher
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	users port.UserRepository,
	settings port.SettingsRepository,
	sessions *SessionService,
	geoip port.GeoIPResolver,
	validator *security.PasswordValidator,
	events port.EventPublisher,
) *RegistrationService {
	return &RegistrationService{
		users:     users,
		settings:  settings,
		sessions:  sessions,
		geoip:     geoip,
		validator: validator,
		events:    events,
	}
}

// Register creates the account and immediately issues a session so the
// user lands signed in. Registration is gated by site settings, and the
// country is attached best-effort from the client IP.
func (s *RegistrationService) Register(ctx context.Context, input RegisterInput) (domain.User, domain.Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return domain.User{}, domain.Session{}, fmt.Errorf("email is required")
	}

	siteSettings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("load site settings: %w", err)
	}
	if !siteSettings.RegistrationEnabled {
		return domain.User{}, domain.Session{}, ErrRegistrationDisabled
	}

	if result := s.validator.Validate(input.Password); !result.Valid {
		return domain.User{}, domain.Session{}, &PasswordPolicyError{Violations: result.Errors}
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("hash password: %w", err)
	}

	var country *string
	if input.IP != nil {
		country = s.geoip.CountryCode(ctx, *input.IP)
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
		Country:      country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return domain.User{}, domain.Session{}, ErrEmailTaken
		}
		return domain.User{}, domain.Session{}, fmt.Errorf("create user: %w", err)
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	_ = s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Email:        user.Email,
		Method:       "credentials",
		Country:      country,
		RegisteredAt: now,
	})

	return user, session, nil
}
