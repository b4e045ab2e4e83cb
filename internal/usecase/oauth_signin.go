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
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrOAuthDisabled indicates external sign-in is switched off in the
	// site settings.
	ErrOAuthDisabled = errors.New("oauth sign-in is disabled")
	// ErrOAuthExchangeFailed indicates the provider code exchange or
	// profile fetch did not produce a usable identity.
	ErrOAuthExchangeFailed = errors.New("oauth exchange failed")
)

// providerRegistry resolves configured OAuth providers by name.
type providerRegistry interface {
	Provider(name string) (port.OAuthProvider, error)
	Names() []string
}

// OAuthService orchestrates provider sign-in with an idempotent
// account-link upsert.
type OAuthService struct {
	providers providerRegistry
	users     port.UserRepository
	accounts  port.AccountRepository
	settings  port.SettingsRepository
	sessions  *SessionService
	geoip     port.GeoIPResolver
	events    port.EventPublisher
}

// NewOAuthService constructs an OAuthService instance.
func NewOAuthService(
	providers providerRegistry,
	users port.UserRepository,
	accounts port.AccountRepository,
	settings port.SettingsRepository,
	sessions *SessionService,
	geoip port.GeoIPResolver,
	events port.EventPublisher,
) *OAuthService {
	return &OAuthService{
		providers: providers,
		users:     users,
		accounts:  accounts,
		settings:  settings,
		sessions:  sessions,
		geoip:     geoip,
		events:    events,
	}
}

// AuthURL returns the provider authorization URL carrying the state.
func (s *OAuthService) AuthURL(ctx context.Context, providerName, state string) (string, error) {
	siteSettings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("load site settings: %w", err)
	}
	if !siteSettings.OAuthEnabled {
		return "", ErrOAuthDisabled
	}

	provider, err := s.providers.Provider(providerName)
	if err != nil {
		return "", err
	}

	return provider.AuthURL(state), nil
}

// Providers lists the configured provider names.
func (s *OAuthService) Providers() []string {
	return s.providers.Names()
}

// SignIn exchanges the authorization code and signs the user in. The
// upsert runs three branches in order: an existing provider link wins,
// then an existing user matched by email gets the link attached, and
// finally a new user is created when registration is open. Re-running
// any branch with the same profile converges on the same user.
func (s *OAuthService) SignIn(ctx context.Context, providerName, code string, ip *string) (domain.User, domain.Session, error) {
	siteSettings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("load site settings: %w", err)
	}
	if !siteSettings.OAuthEnabled {
		return domain.User{}, domain.Session{}, ErrOAuthDisabled
	}

	provider, err := s.providers.Provider(providerName)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	profile, err := provider.Profile(ctx, code)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: %v", ErrOAuthExchangeFailed, err)
	}

	user, method, err := s.upsert(ctx, provider.Name(), profile, siteSettings, ip)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	if !user.CanSignIn() {
		return domain.User{}, domain.Session{}, ErrInactiveAccount
	}

	session, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return domain.User{}, domain.Session{}, err
	}

	now := time.Now().UTC()
	if method == "registered" {
		_ = s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
			EventID:      uuid.NewString(),
			UserID:       user.ID,
			Email:        user.Email,
			Method:       provider.Name(),
			Country:      user.Country,
			RegisteredAt: now,
		})
	}
	_ = s.events.PublishUserLoggedIn(ctx, domain.UserLoggedInEvent{
		EventID:    uuid.NewString(),
		UserID:     user.ID,
		Method:     provider.Name(),
		IP:         ip,
		LoggedInAt: now,
	})

	return user, session, nil
}

func (s *OAuthService) upsert(
	ctx context.Context,
	providerName string,
	profile *domain.OAuthProfile,
	siteSettings domain.SiteSettings,
	ip *string,
) (domain.User, string, error) {
	// Branch 1: the provider identity is already linked.
	account, err := s.accounts.GetByProviderAccount(ctx, providerName, profile.ID)
	if err == nil {
		user, err := s.users.GetByID(ctx, account.UserID)
		if err != nil {
			return domain.User{}, "", fmt.Errorf("load linked user: %w", err)
		}
		return *user, "linked", nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("lookup account link: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))

	// Branch 2: a user already holds the email; attach the link.
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.link(ctx, user.ID, providerName, profile.ID); err != nil {
			return domain.User{}, "", err
		}
		return *user, "matched", nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, "", fmt.Errorf("lookup user by email: %w", err)
	}

	// Branch 3: create a fresh account, gated like credential sign-up.
	if !siteSettings.RegistrationEnabled {
		return domain.User{}, "", ErrRegistrationDisabled
	}

	var country *string
	if ip != nil {
		country = s.geoip.CountryCode(ctx, *ip)
	}

	now := time.Now().UTC()
	verifiedAt := now
	created := domain.User{
		ID:              uuid.NewString(),
		Email:           email,
		Name:            profile.Name,
		AvatarURL:       profile.AvatarURL,
		Role:            domain.UserRoleUser,
		Status:          domain.UserStatusActive,
		Country:         country,
		EmailVerifiedAt: &verifiedAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.users.Create(ctx, created); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// A concurrent sign-in created the user first; converge on it.
			existing, lookupErr := s.users.GetByEmail(ctx, email)
			if lookupErr != nil {
				return domain.User{}, "", fmt.Errorf("resolve concurrent user: %w", lookupErr)
			}
			if err := s.link(ctx, existing.ID, providerName, profile.ID); err != nil {
				return domain.User{}, "", err
			}
			return *existing, "matched", nil
		}
		return domain.User{}, "", fmt.Errorf("create user: %w", err)
	}

	if err := s.link(ctx, created.ID, providerName, profile.ID); err != nil {
		return domain.User{}, "", err
	}

	return created, "registered", nil
}

func (s *OAuthService) link(ctx context.Context, userID, providerName, providerAccountID string) error {
	err := s.accounts.Create(ctx, domain.Account{
		ID:                uuid.NewString(),
		UserID:            userID,
		Provider:          providerName,
		ProviderAccountID: providerAccountID,
		CreatedAt:         time.Now().UTC(),
	})
	// A conflicting link means another request finished first; the link
	// exists either way.
	if err != nil && !errors.Is(err, repository.ErrConflict) {
		return fmt.Errorf("create account link: %w", err)
	}
	return nil
}
