package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrUserNotFound indicates the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSelfModification indicates an admin attempted to demote, ban,
	// or delete their own account.
	ErrSelfModification = errors.New("cannot modify own account this way")
)

// UserAdminService backs the admin user management screens.
type UserAdminService struct {
	users    port.UserRepository
	sessions *SessionService
}

// NewUserAdminService constructs a UserAdminService instance.
func NewUserAdminService(users port.UserRepository, sessions *SessionService) *UserAdminService {
	return &UserAdminService{users: users, sessions: sessions}
}

// List returns a page of users plus the total match count for pagination.
func (s *UserAdminService) List(ctx context.Context, filter port.UserFilter) ([]domain.User, int, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Get returns one user by identifier.
func (s *UserAdminService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies the profile changes. An admin cannot strip their own
// admin role or deactivate themselves, which would lock the back office.
// Demoting or banning a user revokes their live sessions.
func (s *UserAdminService) Update(ctx context.Context, actorID, targetID string, update port.UserUpdate) (*domain.User, error) {
	if actorID == targetID {
		demoting := update.Role != nil && *update.Role != domain.UserRoleAdmin
		deactivating := update.Status != nil && *update.Status != domain.UserStatusActive
		if demoting || deactivating {
			return nil, ErrSelfModification
		}
	}

	current, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.users.Update(ctx, targetID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	statusRevokes := update.Status != nil && *update.Status != domain.UserStatusActive && current.Status == domain.UserStatusActive
	roleRevokes := update.Role != nil && *update.Role != domain.UserRoleAdmin && current.IsAdmin()
	if statusRevokes || roleRevokes {
		if _, err := s.sessions.RevokeAllForUser(ctx, targetID); err != nil {
			return nil, err
		}
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
	}
	return user, nil
}

// Delete removes the user together with their sessions and provider links.
// Self-deletion is refused.
func (s *UserAdminService) Delete(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfModification
	}

	if _, err := s.sessions.RevokeAllForUser(ctx, targetID); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
