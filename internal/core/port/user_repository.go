package port

import (
	"context"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
)

// UserFilter narrows and orders admin user listings.
type UserFilter struct {
	Search    string // matches email or name, case-insensitive
	Role      domain.UserRole
	Status    domain.UserStatus
	SortBy    string // "email", "name", "role", "status", "created_at"
	SortDesc  bool
	Limit     int
	Offset    int
}

// UserUpdate carries the mutable profile fields for an admin update.
// Nil fields are left untouched.
type UserUpdate struct {
	Name   *string
	Role   *domain.UserRole
	Status *domain.UserStatus
}

// UserRepository exposes persistence behavior for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*domain.User, error)
	Update(ctx context.Context, id string, update UserUpdate) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
