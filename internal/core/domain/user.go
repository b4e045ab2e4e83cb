package domain

import "time"

// UserRole enumerates the authorization tiers known to the platform.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserStatus enumerates possible account states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBanned   UserStatus = "banned"
)

// User mirrors the persisted representation in the users table.
// PasswordHash is empty for accounts created through OAuth sign-in only.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Name              *string
	AvatarURL         *string
	Role              UserRole
	Status            UserStatus
	Country           *string
	EmailVerifiedAt   *time.Time
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// CanSignIn reports whether the account state permits authentication.
func (u User) CanSignIn() bool {
	return u.Status == UserStatusActive
}

// HasPassword reports whether the account supports credential login.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
