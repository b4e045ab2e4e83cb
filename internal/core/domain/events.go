package domain

import "time"

// UserRegisteredEvent announces a newly created account.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	Method       string // "credentials" or the OAuth provider name
	Country      *string
	RegisteredAt time.Time
}

// UserLoggedInEvent records a successful authentication.
type UserLoggedInEvent struct {
	EventID    string
	UserID     string
	Method     string
	IP         *string
	LoggedInAt time.Time
}

// PasswordChangedEvent records a completed password reset or change.
type PasswordChangedEvent struct {
	EventID         string
	UserID          string
	ChangedAt       time.Time
	SessionsRevoked int
}

// ContactMessageReceivedEvent announces a new contact form submission.
type ContactMessageReceivedEvent struct {
	EventID    string
	MessageID  string
	Email      string
	ReceivedAt time.Time
}
