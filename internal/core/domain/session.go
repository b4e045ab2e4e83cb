package domain

import "time"

// Session is an opaque bearer credential persisted server-side.
// The token is the sole authentication bearer and travels in an
// HTTP-only cookie.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValid reports whether the session is still usable at the supplied moment.
func (s Session) IsValid(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

// SessionWithUser pairs a session with its owning user, as loaded by the
// joined read path.
type SessionWithUser struct {
	Session Session
	User    User
}
