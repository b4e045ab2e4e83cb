package sessioncookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie issued to browsers.
const CookieName = "session_token"

// Manager writes and clears the session cookie. The cookie is HttpOnly
// and SameSite=Lax; Secure is dropped only in development so local HTTP
// setups keep working.
type Manager struct {
	ttlSeconds int
	secure     bool
}

// NewManager constructs a Manager. ttlSeconds bounds the cookie Max-Age.
func NewManager(ttlSeconds int, secure bool) *Manager {
	return &Manager{ttlSeconds: ttlSeconds, secure: secure}
}

// Set attaches the session cookie to the response, expiring together
// with the session itself. A zero expiry falls back to the configured TTL.
func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
	if expiresAt.IsZero() {
		cookie.MaxAge = m.ttlSeconds
	} else {
		cookie.Expires = expiresAt
	}
	http.SetCookie(c.Writer, cookie)
}

// Clear expires the session cookie immediately.
func (m *Manager) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session token carried by the request, or "" when the
// cookie is absent.
func Read(c *gin.Context) string {
	cookie, err := c.Request.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
