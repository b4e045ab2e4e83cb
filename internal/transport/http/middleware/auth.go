package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/transport/http/sessioncookie"
	"github.com/velostra/platform-api/internal/usecase"
)

const (
	// UserKey is the gin context key holding the authenticated domain.User.
	UserKey = "current_user"
	// SessionTokenKey is the gin context key holding the resolved session token.
	SessionTokenKey = "session_token"
)

// ErrorResponse matches the handlers.ErrorResponse structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func newErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:   errorMsg,
		TraceID: GetTraceID(c),
	}
}

// OptionalAuth resolves the session cookie when present. Anonymous and
// expired-session requests pass through without a user in context.
func OptionalAuth(sessions *usecase.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessioncookie.Read(c)
		if token == "" {
			c.Next()
			return
		}

		record, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		setAuthenticated(c, record)
		c.Next()
	}
}

// RequireAuth resolves the session cookie and rejects the request with
// 401 when no valid session backs it.
func RequireAuth(sessions *usecase.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessioncookie.Read(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		record, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, usecase.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "session expired"))
			case errors.Is(err, usecase.ErrSessionNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					newErrorResponse(c, "authentication required"))
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					newErrorResponse(c, "authentication failed"))
			}
			return
		}

		if !record.User.CanSignIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "account is not active"))
			return
		}

		setAuthenticated(c, record)
		c.Next()
	}
}

// RequireAdmin rejects authenticated non-admin users with 403. It must
// run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetAuthenticatedUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				newErrorResponse(c, "authentication required"))
			return
		}

		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				newErrorResponse(c, "admin access required"))
			return
		}

		c.Next()
	}
}

func setAuthenticated(c *gin.Context, record *domain.SessionWithUser) {
	c.Set(UserKey, record.User)
	c.Set(SessionTokenKey, record.Session.Token)

	if reqCtx := GetRequestContext(c); reqCtx != nil {
		reqCtx.UserID = record.User.ID
	}
}

// GetAuthenticatedUser retrieves the current user from context.
func GetAuthenticatedUser(c *gin.Context) (domain.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return domain.User{}, false
	}

	user, ok := value.(domain.User)
	return user, ok
}

// GetSessionToken retrieves the resolved session token from context.
func GetSessionToken(c *gin.Context) (string, bool) {
	value, exists := c.Get(SessionTokenKey)
	if !exists {
		return "", false
	}

	token, ok := value.(string)
	return token, ok
}
