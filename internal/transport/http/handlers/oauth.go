package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/infra/security"
	"github.com/velostra/platform-api/internal/transport/http/sessioncookie"
	"github.com/velostra/platform-api/internal/usecase"
)

const (
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600
	stateTokenBytes   = 24

	oauthSuccessPath = "/dashboard"
	oauthFailurePath = "/login"
)

// OAuthHandler drives the authorization-code sign-in flow. The callback
// talks to a browser mid-redirect, so failures surface as a redirect to
// the login page with a generic error query parameter rather than JSON.
type OAuthHandler struct {
	oauth   *usecase.OAuthService
	cookies *sessioncookie.Manager
	secure  bool
}

// NewOAuthHandler constructs OAuthHandler.
func NewOAuthHandler(oauth *usecase.OAuthService, cookies *sessioncookie.Manager, secure bool) *OAuthHandler {
	return &OAuthHandler{
		oauth:   oauth,
		cookies: cookies,
		secure:  secure,
	}
}

// Providers godoc
// @Summary List configured OAuth providers
// @Tags Authentication
// @Produce json
// @Success 200 {object} OAuthProvidersResponse
// @Router /api/auth/providers [get]
func (h *OAuthHandler) Providers(c *gin.Context) {
	c.JSON(http.StatusOK, OAuthProvidersResponse{Providers: h.oauth.Providers()})
}

// Begin godoc
// @Summary Start OAuth sign-in
// @Description Redirects the browser to the provider's authorization page with a CSRF state cookie.
// @Tags Authentication
// @Success 302
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/github [get]
// @Router /api/auth/google [get]
func (h *OAuthHandler) Begin(provider string) gin.HandlerFunc {
	return func(c *gin.Context) {
		state, err := security.GenerateSecureToken(stateTokenBytes)
		if err != nil {
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to start sign-in"))
			return
		}

		authURL, err := h.oauth.AuthURL(c.Request.Context(), provider, state)
		if err != nil {
			if errors.Is(err, usecase.ErrOAuthDisabled) {
				c.JSON(http.StatusForbidden, NewErrorResponse(c, "oauth sign-in is disabled"))
				return
			}
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "provider not configured"))
			return
		}

		h.setStateCookie(c, state)
		c.Redirect(http.StatusFound, authURL)
	}
}

// Callback godoc
// @Summary Complete OAuth sign-in
// @Description Exchanges the authorization code, signs the user in, and redirects to the dashboard. Failures redirect to the login page with an error query parameter.
// @Tags Authentication
// @Param provider path string true "Provider name"
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 302
// @Router /api/auth/callback/{provider} [get]
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	state := c.Query("state")
	expected, err := c.Cookie(stateCookieName)
	h.clearStateCookie(c)
	if err != nil || state == "" || state != expected {
		h.failSignIn(c, "state_mismatch")
		return
	}

	code := c.Query("code")
	if code == "" {
		h.failSignIn(c, "missing_code")
		return
	}

	var ip *string
	if clientIP := c.ClientIP(); clientIP != "" {
		ip = &clientIP
	}

	_, session, err := h.oauth.SignIn(c.Request.Context(), provider, code, ip)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOAuthDisabled):
			h.failSignIn(c, "oauth_disabled")
		case errors.Is(err, usecase.ErrRegistrationDisabled):
			h.failSignIn(c, "registration_disabled")
		case errors.Is(err, usecase.ErrInactiveAccount):
			h.failSignIn(c, "account_inactive")
		default:
			// Exchange and profile-fetch failures are authentication
			// failures from the browser's point of view.
			h.failSignIn(c, "oauth_failed")
		}
		return
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	c.Redirect(http.StatusFound, oauthSuccessPath)
}

func (h *OAuthHandler) failSignIn(c *gin.Context, reason string) {
	c.Redirect(http.StatusFound, oauthFailurePath+"?error="+reason)
}

func (h *OAuthHandler) setStateCookie(c *gin.Context, state string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) clearStateCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
