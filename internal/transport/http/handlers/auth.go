package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/transport/http/sessioncookie"
	"github.com/velostra/platform-api/internal/usecase"
)

// AuthHandler exposes credential authentication endpoints.
type AuthHandler struct {
	auth         *usecase.AuthService
	registration *usecase.RegistrationService
	cookies      *sessioncookie.Manager
	translator   *i18n.Translator
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(
	auth *usecase.AuthService,
	registration *usecase.RegistrationService,
	cookies *sessioncookie.Manager,
	translator *i18n.Translator,
) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		registration: registration,
		cookies:      cookies,
		translator:   translator,
	}
}

// Register godoc
// @Summary Register a new user account
// @Description Creates a user with the supplied credentials and signs it in via the session cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	var ip *string
	if clientIP := c.ClientIP(); clientIP != "" {
		ip = &clientIP
	}

	user, session, err := h.registration.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		IP:       ip,
	})
	if err != nil {
		var policyErr *usecase.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			resp := NewErrorResponse(c, "password does not meet requirements")
			resp.Details = policyErr.Violations
			c.JSON(http.StatusBadRequest, resp)
		case errors.Is(err, usecase.ErrRegistrationDisabled):
			c.JSON(http.StatusForbidden, NewErrorResponse(c,
				localize(c, h.translator, "auth.registrationDisabled", nil)))
		case errors.Is(err, usecase.ErrEmailTaken):
			c.JSON(http.StatusConflict, NewErrorResponse(c, "email already registered"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "registration failed"))
		}
		return
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, AuthResponse{Success: true, User: toUserPayload(user)})
}

// Login godoc
// @Summary Sign in with email and password
// @Description Validates the credential pair and issues a session cookie.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	var ip *string
	if clientIP := c.ClientIP(); clientIP != "" {
		ip = &clientIP
	}

	user, session, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, ip)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c,
				localize(c, h.translator, "auth.invalidCredentials", nil)))
		case errors.Is(err, usecase.ErrInactiveAccount):
			c.JSON(http.StatusForbidden, NewErrorResponse(c, "account is not active"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "login failed"))
		}
		return
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, AuthResponse{Success: true, User: toUserPayload(user)})
}

// Logout godoc
// @Summary Sign out
// @Description Revokes the current session, clears the cookie, and redirects to the locale-aware login page. Succeeds even without a valid session.
// @Tags Authentication
// @Success 302
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	// OptionalAuth resolves the token when the session is still valid; an
	// expired or unknown cookie falls back to the raw value so the row, if
	// any, is still deleted and the cookie cleared.
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		token = sessioncookie.Read(c)
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "logout failed"))
		return
	}

	h.cookies.Clear(c)
	c.Redirect(http.StatusFound, "/"+middleware.GetLocale(c)+"/login")
}

// Me godoc
// @Summary Current user profile
// @Description Returns the user behind the session cookie.
// @Tags Authentication
// @Produce json
// @Success 200 {object} AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetAuthenticatedUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: toUserPayload(user)})
}
