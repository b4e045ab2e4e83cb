package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/usecase"
)

// PasswordHandler exposes the forgot/reset password endpoints.
type PasswordHandler struct {
	resets     *usecase.PasswordResetService
	translator *i18n.Translator
	isDev      bool
	baseURL    string
}

// NewPasswordHandler constructs PasswordHandler. In development mode the
// reset URL is returned in the response body instead of being delivered
// out of band.
func NewPasswordHandler(resets *usecase.PasswordResetService, translator *i18n.Translator, isDev bool, baseURL string) *PasswordHandler {
	return &PasswordHandler{resets: resets, translator: translator, isDev: isDev, baseURL: baseURL}
}

// Forgot godoc
// @Summary Request a password reset
// @Description Issues a reset token for the account. The response is identical for unknown emails.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Forgot password payload"
// @Success 200 {object} ForgotPasswordResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *PasswordHandler) Forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	token, err := h.resets.Forgot(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "password reset failed"))
		return
	}

	resp := ForgotPasswordResponse{
		Message: localize(c, h.translator, "auth.passwordResetSent", nil),
	}

	// SECURITY: the reset link leaves the service only in development.
	if h.isDev && token != "" {
		resetURL := h.baseURL + "/reset-password?token=" + url.QueryEscape(token)
		resp.ResetURL = &resetURL
	}

	c.JSON(http.StatusOK, resp)
}

// Reset godoc
// @Summary Complete a password reset
// @Description Consumes the reset token, sets the new password, and revokes every session of the user.
// @Tags Password
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset password payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/auth/reset-password [post]
func (h *PasswordHandler) Reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid payload"))
		return
	}

	if err := h.resets.Reset(c.Request.Context(), req.Token, req.Password); err != nil {
		var policyErr *usecase.PasswordPolicyError
		switch {
		case errors.As(err, &policyErr):
			resp := NewErrorResponse(c, "password does not meet requirements")
			resp.Details = policyErr.Violations
			c.JSON(http.StatusBadRequest, resp)
		case errors.Is(err, usecase.ErrResetTokenInvalid):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid or unknown reset token"))
		case errors.Is(err, usecase.ErrResetTokenExpired):
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "reset token expired"))
		default:
			c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "password reset failed"))
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: localize(c, h.translator, "auth.passwordChanged", nil),
	})
}
