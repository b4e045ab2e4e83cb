package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/usecase"
)

// AdminSettingsHandler exposes the site settings endpoints.
type AdminSettingsHandler struct {
	settings *usecase.SettingsService
}

// NewAdminSettingsHandler constructs AdminSettingsHandler.
func NewAdminSettingsHandler(settings *usecase.SettingsService) *AdminSettingsHandler {
	return &AdminSettingsHandler{settings: settings}
}

// Get godoc
// @Summary Read the site settings
// @Tags Admin
// @Produce json
// @Success 200 {object} SettingsPayload
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/settings [get]
func (h *AdminSettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load settings"))
		return
	}

	c.JSON(http.StatusOK, toSettingsPayload(settings))
}

// Update godoc
// @Summary Update the site settings
// @Description Toggles the registration and OAuth gates or changes the default locale.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body SettingsUpdateRequest true "Settings update payload"
// @Success 200 {object} SettingsPayload
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/settings [patch]
func (h *AdminSettingsHandler) Update(c *gin.Context) {
	var req SettingsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid settings payload"))
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), port.SettingsUpdate{
		RegistrationEnabled: req.RegistrationEnabled,
		OAuthEnabled:        req.OAuthEnabled,
		DefaultLocale:       req.DefaultLocale,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to update settings"))
		return
	}

	c.JSON(http.StatusOK, toSettingsPayload(settings))
}
