package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/infra/i18n"
	"github.com/velostra/platform-api/internal/usecase"
)

// ContactHandler receives public contact form submissions.
type ContactHandler struct {
	contact    *usecase.ContactService
	translator *i18n.Translator
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contact *usecase.ContactService, translator *i18n.Translator) *ContactHandler {
	return &ContactHandler{contact: contact, translator: translator}
}

// Submit godoc
// @Summary Submit a contact form message
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Contact form payload"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid contact payload"))
		return
	}

	_, err := h.contact.Submit(c.Request.Context(), usecase.SubmitMessageInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid contact payload"))
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{
		Message: localize(c, h.translator, "contact.received", nil),
	})
}
