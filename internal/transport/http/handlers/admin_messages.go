package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/usecase"
)

// AdminMessageHandler exposes the admin contact inbox endpoints.
type AdminMessageHandler struct {
	contact *usecase.ContactService
}

// NewAdminMessageHandler constructs AdminMessageHandler.
func NewAdminMessageHandler(contact *usecase.ContactService) *AdminMessageHandler {
	return &AdminMessageHandler{contact: contact}
}

// List godoc
// @Summary List contact messages
// @Tags Admin
// @Produce json
// @Param unread query bool false "Only unread messages"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} ContactMessageListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/messages [get]
func (h *AdminMessageHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	messages, total, err := h.contact.List(c.Request.Context(), port.MessageFilter{
		UnreadOnly: c.Query("unread") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list messages"))
		return
	}

	payloads := make([]ContactMessagePayload, 0, len(messages))
	for _, message := range messages {
		payloads = append(payloads, toContactMessagePayload(message))
	}

	c.JSON(http.StatusOK, ContactMessageListResponse{
		Messages:   payloads,
		Pagination: Pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// Get godoc
// @Summary Read one contact message
// @Description Returns the message and marks it read.
// @Tags Admin
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} ContactMessagePayload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/messages/{id} [get]
func (h *AdminMessageHandler) Get(c *gin.Context) {
	message, err := h.contact.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "message not found"},
		}, http.StatusInternalServerError, "failed to load message")
		return
	}

	c.JSON(http.StatusOK, toContactMessagePayload(*message))
}

// MarkRead godoc
// @Summary Mark a contact message as read
// @Tags Admin
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/messages/{id}/read [post]
func (h *AdminMessageHandler) MarkRead(c *gin.Context) {
	if err := h.contact.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "message not found"},
		}, http.StatusInternalServerError, "failed to mark message read")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "message marked read"})
}

// Delete godoc
// @Summary Delete a contact message
// @Tags Admin
// @Produce json
// @Param id path string true "Message ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/messages/{id} [delete]
func (h *AdminMessageHandler) Delete(c *gin.Context) {
	if err := h.contact.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMessageNotFound, Status: http.StatusNotFound, Message: "message not found"},
		}, http.StatusInternalServerError, "failed to delete message")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "message deleted"})
}
