package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/usecase"
)

// AdminUserHandler exposes the back-office user management endpoints.
type AdminUserHandler struct {
	users *usecase.UserAdminService
}

// NewAdminUserHandler constructs AdminUserHandler.
func NewAdminUserHandler(users *usecase.UserAdminService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

// List godoc
// @Summary List users
// @Description Returns a page of users filtered by search, role, and status.
// @Tags Admin
// @Produce json
// @Param search query string false "Match against email or name"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by status"
// @Param sort_by query string false "Sort column"
// @Param sort_desc query bool false "Sort descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} UserListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	filter := port.UserFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_desc") == "true",
		Limit:    limit,
		Offset:   offset,
	}

	if raw := c.Query("role"); raw != "" {
		role, ok := parseRole(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role"))
			return
		}
		filter.Role = role
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := parseStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown status"))
			return
		}
		filter.Status = status
	}

	users, total, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list users"))
		return
	}

	payloads := make([]UserPayload, 0, len(users))
	for _, user := range users {
		payloads = append(payloads, toUserPayload(user))
	}

	c.JSON(http.StatusOK, UserListResponse{
		Users:      payloads,
		Pagination: Pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// Get godoc
// @Summary Fetch one user
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} UserPayload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users/{id} [get]
func (h *AdminUserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "user not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load user"))
		return
	}

	c.JSON(http.StatusOK, toUserPayload(*user))
}

// Update godoc
// @Summary Update a user
// @Description Changes name, role, or status. Admins cannot demote or deactivate themselves.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UserUpdateRequest true "User update payload"
// @Success 200 {object} UserPayload
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users/{id} [patch]
func (h *AdminUserHandler) Update(c *gin.Context) {
	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid update payload"))
		return
	}

	update := port.UserUpdate{Name: req.Name}

	if req.Role != nil {
		role, ok := parseRole(*req.Role)
		if !ok {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown role"))
			return
		}
		update.Role = &role
	}

	if req.Status != nil {
		status, ok := parseStatus(*req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "unknown status"))
			return
		}
		update.Status = &status
	}

	actor, _ := middleware.GetAuthenticatedUser(c)

	user, err := h.users.Update(c.Request.Context(), actor.ID, c.Param("id"), update)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSelfModification, Status: http.StatusConflict, Message: "cannot demote or deactivate your own account"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, toUserPayload(*user))
}

// Delete godoc
// @Summary Delete a user
// @Description Removes the user, their sessions, and provider links. Self-deletion is refused.
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/users/{id} [delete]
func (h *AdminUserHandler) Delete(c *gin.Context) {
	actor, _ := middleware.GetAuthenticatedUser(c)

	if err := h.users.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSelfModification, Status: http.StatusConflict, Message: "cannot delete your own account"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
		}, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

func parseRole(raw string) (domain.UserRole, bool) {
	switch domain.UserRole(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.UserRoleUser:
		return domain.UserRoleUser, true
	case domain.UserRoleAdmin:
		return domain.UserRoleAdmin, true
	}
	return "", false
}

func parseStatus(raw string) (domain.UserStatus, bool) {
	switch domain.UserStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.UserStatusActive:
		return domain.UserStatusActive, true
	case domain.UserStatusInactive:
		return domain.UserStatusInactive, true
	case domain.UserStatusBanned:
		return domain.UserStatusBanned, true
	}
	return "", false
}
