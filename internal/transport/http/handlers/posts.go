package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/usecase"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PostHandler serves the public content surface.
type PostHandler struct {
	posts *usecase.PostService
}

// NewPostHandler constructs PostHandler.
func NewPostHandler(posts *usecase.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// List godoc
// @Summary List published posts
// @Description Returns the page of published posts for the negotiated locale, newest first.
// @Tags Posts
// @Produce json
// @Param lang query string false "Locale override"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/posts [get]
func (h *PostHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	posts, total, err := h.posts.ListPublished(c.Request.Context(), middleware.GetLocale(c), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	payloads := make([]PostPayload, 0, len(posts))
	for _, post := range posts {
		payloads = append(payloads, toPostPayload(post))
	}

	c.JSON(http.StatusOK, PostListResponse{
		Posts:      payloads,
		Pagination: Pagination{Total: total, Limit: limit, Offset: offset},
	})
}

// BySlug godoc
// @Summary Fetch one published post
// @Tags Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} PostPayload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/posts/{slug} [get]
func (h *PostHandler) BySlug(c *gin.Context) {
	post, err := h.posts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, usecase.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, NewErrorResponse(c, "post not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load post"))
		return
	}

	c.JSON(http.StatusOK, toPostPayload(*post))
}

// pagination reads limit/offset query parameters with bounds applied.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if raw := c.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
