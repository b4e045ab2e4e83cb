package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/transport/http/middleware"
	"github.com/velostra/platform-api/internal/usecase"
)

// AdminPostHandler exposes the back-office content management endpoints.
type AdminPostHandler struct {
	posts *usecase.PostService
}

// NewAdminPostHandler constructs AdminPostHandler.
func NewAdminPostHandler(posts *usecase.PostService) *AdminPostHandler {
	return &AdminPostHandler{posts: posts}
}

// List godoc
// @Summary List posts, drafts included
// @Tags Admin
// @Produce json
// @Param search query string false "Match against title or slug"
// @Param locale query string false "Filter by locale"
// @Param sort_by query string false "Sort column"
// @Param sort_desc query bool false "Sort descending"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/posts [get]
func (h *AdminPostHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	filter := port.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Locale:   c.Query("locale"),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_desc") == "true",
		Limit:    limit,
		Offset:   offset,
	}

	posts, total, err := h.posts.List(c.Request.Context(), filter)
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

// Get godoc
// @Summary Fetch one post regardless of publication state
// @Tags Admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} PostPayload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/posts/{id} [get]
func (h *AdminPostHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, toPostPayload(*post))
}

// Create godoc
// @Summary Create a post
// @Description Creates a post. A missing slug is derived from the title.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body PostCreateRequest true "Post creation payload"
// @Success 201 {object} PostPayload
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/posts [post]
func (h *AdminPostHandler) Create(c *gin.Context) {
	var req PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid post payload"))
		return
	}

	author, _ := middleware.GetAuthenticatedUser(c)

	post, err := h.posts.Create(c.Request.Context(), usecase.CreatePostInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Locale:    req.Locale,
		AuthorID:  author.ID,
		Published: req.Published,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrSlugTaken, Status: http.StatusConflict, Message: "slug is already in use"},
		}, http.StatusBadRequest, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, toPostPayload(*post))
}

// Update godoc
// @Summary Update a post
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body PostUpdateRequest true "Post update payload"
// @Success 200 {object} PostPayload
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/posts/{id} [patch]
func (h *AdminPostHandler) Update(c *gin.Context) {
	var req PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid post payload"))
		return
	}

	post, err := h.posts.Update(c.Request.Context(), c.Param("id"), port.PostUpdate{
		Slug:      req.Slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		Locale:    req.Locale,
		Published: req.Published,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
			{Err: usecase.ErrSlugTaken, Status: http.StatusConflict, Message: "slug is already in use"},
		}, http.StatusInternalServerError, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, toPostPayload(*post))
}

// Delete godoc
// @Summary Delete a post
// @Tags Admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/admin/posts/{id} [delete]
func (h *AdminPostHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
		}, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
}
