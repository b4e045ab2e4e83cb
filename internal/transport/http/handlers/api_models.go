package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/velostra/platform-api/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination reports listing window information in collection responses.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// UserPayload describes a user as returned by the API.
type UserPayload struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          *string    `json:"name,omitempty"`
	AvatarURL     *string    `json:"avatar_url,omitempty"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	Country       *string    `json:"country,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toUserPayload(user domain.User) UserPayload {
	payload := UserPayload{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		Role:          string(user.Role),
		Status:        string(user.Status),
		Country:       user.Country,
		EmailVerified: user.EmailVerifiedAt != nil,
		CreatedAt:     user.CreatedAt,
	}
	if !user.UpdatedAt.IsZero() {
		updatedAt := user.UpdatedAt
		payload.UpdatedAt = &updatedAt
	}
	return payload
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Name     *string `json:"name,omitempty"`
}

// LoginRequest defines the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful sign-in or registration.
// The session itself travels in the HttpOnly cookie, never in the body.
// Success is omitted on the profile endpoint, which returns the user alone.
type AuthResponse struct {
	Success bool        `json:"success,omitempty"`
	User    UserPayload `json:"user"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPasswordResponse acknowledges a reset request.
// ResetURL is ONLY populated in development mode; production delivery
// happens out of band.
type ForgotPasswordResponse struct {
	Message  string  `json:"message"`
	ResetURL *string `json:"reset_url,omitempty"` // Development only
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OAuthProvidersResponse lists the configured sign-in providers.
type OAuthProvidersResponse struct {
	Providers []string `json:"providers"`
}

// PostPayload describes a content post in API responses.
type PostPayload struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Content     string     `json:"content,omitempty"`
	Locale      string     `json:"locale"`
	AuthorID    string     `json:"author_id,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toPostPayload(post domain.Post) PostPayload {
	return PostPayload{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Content:     post.Content,
		Locale:      post.Locale,
		AuthorID:    post.AuthorID,
		Published:   post.Published,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// PostListResponse wraps a page of posts.
type PostListResponse struct {
	Posts      []PostPayload `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// PostCreateRequest defines the admin post creation payload.
type PostCreateRequest struct {
	Slug      string  `json:"slug"`
	Title     string  `json:"title" binding:"required"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Content   string  `json:"content"`
	Locale    string  `json:"locale"`
	Published bool    `json:"published"`
}

// PostUpdateRequest defines the admin post update payload.
type PostUpdateRequest struct {
	Slug      *string `json:"slug,omitempty"`
	Title     *string `json:"title,omitempty"`
	Excerpt   *string `json:"excerpt,omitempty"`
	Content   *string `json:"content,omitempty"`
	Locale    *string `json:"locale,omitempty"`
	Published *bool   `json:"published,omitempty"`
}

// ContactRequest defines the public contact form payload.
type ContactRequest struct {
	Name    string  `json:"name" binding:"required"`
	Email   string  `json:"email" binding:"required,email"`
	Subject *string `json:"subject,omitempty"`
	Body    string  `json:"body" binding:"required"`
}

// ContactMessagePayload describes a contact message in the admin inbox.
type ContactMessagePayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toContactMessagePayload(message domain.ContactMessage) ContactMessagePayload {
	return ContactMessagePayload{
		ID:        message.ID,
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Body:      message.Body,
		Read:      message.Read,
		CreatedAt: message.CreatedAt,
	}
}

// ContactMessageListResponse wraps a page of contact messages.
type ContactMessageListResponse struct {
	Messages   []ContactMessagePayload `json:"messages"`
	Pagination Pagination              `json:"pagination"`
}

// UserListResponse wraps a page of users for the admin table.
type UserListResponse struct {
	Users      []UserPayload `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// UserUpdateRequest defines the admin user update payload.
type UserUpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Status *string `json:"status,omitempty"`
}

// SettingsPayload describes the site settings record.
type SettingsPayload struct {
	RegistrationEnabled bool      `json:"registration_enabled"`
	OAuthEnabled        bool      `json:"oauth_enabled"`
	DefaultLocale       string    `json:"default_locale"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func toSettingsPayload(settings domain.SiteSettings) SettingsPayload {
	return SettingsPayload{
		RegistrationEnabled: settings.RegistrationEnabled,
		OAuthEnabled:        settings.OAuthEnabled,
		DefaultLocale:       settings.DefaultLocale,
		UpdatedAt:           settings.UpdatedAt,
	}
}

// SettingsUpdateRequest defines the admin settings update payload.
type SettingsUpdateRequest struct {
	RegistrationEnabled *bool   `json:"registration_enabled,omitempty"`
	OAuthEnabled        *bool   `json:"oauth_enabled,omitempty"`
	DefaultLocale       *string `json:"default_locale,omitempty"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness results.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
