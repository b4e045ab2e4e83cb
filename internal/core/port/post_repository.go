package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// PostFilter narrows and orders post listings.
type PostFilter struct {
	PublishedOnly bool
	Locale        string
	Search        string // matches title or slug, case-insensitive
	SortBy        string // "title", "slug", "published_at", "created_at"
	SortDesc      bool
	Limit         int
	Offset        int
}

// PostUpdate carries mutable post fields. Nil fields are left untouched.
type PostUpdate struct {
	Slug      *string
	Title     *string
	Excerpt   *string
	Content   *string
	Locale    *string
	Published *bool
}

// PostRepository persists marketing-site content entries.
type PostRepository interface {
	Create(ctx context.Context, post domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	Update(ctx context.Context, id string, update PostUpdate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)
	Count(ctx context.Context, filter PostFilter) (int, error)
}
