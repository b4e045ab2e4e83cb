package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

var (
	// ErrPostNotFound indicates the post does not exist or is not visible.
	ErrPostNotFound = errors.New("post not found")
	// ErrSlugTaken indicates another post already uses the slug.
	ErrSlugTaken = errors.New("slug is already in use")
)

var slugScrubber = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugScrubber.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// CreatePostInput captures the admin post creation payload.
type CreatePostInput struct {
	Slug      string
	Title     string
	Excerpt   *string
	Content   string
	Locale    string
	AuthorID  string
	Published bool
}

// PostService serves both the public content surface and the admin
// back-office.
type PostService struct {
	posts         port.PostRepository
	defaultLocale string
}

// NewPostService constructs a PostService instance.
func NewPostService(posts port.PostRepository, defaultLocale string) *PostService {
	return &PostService{posts: posts, defaultLocale: defaultLocale}
}

// ListPublished returns the public page of published posts.
func (s *PostService) ListPublished(ctx context.Context, locale string, limit, offset int) ([]domain.Post, int, error) {
	if locale == "" {
		locale = s.defaultLocale
	}

	filter := port.PostFilter{
		PublishedOnly: true,
		Locale:        locale,
		SortBy:        "published_at",
		SortDesc:      true,
		Limit:         limit,
		Offset:        offset,
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	return posts, total, nil
}

// GetPublishedBySlug returns one published post. Unpublished posts are
// reported as not found so the admin draft state never leaks.
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if !post.Published {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// List returns the admin page of posts, drafts included.
func (s *PostService) List(ctx context.Context, filter port.PostFilter) ([]domain.Post, int, error) {
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	total, err := s.posts.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	return posts, total, nil
}

// Get returns one post regardless of publication state.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// Create inserts a new post. A missing slug is derived from the title.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*domain.Post, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	locale := input.Locale
	if locale == "" {
		locale = s.defaultLocale
	}

	now := time.Now().UTC()
	post := domain.Post{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     input.Title,
		Excerpt:   input.Excerpt,
		Content:   input.Content,
		Locale:    locale,
		AuthorID:  input.AuthorID,
		Published: input.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.Published {
		post.PublishedAt = &now
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &post, nil
}

// Update applies the changes and returns the resulting post.
func (s *PostService) Update(ctx context.Context, id string, update port.PostUpdate) (*domain.Post, error) {
	if err := s.posts.Update(ctx, id, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrPostNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
