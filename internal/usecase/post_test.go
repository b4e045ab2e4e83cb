package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Release Notes: v2.1!  ", "release-notes-v2-1"},
		{"Über uns", "ber-uns"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.title); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestPostService_CreateDerivesSlug(t *testing.T) {
	repo := newStubPostRepo()
	svc := NewPostService(repo, "en")

	post, err := svc.Create(context.Background(), CreatePostInput{
		Title:     "Hello World",
		Content:   "body",
		AuthorID:  "admin-1",
		Published: true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.Slug != "hello-world" {
		t.Fatalf("expected derived slug hello-world, got %q", post.Slug)
	}
	if post.Locale != "en" {
		t.Fatalf("expected default locale, got %q", post.Locale)
	}
	if post.PublishedAt == nil {
		t.Fatal("publishing on create must set published_at")
	}
}

func TestPostService_CreateSlugConflict(t *testing.T) {
	repo := newStubPostRepo(domain.Post{ID: "post-1", Slug: "hello-world", Title: "Hello"})
	svc := NewPostService(repo, "en")

	_, err := svc.Create(context.Background(), CreatePostInput{Title: "Hello World", Content: "body"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestPostService_GetPublishedBySlugHidesDrafts(t *testing.T) {
	now := time.Now().UTC()
	repo := newStubPostRepo(
		domain.Post{ID: "post-1", Slug: "live", Published: true, PublishedAt: &now},
		domain.Post{ID: "post-2", Slug: "draft", Published: false},
	)
	svc := NewPostService(repo, "en")

	ctx := context.Background()
	if _, err := svc.GetPublishedBySlug(ctx, "live"); err != nil {
		t.Fatalf("published post should resolve: %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "draft"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("draft must read as not found, got %v", err)
	}
	if _, err := svc.GetPublishedBySlug(ctx, "missing"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_ListPublishedFiltersDraftsAndLocale(t *testing.T) {
	now := time.Now().UTC()
	repo := newStubPostRepo(
		domain.Post{ID: "post-1", Slug: "en-live", Locale: "en", Published: true, PublishedAt: &now},
		domain.Post{ID: "post-2", Slug: "de-live", Locale: "de", Published: true, PublishedAt: &now},
		domain.Post{ID: "post-3", Slug: "en-draft", Locale: "en", Published: false},
	)
	svc := NewPostService(repo, "en")

	posts, total, err := svc.ListPublished(context.Background(), "", 10, 0)
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}
	if total != 1 || len(posts) != 1 || posts[0].Slug != "en-live" {
		t.Fatalf("expected only the published en post, got total=%d posts=%+v", total, posts)
	}
}

func TestPostService_UpdatePublishKeepsFirstPublishedAt(t *testing.T) {
	published := time.Now().UTC().Add(-24 * time.Hour)
	repo := newStubPostRepo(domain.Post{ID: "post-1", Slug: "live", Published: true, PublishedAt: &published})
	svc := NewPostService(repo, "en")

	ctx := context.Background()
	off := false
	if _, err := svc.Update(ctx, "post-1", port.PostUpdate{Published: &off}); err != nil {
		t.Fatalf("unpublish returned error: %v", err)
	}

	on := true
	post, err := svc.Update(ctx, "post-1", port.PostUpdate{Published: &on})
	if err != nil {
		t.Fatalf("republish returned error: %v", err)
	}
	if post.PublishedAt == nil || !post.PublishedAt.Equal(published) {
		t.Fatalf("republish must keep the original published_at, got %v", post.PublishedAt)
	}
}

func TestPostService_UpdateUnknownPost(t *testing.T) {
	svc := NewPostService(newStubPostRepo(), "en")

	title := "New Title"
	if _, err := svc.Update(context.Background(), "ghost", port.PostUpdate{Title: &title}); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Delete(t *testing.T) {
	repo := newStubPostRepo(domain.Post{ID: "post-1", Slug: "live"})
	svc := NewPostService(repo, "en")

	ctx := context.Background()
	if err := svc.Delete(ctx, "post-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, "post-1"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound on repeat delete, got %v", err)
	}
}
