package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

var postColumns = []string{
	"id",
	"slug",
	"title",
	"excerpt",
	"content",
	"locale",
	"author_id",
	"published",
	"published_at",
	"created_at",
	"updated_at",
}

var postSortColumns = map[string]string{
	"title":        "title",
	"slug":         "slug",
	"published_at": "published_at",
	"created_at":   "created_at",
}

// PostRepository implements port.PostRepository using PostgreSQL.
type PostRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPostRepository wires a PostgreSQL-backed post repository.
func NewPostRepository(exec pgExecutor) *PostRepository {
	repo := &PostRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a post row. A duplicate slug maps to repository.ErrConflict.
func (r *PostRepository) Create(ctx context.Context, post domain.Post) error {
	stmt, args, err := r.builder.Insert("app.posts").
		Columns(postColumns...).
		Values(
			post.ID,
			post.Slug,
			post.Title,
			post.Excerpt,
			post.Content,
			post.Locale,
			post.AuthorID,
			post.Published,
			post.PublishedAt,
			post.CreatedAt,
			post.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert post sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repository.ErrConflict
		}
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by identifier.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug retrieves a post by its URL slug.
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *PostRepository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Post, error) {
	stmt, args, err := r.builder.
		Select(postColumns...).
		From("app.posts").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select post sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	post, err := scanPost(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	return post, nil
}

// Update applies the non-nil fields of the update to the post row. Flipping
// published on stamps published_at when it was never set.
func (r *PostRepository) Update(ctx context.Context, id string, update port.PostUpdate) error {
	query := r.builder.Update("app.posts").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id})

	if update.Slug != nil {
		query = query.Set("slug", *update.Slug)
	}
	if update.Title != nil {
		query = query.Set("title", *update.Title)
	}
	if update.Excerpt != nil {
		query = query.Set("excerpt", *update.Excerpt)
	}
	if update.Content != nil {
		query = query.Set("content", *update.Content)
	}
	if update.Locale != nil {
		query = query.Set("locale", *update.Locale)
	}
	if update.Published != nil {
		query = query.Set("published", *update.Published)
		if *update.Published {
			query = query.Set("published_at", squirrel.Expr("COALESCE(published_at, NOW())"))
		}
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repository.ErrConflict
		}
		return fmt.Errorf("update post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a post row.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("app.posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete post sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns posts matching the filter with pagination and ordering.
func (r *PostRepository) List(ctx context.Context, filter port.PostFilter) ([]domain.Post, error) {
	query := r.builder.Select(postColumns...).
		From("app.posts").
		OrderBy(postOrderClause(filter))

	query = applyPostFilter(query, filter)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list posts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Count returns the total number of posts matching the filter.
func (r *PostRepository) Count(ctx context.Context, filter port.PostFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("app.posts")
	query = applyPostFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count posts sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan posts count: %w", err)
	}

	return int(count), nil
}

func applyPostFilter(query squirrel.SelectBuilder, filter port.PostFilter) squirrel.SelectBuilder {
	if filter.PublishedOnly {
		query = query.Where(squirrel.Eq{"published": true})
	}
	if filter.Locale != "" {
		query = query.Where(squirrel.Eq{"locale": filter.Locale})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"slug": pattern},
		})
	}
	return query
}

func postOrderClause(filter port.PostFilter) string {
	column, ok := postSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc || filter.SortBy == "" {
		direction = "DESC"
	}
	return column + " " + direction
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.Locale,
		&post.AuthorID,
		&post.Published,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

var _ port.PostRepository = (*PostRepository)(nil)
