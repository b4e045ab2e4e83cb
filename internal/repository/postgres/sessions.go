package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

// SessionRepository implements port.SessionRepository backed by PostgreSQL.
type SessionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository wires a PostgreSQL-backed session repository.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	repo := &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	if tx == nil {
		return r
	}
	return &SessionRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a session row.
func (r *SessionRepository) Create(ctx context.Context, session domain.Session) error {
	stmt, args, err := r.builder.Insert("app.sessions").
		Columns("token", "user_id", "expires_at", "created_at").
		Values(session.Token, session.UserID, session.ExpiresAt, session.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// GetWithUser loads a session joined with its owning user. Expiry is not
// evaluated here; the caller owns the lazy-purge policy.
func (r *SessionRepository) GetWithUser(ctx context.Context, token string) (*domain.SessionWithUser, error) {
	stmt, args, err := r.builder.
		Select(
			"s.token",
			"s.user_id",
			"s.expires_at",
			"s.created_at",
			"u.id",
			"u.email",
			"u.password_hash",
			"u.name",
			"u.avatar_url",
			"u.role",
			"u.status",
			"u.country",
			"u.email_verified_at",
			"u.reset_token_hash",
			"u.reset_token_expires",
			"u.created_at",
			"u.updated_at",
		).
		From("app.sessions s").
		Join("app.users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var record domain.SessionWithUser
	if err := row.Scan(
		&record.Session.Token,
		&record.Session.UserID,
		&record.Session.ExpiresAt,
		&record.Session.CreatedAt,
		&record.User.ID,
		&record.User.Email,
		&record.User.PasswordHash,
		&record.User.Name,
		&record.User.AvatarURL,
		&record.User.Role,
		&record.User.Status,
		&record.User.Country,
		&record.User.EmailVerifiedAt,
		&record.User.ResetTokenHash,
		&record.User.ResetTokenExpires,
		&record.User.CreatedAt,
		&record.User.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	return &record, nil
}

// Delete removes the session carrying the token. Deleting zero rows is
// not an error.
func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	stmt, args, err := r.builder.Delete("app.sessions").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteAllForUser removes every session held by the user.
func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	stmt, args, err := r.builder.Delete("app.sessions").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete user sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

// DeleteExpired purges sessions whose expiry precedes the reference time.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int, error) {
	stmt, args, err := r.builder.Delete("app.sessions").
		Where(squirrel.Lt{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return int(ct.RowsAffected()), nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
