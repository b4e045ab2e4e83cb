package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

var messageColumns = []string{
	"id",
	"name",
	"email",
	"subject",
	"body",
	"read",
	"created_at",
}

// MessageRepository implements port.MessageRepository using PostgreSQL.
type MessageRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMessageRepository wires a PostgreSQL-backed contact message repository.
func NewMessageRepository(exec pgExecutor) *MessageRepository {
	repo := &MessageRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		repo.pool = pool
	}
	return repo
}

// Create inserts a contact message row.
func (r *MessageRepository) Create(ctx context.Context, message domain.ContactMessage) error {
	stmt, args, err := r.builder.Insert("app.contact_messages").
		Columns(messageColumns...).
		Values(
			message.ID,
			message.Name,
			message.Email,
			message.Subject,
			message.Body,
			message.Read,
			message.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert message sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// GetByID retrieves a contact message by identifier.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.ContactMessage, error) {
	stmt, args, err := r.builder.
		Select(messageColumns...).
		From("app.contact_messages").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select message sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	message, err := scanMessage(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan message: %w", err)
	}

	return message, nil
}

// MarkRead flags a message as read. Marking an already read message is
// not an error.
func (r *MessageRepository) MarkRead(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update("app.contact_messages").
		Set("read", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build mark message read sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a message row.
func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("app.contact_messages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete message sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns messages, newest first, with pagination.
func (r *MessageRepository) List(ctx context.Context, filter port.MessageFilter) ([]domain.ContactMessage, error) {
	query := r.builder.Select(messageColumns...).
		From("app.contact_messages").
		OrderBy("created_at DESC")

	if filter.UnreadOnly {
		query = query.Where(squirrel.Eq{"read": false})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list messages sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.ContactMessage, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, *message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// Count returns the total number of messages matching the filter.
func (r *MessageRepository) Count(ctx context.Context, filter port.MessageFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From("app.contact_messages")
	if filter.UnreadOnly {
		query = query.Where(squirrel.Eq{"read": false})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count messages sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan messages count: %w", err)
	}

	return int(count), nil
}

func scanMessage(row pgx.Row) (*domain.ContactMessage, error) {
	var message domain.ContactMessage
	if err := row.Scan(
		&message.ID,
		&message.Name,
		&message.Email,
		&message.Subject,
		&message.Body,
		&message.Read,
		&message.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &message, nil
}

var _ port.MessageRepository = (*MessageRepository)(nil)
