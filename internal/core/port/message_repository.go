package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// MessageFilter narrows contact inbox listings.
type MessageFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// MessageRepository persists contact form submissions.
type MessageRepository interface {
	Create(ctx context.Context, message domain.ContactMessage) error
	GetByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MessageFilter) ([]domain.ContactMessage, error)
	Count(ctx context.Context, filter MessageFilter) (int, error)
}
