package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// EventPublisher fans out domain events to downstream consumers.
// Implementations must be non-blocking on the request path; delivery is
// best-effort and failures are logged, never surfaced to callers.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserLoggedIn(ctx context.Context, event domain.UserLoggedInEvent) error
	PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error
	PublishContactMessageReceived(ctx context.Context, event domain.ContactMessageReceivedEvent) error
}
