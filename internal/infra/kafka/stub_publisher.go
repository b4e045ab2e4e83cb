package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/infra/logger"
)

// StubPublisher logs events instead of sending them to Kafka. Used when
// no brokers are configured.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_id", userID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"user_id":       event.UserID,
		"email":         logger.MaskEmail(event.Email),
		"method":        event.Method,
		"country":       event.Country,
		"registered_at": event.RegisteredAt,
	}
	p.logEvent("user.registered", event.UserID, event.RegisteredAt, payload)
	return nil
}

// PublishUserLoggedIn logs user.logged_in events.
func (p *StubPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	payload := map[string]any{
		"user_id":      event.UserID,
		"method":       event.Method,
		"ip":           event.IP,
		"logged_in_at": event.LoggedInAt,
	}
	p.logEvent("user.logged_in", event.UserID, event.LoggedInAt, payload)
	return nil
}

// PublishPasswordChanged logs user.password.changed events.
func (p *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"user_id":          event.UserID,
		"changed_at":       event.ChangedAt,
		"sessions_revoked": event.SessionsRevoked,
	}
	p.logEvent("user.password.changed", event.UserID, event.ChangedAt, payload)
	return nil
}

// PublishContactMessageReceived logs contact.message.received events.
func (p *StubPublisher) PublishContactMessageReceived(_ context.Context, event domain.ContactMessageReceivedEvent) error {
	payload := map[string]any{
		"message_id":  event.MessageID,
		"email":       logger.MaskEmail(event.Email),
		"received_at": event.ReceivedAt,
	}
	p.logEvent("contact.message.received", "", event.ReceivedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
