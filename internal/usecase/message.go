package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
	"github.com/velostra/platform-api/internal/repository"
)

// ErrMessageNotFound indicates the contact message does not exist.
var ErrMessageNotFound = errors.New("message not found")

// SubmitMessageInput captures the public contact form payload.
type SubmitMessageInput struct {
	Name    string
	Email   string
	Subject *string
	Body    string
}

// ContactService receives public contact submissions and backs the admin
// inbox.
type ContactService struct {
	messages port.MessageRepository
	events   port.EventPublisher
}

// NewContactService constructs a ContactService instance.
func NewContactService(messages port.MessageRepository, events port.EventPublisher) *ContactService {
	return &ContactService{messages: messages, events: events}
}

// Submit stores a message from the public contact form.
func (s *ContactService) Submit(ctx context.Context, input SubmitMessageInput) (*domain.ContactMessage, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	body := strings.TrimSpace(input.Body)

	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}

	now := time.Now().UTC()
	message := domain.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Subject:   input.Subject,
		Body:      body,
		CreatedAt: now,
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	_ = s.events.PublishContactMessageReceived(ctx, domain.ContactMessageReceivedEvent{
		EventID:    uuid.NewString(),
		MessageID:  message.ID,
		Email:      message.Email,
		ReceivedAt: now,
	})

	return &message, nil
}

// List returns the admin inbox page plus the total match count.
func (s *ContactService) List(ctx context.Context, filter port.MessageFilter) ([]domain.ContactMessage, int, error) {
	messages, err := s.messages.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list messages: %w", err)
	}

	total, err := s.messages.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count messages: %w", err)
	}

	return messages, total, nil
}

// Get returns one message and flags it read, so opening a message in the
// inbox marks it handled.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.ContactMessage, error) {
	message, err := s.messages.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("get message: %w", err)
	}

	if !message.Read {
		if err := s.messages.MarkRead(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("mark message read: %w", err)
		}
		message.Read = true
	}

	return message, nil
}

// MarkRead flags a message as read.
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	if err := s.messages.MarkRead(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("mark message read: %w", err)
	}
	return nil
}

// Delete removes a message from the inbox.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
