package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/velostra/platform-api/internal/core/domain"
	"github.com/velostra/platform-api/internal/core/port"
)

func TestContactService_Submit(t *testing.T) {
	repo := newStubMessageRepo()
	events := &recordingPublisher{}
	svc := NewContactService(repo, events)

	message, err := svc.Submit(context.Background(), SubmitMessageInput{
		Name:  "  Alice  ",
		Email: " Alice@Example.COM ",
		Body:  "  Hello there  ",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if message.Name != "Alice" || message.Email != "alice@example.com" || message.Body != "Hello there" {
		t.Fatalf("fields not normalized: %+v", message)
	}
	if message.Read {
		t.Fatal("new messages must start unread")
	}
	if len(events.contact) != 1 || events.contact[0].MessageID != message.ID {
		t.Fatalf("expected one received event for the message, got %+v", events.contact)
	}
}

func TestContactService_SubmitRejectsBlankFields(t *testing.T) {
	svc := NewContactService(newStubMessageRepo(), &recordingPublisher{})

	cases := []SubmitMessageInput{
		{Name: "", Email: "a@b.com", Body: "hi"},
		{Name: "Alice", Email: "", Body: "hi"},
		{Name: "Alice", Email: "a@b.com", Body: "   "},
	}
	for _, input := range cases {
		if _, err := svc.Submit(context.Background(), input); err == nil {
			t.Fatalf("expected validation error for %+v", input)
		}
	}
}

func TestContactService_GetMarksRead(t *testing.T) {
	repo := newStubMessageRepo(domain.ContactMessage{ID: "msg-1", Name: "Alice", Email: "a@b.com", Body: "hi"})
	svc := NewContactService(repo, &recordingPublisher{})

	ctx := context.Background()
	message, err := svc.Get(ctx, "msg-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !message.Read {
		t.Fatal("opening a message must return it as read")
	}

	stored, err := repo.GetByID(ctx, "msg-1")
	if err != nil {
		t.Fatalf("load message: %v", err)
	}
	if !stored.Read {
		t.Fatal("read flag must be persisted")
	}
}

func TestContactService_ListUnreadOnly(t *testing.T) {
	repo := newStubMessageRepo(
		domain.ContactMessage{ID: "msg-1", Read: false},
		domain.ContactMessage{ID: "msg-2", Read: true},
	)
	svc := NewContactService(repo, &recordingPublisher{})

	messages, total, err := svc.List(context.Background(), port.MessageFilter{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 1 || len(messages) != 1 || messages[0].ID != "msg-1" {
		t.Fatalf("expected only the unread message, got total=%d messages=%+v", total, messages)
	}
}

func TestContactService_UnknownMessage(t *testing.T) {
	svc := NewContactService(newStubMessageRepo(), &recordingPublisher{})

	ctx := context.Background()
	if _, err := svc.Get(ctx, "ghost"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound from Get, got %v", err)
	}
	if err := svc.MarkRead(ctx, "ghost"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound from MarkRead, got %v", err)
	}
	if err := svc.Delete(ctx, "ghost"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound from Delete, got %v", err)
	}
}
