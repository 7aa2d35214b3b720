package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

type stubChatRepository struct {
	chats    []persistence.DirectChat
	messages []persistence.ChatMessage
}

func (s *stubChatRepository) CreateChat(_ context.Context, chat persistence.DirectChat) error {
	s.chats = append(s.chats, chat)
	return nil
}

func (s *stubChatRepository) GetChat(_ context.Context, id string) (persistence.DirectChat, error) {
	for _, chat := range s.chats {
		if chat.ID == id {
			return chat, nil
		}
	}
	return persistence.DirectChat{}, persistence.ErrNotFound
}

func (s *stubChatRepository) ListChatsForGuest(_ context.Context, guestID string) ([]persistence.DirectChat, error) {
	var out []persistence.DirectChat
	for _, chat := range s.chats {
		if chat.GuestA == guestID || chat.GuestB == guestID {
			out = append(out, chat)
		}
	}
	return out, nil
}

func (s *stubChatRepository) CreateMessage(_ context.Context, message persistence.ChatMessage) error {
	s.messages = append(s.messages, message)
	return nil
}

func (s *stubChatRepository) ListMessages(_ context.Context, chatID string) ([]persistence.ChatMessage, error) {
	var out []persistence.ChatMessage
	for _, message := range s.messages {
		if message.ChatID == chatID {
			out = append(out, message)
		}
	}
	return out, nil
}

func chatGuests() *stubGuestRepository {
	return &stubGuestRepository{guests: []persistence.Guest{
		{ID: "g-1", Email: "a@example.com"},
		{ID: "g-2", Email: "b@example.com"},
	}}
}

func TestChatServiceStartChat(t *testing.T) {
	t.Run("creates a chat once per pair", func(t *testing.T) {
		chats := &stubChatRepository{}
		service := NewChatService(chats, chatGuests(), sequenceIDs("chat"), fixedNow, nil, nil)

		first, err := service.StartChat(context.Background(), Principal{GuestID: "g-1"}, "g-2")
		if err != nil {
			t.Fatalf("StartChat returned error: %v", err)
		}

		// The reverse direction reuses the existing chat.
		second, err := service.StartChat(context.Background(), Principal{GuestID: "g-2"}, "g-1")
		if err != nil {
			t.Fatalf("StartChat returned error: %v", err)
		}
		if first.ID != second.ID {
			t.Errorf("expected one chat per pair, got %q and %q", first.ID, second.ID)
		}
		if len(chats.chats) != 1 {
			t.Errorf("expected 1 persisted chat, got %d", len(chats.chats))
		}
	})

	t.Run("rejects chats with self", func(t *testing.T) {
		service := NewChatService(&stubChatRepository{}, chatGuests(), sequenceIDs("chat"), fixedNow, nil, nil)

		_, err := service.StartChat(context.Background(), Principal{GuestID: "g-1"}, "g-1")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejects unknown guests", func(t *testing.T) {
		service := NewChatService(&stubChatRepository{}, chatGuests(), sequenceIDs("chat"), fixedNow, nil, nil)

		_, err := service.StartChat(context.Background(), Principal{GuestID: "g-1"}, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestChatServiceSendMessage(t *testing.T) {
	chats := &stubChatRepository{chats: []persistence.DirectChat{
		{ID: "c-1", GuestA: "g-1", GuestB: "g-2"},
	}}

	t.Run("participant sends and a notification fires", func(t *testing.T) {
		var notifications []string
		notify := func(resource, action, id string) {
			notifications = append(notifications, resource+"/"+action)
		}
		service := NewChatService(chats, chatGuests(), sequenceIDs("msg"), fixedNow, notify, nil)

		message, err := service.SendMessage(context.Background(), Principal{GuestID: "g-2"}, "c-1", "see you there!")
		if err != nil {
			t.Fatalf("SendMessage returned error: %v", err)
		}
		if message.SenderID != "g-2" {
			t.Errorf("expected sender g-2, got %q", message.SenderID)
		}
		if len(notifications) != 1 || notifications[0] != "chats/insert" {
			t.Errorf("expected single chats/insert notification, got %v", notifications)
		}
	})

	t.Run("non-participant is rejected", func(t *testing.T) {
		service := NewChatService(chats, chatGuests(), sequenceIDs("msg"), fixedNow, nil, nil)

		_, err := service.SendMessage(context.Background(), Principal{GuestID: "g-9"}, "c-1", "hello")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		service := NewChatService(chats, chatGuests(), sequenceIDs("msg"), fixedNow, nil, nil)

		_, err := service.SendMessage(context.Background(), Principal{GuestID: "g-1"}, "c-1", "   ")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestChatServiceListMessages(t *testing.T) {
	chats := &stubChatRepository{
		chats: []persistence.DirectChat{{ID: "c-1", GuestA: "g-1", GuestB: "g-2"}},
		messages: []persistence.ChatMessage{
			{ID: "m-1", ChatID: "c-1", SenderID: "g-1", Content: "hi"},
			{ID: "m-2", ChatID: "c-1", SenderID: "g-2", Content: "hello"},
		},
	}
	service := NewChatService(chats, chatGuests(), sequenceIDs("msg"), fixedNow, nil, nil)

	t.Run("participant reads in order", func(t *testing.T) {
		messages, err := service.ListMessages(context.Background(), Principal{GuestID: "g-1"}, "c-1")
		if err != nil {
			t.Fatalf("ListMessages returned error: %v", err)
		}
		if len(messages) != 2 || messages[0].ID != "m-1" || messages[1].ID != "m-2" {
			t.Fatalf("unexpected messages %v", messages)
		}
	})

	t.Run("planner may read any chat", func(t *testing.T) {
		if _, err := service.ListMessages(context.Background(), planner, "c-1"); err != nil {
			t.Fatalf("ListMessages returned error: %v", err)
		}
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		_, err := service.ListMessages(context.Background(), Principal{GuestID: "g-9"}, "c-1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}
