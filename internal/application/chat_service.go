package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

// ChatService orchestrates direct chats between guests. A chat exists at
// most once per guest pair.
type ChatService struct {
	chats       persistence.ChatRepository
	guests      persistence.GuestRepository
	idGenerator func() string
	now         func() time.Time
	notify      ChangeNotifier
	logger      *slog.Logger
}

// NewChatService wires dependencies for the chat service.
func NewChatService(chats persistence.ChatRepository, guests persistence.GuestRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *ChatService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		chats:       chats,
		guests:      guests,
		idGenerator: idGenerator,
		now:         now,
		notify:      notify,
		logger:      defaultLogger(logger),
	}
}

func (s *ChatService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ChatService", operation, attrs...)
}

func (s *ChatService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceChats, action, recordID)
	}
}

// StartChat opens a chat between the principal and another guest, or
// returns the existing one for the pair.
func (s *ChatService) StartChat(ctx context.Context, principal Principal, otherGuestID string) (chat persistence.DirectChat, err error) {
	if s == nil {
		err = fmt.Errorf("ChatService is nil")
		return
	}

	otherGuestID = strings.TrimSpace(otherGuestID)
	logger := s.loggerWith(ctx, "StartChat", "other_guest_id", otherGuestID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to start chat", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("chat_id", chat.ID).InfoContext(ctx, "chat ready")
	}()

	if otherGuestID == "" || otherGuestID == principal.GuestID {
		vErr := &ValidationError{}
		vErr.add("guest_id", "a different guest is required")
		err = vErr
		return
	}

	if _, err = s.guests.GetGuest(ctx, otherGuestID); err != nil {
		err = mapStoreError(err)
		return
	}

	var existing []persistence.DirectChat
	existing, err = s.chats.ListChatsForGuest(ctx, principal.GuestID)
	if err != nil {
		err = mapStoreError(err)
		return
	}
	for _, candidate := range existing {
		if chatHasParticipants(candidate, principal.GuestID, otherGuestID) {
			chat = candidate
			return
		}
	}

	chat = persistence.DirectChat{
		ID:        s.idGenerator(),
		GuestA:    principal.GuestID,
		GuestB:    otherGuestID,
		CreatedAt: s.now(),
	}
	if err = mapStoreError(s.chats.CreateChat(ctx, chat)); err != nil {
		chat = persistence.DirectChat{}
		return
	}

	s.publish(ActionInsert, chat.ID)
	return
}

// ListChats returns all chats the principal participates in.
func (s *ChatService) ListChats(ctx context.Context, principal Principal) ([]persistence.DirectChat, error) {
	if s == nil {
		return nil, fmt.Errorf("ChatService is nil")
	}

	chats, err := s.chats.ListChatsForGuest(ctx, principal.GuestID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return chats, nil
}

// SendMessage appends a message to a chat the principal participates in.
func (s *ChatService) SendMessage(ctx context.Context, principal Principal, chatID, content string) (message persistence.ChatMessage, err error) {
	if s == nil {
		err = fmt.Errorf("ChatService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SendMessage", "chat_id", chatID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to send message", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("message_id", message.ID).InfoContext(ctx, "message sent")
	}()

	if strings.TrimSpace(content) == "" {
		vErr := &ValidationError{}
		vErr.add("content", "content is required")
		err = vErr
		return
	}

	var chat persistence.DirectChat
	chat, err = s.chats.GetChat(ctx, chatID)
	if err != nil {
		err = mapStoreError(err)
		return
	}
	if chat.GuestA != principal.GuestID && chat.GuestB != principal.GuestID {
		err = ErrUnauthorized
		return
	}

	message = persistence.ChatMessage{
		ID:        s.idGenerator(),
		ChatID:    chat.ID,
		SenderID:  principal.GuestID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err = mapStoreError(s.chats.CreateMessage(ctx, message)); err != nil {
		message = persistence.ChatMessage{}
		return
	}

	s.publish(ActionInsert, message.ID)
	return
}

// ListMessages returns a chat's messages in send order. Participants and
// planners may read.
func (s *ChatService) ListMessages(ctx context.Context, principal Principal, chatID string) ([]persistence.ChatMessage, error) {
	if s == nil {
		return nil, fmt.Errorf("ChatService is nil")
	}

	chat, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !principal.CanManage() && chat.GuestA != principal.GuestID && chat.GuestB != principal.GuestID {
		return nil, ErrUnauthorized
	}

	messages, err := s.chats.ListMessages(ctx, chat.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return messages, nil
}

func chatHasParticipants(chat persistence.DirectChat, a, b string) bool {
	return (chat.GuestA == a && chat.GuestB == b) || (chat.GuestA == b && chat.GuestB == a)
}
