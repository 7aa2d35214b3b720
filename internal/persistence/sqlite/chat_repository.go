package sqlite

import (
	"context"

	"github.com/example/wedding-planner/internal/persistence"
)

// ChatRepository implements persistence.ChatRepository using SQLite.
type ChatRepository struct {
	helper *QueryHelper
}

// NewChatRepository creates a new SQLite chat repository.
func NewChatRepository(pool *ConnectionPool) *ChatRepository {
	return &ChatRepository{helper: NewQueryHelper(pool)}
}

// CreateChat inserts a new direct chat between two guests.
func (r *ChatRepository) CreateChat(ctx context.Context, chat persistence.DirectChat) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO direct_chats (id, guest_a, guest_b, created_at)
		VALUES (?, ?, ?, ?)
	`,
		chat.ID,
		chat.GuestA,
		chat.GuestB,
		formatTime(chat.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetChat retrieves a chat by ID.
func (r *ChatRepository) GetChat(ctx context.Context, id string) (persistence.DirectChat, error) {
	if id == "" {
		return persistence.DirectChat{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT id, guest_a, guest_b, created_at FROM direct_chats WHERE id = ?`, id)
	return scanChat(row)
}

// ListChatsForGuest returns every chat the guest participates in,
// oldest first.
func (r *ChatRepository) ListChatsForGuest(ctx context.Context, guestID string) ([]persistence.DirectChat, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, guest_a, guest_b, created_at
		FROM direct_chats
		WHERE guest_a = ? OR guest_b = ?
		ORDER BY created_at ASC, id ASC
	`, guestID, guestID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var chats []persistence.DirectChat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return chats, nil
}

// CreateMessage inserts a message into an existing chat.
func (r *ChatRepository) CreateMessage(ctx context.Context, message persistence.ChatMessage) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO chat_messages (id, chat_id, sender_id, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		message.ID,
		message.ChatID,
		message.SenderID,
		message.Content,
		formatTime(message.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// ListMessages returns a chat's messages in send order.
func (r *ChatRepository) ListMessages(ctx context.Context, chatID string) ([]persistence.ChatMessage, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, chat_id, sender_id, content, created_at
		FROM chat_messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC
	`, chatID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var messages []persistence.ChatMessage
	for rows.Next() {
		var message persistence.ChatMessage
		var createdAt string
		if err := rows.Scan(&message.ID, &message.ChatID, &message.SenderID, &message.Content, &createdAt); err != nil {
			return nil, mapError(err)
		}
		if message.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return messages, nil
}

func scanChat(row rowScanner) (persistence.DirectChat, error) {
	var chat persistence.DirectChat
	var createdAt string

	err := row.Scan(&chat.ID, &chat.GuestA, &chat.GuestB, &createdAt)
	if err != nil {
		return persistence.DirectChat{}, mapError(err)
	}
	if chat.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.DirectChat{}, err
	}
	return chat, nil
}
