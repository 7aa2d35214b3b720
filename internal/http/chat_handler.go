package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/persistence"
)

type chatService interface {
	StartChat(ctx context.Context, principal application.Principal, otherGuestID string) (persistence.DirectChat, error)
	ListChats(ctx context.Context, principal application.Principal) ([]persistence.DirectChat, error)
	SendMessage(ctx context.Context, principal application.Principal, chatID, content string) (persistence.ChatMessage, error)
	ListMessages(ctx context.Context, principal application.Principal, chatID string) ([]persistence.ChatMessage, error)
}

type ChatHandler struct {
	service   chatService
	responder responder
	logger    *slog.Logger
}

func NewChatHandler(service chatService, logger *slog.Logger) *ChatHandler {
	base := defaultLogger(logger)
	return &ChatHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ChatHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ChatHandler", operation, attrs...)
}

// Start opens a chat with another guest, reusing an existing one when the
// pair already has a conversation.
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req startChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Start", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode chat request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Start", "principal_id", principal.GuestID, "other_guest_id", req.GuestID)

	chat, err := h.service.StartChat(r.Context(), principal, req.GuestID)
	if err != nil {
		logger.ErrorContext(r.Context(), "chat start failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("chat_id", chat.ID).InfoContext(r.Context(), "chat started")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, chatResponse{Chat: toChatDTO(chat)})
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	chats, err := h.service.ListChats(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List", "principal_id", principal.GuestID).ErrorContext(r.Context(), "chat list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]chatDTO, 0, len(chats))
	for _, chat := range chats {
		out = append(out, toChatDTO(chat))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listChatsResponse{Chats: out})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	chatID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(chatID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SendMessage", "chat_id", chatID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode message request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SendMessage", "principal_id", principal.GuestID, "chat_id", chatID)

	message, err := h.service.SendMessage(r.Context(), principal, chatID, req.Content)
	if err != nil {
		logger.ErrorContext(r.Context(), "message send failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("message_id", message.ID).InfoContext(r.Context(), "message sent")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, messageResponse{Message: toChatMessageDTO(message)})
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	chatID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(chatID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	messages, err := h.service.ListMessages(r.Context(), principal, chatID)
	if err != nil {
		h.log(r.Context(), "ListMessages", "chat_id", chatID).ErrorContext(r.Context(), "message list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]chatMessageDTO, 0, len(messages))
	for _, message := range messages {
		out = append(out, toChatMessageDTO(message))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listMessagesResponse{Messages: out})
}

type startChatRequest struct {
	GuestID string `json:"guest_id"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

type chatResponse struct {
	Chat chatDTO `json:"chat"`
}

type listChatsResponse struct {
	Chats []chatDTO `json:"chats"`
}

type messageResponse struct {
	Message chatMessageDTO `json:"message"`
}

type listMessagesResponse struct {
	Messages []chatMessageDTO `json:"messages"`
}

type chatDTO struct {
	ID        string `json:"id"`
	GuestA    string `json:"guest_a"`
	GuestB    string `json:"guest_b"`
	CreatedAt string `json:"created_at"`
}

func toChatDTO(chat persistence.DirectChat) chatDTO {
	return chatDTO{
		ID:        chat.ID,
		GuestA:    chat.GuestA,
		GuestB:    chat.GuestB,
		CreatedAt: chat.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type chatMessageDTO struct {
	ID        string `json:"id"`
	ChatID    string `json:"chat_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func toChatMessageDTO(message persistence.ChatMessage) chatMessageDTO {
	return chatMessageDTO{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
