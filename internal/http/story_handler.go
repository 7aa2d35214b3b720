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

type storyService interface {
	CreateStory(ctx context.Context, principal application.Principal, input application.StoryInput) (persistence.Story, error)
	GetStory(ctx context.Context, principal application.Principal, id string) (persistence.Story, error)
	UpdateStory(ctx context.Context, principal application.Principal, storyID string, input application.StoryInput) (persistence.Story, error)
	DeleteStory(ctx context.Context, principal application.Principal, storyID string) error
	ListStories(ctx context.Context, principal application.Principal) ([]persistence.Story, error)
}

type StoryHandler struct {
	service   storyService
	responder responder
	logger    *slog.Logger
}

func NewStoryHandler(service storyService, logger *slog.Logger) *StoryHandler {
	base := defaultLogger(logger)
	return &StoryHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StoryHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StoryHandler", operation, attrs...)
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode story request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.GuestID)

	story, err := h.service.CreateStory(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "story creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("story_id", story.ID).InfoContext(r.Context(), "story created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, storyResponse{Story: toStoryDTO(story)})
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	storyID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(storyID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	story, err := h.service.GetStory(r.Context(), principal, storyID)
	if err != nil {
		h.log(r.Context(), "Get", "story_id", storyID).ErrorContext(r.Context(), "story fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, storyResponse{Story: toStoryDTO(story)})
}

func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	storyID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(storyID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req storyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "story_id", storyID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode story update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.GuestID, "story_id", storyID)

	story, err := h.service.UpdateStory(r.Context(), principal, storyID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "story update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "story updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, storyResponse{Story: toStoryDTO(story)})
}

func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	storyID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(storyID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.GuestID, "story_id", storyID)

	if err := h.service.DeleteStory(r.Context(), principal, storyID); err != nil {
		logger.ErrorContext(r.Context(), "story delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "story deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	stories, err := h.service.ListStories(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "story list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]storyDTO, 0, len(stories))
	for _, story := range stories {
		out = append(out, toStoryDTO(story))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStoriesResponse{Stories: out})
}

type storyRequest struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	MediaURL     string `json:"media_url"`
	DisplayOrder int    `json:"display_order"`
	Published    bool   `json:"published"`
}

func (r storyRequest) toInput() application.StoryInput {
	return application.StoryInput{
		Title:        r.Title,
		Content:      r.Content,
		MediaURL:     r.MediaURL,
		DisplayOrder: r.DisplayOrder,
		Published:    r.Published,
	}
}

type storyResponse struct {
	Story storyDTO `json:"story"`
}

type listStoriesResponse struct {
	Stories []storyDTO `json:"stories"`
}

type storyDTO struct {
	ID           string `json:"id"`
	AuthorID     string `json:"author_id"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	MediaURL     string `json:"media_url,omitempty"`
	DisplayOrder int    `json:"display_order"`
	PublishedAt  string `json:"published_at,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toStoryDTO(story persistence.Story) storyDTO {
	dto := storyDTO{
		ID:           story.ID,
		AuthorID:     story.AuthorID,
		Title:        story.Title,
		Content:      story.Content,
		MediaURL:     story.MediaURL,
		DisplayOrder: story.DisplayOrder,
		CreatedAt:    story.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    story.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if story.PublishedAt != nil {
		dto.PublishedAt = story.PublishedAt.UTC().Format(time.RFC3339Nano)
	}
	return dto
}
