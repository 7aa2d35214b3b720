package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

// StoryService orchestrates published narrative entries. Published stories
// are guest-readable; drafts and mutations are planner-only.
type StoryService struct {
	stories     persistence.StoryRepository
	idGenerator func() string
	now         func() time.Time
	notify      ChangeNotifier
	logger      *slog.Logger
}

// NewStoryService wires dependencies for the story service.
func NewStoryService(stories persistence.StoryRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *StoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &StoryService{
		stories:     stories,
		idGenerator: idGenerator,
		now:         now,
		notify:      notify,
		logger:      defaultLogger(logger),
	}
}

func (s *StoryService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "StoryService", operation, attrs...)
}

func (s *StoryService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceStories, action, recordID)
	}
}

// CreateStory persists a new story for planners. Published stories get a
// publish timestamp immediately.
func (s *StoryService) CreateStory(ctx context.Context, principal Principal, input StoryInput) (story persistence.Story, err error) {
	if s == nil {
		err = fmt.Errorf("StoryService is nil")
		return
	}
	if !principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateStory")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create story", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("story_id", story.ID).InfoContext(ctx, "story created")
	}()

	vErr := validateStoryInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	story = persistence.Story{
		ID:           s.idGenerator(),
		AuthorID:     principal.GuestID,
		Title:        strings.TrimSpace(input.Title),
		Content:      input.Content,
		MediaURL:     strings.TrimSpace(input.MediaURL),
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Published {
		story.PublishedAt = &now
	}

	if err = mapStoreError(s.stories.CreateStory(ctx, story)); err != nil {
		story = persistence.Story{}
		return
	}

	s.publish(ActionInsert, story.ID)
	return
}

// GetStory returns a single story. Drafts are planner-only.
func (s *StoryService) GetStory(ctx context.Context, principal Principal, id string) (persistence.Story, error) {
	if s == nil {
		return persistence.Story{}, fmt.Errorf("StoryService is nil")
	}

	story, err := s.stories.GetStory(ctx, id)
	if err != nil {
		return persistence.Story{}, mapStoreError(err)
	}
	if story.PublishedAt == nil && !principal.CanManage() {
		return persistence.Story{}, ErrNotFound
	}
	return story, nil
}

// UpdateStory updates an existing story for planners. Toggling Published
// sets or clears the publish timestamp.
func (s *StoryService) UpdateStory(ctx context.Context, principal Principal, storyID string, input StoryInput) (persistence.Story, error) {
	if s == nil {
		return persistence.Story{}, fmt.Errorf("StoryService is nil")
	}
	if !principal.CanManage() {
		return persistence.Story{}, ErrUnauthorized
	}

	if vErr := validateStoryInput(input); vErr.HasErrors() {
		return persistence.Story{}, vErr
	}

	existing, err := s.stories.GetStory(ctx, storyID)
	if err != nil {
		return persistence.Story{}, mapStoreError(err)
	}

	now := s.now()
	existing.Title = strings.TrimSpace(input.Title)
	existing.Content = input.Content
	existing.MediaURL = strings.TrimSpace(input.MediaURL)
	existing.DisplayOrder = input.DisplayOrder
	existing.UpdatedAt = now
	switch {
	case input.Published && existing.PublishedAt == nil:
		existing.PublishedAt = &now
	case !input.Published:
		existing.PublishedAt = nil
	}

	if err := mapStoreError(s.stories.UpdateStory(ctx, existing)); err != nil {
		return persistence.Story{}, err
	}

	s.publish(ActionUpdate, storyID)
	return existing, nil
}

// DeleteStory removes a story for planners.
func (s *StoryService) DeleteStory(ctx context.Context, principal Principal, storyID string) error {
	if s == nil {
		return fmt.Errorf("StoryService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.stories.DeleteStory(ctx, storyID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, storyID)
	s.loggerWith(ctx, "DeleteStory", "story_id", storyID).InfoContext(ctx, "story deleted")
	return nil
}

// ListStories returns stories in display order. Guests see only published
// entries; planners see everything.
func (s *StoryService) ListStories(ctx context.Context, principal Principal) ([]persistence.Story, error) {
	if s == nil {
		return nil, fmt.Errorf("StoryService is nil")
	}

	stories, err := s.stories.ListStories(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if principal.CanManage() {
		return stories, nil
	}

	published := make([]persistence.Story, 0, len(stories))
	for _, story := range stories {
		if story.PublishedAt != nil {
			published = append(published, story)
		}
	}
	return published, nil
}

func validateStoryInput(input StoryInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		vErr.add("content", "content is required")
	}

	return vErr
}
