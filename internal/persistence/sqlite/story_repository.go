package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// StoryRepository implements persistence.StoryRepository using SQLite.
type StoryRepository struct {
	helper *QueryHelper
}

// NewStoryRepository creates a new SQLite story repository.
func NewStoryRepository(pool *ConnectionPool) *StoryRepository {
	return &StoryRepository{helper: NewQueryHelper(pool)}
}

const storyColumns = `id, author_id, title, content, media_url, display_order, published_at, created_at, updated_at`

// CreateStory inserts a new story.
func (r *StoryRepository) CreateStory(ctx context.Context, story persistence.Story) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO stories (`+storyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		story.ID,
		story.AuthorID,
		story.Title,
		story.Content,
		story.MediaURL,
		story.DisplayOrder,
		formatTimePtr(story.PublishedAt),
		formatTime(story.CreatedAt),
		formatTime(story.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetStory retrieves a story by ID.
func (r *StoryRepository) GetStory(ctx context.Context, id string) (persistence.Story, error) {
	if id == "" {
		return persistence.Story{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, id)
	return scanStory(row)
}

// UpdateStory updates an existing story.
func (r *StoryRepository) UpdateStory(ctx context.Context, story persistence.Story) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE stories
		SET author_id = ?, title = ?, content = ?, media_url = ?, display_order = ?,
			published_at = ?, updated_at = ?
		WHERE id = ?
	`,
		story.AuthorID,
		story.Title,
		story.Content,
		story.MediaURL,
		story.DisplayOrder,
		formatTimePtr(story.PublishedAt),
		formatTime(story.UpdatedAt),
		story.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteStory removes a story by ID.
func (r *StoryRepository) DeleteStory(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListStories returns all stories ordered by display_order ascending.
func (r *StoryRepository) ListStories(ctx context.Context) ([]persistence.Story, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+storyColumns+` FROM stories ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var stories []persistence.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return stories, nil
}

func scanStory(row rowScanner) (persistence.Story, error) {
	var story persistence.Story
	var createdAt, updatedAt string
	var publishedAt sql.NullString

	err := row.Scan(
		&story.ID,
		&story.AuthorID,
		&story.Title,
		&story.Content,
		&story.MediaURL,
		&story.DisplayOrder,
		&publishedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Story{}, mapError(err)
	}

	if story.PublishedAt, err = parseTimePtr(publishedAt); err != nil {
		return persistence.Story{}, err
	}
	if story.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Story{}, err
	}
	if story.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Story{}, err
	}
	return story, nil
}
