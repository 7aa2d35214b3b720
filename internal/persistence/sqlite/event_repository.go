package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
type EventRepository struct {
	helper *QueryHelper
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{helper: NewQueryHelper(pool)}
}

const eventColumns = `id, title, date, venue, address, rsvp_deadline, max_capacity, created_at, updated_at`

// CreateEvent inserts a new event.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var capacity any
	if event.MaxCapacity != nil {
		capacity = *event.MaxCapacity
	}

	_, err := r.helper.Exec(ctx, query,
		event.ID,
		event.Title,
		formatTime(event.Date),
		event.Venue,
		event.Address,
		formatTimePtr(event.RSVPDeadline),
		capacity,
		formatTime(event.CreatedAt),
		formatTime(event.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	if id == "" {
		return persistence.Event{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// UpdateEvent updates an existing event.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	var capacity any
	if event.MaxCapacity != nil {
		capacity = *event.MaxCapacity
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE events
		SET title = ?, date = ?, venue = ?, address = ?, rsvp_deadline = ?,
			max_capacity = ?, updated_at = ?
		WHERE id = ?
	`,
		event.Title,
		formatTime(event.Date),
		event.Venue,
		event.Address,
		formatTimePtr(event.RSVPDeadline),
		capacity,
		formatTime(event.UpdatedAt),
		event.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteEvent removes an event by ID.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListEvents returns all events ordered by date ascending.
func (r *EventRepository) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []persistence.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

func scanEvent(row rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var date, createdAt, updatedAt string
	var deadline sql.NullString
	var capacity sql.NullInt64

	err := row.Scan(
		&event.ID,
		&event.Title,
		&date,
		&event.Venue,
		&event.Address,
		&deadline,
		&capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Event{}, mapError(err)
	}

	event.MaxCapacity = intPtr(capacity)
	if event.Date, err = parseTime(date); err != nil {
		return persistence.Event{}, err
	}
	if event.RSVPDeadline, err = parseTimePtr(deadline); err != nil {
		return persistence.Event{}, err
	}
	if event.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Event{}, err
	}
	if event.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}
