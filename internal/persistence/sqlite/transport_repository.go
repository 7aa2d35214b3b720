package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// TransportRepository implements persistence.TransportRepository using SQLite.
type TransportRepository struct {
	helper *QueryHelper
}

// NewTransportRepository creates a new SQLite transport repository.
func NewTransportRepository(pool *ConnectionPool) *TransportRepository {
	return &TransportRepository{helper: NewQueryHelper(pool)}
}

const transportColumns = `id, name, description, departure, lng, lat, display_order, created_at, updated_at`

// CreateOption inserts a new transport option.
func (r *TransportRepository) CreateOption(ctx context.Context, option persistence.TransportOption) error {
	lng, lat := coordinateColumns(option.Coordinates)

	_, err := r.helper.Exec(ctx, `
		INSERT INTO transport_options (`+transportColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		option.ID,
		option.Name,
		option.Description,
		option.Departure,
		lng,
		lat,
		option.DisplayOrder,
		formatTime(option.CreatedAt),
		formatTime(option.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetOption retrieves a transport option by ID.
func (r *TransportRepository) GetOption(ctx context.Context, id string) (persistence.TransportOption, error) {
	if id == "" {
		return persistence.TransportOption{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT `+transportColumns+` FROM transport_options WHERE id = ?`, id)
	return scanTransportOption(row)
}

// UpdateOption updates an existing transport option.
func (r *TransportRepository) UpdateOption(ctx context.Context, option persistence.TransportOption) error {
	lng, lat := coordinateColumns(option.Coordinates)

	result, err := r.helper.Exec(ctx, `
		UPDATE transport_options
		SET name = ?, description = ?, departure = ?, lng = ?, lat = ?,
			display_order = ?, updated_at = ?
		WHERE id = ?
	`,
		option.Name,
		option.Description,
		option.Departure,
		lng,
		lat,
		option.DisplayOrder,
		formatTime(option.UpdatedAt),
		option.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteOption removes a transport option by ID.
func (r *TransportRepository) DeleteOption(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM transport_options WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListOptions returns all options ordered by display_order ascending.
func (r *TransportRepository) ListOptions(ctx context.Context) ([]persistence.TransportOption, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+transportColumns+` FROM transport_options ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var options []persistence.TransportOption
	for rows.Next() {
		option, err := scanTransportOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return options, nil
}

func scanTransportOption(row rowScanner) (persistence.TransportOption, error) {
	var option persistence.TransportOption
	var createdAt, updatedAt string
	var lng, lat sql.NullFloat64

	err := row.Scan(
		&option.ID,
		&option.Name,
		&option.Description,
		&option.Departure,
		&lng,
		&lat,
		&option.DisplayOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.TransportOption{}, mapError(err)
	}

	option.Coordinates = coordinatesFromColumns(lng, lat)
	if option.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.TransportOption{}, err
	}
	if option.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.TransportOption{}, err
	}
	return option, nil
}
