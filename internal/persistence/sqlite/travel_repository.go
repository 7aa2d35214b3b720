package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
)

// AccommodationRepository implements persistence.AccommodationRepository
// using SQLite. Amenities are stored comma-joined; coordinates as nullable
// lng/lat columns.
type AccommodationRepository struct {
	helper *QueryHelper
}

// NewAccommodationRepository creates a new SQLite accommodation repository.
func NewAccommodationRepository(pool *ConnectionPool) *AccommodationRepository {
	return &AccommodationRepository{helper: NewQueryHelper(pool)}
}

// CreateCategory inserts a new accommodation category.
func (r *AccommodationRepository) CreateCategory(ctx context.Context, category persistence.AccommodationCategory) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO accommodation_categories (id, name, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		category.ID,
		category.Name,
		category.DisplayOrder,
		formatTime(category.CreatedAt),
		formatTime(category.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// UpdateCategory updates an existing accommodation category.
func (r *AccommodationRepository) UpdateCategory(ctx context.Context, category persistence.AccommodationCategory) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE accommodation_categories SET name = ?, display_order = ?, updated_at = ? WHERE id = ?
	`,
		category.Name,
		category.DisplayOrder,
		formatTime(category.UpdatedAt),
		category.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteCategory removes a category and its options.
func (r *AccommodationRepository) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.helper.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM accommodation_options WHERE category_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.Exec(`DELETE FROM accommodation_categories WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowsAffected(result)
	})
}

// ListCategories returns all categories ordered by display_order ascending.
func (r *AccommodationRepository) ListCategories(ctx context.Context) ([]persistence.AccommodationCategory, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, display_order, created_at, updated_at
		FROM accommodation_categories
		ORDER BY display_order ASC, id ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var categories []persistence.AccommodationCategory
	for rows.Next() {
		var category persistence.AccommodationCategory
		var createdAt, updatedAt string
		if err := rows.Scan(&category.ID, &category.Name, &category.DisplayOrder, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if category.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if category.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}

const accommodationOptionColumns = `id, category_id, name, description, amenities, lng, lat,
	price_per_night, capacity, url, display_order, created_at, updated_at`

// CreateOption inserts a new accommodation option.
func (r *AccommodationRepository) CreateOption(ctx context.Context, option persistence.AccommodationOption) error {
	lng, lat := coordinateColumns(option.Coordinates)
	var price any
	if option.PricePerNight != nil {
		price = *option.PricePerNight
	}

	_, err := r.helper.Exec(ctx, `
		INSERT INTO accommodation_options (`+accommodationOptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		option.ID,
		option.CategoryID,
		option.Name,
		option.Description,
		forms.JoinList(option.Amenities),
		lng,
		lat,
		price,
		option.Capacity,
		option.URL,
		option.DisplayOrder,
		formatTime(option.CreatedAt),
		formatTime(option.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetOption retrieves an accommodation option by ID.
func (r *AccommodationRepository) GetOption(ctx context.Context, id string) (persistence.AccommodationOption, error) {
	if id == "" {
		return persistence.AccommodationOption{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT `+accommodationOptionColumns+` FROM accommodation_options WHERE id = ?`, id)
	return scanAccommodationOption(row)
}

// UpdateOption updates an existing accommodation option.
func (r *AccommodationRepository) UpdateOption(ctx context.Context, option persistence.AccommodationOption) error {
	lng, lat := coordinateColumns(option.Coordinates)
	var price any
	if option.PricePerNight != nil {
		price = *option.PricePerNight
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE accommodation_options
		SET category_id = ?, name = ?, description = ?, amenities = ?, lng = ?, lat = ?,
			price_per_night = ?, capacity = ?, url = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`,
		option.CategoryID,
		option.Name,
		option.Description,
		forms.JoinList(option.Amenities),
		lng,
		lat,
		price,
		option.Capacity,
		option.URL,
		option.DisplayOrder,
		formatTime(option.UpdatedAt),
		option.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteOption removes an accommodation option by ID.
func (r *AccommodationRepository) DeleteOption(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM accommodation_options WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListOptions returns all options ordered by display_order ascending.
func (r *AccommodationRepository) ListOptions(ctx context.Context) ([]persistence.AccommodationOption, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+accommodationOptionColumns+` FROM accommodation_options ORDER BY display_order ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var options []persistence.AccommodationOption
	for rows.Next() {
		option, err := scanAccommodationOption(rows)
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

func scanAccommodationOption(row rowScanner) (persistence.AccommodationOption, error) {
	var option persistence.AccommodationOption
	var amenities, createdAt, updatedAt string
	var lng, lat, price sql.NullFloat64

	err := row.Scan(
		&option.ID,
		&option.CategoryID,
		&option.Name,
		&option.Description,
		&amenities,
		&lng,
		&lat,
		&price,
		&option.Capacity,
		&option.URL,
		&option.DisplayOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.AccommodationOption{}, mapError(err)
	}

	option.Amenities = forms.SplitList(amenities)
	option.Coordinates = coordinatesFromColumns(lng, lat)
	option.PricePerNight = floatPtr(price)
	if option.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.AccommodationOption{}, err
	}
	if option.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.AccommodationOption{}, err
	}
	return option, nil
}

func coordinateColumns(coordinates *persistence.Coordinates) (any, any) {
	if coordinates == nil {
		return nil, nil
	}
	return coordinates.Lng, coordinates.Lat
}

func coordinatesFromColumns(lng, lat sql.NullFloat64) *persistence.Coordinates {
	if !lng.Valid || !lat.Valid {
		return nil
	}
	return &persistence.Coordinates{Lng: lng.Float64, Lat: lat.Float64}
}
