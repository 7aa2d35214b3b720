package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// FAQRepository implements persistence.FAQRepository using SQLite.
type FAQRepository struct {
	helper *QueryHelper
}

// NewFAQRepository creates a new SQLite FAQ repository.
func NewFAQRepository(pool *ConnectionPool) *FAQRepository {
	return &FAQRepository{helper: NewQueryHelper(pool)}
}

// CreateCategory inserts a new FAQ category.
func (r *FAQRepository) CreateCategory(ctx context.Context, category persistence.FAQCategory) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO faq_categories (id, name, display_order, created_at, updated_at)
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

// UpdateCategory updates an existing FAQ category.
func (r *FAQRepository) UpdateCategory(ctx context.Context, category persistence.FAQCategory) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE faq_categories SET name = ?, display_order = ?, updated_at = ? WHERE id = ?
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

// DeleteCategory removes a category and its items.
func (r *FAQRepository) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.helper.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM faq_items WHERE category_id = ?`, id); err != nil {
			return mapError(err)
		}
		result, err := tx.Exec(`DELETE FROM faq_categories WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowsAffected(result)
	})
}

// ListCategories returns all categories ordered by display_order ascending.
func (r *FAQRepository) ListCategories(ctx context.Context) ([]persistence.FAQCategory, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, display_order, created_at, updated_at
		FROM faq_categories
		ORDER BY display_order ASC, id ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var categories []persistence.FAQCategory
	for rows.Next() {
		var category persistence.FAQCategory
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

// CreateItem inserts a new FAQ item.
func (r *FAQRepository) CreateItem(ctx context.Context, item persistence.FAQItem) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO faq_items (id, category_id, question, answer, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID,
		item.CategoryID,
		item.Question,
		item.Answer,
		item.DisplayOrder,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetItem retrieves an FAQ item by ID.
func (r *FAQRepository) GetItem(ctx context.Context, id string) (persistence.FAQItem, error) {
	if id == "" {
		return persistence.FAQItem{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `
		SELECT id, category_id, question, answer, display_order, created_at, updated_at
		FROM faq_items WHERE id = ?
	`, id)

	var item persistence.FAQItem
	var createdAt, updatedAt string
	err := row.Scan(&item.ID, &item.CategoryID, &item.Question, &item.Answer, &item.DisplayOrder, &createdAt, &updatedAt)
	if err != nil {
		return persistence.FAQItem{}, mapError(err)
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.FAQItem{}, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.FAQItem{}, err
	}
	return item, nil
}

// UpdateItem updates an existing FAQ item.
func (r *FAQRepository) UpdateItem(ctx context.Context, item persistence.FAQItem) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE faq_items
		SET category_id = ?, question = ?, answer = ?, display_order = ?, updated_at = ?
		WHERE id = ?
	`,
		item.CategoryID,
		item.Question,
		item.Answer,
		item.DisplayOrder,
		formatTime(item.UpdatedAt),
		item.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteItem removes an FAQ item by ID.
func (r *FAQRepository) DeleteItem(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM faq_items WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListItems returns all FAQ items ordered by display_order ascending.
func (r *FAQRepository) ListItems(ctx context.Context) ([]persistence.FAQItem, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, category_id, question, answer, display_order, created_at, updated_at
		FROM faq_items
		ORDER BY display_order ASC, id ASC
	`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var items []persistence.FAQItem
	for rows.Next() {
		var item persistence.FAQItem
		var createdAt, updatedAt string
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Question, &item.Answer, &item.DisplayOrder, &createdAt, &updatedAt); err != nil {
			return nil, mapError(err)
		}
		if item.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return items, nil
}
