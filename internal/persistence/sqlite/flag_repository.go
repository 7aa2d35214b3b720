package sqlite

import (
	"context"

	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
)

// FlagRepository implements persistence.FlagRepository using SQLite. Target
// and excluded user lists are stored comma-joined.
type FlagRepository struct {
	helper *QueryHelper
}

// NewFlagRepository creates a new SQLite feature flag repository.
func NewFlagRepository(pool *ConnectionPool) *FlagRepository {
	return &FlagRepository{helper: NewQueryHelper(pool)}
}

const flagColumns = `id, key, description, enabled, type, default_value, target_users, excluded_users, created_at, updated_at`

// CreateFlag inserts a new feature flag. The key is enforced unique.
func (r *FlagRepository) CreateFlag(ctx context.Context, flag persistence.FeatureFlag) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO feature_flags (`+flagColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		flag.ID,
		flag.Key,
		flag.Description,
		flag.Enabled,
		string(flag.Type),
		flag.DefaultValue,
		forms.JoinList(flag.TargetUsers),
		forms.JoinList(flag.ExcludedUsers),
		formatTime(flag.CreatedAt),
		formatTime(flag.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetFlag retrieves a flag by ID.
func (r *FlagRepository) GetFlag(ctx context.Context, id string) (persistence.FeatureFlag, error) {
	if id == "" {
		return persistence.FeatureFlag{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+flagColumns+` FROM feature_flags WHERE id = ?`, id)
	return scanFlag(row)
}

// GetFlagByKey retrieves a flag by its unique key.
func (r *FlagRepository) GetFlagByKey(ctx context.Context, key string) (persistence.FeatureFlag, error) {
	if key == "" {
		return persistence.FeatureFlag{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+flagColumns+` FROM feature_flags WHERE key = ?`, key)
	return scanFlag(row)
}

// UpdateFlag updates an existing flag.
func (r *FlagRepository) UpdateFlag(ctx context.Context, flag persistence.FeatureFlag) error {
	result, err := r.helper.Exec(ctx, `
		UPDATE feature_flags
		SET key = ?, description = ?, enabled = ?, type = ?, default_value = ?,
			target_users = ?, excluded_users = ?, updated_at = ?
		WHERE id = ?
	`,
		flag.Key,
		flag.Description,
		flag.Enabled,
		string(flag.Type),
		flag.DefaultValue,
		forms.JoinList(flag.TargetUsers),
		forms.JoinList(flag.ExcludedUsers),
		formatTime(flag.UpdatedAt),
		flag.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteFlag removes a flag by ID.
func (r *FlagRepository) DeleteFlag(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM feature_flags WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListFlags returns all flags ordered by key.
func (r *FlagRepository) ListFlags(ctx context.Context) ([]persistence.FeatureFlag, error) {
	rows, err := r.helper.Query(ctx, `SELECT `+flagColumns+` FROM feature_flags ORDER BY key ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var flags []persistence.FeatureFlag
	for rows.Next() {
		flag, err := scanFlag(rows)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return flags, nil
}

func scanFlag(row rowScanner) (persistence.FeatureFlag, error) {
	var flag persistence.FeatureFlag
	var flagType, targetUsers, excludedUsers, createdAt, updatedAt string

	err := row.Scan(
		&flag.ID,
		&flag.Key,
		&flag.Description,
		&flag.Enabled,
		&flagType,
		&flag.DefaultValue,
		&targetUsers,
		&excludedUsers,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.FeatureFlag{}, mapError(err)
	}

	flag.Type = persistence.FlagType(flagType)
	flag.TargetUsers = forms.SplitList(targetUsers)
	flag.ExcludedUsers = forms.SplitList(excludedUsers)
	if flag.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.FeatureFlag{}, err
	}
	if flag.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.FeatureFlag{}, err
	}
	return flag, nil
}
