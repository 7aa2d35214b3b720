package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// RSVPRepository implements persistence.RSVPRepository using SQLite.
type RSVPRepository struct {
	helper *QueryHelper
}

// NewRSVPRepository creates a new SQLite RSVP repository.
func NewRSVPRepository(pool *ConnectionPool) *RSVPRepository {
	return &RSVPRepository{helper: NewQueryHelper(pool)}
}

const rsvpColumns = `id, guest_id, event_id, status, guest_count, dietary_restrictions,
	message, plus_one_name, table_assignment, needs_accommodation,
	needs_transportation, profile_first_name, profile_last_name, profile_email,
	profile_phone, created_at, updated_at`

// CreateRSVP inserts a new RSVP. A nil GuestCount is stored as NULL so the
// "missing counts as one" default stays observable.
func (r *RSVPRepository) CreateRSVP(ctx context.Context, rsvp persistence.RSVP) error {
	query := `
		INSERT INTO rsvps (` + rsvpColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var guestCount any
	if rsvp.GuestCount != nil {
		guestCount = *rsvp.GuestCount
	}

	_, err := r.helper.Exec(ctx, query,
		rsvp.ID,
		rsvp.GuestID,
		rsvp.EventID,
		string(rsvp.Status),
		guestCount,
		rsvp.DietaryRestrictions,
		rsvp.Message,
		rsvp.PlusOneName,
		rsvp.TableAssignment,
		rsvp.NeedsAccommodation,
		rsvp.NeedsTransportation,
		rsvp.Profile.FirstName,
		rsvp.Profile.LastName,
		rsvp.Profile.Email,
		rsvp.Profile.Phone,
		formatTime(rsvp.CreatedAt),
		formatTime(rsvp.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetRSVP retrieves an RSVP by ID.
func (r *RSVPRepository) GetRSVP(ctx context.Context, id string) (persistence.RSVP, error) {
	if id == "" {
		return persistence.RSVP{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+rsvpColumns+` FROM rsvps WHERE id = ?`, id)
	return scanRSVP(row)
}

// UpdateRSVP updates an existing RSVP.
func (r *RSVPRepository) UpdateRSVP(ctx context.Context, rsvp persistence.RSVP) error {
	var guestCount any
	if rsvp.GuestCount != nil {
		guestCount = *rsvp.GuestCount
	}

	result, err := r.helper.Exec(ctx, `
		UPDATE rsvps
		SET status = ?, guest_count = ?, dietary_restrictions = ?, message = ?,
			plus_one_name = ?, table_assignment = ?, needs_accommodation = ?,
			needs_transportation = ?, profile_first_name = ?, profile_last_name = ?,
			profile_email = ?, profile_phone = ?, updated_at = ?
		WHERE id = ?
	`,
		string(rsvp.Status),
		guestCount,
		rsvp.DietaryRestrictions,
		rsvp.Message,
		rsvp.PlusOneName,
		rsvp.TableAssignment,
		rsvp.NeedsAccommodation,
		rsvp.NeedsTransportation,
		rsvp.Profile.FirstName,
		rsvp.Profile.LastName,
		rsvp.Profile.Email,
		rsvp.Profile.Phone,
		formatTime(rsvp.UpdatedAt),
		rsvp.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteRSVP removes an RSVP by ID.
func (r *RSVPRepository) DeleteRSVP(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM rsvps WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListRSVPs returns all RSVPs ordered by creation time then ID.
func (r *RSVPRepository) ListRSVPs(ctx context.Context) ([]persistence.RSVP, error) {
	return r.list(ctx, `SELECT `+rsvpColumns+` FROM rsvps ORDER BY created_at ASC, id ASC`)
}

// ListRSVPsForEvent returns RSVPs referencing one event.
func (r *RSVPRepository) ListRSVPsForEvent(ctx context.Context, eventID string) ([]persistence.RSVP, error) {
	return r.list(ctx,
		`SELECT `+rsvpColumns+` FROM rsvps WHERE event_id = ? ORDER BY created_at ASC, id ASC`,
		eventID)
}

func (r *RSVPRepository) list(ctx context.Context, query string, args ...any) ([]persistence.RSVP, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var rsvps []persistence.RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, err
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return rsvps, nil
}

func scanRSVP(row rowScanner) (persistence.RSVP, error) {
	var rsvp persistence.RSVP
	var status, createdAt, updatedAt string
	var guestCount sql.NullInt64

	err := row.Scan(
		&rsvp.ID,
		&rsvp.GuestID,
		&rsvp.EventID,
		&status,
		&guestCount,
		&rsvp.DietaryRestrictions,
		&rsvp.Message,
		&rsvp.PlusOneName,
		&rsvp.TableAssignment,
		&rsvp.NeedsAccommodation,
		&rsvp.NeedsTransportation,
		&rsvp.Profile.FirstName,
		&rsvp.Profile.LastName,
		&rsvp.Profile.Email,
		&rsvp.Profile.Phone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.RSVP{}, mapError(err)
	}

	rsvp.Status = persistence.RSVPStatus(status)
	rsvp.GuestCount = intPtr(guestCount)
	if rsvp.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.RSVP{}, err
	}
	if rsvp.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.RSVP{}, err
	}
	return rsvp, nil
}
