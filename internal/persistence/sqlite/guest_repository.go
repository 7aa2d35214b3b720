package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/example/wedding-planner/internal/persistence"
)

// GuestRepository implements persistence.GuestRepository using SQLite.
type GuestRepository struct {
	helper *QueryHelper
}

// NewGuestRepository creates a new SQLite guest repository.
func NewGuestRepository(pool *ConnectionPool) *GuestRepository {
	return &GuestRepository{helper: NewQueryHelper(pool)}
}

const guestColumns = `id, email, first_name, last_name, phone, role, relationship,
	dietary_restrictions, plus_one_name, table_preference, notes, group_id,
	invitation_sent, rsvp_deadline, password_hash, created_at, updated_at`

// CreateGuest inserts a new guest. Duplicate emails are permitted; duplicate
// detection is an advisory client-side concern.
func (r *GuestRepository) CreateGuest(ctx context.Context, guest persistence.Guest) error {
	query := `
		INSERT INTO guests (` + guestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.Exec(ctx, query,
		guest.ID,
		strings.ToLower(strings.TrimSpace(guest.Email)),
		guest.FirstName,
		guest.LastName,
		guest.Phone,
		string(guest.Role),
		string(guest.Relationship),
		guest.DietaryRestrictions,
		guest.PlusOneName,
		guest.TablePreference,
		guest.Notes,
		nullableStringPtr(guest.GroupID),
		guest.InvitationSent,
		formatTimePtr(guest.RSVPDeadline),
		nullableStringPtr(guest.PasswordHash),
		formatTime(guest.CreatedAt),
		formatTime(guest.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetGuest retrieves a guest by ID.
func (r *GuestRepository) GetGuest(ctx context.Context, id string) (persistence.Guest, error) {
	if id == "" {
		return persistence.Guest{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = ?`, id)
	return scanGuest(row)
}

// GetGuestByEmail retrieves the first guest stored with the given email,
// compared case-insensitively.
func (r *GuestRepository) GetGuestByEmail(ctx context.Context, email string) (persistence.Guest, error) {
	row := r.helper.QueryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE email = ? ORDER BY created_at ASC, id ASC LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanGuest(row)
}

// UpdateGuest updates an existing guest.
func (r *GuestRepository) UpdateGuest(ctx context.Context, guest persistence.Guest) error {
	query := `
		UPDATE guests
		SET email = ?, first_name = ?, last_name = ?, phone = ?, role = ?,
			relationship = ?, dietary_restrictions = ?, plus_one_name = ?,
			table_preference = ?, notes = ?, group_id = ?, invitation_sent = ?,
			rsvp_deadline = ?, password_hash = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.Exec(ctx, query,
		strings.ToLower(strings.TrimSpace(guest.Email)),
		guest.FirstName,
		guest.LastName,
		guest.Phone,
		string(guest.Role),
		string(guest.Relationship),
		guest.DietaryRestrictions,
		guest.PlusOneName,
		guest.TablePreference,
		guest.Notes,
		nullableStringPtr(guest.GroupID),
		guest.InvitationSent,
		formatTimePtr(guest.RSVPDeadline),
		nullableStringPtr(guest.PasswordHash),
		formatTime(guest.UpdatedAt),
		guest.ID,
	)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// DeleteGuest removes a guest by ID. The delete does not cascade: RSVPs and
// communications referencing the guest remain.
func (r *GuestRepository) DeleteGuest(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListGuests returns all guests ordered by creation time then ID.
func (r *GuestRepository) ListGuests(ctx context.Context) ([]persistence.Guest, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+guestColumns+` FROM guests ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var guests []persistence.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return guests, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGuest(row rowScanner) (persistence.Guest, error) {
	var guest persistence.Guest
	var role, relationship, createdAt, updatedAt string
	var groupID, rsvpDeadline, passwordHash sql.NullString

	err := row.Scan(
		&guest.ID,
		&guest.Email,
		&guest.FirstName,
		&guest.LastName,
		&guest.Phone,
		&role,
		&relationship,
		&guest.DietaryRestrictions,
		&guest.PlusOneName,
		&guest.TablePreference,
		&guest.Notes,
		&groupID,
		&guest.InvitationSent,
		&rsvpDeadline,
		&passwordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Guest{}, mapError(err)
	}

	guest.Role = persistence.GuestRole(role)
	guest.Relationship = persistence.Relationship(relationship)
	guest.GroupID = stringPtr(groupID)
	guest.PasswordHash = stringPtr(passwordHash)
	if guest.RSVPDeadline, err = parseTimePtr(rsvpDeadline); err != nil {
		return persistence.Guest{}, err
	}
	if guest.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Guest{}, err
	}
	if guest.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Guest{}, err
	}
	return guest, nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
