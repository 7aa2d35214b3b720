package sqlite

import (
	"context"
	"database/sql"

	"github.com/example/wedding-planner/internal/persistence"
)

// CommunicationRepository implements persistence.CommunicationRepository
// using SQLite.
type CommunicationRepository struct {
	helper *QueryHelper
}

// NewCommunicationRepository creates a new SQLite communication repository.
func NewCommunicationRepository(pool *ConnectionPool) *CommunicationRepository {
	return &CommunicationRepository{helper: NewQueryHelper(pool)}
}

const communicationColumns = `id, guest_id, type, direction, subject, content,
	profile_first_name, profile_last_name, profile_email, profile_phone, created_at`

// CreateCommunication inserts a new log entry.
func (r *CommunicationRepository) CreateCommunication(ctx context.Context, communication persistence.Communication) error {
	_, err := r.helper.Exec(ctx, `
		INSERT INTO communications (`+communicationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		communication.ID,
		nullableStringPtr(communication.GuestID),
		string(communication.Type),
		string(communication.Direction),
		communication.Subject,
		communication.Content,
		communication.Profile.FirstName,
		communication.Profile.LastName,
		communication.Profile.Email,
		communication.Profile.Phone,
		formatTime(communication.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetCommunication retrieves a log entry by ID.
func (r *CommunicationRepository) GetCommunication(ctx context.Context, id string) (persistence.Communication, error) {
	if id == "" {
		return persistence.Communication{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx,
		`SELECT `+communicationColumns+` FROM communications WHERE id = ?`, id)
	return scanCommunication(row)
}

// DeleteCommunication removes a log entry by ID.
func (r *CommunicationRepository) DeleteCommunication(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := r.helper.Exec(ctx, `DELETE FROM communications WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowsAffected(result)
}

// ListCommunications returns the full log, newest first.
func (r *CommunicationRepository) ListCommunications(ctx context.Context) ([]persistence.Communication, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT `+communicationColumns+` FROM communications ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var communications []persistence.Communication
	for rows.Next() {
		communication, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		communications = append(communications, communication)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return communications, nil
}

func scanCommunication(row rowScanner) (persistence.Communication, error) {
	var communication persistence.Communication
	var commType, direction, createdAt string
	var guestID sql.NullString

	err := row.Scan(
		&communication.ID,
		&guestID,
		&commType,
		&direction,
		&communication.Subject,
		&communication.Content,
		&communication.Profile.FirstName,
		&communication.Profile.LastName,
		&communication.Profile.Email,
		&communication.Profile.Phone,
		&createdAt,
	)
	if err != nil {
		return persistence.Communication{}, mapError(err)
	}

	communication.GuestID = stringPtr(guestID)
	communication.Type = persistence.CommunicationType(commType)
	communication.Direction = persistence.CommunicationDirection(direction)
	if communication.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Communication{}, err
	}
	return communication, nil
}
