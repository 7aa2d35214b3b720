// Package export renders admin list views as CSV downloads: a fixed ordered
// header row followed by one row per record.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

var guestHeader = []string{
	"id", "email", "first_name", "last_name", "phone", "role", "relationship",
	"dietary_restrictions", "plus_one_name", "table_preference", "notes",
	"invitation_sent", "rsvp_deadline",
}

// Guests writes the guest list as CSV in input order.
func Guests(w io.Writer, guests []persistence.Guest) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(guestHeader); err != nil {
		return fmt.Errorf("failed to write guest header: %w", err)
	}
	for _, guest := range guests {
		deadline := ""
		if guest.RSVPDeadline != nil {
			deadline = guest.RSVPDeadline.UTC().Format(time.RFC3339)
		}
		row := []string{
			guest.ID,
			guest.Email,
			guest.FirstName,
			guest.LastName,
			guest.Phone,
			string(guest.Role),
			string(guest.Relationship),
			guest.DietaryRestrictions,
			guest.PlusOneName,
			guest.TablePreference,
			guest.Notes,
			strconv.FormatBool(guest.InvitationSent),
			deadline,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write guest row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

var communicationHeader = []string{
	"id", "type", "direction", "subject", "content", "email",
	"first_name", "last_name", "created_at",
}

// Communications writes the message log as CSV in input order.
func Communications(w io.Writer, communications []persistence.Communication) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(communicationHeader); err != nil {
		return fmt.Errorf("failed to write communication header: %w", err)
	}
	for _, communication := range communications {
		row := []string{
			communication.ID,
			string(communication.Type),
			string(communication.Direction),
			communication.Subject,
			communication.Content,
			communication.Profile.Email,
			communication.Profile.FirstName,
			communication.Profile.LastName,
			communication.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write communication row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
