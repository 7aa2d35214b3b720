package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

func TestGuests_HeaderAndRows(t *testing.T) {
	guests := []persistence.Guest{
		{
			ID:        "g1",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      persistence.RoleGuest,
			Notes:     "prefers a seat near the \"band\", not the bar",
		},
		{ID: "g2", Email: "grace@example.com"},
	}

	var buf bytes.Buffer
	if err := Guests(&buf, guests); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d records", len(records))
	}
	if records[0][0] != "id" || records[0][1] != "email" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "g1" || records[2][0] != "g2" {
		t.Fatalf("expected input order preserved, got %v / %v", records[1][0], records[2][0])
	}
	// Quoting must survive the round trip.
	if !strings.Contains(records[1][10], `"band"`) {
		t.Fatalf("quoted field mangled: %q", records[1][10])
	}
}

func TestCommunications_EmptyListStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := Communications(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected only the header row, got %d records", len(records))
	}
}

func TestCommunications_Row(t *testing.T) {
	created := time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC)
	communications := []persistence.Communication{
		{
			ID:        "c1",
			Type:      persistence.CommunicationEmail,
			Direction: persistence.DirectionOutbound,
			Subject:   "Save the date",
			Content:   "We are getting married, see you there",
			Profile:   persistence.GuestProfile{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	if err := Communications(&buf, communications); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	row := records[1]
	if row[1] != "email" || row[2] != "outbound" || row[8] != "2026-05-01T10:30:00Z" {
		t.Fatalf("unexpected row: %v", row)
	}
}
