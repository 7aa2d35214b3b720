package application

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

type stubCommunicationRepository struct {
	communications []persistence.Communication
}

func (s *stubCommunicationRepository) CreateCommunication(_ context.Context, communication persistence.Communication) error {
	s.communications = append(s.communications, communication)
	return nil
}

func (s *stubCommunicationRepository) GetCommunication(_ context.Context, id string) (persistence.Communication, error) {
	for _, communication := range s.communications {
		if communication.ID == id {
			return communication, nil
		}
	}
	return persistence.Communication{}, persistence.ErrNotFound
}

func (s *stubCommunicationRepository) DeleteCommunication(_ context.Context, id string) error {
	for i := range s.communications {
		if s.communications[i].ID == id {
			s.communications = append(s.communications[:i], s.communications[i+1:]...)
			return nil
		}
	}
	return persistence.ErrNotFound
}

func (s *stubCommunicationRepository) ListCommunications(_ context.Context) ([]persistence.Communication, error) {
	out := make([]persistence.Communication, len(s.communications))
	copy(out, s.communications)
	return out, nil
}

func TestCommunicationServiceLogCommunication(t *testing.T) {
	repo := &stubCommunicationRepository{}
	service := NewCommunicationService(repo, sequenceIDs("comm"), fixedNow, nil, nil)

	t.Run("persists a valid entry", func(t *testing.T) {
		guestID := "guest-1"
		communication, err := service.LogCommunication(context.Background(), planner, CommunicationInput{
			GuestID:   &guestID,
			Type:      persistence.CommunicationEmail,
			Direction: persistence.DirectionOutbound,
			Subject:   "  Save the date  ",
			Content:   "See you in June!",
		})
		if err != nil {
			t.Fatalf("LogCommunication returned error: %v", err)
		}
		if communication.Subject != "Save the date" {
			t.Errorf("expected trimmed subject, got %q", communication.Subject)
		}
		if communication.GuestID == nil || *communication.GuestID != "guest-1" {
			t.Errorf("expected guest link, got %v", communication.GuestID)
		}
	})

	t.Run("rejects unknown type and direction", func(t *testing.T) {
		_, err := service.LogCommunication(context.Background(), planner, CommunicationInput{
			Type:      "carrier-pigeon",
			Direction: "sideways",
			Content:   "hello",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		for _, field := range []string{"type", "direction"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("expected error for %q, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("rejects guests", func(t *testing.T) {
		guest := Principal{GuestID: "g-1", Role: persistence.RoleGuest}
		_, err := service.LogCommunication(context.Background(), guest, CommunicationInput{
			Type:      persistence.CommunicationSMS,
			Direction: persistence.DirectionInbound,
			Content:   "hello",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCommunicationServiceListCommunications(t *testing.T) {
	repo := &stubCommunicationRepository{communications: []persistence.Communication{
		{ID: "c-1", Type: persistence.CommunicationEmail, Direction: persistence.DirectionOutbound, Content: "Save the date"},
		{ID: "c-2", Type: persistence.CommunicationSMS, Direction: persistence.DirectionInbound, Content: "We will be there"},
		{ID: "c-3", Type: persistence.CommunicationEmail, Direction: persistence.DirectionInbound, Content: "Dietary question"},
	}}
	service := NewCommunicationService(repo, sequenceIDs("comm"), fixedNow, nil, nil)

	t.Run("combines type and direction filters", func(t *testing.T) {
		communications, err := service.ListCommunications(context.Background(), ListCommunicationsParams{
			Principal: planner,
			Type:      "email",
			Direction: "inbound",
		})
		if err != nil {
			t.Fatalf("ListCommunications returned error: %v", err)
		}
		if len(communications) != 1 || communications[0].ID != "c-3" {
			t.Fatalf("expected only the inbound email, got %v", communications)
		}
	})

	t.Run("guests cannot read the log", func(t *testing.T) {
		_, err := service.ListCommunications(context.Background(), ListCommunicationsParams{
			Principal: Principal{GuestID: "g-1", Role: persistence.RoleGuest},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCommunicationServiceExportCSV(t *testing.T) {
	repo := &stubCommunicationRepository{communications: []persistence.Communication{
		{ID: "c-1", Type: persistence.CommunicationEmail, Direction: persistence.DirectionOutbound, Subject: "Save the date", Content: "See you in June"},
	}}
	service := NewCommunicationService(repo, sequenceIDs("comm"), fixedNow, nil, nil)

	var buf bytes.Buffer
	if err := service.ExportCommunicationsCSV(context.Background(), planner, &buf); err != nil {
		t.Fatalf("ExportCommunicationsCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %q", buf.String())
	}
	if !strings.Contains(lines[1], "Save the date") {
		t.Fatalf("expected subject in row, got %q", lines[1])
	}

	if err := service.ExportCommunicationsCSV(context.Background(), Principal{Role: persistence.RoleGuest}, &buf); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
