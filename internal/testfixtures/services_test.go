package testfixtures

import (
	"testing"
	"time"
)

func TestServiceFactoryDefaults(t *testing.T) {
	factory := NewServiceFactory()

	if factory.Clock == nil || factory.IDGenerator == nil {
		t.Fatal("expected defaults to be populated")
	}
	if !factory.Clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected default clock at ReferenceTime, got %v", factory.Clock.Now())
	}
}

func TestServiceFactoryOverrides(t *testing.T) {
	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	clock := NewClock(start)
	generator := NewIDGenerator("fixture")

	factory := NewServiceFactory(WithClock(clock), WithIDGenerator(generator))

	if got := factory.Clock.Now(); !got.Equal(start) {
		t.Fatalf("expected %v, got %v", start, got)
	}
	if got := factory.IDGenerator.Next(); got != "fixture-1" {
		t.Fatalf("expected fixture-1, got %q", got)
	}
}

func TestGuestFixtureOverrides(t *testing.T) {
	guest := NewGuest(
		WithGuestID("guest-override"),
		WithGuestEmail("alex@example.com"),
		WithGuestName("Alex", "Morgan"),
		WithGuestInvitationSent(),
	)

	if guest.ID != "guest-override" {
		t.Fatalf("unexpected id %q", guest.ID)
	}
	if guest.Email != "alex@example.com" || guest.FirstName != "Alex" || guest.LastName != "Morgan" {
		t.Fatalf("unexpected overrides: %+v", guest)
	}
	if !guest.InvitationSent {
		t.Fatal("expected invitation_sent to be set")
	}
	if !guest.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime timestamps, got %v", guest.CreatedAt)
	}
}

func TestRSVPFixtureDefaultsToAttending(t *testing.T) {
	rsvp := NewRSVP("guest-1", "event-1")

	if rsvp.GuestID != "guest-1" || rsvp.EventID != "event-1" {
		t.Fatalf("unexpected linkage: %+v", rsvp)
	}
	if string(rsvp.Status) != "attending" {
		t.Fatalf("expected attending default, got %q", rsvp.Status)
	}
}
