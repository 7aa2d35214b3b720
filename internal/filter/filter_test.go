package filter

import (
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

func TestRSVPs_CombinesTextAndStatusWithAND(t *testing.T) {
	rsvps := []persistence.RSVP{
		{ID: "r1", Status: persistence.StatusAttending, Profile: persistence.GuestProfile{FirstName: "Ada", LastName: "Lovelace"}},
		{ID: "r2", Status: persistence.StatusDeclined, Profile: persistence.GuestProfile{FirstName: "Ada", LastName: "Byron"}},
		{ID: "r3", Status: persistence.StatusAttending, Profile: persistence.GuestProfile{FirstName: "Grace", LastName: "Hopper"}},
	}

	got := RSVPs(rsvps, "ada", string(persistence.StatusAttending))

	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("expected intersection {r1}, got %v", got)
	}
}

func TestRSVPs_EmptyQueryMatchesEverything(t *testing.T) {
	rsvps := []persistence.RSVP{
		{ID: "r1", Status: persistence.StatusAttending},
		{ID: "r2", Status: persistence.StatusPending},
	}

	if got := RSVPs(rsvps, "", All); len(got) != 2 {
		t.Fatalf("expected all records, got %d", len(got))
	}
}

func TestGuests_MatchesEmailAndFullName(t *testing.T) {
	guests := []persistence.Guest{
		{ID: "g1", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"},
		{ID: "g2", Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper"},
	}

	if got := Guests(guests, "ADA@", All); len(got) != 1 || got[0].ID != "g1" {
		t.Fatalf("expected email match for g1, got %v", got)
	}
	// The concatenated "first last" string is searchable across the boundary.
	if got := Guests(guests, "grace hopper", All); len(got) != 1 || got[0].ID != "g2" {
		t.Fatalf("expected full-name match for g2, got %v", got)
	}
}

func TestGuests_RelationshipFilter(t *testing.T) {
	guests := []persistence.Guest{
		{ID: "g1", Relationship: persistence.RelationshipFamily},
		{ID: "g2", Relationship: persistence.RelationshipFriend},
	}

	got := Guests(guests, "", string(persistence.RelationshipFriend))

	if len(got) != 1 || got[0].ID != "g2" {
		t.Fatalf("expected only friends, got %v", got)
	}
}

func TestFilters_PreserveOrderAndInput(t *testing.T) {
	guests := []persistence.Guest{
		{ID: "g1", FirstName: "Ann"},
		{ID: "g2", FirstName: "Bea"},
		{ID: "g3", FirstName: "Anna"},
	}

	got := Guests(guests, "ann", All)

	if len(got) != 2 || got[0].ID != "g1" || got[1].ID != "g3" {
		t.Fatalf("expected stable order [g1 g3], got %v", got)
	}
	if guests[1].ID != "g2" {
		t.Fatalf("input list mutated: %v", guests)
	}
}

func TestCommunications_FourFieldSearchAndTwoFilters(t *testing.T) {
	communications := []persistence.Communication{
		{ID: "c1", Type: persistence.CommunicationEmail, Direction: persistence.DirectionOutbound, Subject: "Save the date"},
		{ID: "c2", Type: persistence.CommunicationEmail, Direction: persistence.DirectionInbound, Content: "we saved the date"},
		{ID: "c3", Type: persistence.CommunicationSMS, Direction: persistence.DirectionOutbound, Subject: "Save the date"},
	}

	got := Communications(communications, "date", string(persistence.CommunicationEmail), string(persistence.DirectionOutbound))

	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected AND across both filters, got %v", got)
	}
}

func TestFAQItems_CategorySentinel(t *testing.T) {
	items := []persistence.FAQItem{
		{ID: "f1", CategoryID: "cat-1", Question: "Where do we park?"},
		{ID: "f2", CategoryID: "cat-2", Question: "Where do we stay?"},
	}

	if got := FAQItems(items, "where", All); len(got) != 2 {
		t.Fatalf("expected sentinel to disable category filtering, got %v", got)
	}
	if got := FAQItems(items, "where", "cat-2"); len(got) != 1 || got[0].ID != "f2" {
		t.Fatalf("expected category narrowing to f2, got %v", got)
	}
	// Sentinel casing and the empty selection both disable filtering.
	if got := FAQItems(items, "", "All"); len(got) != 2 {
		t.Fatalf("expected uppercase sentinel to disable filtering, got %v", got)
	}
	if got := FAQItems(items, "", ""); len(got) != 2 {
		t.Fatalf("expected empty selection to disable filtering, got %v", got)
	}
}
