package stats

import (
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

func intPtr(v int) *int { return &v }

func TestAggregate_EmptyInput(t *testing.T) {
	snapshot := Aggregate(nil, nil)

	if snapshot.Total != 0 {
		t.Fatalf("expected zero total, got %d", snapshot.Total)
	}
	if snapshot.ResponseRate != 0 {
		t.Fatalf("expected response rate 0 for empty list, got %d", snapshot.ResponseRate)
	}
	if snapshot.CapacityUsed != 0 {
		t.Fatalf("expected capacity used 0 without capacity, got %d", snapshot.CapacityUsed)
	}
}

func TestAggregate_StatusCountsSumToTotal(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusDeclined},
		{Status: persistence.StatusPending},
		{Status: persistence.StatusMaybe},
	}

	snapshot := Aggregate(rsvps, nil)

	sum := snapshot.Attending + snapshot.Declined + snapshot.Pending + snapshot.Maybe
	if sum != snapshot.Total {
		t.Fatalf("status counts sum to %d, total is %d", sum, snapshot.Total)
	}
	if snapshot.Total != len(rsvps) {
		t.Fatalf("expected total %d, got %d", len(rsvps), snapshot.Total)
	}
}

func TestAggregate_GuestCountDefaultsToOne(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusAttending, GuestCount: intPtr(3)},
		{Status: persistence.StatusDeclined, GuestCount: intPtr(5)},
	}

	snapshot := Aggregate(rsvps, nil)

	if snapshot.TotalGuests != 4 {
		t.Fatalf("expected 4 total guests (1 default + 3), got %d", snapshot.TotalGuests)
	}
}

func TestAggregate_RegisteredSplit(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending, Profile: persistence.GuestProfile{FirstName: "Ada", LastName: "Lovelace"}},
		{Status: persistence.StatusAttending, Profile: persistence.GuestProfile{FirstName: "Ada"}},
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusPending, Profile: persistence.GuestProfile{FirstName: "Max", LastName: "Planck"}},
	}

	snapshot := Aggregate(rsvps, nil)

	if snapshot.RegisteredUsers != 1 {
		t.Fatalf("expected 1 registered user, got %d", snapshot.RegisteredUsers)
	}
	if snapshot.UnregisteredGuests != 2 {
		t.Fatalf("expected 2 unregistered guests, got %d", snapshot.UnregisteredGuests)
	}
}

func TestAggregate_DietaryCountsAnyStatus(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending, DietaryRestrictions: "vegan"},
		{Status: persistence.StatusDeclined, DietaryRestrictions: "gluten free"},
		{Status: persistence.StatusPending, DietaryRestrictions: "   "},
	}

	snapshot := Aggregate(rsvps, nil)

	if snapshot.DietaryRestrictions != 2 {
		t.Fatalf("expected 2 dietary restrictions, got %d", snapshot.DietaryRestrictions)
	}
}

func TestAggregate_AttendingOnlyFlags(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending, PlusOneName: "Guest Plus", NeedsAccommodation: true, NeedsTransportation: true},
		{Status: persistence.StatusDeclined, PlusOneName: "Ignored", NeedsAccommodation: true, NeedsTransportation: true},
	}

	snapshot := Aggregate(rsvps, nil)

	if snapshot.PlusOnes != 1 {
		t.Fatalf("expected 1 plus one, got %d", snapshot.PlusOnes)
	}
	if snapshot.NeedAccommodation != 1 {
		t.Fatalf("expected 1 accommodation request, got %d", snapshot.NeedAccommodation)
	}
	if snapshot.NeedTransportation != 1 {
		t.Fatalf("expected 1 transportation request, got %d", snapshot.NeedTransportation)
	}
}

func TestAggregate_CapacityMayExceedHundred(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending, GuestCount: intPtr(30)},
	}
	events := []persistence.Event{{MaxCapacity: intPtr(20)}}

	snapshot := Aggregate(rsvps, events)

	if snapshot.CapacityUsed != 150 {
		t.Fatalf("expected capacity used 150 when overbooked, got %d", snapshot.CapacityUsed)
	}
}

func TestAggregate_ZeroCapacityIsSafe(t *testing.T) {
	rsvps := []persistence.RSVP{{Status: persistence.StatusAttending}}
	events := []persistence.Event{{}, {MaxCapacity: intPtr(0)}}

	snapshot := Aggregate(rsvps, events)

	if snapshot.CapacityUsed != 0 {
		t.Fatalf("expected capacity used 0 with zero capacity, got %d", snapshot.CapacityUsed)
	}
}

func TestAggregate_EndToEndScenario(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending, GuestCount: intPtr(2)},
		{Status: persistence.StatusAttending, GuestCount: intPtr(1)},
		{Status: persistence.StatusAttending, GuestCount: intPtr(1)},
		{Status: persistence.StatusAttending, GuestCount: intPtr(2)},
		{Status: persistence.StatusAttending, GuestCount: intPtr(1)},
		{Status: persistence.StatusAttending, GuestCount: intPtr(1)},
		{Status: persistence.StatusDeclined},
		{Status: persistence.StatusDeclined},
		{Status: persistence.StatusPending},
		{Status: persistence.StatusMaybe},
	}
	events := []persistence.Event{{MaxCapacity: intPtr(50)}}

	snapshot := Aggregate(rsvps, events)

	if snapshot.Total != 10 {
		t.Fatalf("expected total 10, got %d", snapshot.Total)
	}
	if snapshot.Attending != 6 {
		t.Fatalf("expected 6 attending, got %d", snapshot.Attending)
	}
	if snapshot.TotalGuests != 8 {
		t.Fatalf("expected 8 total guests, got %d", snapshot.TotalGuests)
	}
	if snapshot.ResponseRate != 90 {
		t.Fatalf("expected response rate 90, got %d", snapshot.ResponseRate)
	}
	if snapshot.CapacityUsed != 16 {
		t.Fatalf("expected capacity used 16, got %d", snapshot.CapacityUsed)
	}
}

func TestAggregate_ResponseRateRounds(t *testing.T) {
	rsvps := []persistence.RSVP{
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusAttending},
		{Status: persistence.StatusPending},
	}

	snapshot := Aggregate(rsvps, nil)

	// 2/3 responded: 66.67 rounds to 67, not truncated to 66.
	if snapshot.ResponseRate != 67 {
		t.Fatalf("expected response rate 67, got %d", snapshot.ResponseRate)
	}
}
