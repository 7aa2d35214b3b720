package stats

import (
	"math"
	"strings"

	"github.com/example/wedding-planner/internal/persistence"
)

// Snapshot is the derived RSVP statistics aggregate. It is recomputed from
// the current in-memory lists on demand and never persisted.
type Snapshot struct {
	Total               int `json:"total"`
	Attending           int `json:"attending"`
	Declined            int `json:"declined"`
	Pending             int `json:"pending"`
	Maybe               int `json:"maybe"`
	TotalGuests         int `json:"total_guests"`
	RegisteredUsers     int `json:"registered_users"`
	UnregisteredGuests  int `json:"unregistered_guests"`
	DietaryRestrictions int `json:"dietary_restrictions"`
	PlusOnes            int `json:"plus_ones"`
	NeedAccommodation   int `json:"need_accommodation"`
	NeedTransportation  int `json:"need_transportation"`
	ResponseRate        int `json:"response_rate"`
	CapacityUsed        int `json:"capacity_used"`
}

// Aggregate computes a statistics snapshot from the full RSVP and event
// lists in a single pass. It is pure and total: empty lists, absent optional
// fields, and single-status lists all produce a valid snapshot. Percentages
// are rounded to integers; CapacityUsed may exceed 100 when overbooked and
// is deliberately not clamped.
func Aggregate(rsvps []persistence.RSVP, events []persistence.Event) Snapshot {
	snapshot := Snapshot{Total: len(rsvps)}

	for _, rsvp := range rsvps {
		switch rsvp.Status {
		case persistence.StatusAttending:
			snapshot.Attending++
		case persistence.StatusDeclined:
			snapshot.Declined++
		case persistence.StatusPending:
			snapshot.Pending++
		case persistence.StatusMaybe:
			snapshot.Maybe++
		}

		if strings.TrimSpace(rsvp.DietaryRestrictions) != "" {
			snapshot.DietaryRestrictions++
		}

		if rsvp.Status != persistence.StatusAttending {
			continue
		}

		count := 1
		if rsvp.GuestCount != nil {
			count = *rsvp.GuestCount
		}
		snapshot.TotalGuests += count

		if strings.TrimSpace(rsvp.Profile.FirstName) != "" && strings.TrimSpace(rsvp.Profile.LastName) != "" {
			snapshot.RegisteredUsers++
		} else {
			snapshot.UnregisteredGuests++
		}
		if strings.TrimSpace(rsvp.PlusOneName) != "" {
			snapshot.PlusOnes++
		}
		if rsvp.NeedsAccommodation {
			snapshot.NeedAccommodation++
		}
		if rsvp.NeedsTransportation {
			snapshot.NeedTransportation++
		}
	}

	if snapshot.Total > 0 {
		responded := snapshot.Total - snapshot.Pending
		snapshot.ResponseRate = roundPercent(responded, snapshot.Total)
	}

	totalCapacity := 0
	for _, event := range events {
		if event.MaxCapacity != nil {
			totalCapacity += *event.MaxCapacity
		}
	}
	if totalCapacity > 0 {
		snapshot.CapacityUsed = roundPercent(snapshot.TotalGuests, totalCapacity)
	}

	return snapshot
}

func roundPercent(numerator, denominator int) int {
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}
