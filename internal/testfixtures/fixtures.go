// Package testfixtures provides deterministic clocks, identifier generators,
// and record builders shared by persistence and application tests.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

var fixtureCounter atomic.Uint64

// ReferenceTime is the fixed instant fixtures default to so assertions on
// timestamps stay stable.
func ReferenceTime() time.Time {
	return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func nextIndex() uint64 {
	return fixtureCounter.Add(1)
}

// ----------------------------- Guest fixtures -----------------------------

// GuestOption configures a generated guest record.
type GuestOption func(*persistence.Guest)

// NewGuest returns a deterministic guest record with optional overrides.
func NewGuest(opts ...GuestOption) persistence.Guest {
	idx := nextIndex()
	guest := persistence.Guest{
		ID:           fmt.Sprintf("guest-%03d", idx),
		Email:        fmt.Sprintf("guest%03d@example.com", idx),
		FirstName:    "Guest",
		LastName:     fmt.Sprintf("%03d", idx),
		Role:         persistence.RoleGuest,
		Relationship: persistence.RelationshipFriend,
		CreatedAt:    ReferenceTime(),
		UpdatedAt:    ReferenceTime(),
	}
	for _, opt := range opts {
		opt(&guest)
	}
	return guest
}

// WithGuestID overrides the generated guest ID.
func WithGuestID(id string) GuestOption {
	return func(g *persistence.Guest) { g.ID = id }
}

// WithGuestEmail overrides the generated email address.
func WithGuestEmail(email string) GuestOption {
	return func(g *persistence.Guest) { g.Email = email }
}

// WithGuestName overrides the generated first and last names.
func WithGuestName(first, last string) GuestOption {
	return func(g *persistence.Guest) {
		g.FirstName = first
		g.LastName = last
	}
}

// WithGuestRole overrides the generated role.
func WithGuestRole(role persistence.GuestRole) GuestOption {
	return func(g *persistence.Guest) { g.Role = role }
}

// WithGuestRelationship overrides the generated relationship.
func WithGuestRelationship(relationship persistence.Relationship) GuestOption {
	return func(g *persistence.Guest) { g.Relationship = relationship }
}

// WithGuestPasswordHash activates the guest account with the given hash.
func WithGuestPasswordHash(hash string) GuestOption {
	return func(g *persistence.Guest) { g.PasswordHash = &hash }
}

// WithGuestInvitationSent marks the invitation as sent.
func WithGuestInvitationSent() GuestOption {
	return func(g *persistence.Guest) { g.InvitationSent = true }
}

// ----------------------------- Event fixtures -----------------------------

// EventOption configures a generated event record.
type EventOption func(*persistence.Event)

// NewEvent returns a deterministic event record with optional overrides. The
// event date defaults to thirty days after ReferenceTime.
func NewEvent(opts ...EventOption) persistence.Event {
	idx := nextIndex()
	event := persistence.Event{
		ID:        fmt.Sprintf("event-%03d", idx),
		Title:     fmt.Sprintf("Event %03d", idx),
		Date:      ReferenceTime().Add(30 * 24 * time.Hour),
		Venue:     "Rosewood Hall",
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
	for _, opt := range opts {
		opt(&event)
	}
	return event
}

// WithEventID overrides the generated event ID.
func WithEventID(id string) EventOption {
	return func(e *persistence.Event) { e.ID = id }
}

// WithEventDate overrides the generated event date.
func WithEventDate(date time.Time) EventOption {
	return func(e *persistence.Event) { e.Date = date }
}

// WithEventRSVPDeadline sets an explicit RSVP deadline.
func WithEventRSVPDeadline(deadline time.Time) EventOption {
	return func(e *persistence.Event) { e.RSVPDeadline = &deadline }
}

// WithEventMaxCapacity sets the capacity used by stats aggregation.
func WithEventMaxCapacity(capacity int) EventOption {
	return func(e *persistence.Event) { e.MaxCapacity = &capacity }
}

// ----------------------------- RSVP fixtures ------------------------------

// RSVPOption configures a generated response record.
type RSVPOption func(*persistence.RSVP)

// NewRSVP returns a deterministic response record tied to the supplied guest
// and event identifiers.
func NewRSVP(guestID, eventID string, opts ...RSVPOption) persistence.RSVP {
	idx := nextIndex()
	rsvp := persistence.RSVP{
		ID:        fmt.Sprintf("rsvp-%03d", idx),
		GuestID:   guestID,
		EventID:   eventID,
		Status:    persistence.StatusAttending,
		CreatedAt: ReferenceTime(),
		UpdatedAt: ReferenceTime(),
	}
	for _, opt := range opts {
		opt(&rsvp)
	}
	return rsvp
}

// WithRSVPStatus overrides the generated status.
func WithRSVPStatus(status persistence.RSVPStatus) RSVPOption {
	return func(r *persistence.RSVP) { r.Status = status }
}

// WithRSVPGuestCount sets the party size carried by the response.
func WithRSVPGuestCount(count int) RSVPOption {
	return func(r *persistence.RSVP) { r.GuestCount = &count }
}

// WithRSVPProfile fills the inline contact profile.
func WithRSVPProfile(first, last, email string) RSVPOption {
	return func(r *persistence.RSVP) {
		r.Profile = persistence.GuestProfile{FirstName: first, LastName: last, Email: email}
	}
}

// WithRSVPNeeds flags accommodation and transportation interest.
func WithRSVPNeeds(accommodation, transportation bool) RSVPOption {
	return func(r *persistence.RSVP) {
		r.NeedsAccommodation = accommodation
		r.NeedsTransportation = transportation
	}
}

// ----------------------------- Story fixtures -----------------------------

// StoryOption configures a generated story record.
type StoryOption func(*persistence.Story)

// NewStory returns a deterministic draft story authored by the given guest.
func NewStory(authorID string, opts ...StoryOption) persistence.Story {
	idx := nextIndex()
	story := persistence.Story{
		ID:           fmt.Sprintf("story-%03d", idx),
		AuthorID:     authorID,
		Title:        fmt.Sprintf("Story %03d", idx),
		Content:      "How we met.",
		DisplayOrder: int(idx),
		CreatedAt:    ReferenceTime(),
		UpdatedAt:    ReferenceTime(),
	}
	for _, opt := range opts {
		opt(&story)
	}
	return story
}

// WithStoryPublishedAt publishes the story at the given instant.
func WithStoryPublishedAt(t time.Time) StoryOption {
	return func(s *persistence.Story) { s.PublishedAt = &t }
}
