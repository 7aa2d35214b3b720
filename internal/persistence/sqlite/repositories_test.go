package sqlite_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/testfixtures"
)

func TestGuestRepositoryRoundTrip(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	guest := testfixtures.NewGuest(
		testfixtures.WithGuestID("guest-a"),
		testfixtures.WithGuestEmail("shared@example.com"),
		testfixtures.WithGuestName("Dana", "Reyes"),
	)
	if err := harness.Guests.CreateGuest(ctx, guest); err != nil {
		t.Fatalf("failed to create guest: %v", err)
	}

	stored, err := harness.Guests.GetGuest(ctx, "guest-a")
	if err != nil {
		t.Fatalf("failed to fetch guest: %v", err)
	}
	if stored.Email != "shared@example.com" || stored.FirstName != "Dana" {
		t.Fatalf("unexpected stored guest: %+v", stored)
	}

	// Duplicate emails are allowed; detection is advisory.
	twin := testfixtures.NewGuest(
		testfixtures.WithGuestID("guest-b"),
		testfixtures.WithGuestEmail("shared@example.com"),
	)
	if err := harness.Guests.CreateGuest(ctx, twin); err != nil {
		t.Fatalf("expected duplicate email to be accepted: %v", err)
	}

	stored.Notes = "vegetarian table"
	stored.InvitationSent = true
	if err := harness.Guests.UpdateGuest(ctx, stored); err != nil {
		t.Fatalf("failed to update guest: %v", err)
	}
	updated, err := harness.Guests.GetGuest(ctx, "guest-a")
	if err != nil {
		t.Fatalf("failed to refetch guest: %v", err)
	}
	if updated.Notes != "vegetarian table" || !updated.InvitationSent {
		t.Fatalf("update not persisted: %+v", updated)
	}

	guests, err := harness.Guests.ListGuests(ctx)
	if err != nil {
		t.Fatalf("failed to list guests: %v", err)
	}
	if len(guests) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(guests))
	}

	if _, err := harness.Guests.GetGuest(ctx, "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRSVPRepositoryScopedToEvent(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	ceremony := testfixtures.NewEvent(testfixtures.WithEventID("event-ceremony"))
	reception := testfixtures.NewEvent(testfixtures.WithEventID("event-reception"))
	if err := harness.Events.CreateEvent(ctx, ceremony); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	if err := harness.Events.CreateEvent(ctx, reception); err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	first := testfixtures.NewRSVP("guest-1", "event-ceremony",
		testfixtures.WithRSVPGuestCount(2),
		testfixtures.WithRSVPProfile("Dana", "Reyes", "dana@example.com"),
	)
	second := testfixtures.NewRSVP("guest-2", "event-reception",
		testfixtures.WithRSVPStatus(persistence.StatusDeclined),
	)
	if err := harness.RSVPs.CreateRSVP(ctx, first); err != nil {
		t.Fatalf("failed to create rsvp: %v", err)
	}
	if err := harness.RSVPs.CreateRSVP(ctx, second); err != nil {
		t.Fatalf("failed to create rsvp: %v", err)
	}

	scoped, err := harness.RSVPs.ListRSVPsForEvent(ctx, "event-ceremony")
	if err != nil {
		t.Fatalf("failed to list rsvps: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != first.ID {
		t.Fatalf("unexpected event scoping: %+v", scoped)
	}
	if scoped[0].GuestCount == nil || *scoped[0].GuestCount != 2 {
		t.Fatalf("guest count not persisted: %+v", scoped[0])
	}
	if scoped[0].Profile.Email != "dana@example.com" {
		t.Fatalf("profile not persisted: %+v", scoped[0].Profile)
	}
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	reference := testfixtures.ReferenceTime()

	session := persistence.Session{
		ID:        "session-1",
		GuestID:   "guest-1",
		Token:     "token-1",
		ExpiresAt: reference.Add(24 * time.Hour),
		CreatedAt: reference,
		UpdatedAt: reference,
	}
	if _, err := harness.Sessions.CreateSession(ctx, session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	stored, err := harness.Sessions.GetSession(ctx, "token-1")
	if err != nil {
		t.Fatalf("failed to fetch session: %v", err)
	}
	if stored.RevokedAt != nil {
		t.Fatalf("expected active session, got %+v", stored)
	}

	revoked, err := harness.Sessions.RevokeSession(ctx, "token-1", reference.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to revoke session: %v", err)
	}
	if revoked.RevokedAt == nil {
		t.Fatal("expected revocation timestamp")
	}

	expired := persistence.Session{
		ID:        "session-2",
		GuestID:   "guest-1",
		Token:     "token-2",
		ExpiresAt: reference.Add(-time.Hour),
		CreatedAt: reference.Add(-48 * time.Hour),
		UpdatedAt: reference.Add(-48 * time.Hour),
	}
	if _, err := harness.Sessions.CreateSession(ctx, expired); err != nil {
		t.Fatalf("failed to create expired session: %v", err)
	}
	if err := harness.Sessions.DeleteExpiredSessions(ctx, reference); err != nil {
		t.Fatalf("failed to delete expired sessions: %v", err)
	}
	if _, err := harness.Sessions.GetSession(ctx, "token-2"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}

func TestTravelRepositoriesOrderingAndRoundTrip(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	reference := testfixtures.ReferenceTime()

	category := persistence.AccommodationCategory{
		ID:        "cat-1",
		Name:      "Near the venue",
		CreatedAt: reference,
		UpdatedAt: reference,
	}
	if err := harness.Accommodation.CreateCategory(ctx, category); err != nil {
		t.Fatalf("failed to create category: %v", err)
	}

	price := 120.5
	hotel := persistence.AccommodationOption{
		ID:            "opt-hotel",
		CategoryID:    "cat-1",
		Name:          "Hotel Rosewood",
		Amenities:     []string{"Pool", "WiFi"},
		Coordinates:   &persistence.Coordinates{Lng: 13.3777, Lat: 52.5163},
		PricePerNight: &price,
		Capacity:      4,
		DisplayOrder:  2,
		CreatedAt:     reference,
		UpdatedAt:     reference,
	}
	hostel := persistence.AccommodationOption{
		ID:           "opt-hostel",
		CategoryID:   "cat-1",
		Name:         "City Hostel",
		DisplayOrder: 1,
		CreatedAt:    reference,
		UpdatedAt:    reference,
	}
	if err := harness.Accommodation.CreateOption(ctx, hotel); err != nil {
		t.Fatalf("failed to create option: %v", err)
	}
	if err := harness.Accommodation.CreateOption(ctx, hostel); err != nil {
		t.Fatalf("failed to create option: %v", err)
	}

	options, err := harness.Accommodation.ListOptions(ctx)
	if err != nil {
		t.Fatalf("failed to list options: %v", err)
	}
	if len(options) != 2 || options[0].ID != "opt-hostel" || options[1].ID != "opt-hotel" {
		t.Fatalf("expected display_order listing, got %+v", options)
	}

	stored := options[1]
	if !reflect.DeepEqual(stored.Amenities, []string{"Pool", "WiFi"}) {
		t.Fatalf("amenities not round-tripped: %v", stored.Amenities)
	}
	if stored.Coordinates == nil || stored.Coordinates.Lng != 13.3777 || stored.Coordinates.Lat != 52.5163 {
		t.Fatalf("coordinates not round-tripped: %+v", stored.Coordinates)
	}
	if stored.PricePerNight == nil || *stored.PricePerNight != 120.5 {
		t.Fatalf("price not round-tripped: %+v", stored.PricePerNight)
	}
	if options[0].Coordinates != nil || options[0].Amenities != nil {
		t.Fatalf("expected absent fields to stay absent: %+v", options[0])
	}

	shuttle := persistence.TransportOption{
		ID:           "tr-shuttle",
		Name:         "Shuttle bus",
		Departure:    "Main station",
		DisplayOrder: 2,
		CreatedAt:    reference,
		UpdatedAt:    reference,
	}
	train := persistence.TransportOption{
		ID:           "tr-train",
		Name:         "Regional train",
		DisplayOrder: 1,
		CreatedAt:    reference,
		UpdatedAt:    reference,
	}
	if err := harness.Transport.CreateOption(ctx, shuttle); err != nil {
		t.Fatalf("failed to create transport option: %v", err)
	}
	if err := harness.Transport.CreateOption(ctx, train); err != nil {
		t.Fatalf("failed to create transport option: %v", err)
	}

	transports, err := harness.Transport.ListOptions(ctx)
	if err != nil {
		t.Fatalf("failed to list transport options: %v", err)
	}
	if len(transports) != 2 || transports[0].ID != "tr-train" || transports[1].ID != "tr-shuttle" {
		t.Fatalf("expected display_order listing, got %+v", transports)
	}
	if transports[1].Departure != "Main station" {
		t.Fatalf("departure not round-tripped: %+v", transports[1])
	}
}

func TestChatRepositoryMessageOrdering(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	reference := testfixtures.ReferenceTime()

	chat := persistence.DirectChat{ID: "chat-1", GuestA: "guest-1", GuestB: "guest-2", CreatedAt: reference}
	if err := harness.Chats.CreateChat(ctx, chat); err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}

	for i, content := range []string{"hi", "hello", "see you there"} {
		message := persistence.ChatMessage{
			ID:        string(rune('a' + i)),
			ChatID:    "chat-1",
			SenderID:  "guest-1",
			Content:   content,
			CreatedAt: reference.Add(time.Duration(i) * time.Minute),
		}
		if err := harness.Chats.CreateMessage(ctx, message); err != nil {
			t.Fatalf("failed to create message: %v", err)
		}
	}

	messages, err := harness.Chats.ListMessages(ctx, "chat-1")
	if err != nil {
		t.Fatalf("failed to list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Content != "hi" || messages[2].Content != "see you there" {
		t.Fatalf("unexpected ordering: %+v", messages)
	}

	chats, err := harness.Chats.ListChatsForGuest(ctx, "guest-2")
	if err != nil {
		t.Fatalf("failed to list chats: %v", err)
	}
	if len(chats) != 1 || chats[0].ID != "chat-1" {
		t.Fatalf("expected chat visible to both participants: %+v", chats)
	}
}
