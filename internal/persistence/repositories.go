package persistence

import (
	"context"
	"time"
)

// GuestRepository stores invitation-list records.
type GuestRepository interface {
	CreateGuest(ctx context.Context, guest Guest) error
	GetGuest(ctx context.Context, id string) (Guest, error)
	GetGuestByEmail(ctx context.Context, email string) (Guest, error)
	UpdateGuest(ctx context.Context, guest Guest) error
	DeleteGuest(ctx context.Context, id string) error
	ListGuests(ctx context.Context) ([]Guest, error)
}

// EventRepository stores wedding events.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]Event, error)
}

// RSVPRepository stores response records.
type RSVPRepository interface {
	CreateRSVP(ctx context.Context, rsvp RSVP) error
	GetRSVP(ctx context.Context, id string) (RSVP, error)
	UpdateRSVP(ctx context.Context, rsvp RSVP) error
	DeleteRSVP(ctx context.Context, id string) error
	ListRSVPs(ctx context.Context) ([]RSVP, error)
	ListRSVPsForEvent(ctx context.Context, eventID string) ([]RSVP, error)
}

// FAQRepository stores FAQ categories and items. Listings are ordered by
// display_order ascending.
type FAQRepository interface {
	CreateCategory(ctx context.Context, category FAQCategory) error
	UpdateCategory(ctx context.Context, category FAQCategory) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]FAQCategory, error)

	CreateItem(ctx context.Context, item FAQItem) error
	GetItem(ctx context.Context, id string) (FAQItem, error)
	UpdateItem(ctx context.Context, item FAQItem) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]FAQItem, error)
}

// AccommodationRepository stores accommodation categories and options.
type AccommodationRepository interface {
	CreateCategory(ctx context.Context, category AccommodationCategory) error
	UpdateCategory(ctx context.Context, category AccommodationCategory) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]AccommodationCategory, error)

	CreateOption(ctx context.Context, option AccommodationOption) error
	GetOption(ctx context.Context, id string) (AccommodationOption, error)
	UpdateOption(ctx context.Context, option AccommodationOption) error
	DeleteOption(ctx context.Context, id string) error
	ListOptions(ctx context.Context) ([]AccommodationOption, error)
}

// TransportRepository stores transport options.
type TransportRepository interface {
	CreateOption(ctx context.Context, option TransportOption) error
	GetOption(ctx context.Context, id string) (TransportOption, error)
	UpdateOption(ctx context.Context, option TransportOption) error
	DeleteOption(ctx context.Context, id string) error
	ListOptions(ctx context.Context) ([]TransportOption, error)
}

// FlagRepository stores feature flags.
type FlagRepository interface {
	CreateFlag(ctx context.Context, flag FeatureFlag) error
	GetFlag(ctx context.Context, id string) (FeatureFlag, error)
	GetFlagByKey(ctx context.Context, key string) (FeatureFlag, error)
	UpdateFlag(ctx context.Context, flag FeatureFlag) error
	DeleteFlag(ctx context.Context, id string) error
	ListFlags(ctx context.Context) ([]FeatureFlag, error)
}

// CommunicationRepository stores the guest message log.
type CommunicationRepository interface {
	CreateCommunication(ctx context.Context, communication Communication) error
	GetCommunication(ctx context.Context, id string) (Communication, error)
	DeleteCommunication(ctx context.Context, id string) error
	ListCommunications(ctx context.Context) ([]Communication, error)
}

// ChatRepository stores direct chats and their messages.
type ChatRepository interface {
	CreateChat(ctx context.Context, chat DirectChat) error
	GetChat(ctx context.Context, id string) (DirectChat, error)
	ListChatsForGuest(ctx context.Context, guestID string) ([]DirectChat, error)
	CreateMessage(ctx context.Context, message ChatMessage) error
	ListMessages(ctx context.Context, chatID string) ([]ChatMessage, error)
}

// StoryRepository stores published stories.
type StoryRepository interface {
	CreateStory(ctx context.Context, story Story) error
	GetStory(ctx context.Context, id string) (Story, error)
	UpdateStory(ctx context.Context, story Story) error
	DeleteStory(ctx context.Context, id string) error
	ListStories(ctx context.Context) ([]Story, error)
}

// SessionRepository stores authentication sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}
