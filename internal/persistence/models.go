package persistence

import "time"

// GuestRole identifies the access level attached to a guest record.
type GuestRole string

const (
	RoleGuest  GuestRole = "guest"
	RoleAdmin  GuestRole = "admin"
	RoleCouple GuestRole = "couple"
)

// Relationship categorises how a guest is connected to the couple.
type Relationship string

const (
	RelationshipFamily    Relationship = "family"
	RelationshipFriend    Relationship = "friend"
	RelationshipColleague Relationship = "colleague"
	RelationshipOther     Relationship = "other"
)

// RSVPStatus is the attendance answer recorded on an RSVP.
type RSVPStatus string

const (
	StatusAttending RSVPStatus = "attending"
	StatusDeclined  RSVPStatus = "declined"
	StatusPending   RSVPStatus = "pending"
	StatusMaybe     RSVPStatus = "maybe"
)

// Guest represents a person on the invitation list. Email is the
// client-side duplicate-detection key; it is not enforced unique.
type Guest struct {
	ID                  string
	Email               string
	FirstName           string
	LastName            string
	Phone               string
	Role                GuestRole
	Relationship        Relationship
	DietaryRestrictions string
	PlusOneName         string
	TablePreference     string
	Notes               string
	GroupID             *string
	InvitationSent      bool
	RSVPDeadline        *time.Time
	PasswordHash        *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Event represents a schedulable occasion within the wedding.
type Event struct {
	ID           string
	Title        string
	Date         time.Time
	Venue        string
	Address      string
	RSVPDeadline *time.Time
	MaxCapacity  *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GuestProfile carries the denormalized guest fields stored on an RSVP.
type GuestProfile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// RSVP is one response record per guest per event. A nil GuestCount
// counts as one person.
type RSVP struct {
	ID                  string
	GuestID             string
	EventID             string
	Status              RSVPStatus
	GuestCount          *int
	DietaryRestrictions string
	Message             string
	PlusOneName         string
	TableAssignment     string
	NeedsAccommodation  bool
	NeedsTransportation bool
	Profile             GuestProfile
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FAQCategory groups FAQ items. Listing order follows DisplayOrder ascending.
type FAQCategory struct {
	ID           string
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FAQItem is a single question/answer entry.
type FAQItem struct {
	ID           string
	CategoryID   string
	Question     string
	Answer       string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Coordinates holds a longitude/latitude pair.
type Coordinates struct {
	Lng float64
	Lat float64
}

// AccommodationCategory groups accommodation options.
type AccommodationCategory struct {
	ID           string
	Name         string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccommodationOption is a place to stay surfaced to guests.
type AccommodationOption struct {
	ID            string
	CategoryID    string
	Name          string
	Description   string
	Amenities     []string
	Coordinates   *Coordinates
	PricePerNight *float64
	Capacity      int
	URL           string
	DisplayOrder  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransportOption is a travel arrangement surfaced to guests.
type TransportOption struct {
	ID           string
	Name         string
	Description  string
	Departure    string
	Coordinates  *Coordinates
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FlagType determines how a feature flag's raw value is interpreted.
type FlagType string

const (
	FlagTypeBoolean FlagType = "boolean"
	FlagTypeString  FlagType = "string"
	FlagTypeNumber  FlagType = "number"
	FlagTypeJSON    FlagType = "json"
)

// FeatureFlag is a typed toggle with optional per-user targeting.
type FeatureFlag struct {
	ID            string
	Key           string
	Description   string
	Enabled       bool
	Type          FlagType
	DefaultValue  string
	TargetUsers   []string
	ExcludedUsers []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CommunicationType identifies the channel a communication was sent over.
type CommunicationType string

const (
	CommunicationEmail    CommunicationType = "email"
	CommunicationSMS      CommunicationType = "sms"
	CommunicationWhatsApp CommunicationType = "whatsapp"
)

// CommunicationDirection records whether a message was sent or received.
type CommunicationDirection string

const (
	DirectionInbound  CommunicationDirection = "inbound"
	DirectionOutbound CommunicationDirection = "outbound"
)

// Communication is one entry in the guest message log.
type Communication struct {
	ID        string
	GuestID   *string
	Type      CommunicationType
	Direction CommunicationDirection
	Subject   string
	Content   string
	Profile   GuestProfile
	CreatedAt time.Time
}

// DirectChat is a two-party conversation between guests.
type DirectChat struct {
	ID        string
	GuestA    string
	GuestB    string
	CreatedAt time.Time
}

// ChatMessage is a single message within a direct chat.
type ChatMessage struct {
	ID        string
	ChatID    string
	SenderID  string
	Content   string
	CreatedAt time.Time
}

// Story is a published narrative entry shown on the public site.
type Story struct {
	ID           string
	AuthorID     string
	Title        string
	Content      string
	MediaURL     string
	DisplayOrder int
	PublishedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authentication session persisted for an account.
type Session struct {
	ID        string
	GuestID   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
