package application

import (
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

// Principal represents the authenticated guest invoking a service method.
type Principal struct {
	GuestID string
	Role    persistence.GuestRole
}

// CanManage reports whether the principal may mutate planner-owned resources.
func (p Principal) CanManage() bool {
	return p.Role == persistence.RoleAdmin || p.Role == persistence.RoleCouple
}

// ChangeNotifier receives a change notification after a mutation is
// confirmed by the store. Subscribers treat notifications as refresh
// triggers only.
type ChangeNotifier func(resource, action, recordID string)

// Actions reported through a ChangeNotifier.
const (
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Resource names reported through a ChangeNotifier.
const (
	ResourceGuests         = "guests"
	ResourceEvents         = "events"
	ResourceRSVPs          = "rsvps"
	ResourceFAQ            = "faq"
	ResourceAccommodation  = "accommodation"
	ResourceTransport      = "transport"
	ResourceFlags          = "flags"
	ResourceCommunications = "communications"
	ResourceChats          = "chats"
	ResourceStories        = "stories"
)

// GuestInput captures caller provided guest fields.
type GuestInput struct {
	Email               string
	FirstName           string
	LastName            string
	Phone               string
	Role                persistence.GuestRole
	Relationship        persistence.Relationship
	DietaryRestrictions string
	PlusOneName         string
	TablePreference     string
	Notes               string
	GroupID             *string
	InvitationSent      bool
	RSVPDeadline        *time.Time
}

// CreateGuestParams wraps the data required to create a guest.
type CreateGuestParams struct {
	Principal Principal
	Input     GuestInput
}

// UpdateGuestParams wraps the data required to update an existing guest.
type UpdateGuestParams struct {
	Principal Principal
	GuestID   string
	Input     GuestInput
}

// ListGuestsParams carries the filters applied to guest listings.
type ListGuestsParams struct {
	Principal    Principal
	Query        string
	Relationship string
	Invited      *bool
}

// ImportGuestsParams wraps a bulk guest import request.
type ImportGuestsParams struct {
	Principal Principal
	Inputs    []GuestInput
}

// ImportGuestsResult reports the outcome of a bulk import. Rows that
// failed validation are skipped; Err aggregates their individual errors.
type ImportGuestsResult struct {
	Imported []persistence.Guest
	Skipped  int
	Err      error
}

// EventInput captures caller provided event fields.
type EventInput struct {
	Title        string
	Date         time.Time
	Venue        string
	Address      string
	RSVPDeadline *time.Time
	MaxCapacity  *int
}

// CreateEventParams wraps the data required to create an event.
type CreateEventParams struct {
	Principal Principal
	Input     EventInput
}

// UpdateEventParams wraps the data required to update an existing event.
type UpdateEventParams struct {
	Principal Principal
	EventID   string
	Input     EventInput
}

// RSVPInput captures caller provided response fields.
type RSVPInput struct {
	GuestID             string
	EventID             string
	Status              persistence.RSVPStatus
	GuestCount          *int
	DietaryRestrictions string
	Message             string
	PlusOneName         string
	TableAssignment     string
	NeedsAccommodation  bool
	NeedsTransportation bool
	Profile             persistence.GuestProfile
}

// SubmitRSVPParams wraps the data required to record a response.
type SubmitRSVPParams struct {
	Principal Principal
	Input     RSVPInput
}

// UpdateRSVPParams wraps the data required to update an existing response.
type UpdateRSVPParams struct {
	Principal Principal
	RSVPID    string
	Input     RSVPInput
}

// ListRSVPsParams carries the filters applied to response listings.
type ListRSVPsParams struct {
	Principal Principal
	Query     string
	Status    string
}

// FAQCategoryInput captures caller provided FAQ category fields.
type FAQCategoryInput struct {
	Name         string
	DisplayOrder int
}

// FAQItemInput captures caller provided FAQ item fields.
type FAQItemInput struct {
	CategoryID   string
	Question     string
	Answer       string
	DisplayOrder int
}

// ListFAQItemsParams carries the filters applied to FAQ item listings.
type ListFAQItemsParams struct {
	Query      string
	CategoryID string
}

// AccommodationCategoryInput captures caller provided category fields.
type AccommodationCategoryInput struct {
	Name         string
	DisplayOrder int
}

// AccommodationOptionInput captures caller provided option fields.
type AccommodationOptionInput struct {
	CategoryID    string
	Name          string
	Description   string
	Amenities     []string
	Coordinates   *persistence.Coordinates
	PricePerNight *float64
	Capacity      int
	URL           string
	DisplayOrder  int
}

// TransportOptionInput captures caller provided transport fields.
type TransportOptionInput struct {
	Name         string
	Description  string
	Departure    string
	Coordinates  *persistence.Coordinates
	DisplayOrder int
}

// FlagInput captures caller provided feature flag fields. DefaultValue is
// the raw string form and is validated against Type.
type FlagInput struct {
	Key           string
	Description   string
	Enabled       bool
	Type          persistence.FlagType
	DefaultValue  string
	TargetUsers   []string
	ExcludedUsers []string
}

// FlagEvaluation is the outcome of evaluating a flag for a user.
type FlagEvaluation struct {
	Key     string
	Enabled bool
	Value   any
}

// CommunicationInput captures caller provided message log fields.
type CommunicationInput struct {
	GuestID   *string
	Type      persistence.CommunicationType
	Direction persistence.CommunicationDirection
	Subject   string
	Content   string
	Profile   persistence.GuestProfile
}

// ListCommunicationsParams carries the filters applied to log listings.
type ListCommunicationsParams struct {
	Principal Principal
	Query     string
	Type      string
	Direction string
}

// StoryInput captures caller provided story fields.
type StoryInput struct {
	Title        string
	Content      string
	MediaURL     string
	DisplayOrder int
	Published    bool
}

// AuthenticateParams captures the data required to authenticate a guest.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	Guest   persistence.Guest
	Session persistence.Session
}
