package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

// EventService orchestrates validation, authorization, and persistence for
// wedding events.
type EventService struct {
	events       persistence.EventRepository
	idGenerator  func() string
	now          func() time.Time
	deadlineLead time.Duration
	notify       ChangeNotifier
	logger       *slog.Logger
}

// NewEventService wires dependencies for the event service. deadlineLead is
// how long before the event date RSVPs close when no explicit deadline is
// stored.
func NewEventService(events persistence.EventRepository, idGenerator func() string, now func() time.Time, deadlineLead time.Duration, notify ChangeNotifier, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if deadlineLead <= 0 {
		deadlineLead = 7 * 24 * time.Hour
	}
	return &EventService{
		events:       events,
		idGenerator:  idGenerator,
		now:          now,
		deadlineLead: deadlineLead,
		notify:       notify,
		logger:       defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

func (s *EventService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceEvents, action, recordID)
	}
}

// EffectiveRSVPDeadline resolves the deadline for an event: the stored
// deadline when present, otherwise the configured lead before the event
// date.
func (s *EventService) EffectiveRSVPDeadline(event persistence.Event) time.Time {
	return effectiveRSVPDeadline(event, s.deadlineLead)
}

// CreateEvent validates input and persists a new event for planners.
func (s *EventService) CreateEvent(ctx context.Context, params CreateEventParams) (event persistence.Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}
	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateEvent")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("event_id", event.ID).InfoContext(ctx, "event created")
	}()

	normalized := normalizeEventInput(params.Input)
	vErr := validateEventInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	event = persistence.Event{
		ID:           s.idGenerator(),
		Title:        normalized.Title,
		Date:         normalized.Date,
		Venue:        normalized.Venue,
		Address:      normalized.Address,
		RSVPDeadline: normalized.RSVPDeadline,
		MaxCapacity:  normalized.MaxCapacity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err = mapStoreError(s.events.CreateEvent(ctx, event)); err != nil {
		event = persistence.Event{}
		return
	}

	s.publish(ActionInsert, event.ID)
	return
}

// GetEvent returns a single event. Events are guest-readable.
func (s *EventService) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	if s == nil {
		return persistence.Event{}, fmt.Errorf("EventService is nil")
	}

	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		return persistence.Event{}, mapStoreError(err)
	}
	return event, nil
}

// UpdateEvent validates input and updates an existing event for planners.
func (s *EventService) UpdateEvent(ctx context.Context, params UpdateEventParams) (event persistence.Event, err error) {
	if s == nil {
		err = fmt.Errorf("EventService is nil")
		return
	}
	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateEvent", "event_id", params.EventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "event updated")
	}()

	var existing persistence.Event
	existing, err = s.events.GetEvent(ctx, params.EventID)
	if err != nil {
		err = mapStoreError(err)
		return
	}

	normalized := normalizeEventInput(params.Input)
	vErr := validateEventInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	event = existing
	event.Title = normalized.Title
	event.Date = normalized.Date
	event.Venue = normalized.Venue
	event.Address = normalized.Address
	event.RSVPDeadline = normalized.RSVPDeadline
	event.MaxCapacity = normalized.MaxCapacity
	event.UpdatedAt = s.now()

	if err = mapStoreError(s.events.UpdateEvent(ctx, event)); err != nil {
		event = persistence.Event{}
		return
	}

	s.publish(ActionUpdate, event.ID)
	return
}

// DeleteEvent removes an event when requested by a planner.
func (s *EventService) DeleteEvent(ctx context.Context, principal Principal, eventID string) error {
	if s == nil {
		return fmt.Errorf("EventService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, eventID)
	s.loggerWith(ctx, "DeleteEvent", "event_id", eventID).InfoContext(ctx, "event deleted")
	return nil
}

// ListEvents returns all events. Events are guest-readable.
func (s *EventService) ListEvents(ctx context.Context) ([]persistence.Event, error) {
	if s == nil {
		return nil, fmt.Errorf("EventService is nil")
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return events, nil
}

func normalizeEventInput(input EventInput) EventInput {
	normalized := input
	normalized.Title = strings.TrimSpace(input.Title)
	normalized.Venue = strings.TrimSpace(input.Venue)
	normalized.Address = strings.TrimSpace(input.Address)
	return normalized
}

func validateEventInput(input EventInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if input.MaxCapacity != nil && *input.MaxCapacity <= 0 {
		vErr.add("max_capacity", "max capacity must be positive")
	}
	if input.RSVPDeadline != nil && !input.Date.IsZero() && input.RSVPDeadline.After(input.Date) {
		vErr.add("rsvp_deadline", "rsvp deadline must not be after the event date")
	}

	return vErr
}
