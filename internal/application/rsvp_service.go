package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/filter"
	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/stats"
)

// RSVPService orchestrates response collection and aggregation.
type RSVPService struct {
	rsvps        persistence.RSVPRepository
	events       persistence.EventRepository
	idGenerator  func() string
	now          func() time.Time
	deadlineLead time.Duration
	notify       ChangeNotifier
	logger       *slog.Logger
}

// NewRSVPService wires dependencies for the RSVP service.
func NewRSVPService(rsvps persistence.RSVPRepository, events persistence.EventRepository, idGenerator func() string, now func() time.Time, deadlineLead time.Duration, notify ChangeNotifier, logger *slog.Logger) *RSVPService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if deadlineLead <= 0 {
		deadlineLead = 7 * 24 * time.Hour
	}
	return &RSVPService{
		rsvps:        rsvps,
		events:       events,
		idGenerator:  idGenerator,
		now:          now,
		deadlineLead: deadlineLead,
		notify:       notify,
		logger:       defaultLogger(logger),
	}
}

func (s *RSVPService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RSVPService", operation, attrs...)
}

func (s *RSVPService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceRSVPs, action, recordID)
	}
}

// effectiveRSVPDeadline resolves an event's response deadline: the stored
// deadline when present, otherwise lead before the event date.
func effectiveRSVPDeadline(event persistence.Event, lead time.Duration) time.Time {
	if event.RSVPDeadline != nil {
		return *event.RSVPDeadline
	}
	return event.Date.Add(-lead)
}

// SubmitRSVP records a response. Guests submit for themselves; planners may
// submit on anyone's behalf and past the deadline.
func (s *RSVPService) SubmitRSVP(ctx context.Context, params SubmitRSVPParams) (rsvp persistence.RSVP, err error) {
	if s == nil {
		err = fmt.Errorf("RSVPService is nil")
		return
	}
	if !params.Principal.CanManage() && params.Principal.GuestID != params.Input.GuestID {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "SubmitRSVP", "event_id", params.Input.EventID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to submit rsvp", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("rsvp_id", rsvp.ID).InfoContext(ctx, "rsvp submitted")
	}()

	normalized := normalizeRSVPInput(params.Input)
	vErr := validateRSVPInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	var event persistence.Event
	event, err = s.events.GetEvent(ctx, normalized.EventID)
	if err != nil {
		err = mapStoreError(err)
		return
	}
	if !params.Principal.CanManage() {
		deadline := effectiveRSVPDeadline(event, s.deadlineLead)
		if s.now().After(deadline) {
			dErr := &ValidationError{}
			dErr.add("event_id", "the rsvp deadline for this event has passed")
			err = dErr
			return
		}
	}

	now := s.now()
	rsvp = persistence.RSVP{
		ID:                  s.idGenerator(),
		GuestID:             normalized.GuestID,
		EventID:             normalized.EventID,
		Status:              normalized.Status,
		GuestCount:          normalized.GuestCount,
		DietaryRestrictions: normalized.DietaryRestrictions,
		Message:             normalized.Message,
		PlusOneName:         normalized.PlusOneName,
		TableAssignment:     normalized.TableAssignment,
		NeedsAccommodation:  normalized.NeedsAccommodation,
		NeedsTransportation: normalized.NeedsTransportation,
		Profile:             normalized.Profile,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err = mapStoreError(s.rsvps.CreateRSVP(ctx, rsvp)); err != nil {
		rsvp = persistence.RSVP{}
		return
	}

	s.publish(ActionInsert, rsvp.ID)
	return
}

// GetRSVP returns a single response. Guests may read their own; planners
// may read any.
func (s *RSVPService) GetRSVP(ctx context.Context, principal Principal, id string) (persistence.RSVP, error) {
	if s == nil {
		return persistence.RSVP{}, fmt.Errorf("RSVPService is nil")
	}

	rsvp, err := s.rsvps.GetRSVP(ctx, id)
	if err != nil {
		return persistence.RSVP{}, mapStoreError(err)
	}
	if !principal.CanManage() && principal.GuestID != rsvp.GuestID {
		return persistence.RSVP{}, ErrUnauthorized
	}
	return rsvp, nil
}

// UpdateRSVP updates an existing response. Last write wins.
func (s *RSVPService) UpdateRSVP(ctx context.Context, params UpdateRSVPParams) (rsvp persistence.RSVP, err error) {
	if s == nil {
		err = fmt.Errorf("RSVPService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateRSVP", "rsvp_id", params.RSVPID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update rsvp", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "rsvp updated")
	}()

	var existing persistence.RSVP
	existing, err = s.rsvps.GetRSVP(ctx, params.RSVPID)
	if err != nil {
		err = mapStoreError(err)
		return
	}
	if !params.Principal.CanManage() && params.Principal.GuestID != existing.GuestID {
		err = ErrUnauthorized
		return
	}

	normalized := normalizeRSVPInput(params.Input)
	normalized.GuestID = existing.GuestID
	normalized.EventID = existing.EventID
	vErr := validateRSVPInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if !params.Principal.CanManage() {
		var event persistence.Event
		event, err = s.events.GetEvent(ctx, existing.EventID)
		if err != nil {
			err = mapStoreError(err)
			return
		}
		if s.now().After(effectiveRSVPDeadline(event, s.deadlineLead)) {
			dErr := &ValidationError{}
			dErr.add("event_id", "the rsvp deadline for this event has passed")
			err = dErr
			return
		}
	}

	rsvp = existing
	rsvp.Status = normalized.Status
	rsvp.GuestCount = normalized.GuestCount
	rsvp.DietaryRestrictions = normalized.DietaryRestrictions
	rsvp.Message = normalized.Message
	rsvp.PlusOneName = normalized.PlusOneName
	rsvp.TableAssignment = normalized.TableAssignment
	rsvp.NeedsAccommodation = normalized.NeedsAccommodation
	rsvp.NeedsTransportation = normalized.NeedsTransportation
	rsvp.Profile = normalized.Profile
	rsvp.UpdatedAt = s.now()

	if err = mapStoreError(s.rsvps.UpdateRSVP(ctx, rsvp)); err != nil {
		rsvp = persistence.RSVP{}
		return
	}

	s.publish(ActionUpdate, rsvp.ID)
	return
}

// DeleteRSVP removes a response when requested by a planner.
func (s *RSVPService) DeleteRSVP(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("RSVPService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.rsvps.DeleteRSVP(ctx, id); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, id)
	s.loggerWith(ctx, "DeleteRSVP", "rsvp_id", id).InfoContext(ctx, "rsvp deleted")
	return nil
}

// ListRSVPs returns responses for planners, filtered by the given query and
// status. Store order is preserved.
func (s *RSVPService) ListRSVPs(ctx context.Context, params ListRSVPsParams) ([]persistence.RSVP, error) {
	if s == nil {
		return nil, fmt.Errorf("RSVPService is nil")
	}
	if !params.Principal.CanManage() {
		return nil, ErrUnauthorized
	}

	rsvps, err := s.rsvps.ListRSVPs(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return filter.RSVPs(rsvps, params.Query, params.Status), nil
}

// Stats aggregates all responses into a dashboard snapshot for planners.
func (s *RSVPService) Stats(ctx context.Context, principal Principal) (stats.Snapshot, error) {
	if s == nil {
		return stats.Snapshot{}, fmt.Errorf("RSVPService is nil")
	}
	if !principal.CanManage() {
		return stats.Snapshot{}, ErrUnauthorized
	}

	rsvps, err := s.rsvps.ListRSVPs(ctx)
	if err != nil {
		return stats.Snapshot{}, mapStoreError(err)
	}
	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return stats.Snapshot{}, mapStoreError(err)
	}
	return stats.Aggregate(rsvps, events), nil
}

func normalizeRSVPInput(input RSVPInput) RSVPInput {
	normalized := input
	normalized.GuestID = strings.TrimSpace(input.GuestID)
	normalized.EventID = strings.TrimSpace(input.EventID)
	normalized.PlusOneName = strings.TrimSpace(input.PlusOneName)
	normalized.Profile.FirstName = strings.TrimSpace(input.Profile.FirstName)
	normalized.Profile.LastName = strings.TrimSpace(input.Profile.LastName)
	normalized.Profile.Email = strings.ToLower(strings.TrimSpace(input.Profile.Email))
	normalized.Profile.Phone = strings.TrimSpace(input.Profile.Phone)
	if normalized.Status == "" {
		normalized.Status = persistence.StatusPending
	}
	return normalized
}

func validateRSVPInput(input RSVPInput) *ValidationError {
	vErr := &ValidationError{}

	if input.GuestID == "" {
		vErr.add("guest_id", "guest is required")
	}
	if input.EventID == "" {
		vErr.add("event_id", "event is required")
	}

	switch input.Status {
	case persistence.StatusAttending, persistence.StatusDeclined,
		persistence.StatusPending, persistence.StatusMaybe:
	default:
		vErr.add("status", "status is invalid")
	}

	if input.GuestCount != nil && *input.GuestCount < 1 {
		vErr.add("guest_count", "guest count must be at least 1")
	}

	if input.Profile.Email != "" {
		if _, err := mail.ParseAddress(input.Profile.Email); err != nil {
			vErr.add("profile_email", "email is invalid")
		}
	}

	return vErr
}
