package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/example/wedding-planner/internal/export"
	"github.com/example/wedding-planner/internal/filter"
	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/stats"
)

// GuestService orchestrates validation, authorization, and persistence for
// the invitation list.
type GuestService struct {
	guests      persistence.GuestRepository
	idGenerator func() string
	now         func() time.Time
	notify      ChangeNotifier
	logger      *slog.Logger
}

// NewGuestService wires dependencies for the guest service.
func NewGuestService(guests persistence.GuestRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *GuestService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &GuestService{
		guests:      guests,
		idGenerator: idGenerator,
		now:         now,
		notify:      notify,
		logger:      defaultLogger(logger),
	}
}

func (s *GuestService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GuestService", operation, attrs...)
}

func (s *GuestService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceGuests, action, recordID)
	}
}

// CreateGuest validates input and persists a new guest for planners.
// Duplicate emails are allowed; duplicate detection is advisory.
func (s *GuestService) CreateGuest(ctx context.Context, params CreateGuestParams) (guest persistence.Guest, err error) {
	if s == nil {
		err = fmt.Errorf("GuestService is nil")
		return
	}
	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateGuest")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create guest", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("guest_id", guest.ID).InfoContext(ctx, "guest created")
	}()

	normalized := normalizeGuestInput(params.Input)
	vErr := validateGuestInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	guest = persistence.Guest{
		ID:                  s.idGenerator(),
		Email:               normalized.Email,
		FirstName:           normalized.FirstName,
		LastName:            normalized.LastName,
		Phone:               normalized.Phone,
		Role:                normalized.Role,
		Relationship:        normalized.Relationship,
		DietaryRestrictions: normalized.DietaryRestrictions,
		PlusOneName:         normalized.PlusOneName,
		TablePreference:     normalized.TablePreference,
		Notes:               normalized.Notes,
		GroupID:             normalized.GroupID,
		InvitationSent:      normalized.InvitationSent,
		RSVPDeadline:        normalized.RSVPDeadline,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err = mapStoreError(s.guests.CreateGuest(ctx, guest)); err != nil {
		guest = persistence.Guest{}
		return
	}

	s.publish(ActionInsert, guest.ID)
	return
}

// GetGuest returns a single guest. Guests may read their own record;
// planners may read any.
func (s *GuestService) GetGuest(ctx context.Context, principal Principal, guestID string) (persistence.Guest, error) {
	if s == nil {
		return persistence.Guest{}, fmt.Errorf("GuestService is nil")
	}
	if !principal.CanManage() && principal.GuestID != guestID {
		return persistence.Guest{}, ErrUnauthorized
	}

	guest, err := s.guests.GetGuest(ctx, guestID)
	if err != nil {
		return persistence.Guest{}, mapStoreError(err)
	}
	return guest, nil
}

// UpdateGuest validates input and updates an existing guest for planners.
func (s *GuestService) UpdateGuest(ctx context.Context, params UpdateGuestParams) (guest persistence.Guest, err error) {
	if s == nil {
		err = fmt.Errorf("GuestService is nil")
		return
	}
	if !params.Principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "UpdateGuest", "guest_id", params.GuestID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update guest", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "guest updated")
	}()

	var existing persistence.Guest
	existing, err = s.guests.GetGuest(ctx, params.GuestID)
	if err != nil {
		err = mapStoreError(err)
		return
	}

	normalized := normalizeGuestInput(params.Input)
	vErr := validateGuestInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	guest = existing
	guest.Email = normalized.Email
	guest.FirstName = normalized.FirstName
	guest.LastName = normalized.LastName
	guest.Phone = normalized.Phone
	guest.Role = normalized.Role
	guest.Relationship = normalized.Relationship
	guest.DietaryRestrictions = normalized.DietaryRestrictions
	guest.PlusOneName = normalized.PlusOneName
	guest.TablePreference = normalized.TablePreference
	guest.Notes = normalized.Notes
	guest.GroupID = normalized.GroupID
	guest.InvitationSent = normalized.InvitationSent
	guest.RSVPDeadline = normalized.RSVPDeadline
	guest.UpdatedAt = s.now()

	if err = mapStoreError(s.guests.UpdateGuest(ctx, guest)); err != nil {
		guest = persistence.Guest{}
		return
	}

	s.publish(ActionUpdate, guest.ID)
	return
}

// DeleteGuest removes a guest when requested by a planner.
func (s *GuestService) DeleteGuest(ctx context.Context, principal Principal, guestID string) error {
	if s == nil {
		return fmt.Errorf("GuestService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.guests.DeleteGuest(ctx, guestID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, guestID)
	s.loggerWith(ctx, "DeleteGuest", "guest_id", guestID).InfoContext(ctx, "guest deleted")
	return nil
}

// ListGuests returns the invitation list for planners, filtered by the
// given query, relationship, and invitation status. Store order is
// preserved.
func (s *GuestService) ListGuests(ctx context.Context, params ListGuestsParams) ([]persistence.Guest, error) {
	if s == nil {
		return nil, fmt.Errorf("GuestService is nil")
	}
	if !params.Principal.CanManage() {
		return nil, ErrUnauthorized
	}

	guests, err := s.guests.ListGuests(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	guests = filter.Guests(guests, params.Query, params.Relationship)
	if params.Invited != nil {
		filtered := make([]persistence.Guest, 0, len(guests))
		for _, guest := range guests {
			if guest.InvitationSent == *params.Invited {
				filtered = append(filtered, guest)
			}
		}
		guests = filtered
	}
	return guests, nil
}

// ImportGuests persists a batch of guests. Invalid rows are skipped and
// their errors aggregated; valid rows are still imported.
func (s *GuestService) ImportGuests(ctx context.Context, params ImportGuestsParams) (ImportGuestsResult, error) {
	if s == nil {
		return ImportGuestsResult{}, fmt.Errorf("GuestService is nil")
	}
	if !params.Principal.CanManage() {
		return ImportGuestsResult{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "ImportGuests", "rows", len(params.Inputs))

	var result ImportGuestsResult
	var rowErrs *multierror.Error
	for i, input := range params.Inputs {
		normalized := normalizeGuestInput(input)
		if vErr := validateGuestInput(normalized); vErr.HasErrors() {
			rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d: %w", i+1, vErr))
			result.Skipped++
			continue
		}

		now := s.now()
		guest := persistence.Guest{
			ID:                  s.idGenerator(),
			Email:               normalized.Email,
			FirstName:           normalized.FirstName,
			LastName:            normalized.LastName,
			Phone:               normalized.Phone,
			Role:                normalized.Role,
			Relationship:        normalized.Relationship,
			DietaryRestrictions: normalized.DietaryRestrictions,
			PlusOneName:         normalized.PlusOneName,
			TablePreference:     normalized.TablePreference,
			Notes:               normalized.Notes,
			GroupID:             normalized.GroupID,
			InvitationSent:      normalized.InvitationSent,
			RSVPDeadline:        normalized.RSVPDeadline,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if err := s.guests.CreateGuest(ctx, guest); err != nil {
			rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d: %w", i+1, mapStoreError(err)))
			result.Skipped++
			continue
		}
		result.Imported = append(result.Imported, guest)
		s.publish(ActionInsert, guest.ID)
	}

	result.Err = rowErrs.ErrorOrNil()
	logger.With("imported", len(result.Imported), "skipped", result.Skipped).InfoContext(ctx, "guest import finished")
	return result, nil
}

// DuplicateGuests reports likely duplicate entries by email. The report is
// advisory; nothing is deleted.
func (s *GuestService) DuplicateGuests(ctx context.Context, principal Principal) ([]stats.DuplicatePair, error) {
	if s == nil {
		return nil, fmt.Errorf("GuestService is nil")
	}
	if !principal.CanManage() {
		return nil, ErrUnauthorized
	}

	guests, err := s.guests.ListGuests(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return stats.Duplicates(guests), nil
}

// ExportGuestsCSV writes the invitation list as CSV for planners.
func (s *GuestService) ExportGuestsCSV(ctx context.Context, principal Principal, w io.Writer) error {
	if s == nil {
		return fmt.Errorf("GuestService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	guests, err := s.guests.ListGuests(ctx)
	if err != nil {
		return mapStoreError(err)
	}
	return export.Guests(w, guests)
}

func normalizeGuestInput(input GuestInput) GuestInput {
	normalized := input
	normalized.Email = strings.ToLower(strings.TrimSpace(input.Email))
	normalized.FirstName = strings.TrimSpace(input.FirstName)
	normalized.LastName = strings.TrimSpace(input.LastName)
	normalized.Phone = strings.TrimSpace(input.Phone)
	normalized.PlusOneName = strings.TrimSpace(input.PlusOneName)
	if normalized.Role == "" {
		normalized.Role = persistence.RoleGuest
	}
	if normalized.Relationship == "" {
		normalized.Relationship = persistence.RelationshipOther
	}
	return normalized
}

func validateGuestInput(input GuestInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.FirstName == "" {
		vErr.add("first_name", "first name is required")
	}
	if input.LastName == "" {
		vErr.add("last_name", "last name is required")
	}

	switch input.Role {
	case persistence.RoleGuest, persistence.RoleAdmin, persistence.RoleCouple:
	default:
		vErr.add("role", "role is invalid")
	}

	switch input.Relationship {
	case persistence.RelationshipFamily, persistence.RelationshipFriend,
		persistence.RelationshipColleague, persistence.RelationshipOther:
	default:
		vErr.add("relationship", "relationship is invalid")
	}

	return vErr
}
