package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/stats"
)

type guestService interface {
	CreateGuest(ctx context.Context, params application.CreateGuestParams) (persistence.Guest, error)
	GetGuest(ctx context.Context, principal application.Principal, guestID string) (persistence.Guest, error)
	UpdateGuest(ctx context.Context, params application.UpdateGuestParams) (persistence.Guest, error)
	DeleteGuest(ctx context.Context, principal application.Principal, guestID string) error
	ListGuests(ctx context.Context, params application.ListGuestsParams) ([]persistence.Guest, error)
	ImportGuests(ctx context.Context, params application.ImportGuestsParams) (application.ImportGuestsResult, error)
	DuplicateGuests(ctx context.Context, principal application.Principal) ([]stats.DuplicatePair, error)
	ExportGuestsCSV(ctx context.Context, principal application.Principal, w io.Writer) error
}

type GuestHandler struct {
	service   guestService
	responder responder
	logger    *slog.Logger
}

func NewGuestHandler(service guestService, logger *slog.Logger) *GuestHandler {
	base := defaultLogger(logger)
	return &GuestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *GuestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "GuestHandler", operation, attrs...)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode guest request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.GuestID)

	guest, err := h.service.CreateGuest(r.Context(), application.CreateGuestParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "guest creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("guest_id", guest.ID).InfoContext(r.Context(), "guest created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, guestResponse{Guest: toGuestDTO(guest)})
}

func (h *GuestHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guestID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(guestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	guest, err := h.service.GetGuest(r.Context(), principal, guestID)
	if err != nil {
		h.log(r.Context(), "Get", "guest_id", guestID).ErrorContext(r.Context(), "guest fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, guestResponse{Guest: toGuestDTO(guest)})
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guestID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(guestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "guest_id", guestID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode guest update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.GuestID, "guest_id", guestID)

	guest, err := h.service.UpdateGuest(r.Context(), application.UpdateGuestParams{
		Principal: principal,
		GuestID:   guestID,
		Input:     input,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "guest update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "guest updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, guestResponse{Guest: toGuestDTO(guest)})
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guestID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(guestID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.GuestID, "guest_id", guestID)

	if err := h.service.DeleteGuest(r.Context(), principal, guestID); err != nil {
		logger.ErrorContext(r.Context(), "guest delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "guest deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	params := application.ListGuestsParams{
		Principal:    principal,
		Query:        r.URL.Query().Get("q"),
		Relationship: r.URL.Query().Get("relationship"),
	}
	switch r.URL.Query().Get("invited") {
	case "true":
		invited := true
		params.Invited = &invited
	case "false":
		invited := false
		params.Invited = &invited
	}

	logger := h.log(r.Context(), "List", "principal_id", principal.GuestID)

	guests, err := h.service.ListGuests(r.Context(), params)
	if err != nil {
		logger.ErrorContext(r.Context(), "guest list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(guests)).InfoContext(r.Context(), "guests listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listGuestsResponse{Guests: toGuestDTOs(guests)})
}

func (h *GuestHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req importGuestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Import", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode import request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	inputs := make([]application.GuestInput, 0, len(req.Guests))
	for _, row := range req.Guests {
		// Row-level date errors surface through the per-row report.
		input, _ := row.toInput()
		inputs = append(inputs, input)
	}

	logger := h.log(r.Context(), "Import", "principal_id", principal.GuestID, "rows", len(inputs))

	result, err := h.service.ImportGuests(r.Context(), application.ImportGuestsParams{
		Principal: principal,
		Inputs:    inputs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "guest import failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("imported", len(result.Imported), "skipped", result.Skipped).InfoContext(r.Context(), "guests imported")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, importGuestsResponse{
		Imported: toGuestDTOs(result.Imported),
		Skipped:  result.Skipped,
		Errors:   rowErrorMessages(result.Err),
	})
}

func (h *GuestHandler) Duplicates(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Duplicates", "principal_id", principal.GuestID)

	pairs, err := h.service.DuplicateGuests(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "duplicate report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]duplicatePairDTO, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, duplicatePairDTO{
			Original:  toGuestDTO(pair.Original),
			Duplicate: toGuestDTO(pair.Duplicate),
		})
	}

	logger.With("pair_count", len(out)).InfoContext(r.Context(), "duplicates reported")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, duplicatesResponse{Pairs: out})
}

func (h *GuestHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Export", "principal_id", principal.GuestID)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="guests.csv"`)

	if err := h.service.ExportGuestsCSV(r.Context(), principal, w); err != nil {
		logger.ErrorContext(r.Context(), "guest export failed", "error", err, "error_kind", application.ErrorKind(err))
		// Headers may already be written; nothing more to do than log.
		return
	}
	logger.InfoContext(r.Context(), "guests exported")
}

func rowErrorMessages(err error) []string {
	if err == nil {
		return nil
	}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		out := make([]string, 0, len(merr.Errors))
		for _, rowErr := range merr.Errors {
			out = append(out, rowErr.Error())
		}
		return out
	}
	return []string{err.Error()}
}

type guestRequest struct {
	Email               string `json:"email"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Phone               string `json:"phone"`
	Role                string `json:"role"`
	Relationship        string `json:"relationship"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	PlusOneName         string `json:"plus_one_name"`
	TablePreference     string `json:"table_preference"`
	Notes               string `json:"notes"`
	GroupID             string `json:"group_id"`
	InvitationSent      bool   `json:"invitation_sent"`
	RSVPDeadline        string `json:"rsvp_deadline"`
}

func (r guestRequest) toInput() (application.GuestInput, *application.ValidationError) {
	input := application.GuestInput{
		Email:               r.Email,
		FirstName:           r.FirstName,
		LastName:            r.LastName,
		Phone:               r.Phone,
		Role:                persistence.GuestRole(r.Role),
		Relationship:        persistence.Relationship(r.Relationship),
		DietaryRestrictions: r.DietaryRestrictions,
		PlusOneName:         r.PlusOneName,
		TablePreference:     r.TablePreference,
		Notes:               r.Notes,
		GroupID:             forms.OptionalID(r.GroupID),
		InvitationSent:      r.InvitationSent,
	}

	if deadline := strings.TrimSpace(r.RSVPDeadline); deadline != "" {
		parsed, err := time.Parse(time.RFC3339, deadline)
		if err != nil {
			return input, &application.ValidationError{FieldErrors: map[string]string{
				"rsvp_deadline": "rsvp deadline must be an RFC 3339 timestamp",
			}}
		}
		input.RSVPDeadline = &parsed
	}

	return input, nil
}

type guestResponse struct {
	Guest guestDTO `json:"guest"`
}

type listGuestsResponse struct {
	Guests []guestDTO `json:"guests"`
}

type importGuestsRequest struct {
	Guests []guestRequest `json:"guests"`
}

type importGuestsResponse struct {
	Imported []guestDTO `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []string   `json:"errors,omitempty"`
}

type duplicatePairDTO struct {
	Original  guestDTO `json:"original"`
	Duplicate guestDTO `json:"duplicate"`
}

type duplicatesResponse struct {
	Pairs []duplicatePairDTO `json:"pairs"`
}

type guestDTO struct {
	ID                  string  `json:"id"`
	Email               string  `json:"email"`
	FirstName           string  `json:"first_name"`
	LastName            string  `json:"last_name"`
	Phone               string  `json:"phone,omitempty"`
	Role                string  `json:"role"`
	Relationship        string  `json:"relationship"`
	DietaryRestrictions string  `json:"dietary_restrictions,omitempty"`
	PlusOneName         string  `json:"plus_one_name,omitempty"`
	TablePreference     string  `json:"table_preference,omitempty"`
	Notes               string  `json:"notes,omitempty"`
	GroupID             *string `json:"group_id,omitempty"`
	InvitationSent      bool    `json:"invitation_sent"`
	RSVPDeadline        string  `json:"rsvp_deadline,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

func toGuestDTO(guest persistence.Guest) guestDTO {
	dto := guestDTO{
		ID:                  guest.ID,
		Email:               guest.Email,
		FirstName:           guest.FirstName,
		LastName:            guest.LastName,
		Phone:               guest.Phone,
		Role:                string(guest.Role),
		Relationship:        string(guest.Relationship),
		DietaryRestrictions: guest.DietaryRestrictions,
		PlusOneName:         guest.PlusOneName,
		TablePreference:     guest.TablePreference,
		Notes:               guest.Notes,
		GroupID:             guest.GroupID,
		InvitationSent:      guest.InvitationSent,
		CreatedAt:           guest.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           guest.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if guest.RSVPDeadline != nil {
		dto.RSVPDeadline = guest.RSVPDeadline.UTC().Format(time.RFC3339Nano)
	}
	return dto
}

func toGuestDTOs(guests []persistence.Guest) []guestDTO {
	if len(guests) == 0 {
		return nil
	}
	out := make([]guestDTO, 0, len(guests))
	for _, guest := range guests {
		out = append(out, toGuestDTO(guest))
	}
	return out
}
