package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/persistence"
	"github.com/example/wedding-planner/internal/stats"
)

type rsvpService interface {
	SubmitRSVP(ctx context.Context, params application.SubmitRSVPParams) (persistence.RSVP, error)
	GetRSVP(ctx context.Context, principal application.Principal, id string) (persistence.RSVP, error)
	UpdateRSVP(ctx context.Context, params application.UpdateRSVPParams) (persistence.RSVP, error)
	DeleteRSVP(ctx context.Context, principal application.Principal, id string) error
	ListRSVPs(ctx context.Context, params application.ListRSVPsParams) ([]persistence.RSVP, error)
	Stats(ctx context.Context, principal application.Principal) (stats.Snapshot, error)
}

type RSVPHandler struct {
	service   rsvpService
	responder responder
	logger    *slog.Logger
}

func NewRSVPHandler(service rsvpService, logger *slog.Logger) *RSVPHandler {
	base := defaultLogger(logger)
	return &RSVPHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RSVPHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RSVPHandler", operation, attrs...)
}

func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Submit", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode rsvp request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Submit", "principal_id", principal.GuestID, "event_id", req.EventID)

	rsvp, err := h.service.SubmitRSVP(r.Context(), application.SubmitRSVPParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "rsvp submission failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("rsvp_id", rsvp.ID).InfoContext(r.Context(), "rsvp submitted")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, rsvpResponse{RSVP: toRSVPDTO(rsvp)})
}

func (h *RSVPHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rsvpID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rsvpID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	rsvp, err := h.service.GetRSVP(r.Context(), principal, rsvpID)
	if err != nil {
		h.log(r.Context(), "Get", "rsvp_id", rsvpID).ErrorContext(r.Context(), "rsvp fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, rsvpResponse{RSVP: toRSVPDTO(rsvp)})
}

func (h *RSVPHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rsvpID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rsvpID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "rsvp_id", rsvpID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode rsvp update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.GuestID, "rsvp_id", rsvpID)

	rsvp, err := h.service.UpdateRSVP(r.Context(), application.UpdateRSVPParams{
		Principal: principal,
		RSVPID:    rsvpID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "rsvp update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "rsvp updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, rsvpResponse{RSVP: toRSVPDTO(rsvp)})
}

func (h *RSVPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rsvpID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(rsvpID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.GuestID, "rsvp_id", rsvpID)

	if err := h.service.DeleteRSVP(r.Context(), principal, rsvpID); err != nil {
		logger.ErrorContext(r.Context(), "rsvp delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "rsvp deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RSVPHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.GuestID)

	rsvps, err := h.service.ListRSVPs(r.Context(), application.ListRSVPsParams{
		Principal: principal,
		Query:     r.URL.Query().Get("q"),
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "rsvp list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]rsvpDTO, 0, len(rsvps))
	for _, rsvp := range rsvps {
		out = append(out, toRSVPDTO(rsvp))
	}

	logger.With("result_count", len(out)).InfoContext(r.Context(), "rsvps listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRSVPsResponse{RSVPs: out})
}

// Stats serves the aggregated response snapshot for planners.
func (h *RSVPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Stats", "principal_id", principal.GuestID)

	snapshot, err := h.service.Stats(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "rsvp stats failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "rsvp stats computed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsResponse{Stats: snapshot})
}

type rsvpRequest struct {
	GuestID             string `json:"guest_id"`
	EventID             string `json:"event_id"`
	Status              string `json:"status"`
	GuestCount          *int   `json:"guest_count"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	Message             string `json:"message"`
	PlusOneName         string `json:"plus_one_name"`
	TableAssignment     string `json:"table_assignment"`
	NeedsAccommodation  bool   `json:"needs_accommodation"`
	NeedsTransportation bool   `json:"needs_transportation"`
	FirstName           string `json:"first_name"`
	LastName            string `json:"last_name"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
}

func (r rsvpRequest) toInput() application.RSVPInput {
	return application.RSVPInput{
		GuestID:             r.GuestID,
		EventID:             r.EventID,
		Status:              persistence.RSVPStatus(r.Status),
		GuestCount:          r.GuestCount,
		DietaryRestrictions: r.DietaryRestrictions,
		Message:             r.Message,
		PlusOneName:         r.PlusOneName,
		TableAssignment:     r.TableAssignment,
		NeedsAccommodation:  r.NeedsAccommodation,
		NeedsTransportation: r.NeedsTransportation,
		Profile: persistence.GuestProfile{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
		},
	}
}

type rsvpResponse struct {
	RSVP rsvpDTO `json:"rsvp"`
}

type listRSVPsResponse struct {
	RSVPs []rsvpDTO `json:"rsvps"`
}

type statsResponse struct {
	Stats stats.Snapshot `json:"stats"`
}

type rsvpDTO struct {
	ID                  string `json:"id"`
	GuestID             string `json:"guest_id"`
	EventID             string `json:"event_id"`
	Status              string `json:"status"`
	GuestCount          *int   `json:"guest_count,omitempty"`
	DietaryRestrictions string `json:"dietary_restrictions,omitempty"`
	Message             string `json:"message,omitempty"`
	PlusOneName         string `json:"plus_one_name,omitempty"`
	TableAssignment     string `json:"table_assignment,omitempty"`
	NeedsAccommodation  bool   `json:"needs_accommodation"`
	NeedsTransportation bool   `json:"needs_transportation"`
	FirstName           string `json:"first_name,omitempty"`
	LastName            string `json:"last_name,omitempty"`
	Email               string `json:"email,omitempty"`
	Phone               string `json:"phone,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func toRSVPDTO(rsvp persistence.RSVP) rsvpDTO {
	return rsvpDTO{
		ID:                  rsvp.ID,
		GuestID:             rsvp.GuestID,
		EventID:             rsvp.EventID,
		Status:              string(rsvp.Status),
		GuestCount:          rsvp.GuestCount,
		DietaryRestrictions: rsvp.DietaryRestrictions,
		Message:             rsvp.Message,
		PlusOneName:         rsvp.PlusOneName,
		TableAssignment:     rsvp.TableAssignment,
		NeedsAccommodation:  rsvp.NeedsAccommodation,
		NeedsTransportation: rsvp.NeedsTransportation,
		FirstName:           rsvp.Profile.FirstName,
		LastName:            rsvp.Profile.LastName,
		Email:               rsvp.Profile.Email,
		Phone:               rsvp.Profile.Phone,
		CreatedAt:           rsvp.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:           rsvp.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
