package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
)

type communicationService interface {
	LogCommunication(ctx context.Context, principal application.Principal, input application.CommunicationInput) (persistence.Communication, error)
	GetCommunication(ctx context.Context, principal application.Principal, id string) (persistence.Communication, error)
	DeleteCommunication(ctx context.Context, principal application.Principal, id string) error
	ListCommunications(ctx context.Context, params application.ListCommunicationsParams) ([]persistence.Communication, error)
	ExportCommunicationsCSV(ctx context.Context, principal application.Principal, w io.Writer) error
}

type CommunicationHandler struct {
	service   communicationService
	responder responder
	logger    *slog.Logger
}

func NewCommunicationHandler(service communicationService, logger *slog.Logger) *CommunicationHandler {
	base := defaultLogger(logger)
	return &CommunicationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *CommunicationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "CommunicationHandler", operation, attrs...)
}

func (h *CommunicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req communicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode communication request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.GuestID, "type", req.Type)

	communication, err := h.service.LogCommunication(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "communication logging failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("communication_id", communication.ID).InfoContext(r.Context(), "communication logged")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, communicationResponse{Communication: toCommunicationDTO(communication)})
}

func (h *CommunicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communicationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(communicationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	communication, err := h.service.GetCommunication(r.Context(), principal, communicationID)
	if err != nil {
		h.log(r.Context(), "Get", "communication_id", communicationID).ErrorContext(r.Context(), "communication fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, communicationResponse{Communication: toCommunicationDTO(communication)})
}

func (h *CommunicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	communicationID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(communicationID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.GuestID, "communication_id", communicationID)

	if err := h.service.DeleteCommunication(r.Context(), principal, communicationID); err != nil {
		logger.ErrorContext(r.Context(), "communication delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "communication deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *CommunicationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "List", "principal_id", principal.GuestID)

	communications, err := h.service.ListCommunications(r.Context(), application.ListCommunicationsParams{
		Principal: principal,
		Query:     r.URL.Query().Get("q"),
		Type:      r.URL.Query().Get("type"),
		Direction: r.URL.Query().Get("direction"),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "communication list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]communicationDTO, 0, len(communications))
	for _, communication := range communications {
		out = append(out, toCommunicationDTO(communication))
	}

	logger.With("result_count", len(out)).InfoContext(r.Context(), "communications listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listCommunicationsResponse{Communications: out})
}

func (h *CommunicationHandler) Export(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Export", "principal_id", principal.GuestID)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="communications.csv"`)

	if err := h.service.ExportCommunicationsCSV(r.Context(), principal, w); err != nil {
		logger.ErrorContext(r.Context(), "communication export failed", "error", err, "error_kind", application.ErrorKind(err))
		return
	}
	logger.InfoContext(r.Context(), "communications exported")
}

type communicationRequest struct {
	GuestID   string `json:"guest_id"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (r communicationRequest) toInput() application.CommunicationInput {
	return application.CommunicationInput{
		GuestID:   forms.OptionalID(r.GuestID),
		Type:      persistence.CommunicationType(r.Type),
		Direction: persistence.CommunicationDirection(r.Direction),
		Subject:   r.Subject,
		Content:   r.Content,
		Profile: persistence.GuestProfile{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
		},
	}
}

type communicationResponse struct {
	Communication communicationDTO `json:"communication"`
}

type listCommunicationsResponse struct {
	Communications []communicationDTO `json:"communications"`
}

type communicationDTO struct {
	ID        string  `json:"id"`
	GuestID   *string `json:"guest_id,omitempty"`
	Type      string  `json:"type"`
	Direction string  `json:"direction"`
	Subject   string  `json:"subject,omitempty"`
	Content   string  `json:"content"`
	FirstName string  `json:"first_name,omitempty"`
	LastName  string  `json:"last_name,omitempty"`
	Email     string  `json:"email,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func toCommunicationDTO(communication persistence.Communication) communicationDTO {
	return communicationDTO{
		ID:        communication.ID,
		GuestID:   communication.GuestID,
		Type:      string(communication.Type),
		Direction: string(communication.Direction),
		Subject:   communication.Subject,
		Content:   communication.Content,
		FirstName: communication.Profile.FirstName,
		LastName:  communication.Profile.LastName,
		Email:     communication.Profile.Email,
		Phone:     communication.Profile.Phone,
		CreatedAt: communication.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
