package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
)

type flagService interface {
	CreateFlag(ctx context.Context, principal application.Principal, input application.FlagInput) (persistence.FeatureFlag, error)
	GetFlag(ctx context.Context, principal application.Principal, id string) (persistence.FeatureFlag, error)
	UpdateFlag(ctx context.Context, principal application.Principal, flagID string, input application.FlagInput) (persistence.FeatureFlag, error)
	DeleteFlag(ctx context.Context, principal application.Principal, flagID string) error
	ListFlags(ctx context.Context, principal application.Principal) ([]persistence.FeatureFlag, error)
	Evaluate(ctx context.Context, key, userID string) (application.FlagEvaluation, error)
}

type FlagHandler struct {
	service   flagService
	responder responder
	logger    *slog.Logger
}

func NewFlagHandler(service flagService, logger *slog.Logger) *FlagHandler {
	base := defaultLogger(logger)
	return &FlagHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FlagHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FlagHandler", operation, attrs...)
}

func (h *FlagHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode flag request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.GuestID, "key", req.Key)

	flag, err := h.service.CreateFlag(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "flag creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("flag_id", flag.ID).InfoContext(r.Context(), "feature flag created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, flagResponse{Flag: toFlagDTO(flag)})
}

func (h *FlagHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	flagID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(flagID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	flag, err := h.service.GetFlag(r.Context(), principal, flagID)
	if err != nil {
		h.log(r.Context(), "Get", "flag_id", flagID).ErrorContext(r.Context(), "flag fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, flagResponse{Flag: toFlagDTO(flag)})
}

func (h *FlagHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	flagID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(flagID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "flag_id", flagID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode flag update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.GuestID, "flag_id", flagID)

	flag, err := h.service.UpdateFlag(r.Context(), principal, flagID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "flag update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "feature flag updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, flagResponse{Flag: toFlagDTO(flag)})
}

func (h *FlagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	flagID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(flagID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.GuestID, "flag_id", flagID)

	if err := h.service.DeleteFlag(r.Context(), principal, flagID); err != nil {
		logger.ErrorContext(r.Context(), "flag delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "feature flag deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *FlagHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	flags, err := h.service.ListFlags(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "flag list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]flagDTO, 0, len(flags))
	for _, flag := range flags {
		out = append(out, toFlagDTO(flag))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listFlagsResponse{Flags: out})
}

// Evaluate resolves a flag for a user without requiring a session. Guests
// poll it to decide which features to render.
func (h *FlagHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	key := strings.TrimSpace(r.URL.Query().Get("key"))
	if key == "" {
		h.responder.writeJSON(r.Context(), w, http.StatusUnprocessableEntity, errorResponse{
			Message: "the submitted input is invalid",
			Errors:  map[string]string{"key": "key is required"},
		})
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user"))
	if userID == "" {
		if principal, ok := PrincipalFromContext(r.Context()); ok {
			userID = principal.GuestID
		}
	}

	evaluation, err := h.service.Evaluate(r.Context(), key, userID)
	if err != nil {
		h.log(r.Context(), "Evaluate", "key", key).ErrorContext(r.Context(), "flag evaluation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, evaluationResponse{
		Key:     evaluation.Key,
		Enabled: evaluation.Enabled,
		Value:   evaluation.Value,
	})
}

type flagRequest struct {
	Key           string `json:"key"`
	Description   string `json:"description"`
	Enabled       bool   `json:"enabled"`
	Type          string `json:"type"`
	DefaultValue  string `json:"default_value"`
	TargetUsers   string `json:"target_users"`
	ExcludedUsers string `json:"excluded_users"`
}

func (r flagRequest) toInput() application.FlagInput {
	return application.FlagInput{
		Key:           r.Key,
		Description:   r.Description,
		Enabled:       r.Enabled,
		Type:          persistence.FlagType(r.Type),
		DefaultValue:  r.DefaultValue,
		TargetUsers:   forms.SplitList(r.TargetUsers),
		ExcludedUsers: forms.SplitList(r.ExcludedUsers),
	}
}

type flagResponse struct {
	Flag flagDTO `json:"flag"`
}

type listFlagsResponse struct {
	Flags []flagDTO `json:"flags"`
}

type evaluationResponse struct {
	Key     string `json:"key"`
	Enabled bool   `json:"enabled"`
	Value   any    `json:"value"`
}

type flagDTO struct {
	ID            string `json:"id"`
	Key           string `json:"key"`
	Description   string `json:"description,omitempty"`
	Enabled       bool   `json:"enabled"`
	Type          string `json:"type"`
	DefaultValue  string `json:"default_value"`
	TargetUsers   string `json:"target_users,omitempty"`
	ExcludedUsers string `json:"excluded_users,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

func toFlagDTO(flag persistence.FeatureFlag) flagDTO {
	return flagDTO{
		ID:            flag.ID,
		Key:           flag.Key,
		Description:   flag.Description,
		Enabled:       flag.Enabled,
		Type:          string(flag.Type),
		DefaultValue:  flag.DefaultValue,
		TargetUsers:   forms.JoinList(flag.TargetUsers),
		ExcludedUsers: forms.JoinList(flag.ExcludedUsers),
		CreatedAt:     flag.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     flag.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
