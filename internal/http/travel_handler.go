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

type travelService interface {
	CreateAccommodationCategory(ctx context.Context, principal application.Principal, input application.AccommodationCategoryInput) (persistence.AccommodationCategory, error)
	UpdateAccommodationCategory(ctx context.Context, principal application.Principal, categoryID string, input application.AccommodationCategoryInput) (persistence.AccommodationCategory, error)
	DeleteAccommodationCategory(ctx context.Context, principal application.Principal, categoryID string) error
	ListAccommodationCategories(ctx context.Context) ([]persistence.AccommodationCategory, error)
	CreateAccommodationOption(ctx context.Context, principal application.Principal, input application.AccommodationOptionInput) (persistence.AccommodationOption, error)
	GetAccommodationOption(ctx context.Context, id string) (persistence.AccommodationOption, error)
	UpdateAccommodationOption(ctx context.Context, principal application.Principal, optionID string, input application.AccommodationOptionInput) (persistence.AccommodationOption, error)
	DeleteAccommodationOption(ctx context.Context, principal application.Principal, optionID string) error
	ListAccommodationOptions(ctx context.Context) ([]persistence.AccommodationOption, error)
	CreateTransportOption(ctx context.Context, principal application.Principal, input application.TransportOptionInput) (persistence.TransportOption, error)
	UpdateTransportOption(ctx context.Context, principal application.Principal, optionID string, input application.TransportOptionInput) (persistence.TransportOption, error)
	DeleteTransportOption(ctx context.Context, principal application.Principal, optionID string) error
	ListTransportOptions(ctx context.Context) ([]persistence.TransportOption, error)
}

// TravelHandler serves accommodation and transportation resources.
type TravelHandler struct {
	service   travelService
	responder responder
	logger    *slog.Logger
}

func NewTravelHandler(service travelService, logger *slog.Logger) *TravelHandler {
	base := defaultLogger(logger)
	return &TravelHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TravelHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TravelHandler", operation, attrs...)
}

func (h *TravelHandler) CreateAccommodationCategory(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req accommodationCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateAccommodationCategory", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateAccommodationCategory", "principal_id", principal.GuestID)

	category, err := h.service.CreateAccommodationCategory(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "category creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("category_id", category.ID).InfoContext(r.Context(), "accommodation category created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, accommodationCategoryResponse{Category: toAccommodationCategoryDTO(category)})
}

func (h *TravelHandler) UpdateAccommodationCategory(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	categoryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(categoryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req accommodationCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateAccommodationCategory", "category_id", categoryID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateAccommodationCategory", "principal_id", principal.GuestID, "category_id", categoryID)

	category, err := h.service.UpdateAccommodationCategory(r.Context(), principal, categoryID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "category update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "accommodation category updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, accommodationCategoryResponse{Category: toAccommodationCategoryDTO(category)})
}

func (h *TravelHandler) DeleteAccommodationCategory(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	categoryID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(categoryID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteAccommodationCategory", "principal_id", principal.GuestID, "category_id", categoryID)

	if err := h.service.DeleteAccommodationCategory(r.Context(), principal, categoryID); err != nil {
		logger.ErrorContext(r.Context(), "category delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "accommodation category deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TravelHandler) ListAccommodationCategories(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	categories, err := h.service.ListAccommodationCategories(r.Context())
	if err != nil {
		h.log(r.Context(), "ListAccommodationCategories").ErrorContext(r.Context(), "category list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]accommodationCategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, toAccommodationCategoryDTO(category))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAccommodationCategoriesResponse{Categories: out})
}

func (h *TravelHandler) CreateAccommodationOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req accommodationOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateAccommodationOption", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode option request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "CreateAccommodationOption", "principal_id", principal.GuestID)

	option, err := h.service.CreateAccommodationOption(r.Context(), principal, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "option creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("option_id", option.ID).InfoContext(r.Context(), "accommodation option created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, accommodationOptionResponse{Option: toAccommodationOptionDTO(option)})
}

func (h *TravelHandler) GetAccommodationOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	optionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(optionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	option, err := h.service.GetAccommodationOption(r.Context(), optionID)
	if err != nil {
		h.log(r.Context(), "GetAccommodationOption", "option_id", optionID).ErrorContext(r.Context(), "option fetch failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, accommodationOptionResponse{Option: toAccommodationOptionDTO(option)})
}

func (h *TravelHandler) UpdateAccommodationOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	optionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(optionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req accommodationOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateAccommodationOption", "option_id", optionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode option update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "UpdateAccommodationOption", "principal_id", principal.GuestID, "option_id", optionID)

	option, err := h.service.UpdateAccommodationOption(r.Context(), principal, optionID, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "option update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "accommodation option updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, accommodationOptionResponse{Option: toAccommodationOptionDTO(option)})
}

func (h *TravelHandler) DeleteAccommodationOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	optionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(optionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteAccommodationOption", "principal_id", principal.GuestID, "option_id", optionID)

	if err := h.service.DeleteAccommodationOption(r.Context(), principal, optionID); err != nil {
		logger.ErrorContext(r.Context(), "option delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "accommodation option deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TravelHandler) ListAccommodationOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := h.service.ListAccommodationOptions(r.Context())
	if err != nil {
		h.log(r.Context(), "ListAccommodationOptions").ErrorContext(r.Context(), "option list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]accommodationOptionDTO, 0, len(options))
	for _, option := range options {
		out = append(out, toAccommodationOptionDTO(option))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listAccommodationOptionsResponse{Options: out})
}

func (h *TravelHandler) CreateTransportOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req transportOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateTransportOption", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode transport request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "CreateTransportOption", "principal_id", principal.GuestID)

	option, err := h.service.CreateTransportOption(r.Context(), principal, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "transport creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("option_id", option.ID).InfoContext(r.Context(), "transport option created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, transportOptionResponse{Option: toTransportOptionDTO(option)})
}

func (h *TravelHandler) UpdateTransportOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	optionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(optionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req transportOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateTransportOption", "option_id", optionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode transport update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "UpdateTransportOption", "principal_id", principal.GuestID, "option_id", optionID)

	option, err := h.service.UpdateTransportOption(r.Context(), principal, optionID, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "transport update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transport option updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, transportOptionResponse{Option: toTransportOptionDTO(option)})
}

func (h *TravelHandler) DeleteTransportOption(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	optionID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(optionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteTransportOption", "principal_id", principal.GuestID, "option_id", optionID)

	if err := h.service.DeleteTransportOption(r.Context(), principal, optionID); err != nil {
		logger.ErrorContext(r.Context(), "transport delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "transport option deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *TravelHandler) ListTransportOptions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	options, err := h.service.ListTransportOptions(r.Context())
	if err != nil {
		h.log(r.Context(), "ListTransportOptions").ErrorContext(r.Context(), "transport list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]transportOptionDTO, 0, len(options))
	for _, option := range options {
		out = append(out, toTransportOptionDTO(option))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTransportOptionsResponse{Options: out})
}

type accommodationCategoryRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

func (r accommodationCategoryRequest) toInput() application.AccommodationCategoryInput {
	return application.AccommodationCategoryInput{
		Name:         r.Name,
		DisplayOrder: r.DisplayOrder,
	}
}

type accommodationOptionRequest struct {
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Amenities     string   `json:"amenities"`
	Coordinates   string   `json:"coordinates"`
	PricePerNight *float64 `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	URL           string   `json:"url"`
	DisplayOrder  int      `json:"display_order"`
}

func (r accommodationOptionRequest) toInput() (application.AccommodationOptionInput, *application.ValidationError) {
	input := application.AccommodationOptionInput{
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Description:   r.Description,
		Amenities:     forms.SplitList(r.Amenities),
		PricePerNight: r.PricePerNight,
		Capacity:      r.Capacity,
		URL:           r.URL,
		DisplayOrder:  r.DisplayOrder,
	}

	coordinates, err := forms.ParseCoordinates(r.Coordinates)
	if err != nil {
		return input, &application.ValidationError{FieldErrors: map[string]string{
			"coordinates": "coordinates must be a longitude,latitude pair",
		}}
	}
	input.Coordinates = coordinates

	return input, nil
}

type transportOptionRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Departure    string `json:"departure"`
	Coordinates  string `json:"coordinates"`
	DisplayOrder int    `json:"display_order"`
}

func (r transportOptionRequest) toInput() (application.TransportOptionInput, *application.ValidationError) {
	input := application.TransportOptionInput{
		Name:         r.Name,
		Description:  r.Description,
		Departure:    r.Departure,
		DisplayOrder: r.DisplayOrder,
	}

	coordinates, err := forms.ParseCoordinates(r.Coordinates)
	if err != nil {
		return input, &application.ValidationError{FieldErrors: map[string]string{
			"coordinates": "coordinates must be a longitude,latitude pair",
		}}
	}
	input.Coordinates = coordinates

	return input, nil
}

type accommodationCategoryResponse struct {
	Category accommodationCategoryDTO `json:"category"`
}

type listAccommodationCategoriesResponse struct {
	Categories []accommodationCategoryDTO `json:"categories"`
}

type accommodationOptionResponse struct {
	Option accommodationOptionDTO `json:"option"`
}

type listAccommodationOptionsResponse struct {
	Options []accommodationOptionDTO `json:"options"`
}

type transportOptionResponse struct {
	Option transportOptionDTO `json:"option"`
}

type listTransportOptionsResponse struct {
	Options []transportOptionDTO `json:"options"`
}

type accommodationCategoryDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toAccommodationCategoryDTO(category persistence.AccommodationCategory) accommodationCategoryDTO {
	return accommodationCategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		DisplayOrder: category.DisplayOrder,
		CreatedAt:    category.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    category.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type accommodationOptionDTO struct {
	ID            string   `json:"id"`
	CategoryID    string   `json:"category_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Amenities     string   `json:"amenities,omitempty"`
	Coordinates   string   `json:"coordinates,omitempty"`
	PricePerNight *float64 `json:"price_per_night,omitempty"`
	Capacity      int      `json:"capacity"`
	URL           string   `json:"url,omitempty"`
	DisplayOrder  int      `json:"display_order"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toAccommodationOptionDTO(option persistence.AccommodationOption) accommodationOptionDTO {
	return accommodationOptionDTO{
		ID:            option.ID,
		CategoryID:    option.CategoryID,
		Name:          option.Name,
		Description:   option.Description,
		Amenities:     forms.JoinList(option.Amenities),
		Coordinates:   forms.FormatCoordinates(option.Coordinates),
		PricePerNight: option.PricePerNight,
		Capacity:      option.Capacity,
		URL:           option.URL,
		DisplayOrder:  option.DisplayOrder,
		CreatedAt:     option.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     option.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type transportOptionDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Departure    string `json:"departure,omitempty"`
	Coordinates  string `json:"coordinates,omitempty"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toTransportOptionDTO(option persistence.TransportOption) transportOptionDTO {
	return transportOptionDTO{
		ID:           option.ID,
		Name:         option.Name,
		Description:  option.Description,
		Departure:    option.Departure,
		Coordinates:  forms.FormatCoordinates(option.Coordinates),
		DisplayOrder: option.DisplayOrder,
		CreatedAt:    option.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    option.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
