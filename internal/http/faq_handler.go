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
)

type faqService interface {
	CreateCategory(ctx context.Context, principal application.Principal, input application.FAQCategoryInput) (persistence.FAQCategory, error)
	UpdateCategory(ctx context.Context, principal application.Principal, categoryID string, input application.FAQCategoryInput) (persistence.FAQCategory, error)
	DeleteCategory(ctx context.Context, principal application.Principal, categoryID string) error
	ListCategories(ctx context.Context) ([]persistence.FAQCategory, error)
	CreateItem(ctx context.Context, principal application.Principal, input application.FAQItemInput) (persistence.FAQItem, error)
	UpdateItem(ctx context.Context, principal application.Principal, itemID string, input application.FAQItemInput) (persistence.FAQItem, error)
	DeleteItem(ctx context.Context, principal application.Principal, itemID string) error
	ListItems(ctx context.Context, params application.ListFAQItemsParams) ([]persistence.FAQItem, error)
}

type FAQHandler struct {
	service   faqService
	responder responder
	logger    *slog.Logger
}

func NewFAQHandler(service faqService, logger *slog.Logger) *FAQHandler {
	base := defaultLogger(logger)
	return &FAQHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FAQHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FAQHandler", operation, attrs...)
}

func (h *FAQHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req faqCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateCategory", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateCategory", "principal_id", principal.GuestID)

	category, err := h.service.CreateCategory(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "category creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("category_id", category.ID).InfoContext(r.Context(), "faq category created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, faqCategoryResponse{Category: toFAQCategoryDTO(category)})
}

func (h *FAQHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	var req faqCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateCategory", "category_id", categoryID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode category update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateCategory", "principal_id", principal.GuestID, "category_id", categoryID)

	category, err := h.service.UpdateCategory(r.Context(), principal, categoryID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "category update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faq category updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, faqCategoryResponse{Category: toFAQCategoryDTO(category)})
}

func (h *FAQHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
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
	logger := h.log(r.Context(), "DeleteCategory", "principal_id", principal.GuestID, "category_id", categoryID)

	if err := h.service.DeleteCategory(r.Context(), principal, categoryID); err != nil {
		logger.ErrorContext(r.Context(), "category delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faq category deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *FAQHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.log(r.Context(), "ListCategories").ErrorContext(r.Context(), "category list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]faqCategoryDTO, 0, len(categories))
	for _, category := range categories {
		out = append(out, toFAQCategoryDTO(category))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listFAQCategoriesResponse{Categories: out})
}

func (h *FAQHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req faqItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "CreateItem", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode item request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "CreateItem", "principal_id", principal.GuestID, "category_id", req.CategoryID)

	item, err := h.service.CreateItem(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "item creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("item_id", item.ID).InfoContext(r.Context(), "faq item created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, faqItemResponse{Item: toFAQItemDTO(item)})
}

func (h *FAQHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	itemID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(itemID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req faqItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateItem", "item_id", itemID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode item update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateItem", "principal_id", principal.GuestID, "item_id", itemID)

	item, err := h.service.UpdateItem(r.Context(), principal, itemID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "item update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faq item updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, faqItemResponse{Item: toFAQItemDTO(item)})
}

func (h *FAQHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	itemID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(itemID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "DeleteItem", "principal_id", principal.GuestID, "item_id", itemID)

	if err := h.service.DeleteItem(r.Context(), principal, itemID); err != nil {
		logger.ErrorContext(r.Context(), "item delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "faq item deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *FAQHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := h.service.ListItems(r.Context(), application.ListFAQItemsParams{
		Query:      r.URL.Query().Get("q"),
		CategoryID: r.URL.Query().Get("category_id"),
	})
	if err != nil {
		h.log(r.Context(), "ListItems").ErrorContext(r.Context(), "item list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]faqItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toFAQItemDTO(item))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listFAQItemsResponse{Items: out})
}

type faqCategoryRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

func (r faqCategoryRequest) toInput() application.FAQCategoryInput {
	return application.FAQCategoryInput{
		Name:         r.Name,
		DisplayOrder: r.DisplayOrder,
	}
}

type faqItemRequest struct {
	CategoryID   string `json:"category_id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	DisplayOrder int    `json:"display_order"`
}

func (r faqItemRequest) toInput() application.FAQItemInput {
	return application.FAQItemInput{
		CategoryID:   r.CategoryID,
		Question:     r.Question,
		Answer:       r.Answer,
		DisplayOrder: r.DisplayOrder,
	}
}

type faqCategoryResponse struct {
	Category faqCategoryDTO `json:"category"`
}

type listFAQCategoriesResponse struct {
	Categories []faqCategoryDTO `json:"categories"`
}

type faqItemResponse struct {
	Item faqItemDTO `json:"item"`
}

type listFAQItemsResponse struct {
	Items []faqItemDTO `json:"items"`
}

type faqCategoryDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toFAQCategoryDTO(category persistence.FAQCategory) faqCategoryDTO {
	return faqCategoryDTO{
		ID:           category.ID,
		Name:         category.Name,
		DisplayOrder: category.DisplayOrder,
		CreatedAt:    category.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    category.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type faqItemDTO struct {
	ID           string `json:"id"`
	CategoryID   string `json:"category_id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	DisplayOrder int    `json:"display_order"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toFAQItemDTO(item persistence.FAQItem) faqItemDTO {
	return faqItemDTO{
		ID:           item.ID,
		CategoryID:   item.CategoryID,
		Question:     item.Question,
		Answer:       item.Answer,
		DisplayOrder: item.DisplayOrder,
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
