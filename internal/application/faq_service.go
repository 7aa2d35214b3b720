package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/filter"
	"github.com/example/wedding-planner/internal/persistence"
)

// FAQService orchestrates FAQ categories and items. Listings are
// guest-readable; mutations are planner-only.
type FAQService struct {
	faq         persistence.FAQRepository
	idGenerator func() string
	now         func() time.Time
	notify      ChangeNotifier
	logger      *slog.Logger
}

// NewFAQService wires dependencies for the FAQ service.
func NewFAQService(faq persistence.FAQRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *FAQService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &FAQService{
		faq:         faq,
		idGenerator: idGenerator,
		now:         now,
		notify:      notify,
		logger:      defaultLogger(logger),
	}
}

func (s *FAQService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FAQService", operation, attrs...)
}

func (s *FAQService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceFAQ, action, recordID)
	}
}

// CreateCategory persists a new FAQ category for planners.
func (s *FAQService) CreateCategory(ctx context.Context, principal Principal, input FAQCategoryInput) (persistence.FAQCategory, error) {
	if s == nil {
		return persistence.FAQCategory{}, fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return persistence.FAQCategory{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.FAQCategory{}, vErr
	}

	now := s.now()
	category := persistence.FAQCategory{
		ID:           s.idGenerator(),
		Name:         name,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mapStoreError(s.faq.CreateCategory(ctx, category)); err != nil {
		return persistence.FAQCategory{}, err
	}

	s.publish(ActionInsert, category.ID)
	s.loggerWith(ctx, "CreateCategory", "category_id", category.ID).InfoContext(ctx, "faq category created")
	return category, nil
}

// UpdateCategory updates an existing FAQ category for planners.
func (s *FAQService) UpdateCategory(ctx context.Context, principal Principal, categoryID string, input FAQCategoryInput) (persistence.FAQCategory, error) {
	if s == nil {
		return persistence.FAQCategory{}, fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return persistence.FAQCategory{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.FAQCategory{}, vErr
	}

	category := persistence.FAQCategory{
		ID:           categoryID,
		Name:         name,
		DisplayOrder: input.DisplayOrder,
		UpdatedAt:    s.now(),
	}
	if err := mapStoreError(s.faq.UpdateCategory(ctx, category)); err != nil {
		return persistence.FAQCategory{}, err
	}

	s.publish(ActionUpdate, categoryID)
	return category, nil
}

// DeleteCategory removes a category and its items for planners.
func (s *FAQService) DeleteCategory(ctx context.Context, principal Principal, categoryID string) error {
	if s == nil {
		return fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.faq.DeleteCategory(ctx, categoryID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, categoryID)
	s.loggerWith(ctx, "DeleteCategory", "category_id", categoryID).InfoContext(ctx, "faq category deleted")
	return nil
}

// ListCategories returns categories in display order.
func (s *FAQService) ListCategories(ctx context.Context) ([]persistence.FAQCategory, error) {
	if s == nil {
		return nil, fmt.Errorf("FAQService is nil")
	}

	categories, err := s.faq.ListCategories(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return categories, nil
}

// CreateItem persists a new FAQ item for planners.
func (s *FAQService) CreateItem(ctx context.Context, principal Principal, input FAQItemInput) (persistence.FAQItem, error) {
	if s == nil {
		return persistence.FAQItem{}, fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return persistence.FAQItem{}, ErrUnauthorized
	}

	if vErr := validateFAQItemInput(input); vErr.HasErrors() {
		return persistence.FAQItem{}, vErr
	}

	now := s.now()
	item := persistence.FAQItem{
		ID:           s.idGenerator(),
		CategoryID:   strings.TrimSpace(input.CategoryID),
		Question:     strings.TrimSpace(input.Question),
		Answer:       strings.TrimSpace(input.Answer),
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mapStoreError(s.faq.CreateItem(ctx, item)); err != nil {
		return persistence.FAQItem{}, err
	}

	s.publish(ActionInsert, item.ID)
	s.loggerWith(ctx, "CreateItem", "item_id", item.ID).InfoContext(ctx, "faq item created")
	return item, nil
}

// UpdateItem updates an existing FAQ item for planners.
func (s *FAQService) UpdateItem(ctx context.Context, principal Principal, itemID string, input FAQItemInput) (persistence.FAQItem, error) {
	if s == nil {
		return persistence.FAQItem{}, fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return persistence.FAQItem{}, ErrUnauthorized
	}

	if vErr := validateFAQItemInput(input); vErr.HasErrors() {
		return persistence.FAQItem{}, vErr
	}

	existing, err := s.faq.GetItem(ctx, itemID)
	if err != nil {
		return persistence.FAQItem{}, mapStoreError(err)
	}

	existing.CategoryID = strings.TrimSpace(input.CategoryID)
	existing.Question = strings.TrimSpace(input.Question)
	existing.Answer = strings.TrimSpace(input.Answer)
	existing.DisplayOrder = input.DisplayOrder
	existing.UpdatedAt = s.now()

	if err := mapStoreError(s.faq.UpdateItem(ctx, existing)); err != nil {
		return persistence.FAQItem{}, err
	}

	s.publish(ActionUpdate, itemID)
	return existing, nil
}

// DeleteItem removes an FAQ item for planners.
func (s *FAQService) DeleteItem(ctx context.Context, principal Principal, itemID string) error {
	if s == nil {
		return fmt.Errorf("FAQService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.faq.DeleteItem(ctx, itemID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, itemID)
	return nil
}

// ListItems returns items in display order, filtered by the given query
// and category.
func (s *FAQService) ListItems(ctx context.Context, params ListFAQItemsParams) ([]persistence.FAQItem, error) {
	if s == nil {
		return nil, fmt.Errorf("FAQService is nil")
	}

	items, err := s.faq.ListItems(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return filter.FAQItems(items, params.Query, params.CategoryID), nil
}

func validateFAQItemInput(input FAQItemInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.CategoryID) == "" {
		vErr.add("category_id", "category is required")
	}
	if strings.TrimSpace(input.Question) == "" {
		vErr.add("question", "question is required")
	}
	if strings.TrimSpace(input.Answer) == "" {
		vErr.add("answer", "answer is required")
	}

	return vErr
}
