package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/persistence"
)

// TravelService orchestrates accommodation and transport information.
// Listings are guest-readable; mutations are planner-only.
type TravelService struct {
	accommodation persistence.AccommodationRepository
	transport     persistence.TransportRepository
	idGenerator   func() string
	now           func() time.Time
	notify        ChangeNotifier
	logger        *slog.Logger
}

// NewTravelService wires dependencies for the travel service.
func NewTravelService(accommodation persistence.AccommodationRepository, transport persistence.TransportRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *TravelService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TravelService{
		accommodation: accommodation,
		transport:     transport,
		idGenerator:   idGenerator,
		now:           now,
		notify:        notify,
		logger:        defaultLogger(logger),
	}
}

func (s *TravelService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TravelService", operation, attrs...)
}

func (s *TravelService) publish(resource, action, recordID string) {
	if s.notify != nil {
		s.notify(resource, action, recordID)
	}
}

// CreateAccommodationCategory persists a new category for planners.
func (s *TravelService) CreateAccommodationCategory(ctx context.Context, principal Principal, input AccommodationCategoryInput) (persistence.AccommodationCategory, error) {
	if s == nil {
		return persistence.AccommodationCategory{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.AccommodationCategory{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.AccommodationCategory{}, vErr
	}

	now := s.now()
	category := persistence.AccommodationCategory{
		ID:           s.idGenerator(),
		Name:         name,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mapStoreError(s.accommodation.CreateCategory(ctx, category)); err != nil {
		return persistence.AccommodationCategory{}, err
	}

	s.publish(ResourceAccommodation, ActionInsert, category.ID)
	s.loggerWith(ctx, "CreateAccommodationCategory", "category_id", category.ID).InfoContext(ctx, "accommodation category created")
	return category, nil
}

// UpdateAccommodationCategory updates an existing category for planners.
func (s *TravelService) UpdateAccommodationCategory(ctx context.Context, principal Principal, categoryID string, input AccommodationCategoryInput) (persistence.AccommodationCategory, error) {
	if s == nil {
		return persistence.AccommodationCategory{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.AccommodationCategory{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.AccommodationCategory{}, vErr
	}

	category := persistence.AccommodationCategory{
		ID:           categoryID,
		Name:         name,
		DisplayOrder: input.DisplayOrder,
		UpdatedAt:    s.now(),
	}
	if err := mapStoreError(s.accommodation.UpdateCategory(ctx, category)); err != nil {
		return persistence.AccommodationCategory{}, err
	}

	s.publish(ResourceAccommodation, ActionUpdate, categoryID)
	return category, nil
}

// DeleteAccommodationCategory removes a category and its options for
// planners.
func (s *TravelService) DeleteAccommodationCategory(ctx context.Context, principal Principal, categoryID string) error {
	if s == nil {
		return fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.accommodation.DeleteCategory(ctx, categoryID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ResourceAccommodation, ActionDelete, categoryID)
	return nil
}

// ListAccommodationCategories returns categories in display order.
func (s *TravelService) ListAccommodationCategories(ctx context.Context) ([]persistence.AccommodationCategory, error) {
	if s == nil {
		return nil, fmt.Errorf("TravelService is nil")
	}

	categories, err := s.accommodation.ListCategories(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return categories, nil
}

// CreateAccommodationOption persists a new option for planners.
func (s *TravelService) CreateAccommodationOption(ctx context.Context, principal Principal, input AccommodationOptionInput) (persistence.AccommodationOption, error) {
	if s == nil {
		return persistence.AccommodationOption{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.AccommodationOption{}, ErrUnauthorized
	}

	if vErr := validateAccommodationOptionInput(input); vErr.HasErrors() {
		return persistence.AccommodationOption{}, vErr
	}

	now := s.now()
	option := persistence.AccommodationOption{
		ID:            s.idGenerator(),
		CategoryID:    strings.TrimSpace(input.CategoryID),
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Amenities:     input.Amenities,
		Coordinates:   input.Coordinates,
		PricePerNight: input.PricePerNight,
		Capacity:      input.Capacity,
		URL:           strings.TrimSpace(input.URL),
		DisplayOrder:  input.DisplayOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := mapStoreError(s.accommodation.CreateOption(ctx, option)); err != nil {
		return persistence.AccommodationOption{}, err
	}

	s.publish(ResourceAccommodation, ActionInsert, option.ID)
	s.loggerWith(ctx, "CreateAccommodationOption", "option_id", option.ID).InfoContext(ctx, "accommodation option created")
	return option, nil
}

// GetAccommodationOption returns a single option.
func (s *TravelService) GetAccommodationOption(ctx context.Context, id string) (persistence.AccommodationOption, error) {
	if s == nil {
		return persistence.AccommodationOption{}, fmt.Errorf("TravelService is nil")
	}

	option, err := s.accommodation.GetOption(ctx, id)
	if err != nil {
		return persistence.AccommodationOption{}, mapStoreError(err)
	}
	return option, nil
}

// UpdateAccommodationOption updates an existing option for planners.
func (s *TravelService) UpdateAccommodationOption(ctx context.Context, principal Principal, optionID string, input AccommodationOptionInput) (persistence.AccommodationOption, error) {
	if s == nil {
		return persistence.AccommodationOption{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.AccommodationOption{}, ErrUnauthorized
	}

	if vErr := validateAccommodationOptionInput(input); vErr.HasErrors() {
		return persistence.AccommodationOption{}, vErr
	}

	existing, err := s.accommodation.GetOption(ctx, optionID)
	if err != nil {
		return persistence.AccommodationOption{}, mapStoreError(err)
	}

	existing.CategoryID = strings.TrimSpace(input.CategoryID)
	existing.Name = strings.TrimSpace(input.Name)
	existing.Description = input.Description
	existing.Amenities = input.Amenities
	existing.Coordinates = input.Coordinates
	existing.PricePerNight = input.PricePerNight
	existing.Capacity = input.Capacity
	existing.URL = strings.TrimSpace(input.URL)
	existing.DisplayOrder = input.DisplayOrder
	existing.UpdatedAt = s.now()

	if err := mapStoreError(s.accommodation.UpdateOption(ctx, existing)); err != nil {
		return persistence.AccommodationOption{}, err
	}

	s.publish(ResourceAccommodation, ActionUpdate, optionID)
	return existing, nil
}

// DeleteAccommodationOption removes an option for planners.
func (s *TravelService) DeleteAccommodationOption(ctx context.Context, principal Principal, optionID string) error {
	if s == nil {
		return fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.accommodation.DeleteOption(ctx, optionID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ResourceAccommodation, ActionDelete, optionID)
	return nil
}

// ListAccommodationOptions returns options in display order.
func (s *TravelService) ListAccommodationOptions(ctx context.Context) ([]persistence.AccommodationOption, error) {
	if s == nil {
		return nil, fmt.Errorf("TravelService is nil")
	}

	options, err := s.accommodation.ListOptions(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return options, nil
}

// CreateTransportOption persists a new transport option for planners.
func (s *TravelService) CreateTransportOption(ctx context.Context, principal Principal, input TransportOptionInput) (persistence.TransportOption, error) {
	if s == nil {
		return persistence.TransportOption{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.TransportOption{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.TransportOption{}, vErr
	}

	now := s.now()
	option := persistence.TransportOption{
		ID:           s.idGenerator(),
		Name:         name,
		Description:  input.Description,
		Departure:    strings.TrimSpace(input.Departure),
		Coordinates:  input.Coordinates,
		DisplayOrder: input.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := mapStoreError(s.transport.CreateOption(ctx, option)); err != nil {
		return persistence.TransportOption{}, err
	}

	s.publish(ResourceTransport, ActionInsert, option.ID)
	s.loggerWith(ctx, "CreateTransportOption", "option_id", option.ID).InfoContext(ctx, "transport option created")
	return option, nil
}

// UpdateTransportOption updates an existing transport option for planners.
func (s *TravelService) UpdateTransportOption(ctx context.Context, principal Principal, optionID string, input TransportOptionInput) (persistence.TransportOption, error) {
	if s == nil {
		return persistence.TransportOption{}, fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return persistence.TransportOption{}, ErrUnauthorized
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		return persistence.TransportOption{}, vErr
	}

	existing, err := s.transport.GetOption(ctx, optionID)
	if err != nil {
		return persistence.TransportOption{}, mapStoreError(err)
	}

	existing.Name = name
	existing.Description = input.Description
	existing.Departure = strings.TrimSpace(input.Departure)
	existing.Coordinates = input.Coordinates
	existing.DisplayOrder = input.DisplayOrder
	existing.UpdatedAt = s.now()

	if err := mapStoreError(s.transport.UpdateOption(ctx, existing)); err != nil {
		return persistence.TransportOption{}, err
	}

	s.publish(ResourceTransport, ActionUpdate, optionID)
	return existing, nil
}

// DeleteTransportOption removes a transport option for planners.
func (s *TravelService) DeleteTransportOption(ctx context.Context, principal Principal, optionID string) error {
	if s == nil {
		return fmt.Errorf("TravelService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.transport.DeleteOption(ctx, optionID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ResourceTransport, ActionDelete, optionID)
	return nil
}

// ListTransportOptions returns options in display order.
func (s *TravelService) ListTransportOptions(ctx context.Context) ([]persistence.TransportOption, error) {
	if s == nil {
		return nil, fmt.Errorf("TravelService is nil")
	}

	options, err := s.transport.ListOptions(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return options, nil
}

func validateAccommodationOptionInput(input AccommodationOptionInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.CategoryID) == "" {
		vErr.add("category_id", "category is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity must not be negative")
	}
	if input.PricePerNight != nil && *input.PricePerNight < 0 {
		vErr.add("price_per_night", "price must not be negative")
	}

	return vErr
}
