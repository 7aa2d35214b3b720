package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/forms"
	"github.com/example/wedding-planner/internal/persistence"
)

// FlagService orchestrates typed feature flags with per-user targeting.
type FlagService struct {
	flags       persistence.FlagRepository
	idGenerator func() string
	now         func() time.Time
	notify      ChangeNotifier
	logger      *slog.Logger
}

// NewFlagService wires dependencies for the flag service.
func NewFlagService(flags persistence.FlagRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *FlagService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &FlagService{
		flags:       flags,
		idGenerator: idGenerator,
		now:         now,
		notify:      notify,
		logger:      defaultLogger(logger),
	}
}

func (s *FlagService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FlagService", operation, attrs...)
}

func (s *FlagService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceFlags, action, recordID)
	}
}

// CreateFlag validates input and persists a new flag for planners. The
// default value must parse under the declared type.
func (s *FlagService) CreateFlag(ctx context.Context, principal Principal, input FlagInput) (flag persistence.FeatureFlag, err error) {
	if s == nil {
		err = fmt.Errorf("FlagService is nil")
		return
	}
	if !principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "CreateFlag", "key", input.Key)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create flag", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("flag_id", flag.ID).InfoContext(ctx, "flag created")
	}()

	normalized := normalizeFlagInput(input)
	vErr := validateFlagInput(normalized)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	flag = persistence.FeatureFlag{
		ID:            s.idGenerator(),
		Key:           normalized.Key,
		Description:   normalized.Description,
		Enabled:       normalized.Enabled,
		Type:          normalized.Type,
		DefaultValue:  normalized.DefaultValue,
		TargetUsers:   normalized.TargetUsers,
		ExcludedUsers: normalized.ExcludedUsers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err = mapStoreError(s.flags.CreateFlag(ctx, flag)); err != nil {
		flag = persistence.FeatureFlag{}
		return
	}

	s.publish(ActionInsert, flag.ID)
	return
}

// GetFlag returns a single flag for planners.
func (s *FlagService) GetFlag(ctx context.Context, principal Principal, id string) (persistence.FeatureFlag, error) {
	if s == nil {
		return persistence.FeatureFlag{}, fmt.Errorf("FlagService is nil")
	}
	if !principal.CanManage() {
		return persistence.FeatureFlag{}, ErrUnauthorized
	}

	flag, err := s.flags.GetFlag(ctx, id)
	if err != nil {
		return persistence.FeatureFlag{}, mapStoreError(err)
	}
	return flag, nil
}

// UpdateFlag validates input and updates an existing flag for planners.
func (s *FlagService) UpdateFlag(ctx context.Context, principal Principal, flagID string, input FlagInput) (persistence.FeatureFlag, error) {
	if s == nil {
		return persistence.FeatureFlag{}, fmt.Errorf("FlagService is nil")
	}
	if !principal.CanManage() {
		return persistence.FeatureFlag{}, ErrUnauthorized
	}

	normalized := normalizeFlagInput(input)
	if vErr := validateFlagInput(normalized); vErr.HasErrors() {
		return persistence.FeatureFlag{}, vErr
	}

	existing, err := s.flags.GetFlag(ctx, flagID)
	if err != nil {
		return persistence.FeatureFlag{}, mapStoreError(err)
	}

	existing.Key = normalized.Key
	existing.Description = normalized.Description
	existing.Enabled = normalized.Enabled
	existing.Type = normalized.Type
	existing.DefaultValue = normalized.DefaultValue
	existing.TargetUsers = normalized.TargetUsers
	existing.ExcludedUsers = normalized.ExcludedUsers
	existing.UpdatedAt = s.now()

	if err := mapStoreError(s.flags.UpdateFlag(ctx, existing)); err != nil {
		return persistence.FeatureFlag{}, err
	}

	s.publish(ActionUpdate, flagID)
	return existing, nil
}

// DeleteFlag removes a flag for planners.
func (s *FlagService) DeleteFlag(ctx context.Context, principal Principal, flagID string) error {
	if s == nil {
		return fmt.Errorf("FlagService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.flags.DeleteFlag(ctx, flagID); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, flagID)
	s.loggerWith(ctx, "DeleteFlag", "flag_id", flagID).InfoContext(ctx, "flag deleted")
	return nil
}

// ListFlags returns all flags for planners.
func (s *FlagService) ListFlags(ctx context.Context, principal Principal) ([]persistence.FeatureFlag, error) {
	if s == nil {
		return nil, fmt.Errorf("FlagService is nil")
	}
	if !principal.CanManage() {
		return nil, ErrUnauthorized
	}

	flags, err := s.flags.ListFlags(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return flags, nil
}

// Evaluate resolves a flag for a user. Exclusion wins over targeting; a
// non-empty target list limits the flag to listed users. The typed default
// value is returned either way.
func (s *FlagService) Evaluate(ctx context.Context, key, userID string) (FlagEvaluation, error) {
	if s == nil {
		return FlagEvaluation{}, fmt.Errorf("FlagService is nil")
	}

	flag, err := s.flags.GetFlagByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return FlagEvaluation{}, mapStoreError(err)
	}

	value, err := forms.ParseFlagValue(flag.Type, flag.DefaultValue)
	if err != nil {
		// Stored value no longer parses under its type; treat as off.
		s.loggerWith(ctx, "Evaluate", "key", flag.Key).ErrorContext(ctx, "stored flag value is invalid", "error", err)
		return FlagEvaluation{Key: flag.Key}, nil
	}

	enabled := flag.Enabled
	switch {
	case !enabled:
	case slices.Contains(flag.ExcludedUsers, userID):
		enabled = false
	case len(flag.TargetUsers) > 0 && !slices.Contains(flag.TargetUsers, userID):
		enabled = false
	}

	return FlagEvaluation{Key: flag.Key, Enabled: enabled, Value: value}, nil
}

func normalizeFlagInput(input FlagInput) FlagInput {
	normalized := input
	normalized.Key = strings.TrimSpace(input.Key)
	normalized.Description = strings.TrimSpace(input.Description)
	if normalized.Type == "" {
		normalized.Type = persistence.FlagTypeBoolean
	}
	return normalized
}

func validateFlagInput(input FlagInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Key == "" {
		vErr.add("key", "key is required")
	}

	switch input.Type {
	case persistence.FlagTypeBoolean, persistence.FlagTypeString,
		persistence.FlagTypeNumber, persistence.FlagTypeJSON:
		if _, err := forms.ParseFlagValue(input.Type, input.DefaultValue); err != nil {
			vErr.add("default_value", err.Error())
		}
	default:
		vErr.add("type", "type is invalid")
	}

	return vErr
}
