package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/example/wedding-planner/internal/export"
	"github.com/example/wedding-planner/internal/filter"
	"github.com/example/wedding-planner/internal/persistence"
)

// CommunicationService orchestrates the guest message log. All operations
// are planner-only.
type CommunicationService struct {
	communications persistence.CommunicationRepository
	idGenerator    func() string
	now            func() time.Time
	notify         ChangeNotifier
	logger         *slog.Logger
}

// NewCommunicationService wires dependencies for the communication service.
func NewCommunicationService(communications persistence.CommunicationRepository, idGenerator func() string, now func() time.Time, notify ChangeNotifier, logger *slog.Logger) *CommunicationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &CommunicationService{
		communications: communications,
		idGenerator:    idGenerator,
		now:            now,
		notify:         notify,
		logger:         defaultLogger(logger),
	}
}

func (s *CommunicationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CommunicationService", operation, attrs...)
}

func (s *CommunicationService) publish(action, recordID string) {
	if s.notify != nil {
		s.notify(ResourceCommunications, action, recordID)
	}
}

// LogCommunication records a message in the log for planners.
func (s *CommunicationService) LogCommunication(ctx context.Context, principal Principal, input CommunicationInput) (communication persistence.Communication, err error) {
	if s == nil {
		err = fmt.Errorf("CommunicationService is nil")
		return
	}
	if !principal.CanManage() {
		err = ErrUnauthorized
		return
	}

	logger := s.loggerWith(ctx, "LogCommunication")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to log communication", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("communication_id", communication.ID).InfoContext(ctx, "communication logged")
	}()

	vErr := validateCommunicationInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	communication = persistence.Communication{
		ID:        s.idGenerator(),
		GuestID:   input.GuestID,
		Type:      input.Type,
		Direction: input.Direction,
		Subject:   strings.TrimSpace(input.Subject),
		Content:   input.Content,
		Profile:   input.Profile,
		CreatedAt: s.now(),
	}

	if err = mapStoreError(s.communications.CreateCommunication(ctx, communication)); err != nil {
		communication = persistence.Communication{}
		return
	}

	s.publish(ActionInsert, communication.ID)
	return
}

// GetCommunication returns a single log entry for planners.
func (s *CommunicationService) GetCommunication(ctx context.Context, principal Principal, id string) (persistence.Communication, error) {
	if s == nil {
		return persistence.Communication{}, fmt.Errorf("CommunicationService is nil")
	}
	if !principal.CanManage() {
		return persistence.Communication{}, ErrUnauthorized
	}

	communication, err := s.communications.GetCommunication(ctx, id)
	if err != nil {
		return persistence.Communication{}, mapStoreError(err)
	}
	return communication, nil
}

// DeleteCommunication removes a log entry for planners.
func (s *CommunicationService) DeleteCommunication(ctx context.Context, principal Principal, id string) error {
	if s == nil {
		return fmt.Errorf("CommunicationService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	if err := s.communications.DeleteCommunication(ctx, id); err != nil {
		return mapStoreError(err)
	}

	s.publish(ActionDelete, id)
	s.loggerWith(ctx, "DeleteCommunication", "communication_id", id).InfoContext(ctx, "communication deleted")
	return nil
}

// ListCommunications returns the log for planners, filtered by the given
// query, channel type, and direction. Store order is preserved.
func (s *CommunicationService) ListCommunications(ctx context.Context, params ListCommunicationsParams) ([]persistence.Communication, error) {
	if s == nil {
		return nil, fmt.Errorf("CommunicationService is nil")
	}
	if !params.Principal.CanManage() {
		return nil, ErrUnauthorized
	}

	communications, err := s.communications.ListCommunications(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return filter.Communications(communications, params.Query, params.Type, params.Direction), nil
}

// ExportCommunicationsCSV writes the message log as CSV for planners.
func (s *CommunicationService) ExportCommunicationsCSV(ctx context.Context, principal Principal, w io.Writer) error {
	if s == nil {
		return fmt.Errorf("CommunicationService is nil")
	}
	if !principal.CanManage() {
		return ErrUnauthorized
	}

	communications, err := s.communications.ListCommunications(ctx)
	if err != nil {
		return mapStoreError(err)
	}
	return export.Communications(w, communications)
}

func validateCommunicationInput(input CommunicationInput) *ValidationError {
	vErr := &ValidationError{}

	switch input.Type {
	case persistence.CommunicationEmail, persistence.CommunicationSMS, persistence.CommunicationWhatsApp:
	default:
		vErr.add("type", "type is invalid")
	}

	switch input.Direction {
	case persistence.DirectionInbound, persistence.DirectionOutbound:
	default:
		vErr.add("direction", "direction is invalid")
	}

	if strings.TrimSpace(input.Content) == "" {
		vErr.add("content", "content is required")
	}

	return vErr
}
