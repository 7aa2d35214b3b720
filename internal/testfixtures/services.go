package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

func (f *ServiceFactory) idFunc(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) nowFunc(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}

// GuestServiceDeps captures dependencies for constructing a guest service.
type GuestServiceDeps struct {
	Guests      persistence.GuestRepository
	IDGenerator func() string
	Now         func() time.Time
	Notify      application.ChangeNotifier
	Logger      *slog.Logger
}

// NewGuestService builds a guest service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewGuestService(deps GuestServiceDeps) *application.GuestService {
	return application.NewGuestService(
		deps.Guests,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.Notify,
		deps.Logger,
	)
}

// RSVPServiceDeps captures dependencies for constructing an RSVP service.
type RSVPServiceDeps struct {
	RSVPs        persistence.RSVPRepository
	Events       persistence.EventRepository
	IDGenerator  func() string
	Now          func() time.Time
	DeadlineLead time.Duration
	Notify       application.ChangeNotifier
	Logger       *slog.Logger
}

// NewRSVPService builds an RSVP service using the supplied dependencies.
func (f *ServiceFactory) NewRSVPService(deps RSVPServiceDeps) *application.RSVPService {
	return application.NewRSVPService(
		deps.RSVPs,
		deps.Events,
		f.idFunc(deps.IDGenerator),
		f.nowFunc(deps.Now),
		deps.DeadlineLead,
		deps.Notify,
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Guests         persistence.GuestRepository
	Sessions       persistence.SessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	return application.NewAuthService(
		deps.Guests,
		deps.Sessions,
		deps.PasswordVerify,
		f.idFunc(deps.TokenGenerator),
		f.nowFunc(deps.Now),
		deps.SessionTTL,
		deps.Logger,
	)
}
