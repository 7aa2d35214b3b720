package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/wedding-planner/internal/application"
	"github.com/example/wedding-planner/internal/config"
	httptransport "github.com/example/wedding-planner/internal/http"
	"github.com/example/wedding-planner/internal/logging"
	"github.com/example/wedding-planner/internal/media"
	"github.com/example/wedding-planner/internal/metrics"
	"github.com/example/wedding-planner/internal/persistence/sqlite"
	"github.com/example/wedding-planner/internal/realtime"
)

func main() {
	logger := logging.New(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local development convenience; missing .env files are not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	mediaStore, err := media.NewStore(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		logger.Error("failed to initialize media store", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	defer hub.Close()
	notify := application.ChangeNotifier(func(resource, action, recordID string) {
		hub.Publish(realtime.Event{Resource: resource, Action: action, RecordID: recordID})
	})

	idGenerator := uuid.NewString
	tokenGenerator := uuid.NewString
	now := time.Now

	guestRepo := sqlite.NewGuestRepository(pool)
	eventRepo := sqlite.NewEventRepository(pool)
	rsvpRepo := sqlite.NewRSVPRepository(pool)
	faqRepo := sqlite.NewFAQRepository(pool)
	accommodationRepo := sqlite.NewAccommodationRepository(pool)
	transportRepo := sqlite.NewTransportRepository(pool)
	flagRepo := sqlite.NewFlagRepository(pool)
	communicationRepo := sqlite.NewCommunicationRepository(pool)
	chatRepo := sqlite.NewChatRepository(pool)
	storyRepo := sqlite.NewStoryRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)

	authService := application.NewAuthService(guestRepo, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	guestService := application.NewGuestService(guestRepo, idGenerator, now, notify, logger)
	eventService := application.NewEventService(eventRepo, idGenerator, now, cfg.RSVPDeadlineLead, notify, logger)
	rsvpService := application.NewRSVPService(rsvpRepo, eventRepo, idGenerator, now, cfg.RSVPDeadlineLead, notify, logger)
	faqService := application.NewFAQService(faqRepo, idGenerator, now, notify, logger)
	travelService := application.NewTravelService(accommodationRepo, transportRepo, idGenerator, now, notify, logger)
	flagService := application.NewFlagService(flagRepo, idGenerator, now, notify, logger)
	communicationService := application.NewCommunicationService(communicationRepo, idGenerator, now, notify, logger)
	chatService := application.NewChatService(chatRepo, guestRepo, idGenerator, now, notify, logger)
	storyService := application.NewStoryService(storyRepo, idGenerator, now, notify, logger)

	httpMetrics := metrics.New()

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		Guests:         httptransport.NewGuestHandler(guestService, logger),
		Events:         httptransport.NewEventHandler(eventService, logger),
		RSVPs:          httptransport.NewRSVPHandler(rsvpService, logger),
		FAQ:            httptransport.NewFAQHandler(faqService, logger),
		Travel:         httptransport.NewTravelHandler(travelService, logger),
		Flags:          httptransport.NewFlagHandler(flagService, logger),
		Communications: httptransport.NewCommunicationHandler(communicationService, logger),
		Chats:          httptransport.NewChatHandler(chatService, logger),
		Stories:        httptransport.NewStoryHandler(storyService, logger),
		Media:          httptransport.NewMediaHandler(mediaStore, logger),
		MediaFiles:     http.FileServer(http.Dir(mediaStore.Root())),
		Realtime:       realtime.Handler(hub, logger),
		Metrics:        httpMetrics.Handler(),
		Sessions:       authService,
		Logger:         logger,
		Middleware: []func(http.Handler) http.Handler{
			httpMetrics.Middleware,
			httptransport.RequestLogger(logger),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("wedding planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
