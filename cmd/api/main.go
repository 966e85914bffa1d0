package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"resto/internal/api"
	"resto/internal/config"
	"resto/internal/database"
	"resto/internal/domain"
	"resto/internal/events"
	"resto/internal/export"
	"resto/internal/logging"
	"resto/internal/metrics"
	"resto/internal/repository"
	"resto/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := initDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions := initSessions(cfg, logger)
	eventBus := events.NewEventBus()

	httpServer := buildServer(cfg, db, sessions, eventBus, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, logger)
		go backup.Start(ctx)
	}

	return startServer(ctx, httpServer, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, &logger, closer, nil
}

func initDatabase(cfg *config.Config, logger *zerolog.Logger) (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return nil, err
	}

	adminHash := service.HashPassword(cfg.Auth.AdminPassword)
	if cfg.Auth.AdminPassword == "" {
		logger.Warn().Msg("auth.admin_password is empty, the seeded admin account will be unusable")
	}
	if err := db.Seed(context.Background(), cfg.Auth.AdminUsername, adminHash); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed database: %w", err)
	}
	return db, nil
}

// initSessions prefers Redis and falls back to the in-memory store when
// Redis is not configured or unreachable.
func initSessions(cfg *config.Config, logger *zerolog.Logger) domain.SessionRepository {
	ttl := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour
	memory := repository.NewMemorySessionRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory sessions")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, using in-memory sessions")
		_ = repository.Close(client)
		return memory
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	primary := repository.NewRedisSessionRepository(client, ttl)
	return repository.NewFailoverSessionRepository(primary, memory, logger)
}

func buildServer(
	cfg *config.Config,
	db *database.DB,
	sessions domain.SessionRepository,
	eventBus *events.EventBus,
	logger *zerolog.Logger,
) *api.HTTPServer {
	ttl := time.Duration(cfg.Auth.SessionTTLHours) * time.Hour

	subscribeEventLogging(eventBus, logger)

	svcs := api.Services{
		DB:           db,
		Tables:       service.NewTableService(db, logger),
		Reservations: service.NewReservationService(db, eventBus, logger),
		Orders:       service.NewOrderService(db, eventBus, logger),
		Menu:         service.NewMenuService(db, logger),
		Auth:         service.NewAuthService(db, sessions, ttl, logger),
		Analytics:    service.NewAnalyticsService(db, logger),
		Exporter:     export.NewExporter(db, cfg.Exports.Path, logger),
	}
	return api.NewHTTPServer(cfg.API, svcs, logger)
}

// subscribeEventLogging mirrors the domain event stream into the log so an
// operator can follow the floor without tailing the database.
func subscribeEventLogging(bus *events.EventBus, logger *zerolog.Logger) {
	for _, eventType := range []string{
		events.EventReservationCreated,
		events.EventReservationConfirmed,
		events.EventReservationCancelled,
		events.EventReservationNoShow,
		events.EventOrderCreated,
		events.EventOrderItemStatus,
		events.EventOrderClosed,
	} {
		bus.Subscribe(eventType, func(event *events.Event) error {
			logger.Info().
				Str("event_type", event.Type).
				RawJSON("payload", event.Payload).
				Msg("domain event")
			return nil
		})
	}
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
