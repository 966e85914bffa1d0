package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resto/internal/config"
	"resto/internal/database"
	"resto/internal/domain"
	"resto/internal/export"
	"resto/internal/metrics"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the restaurant API: floor status, reservations,
// orders, menu, analytics and report downloads.
type HTTPServer struct {
	cfg          config.APIConfig
	db           *database.DB
	tables       domain.TableService
	reservations domain.ReservationService
	orders       domain.OrderService
	menu         domain.MenuService
	auth         domain.AuthService
	analytics    domain.AnalyticsService
	exporter     *export.Exporter
	logger       *zerolog.Logger

	server  *http.Server
	keyAuth *HTTPAuth
}

type Services struct {
	DB           *database.DB
	Tables       domain.TableService
	Reservations domain.ReservationService
	Orders       domain.OrderService
	Menu         domain.MenuService
	Auth         domain.AuthService
	Analytics    domain.AnalyticsService
	Exporter     *export.Exporter
}

func NewHTTPServer(cfg config.APIConfig, svcs Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:          cfg,
		db:           svcs.DB,
		tables:       svcs.Tables,
		reservations: svcs.Reservations,
		orders:       svcs.Orders,
		menu:         svcs.Menu,
		auth:         svcs.Auth,
		analytics:    svcs.Analytics,
		exporter:     svcs.Exporter,
		logger:       logger,
	}
	srv.keyAuth = NewHTTPAuth(cfg)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}
	return srv
}

// Handler builds the full middleware chain around the route mux.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)

	mux.HandleFunc("GET /api/v1/tables", s.handleFloorStatus)
	mux.HandleFunc("POST /api/v1/tables", s.handleCreateTable)
	mux.HandleFunc("GET /api/v1/tables/{id}/availability", s.handleTableAvailability)
	mux.HandleFunc("GET /api/v1/tables/{id}/status", s.handleTableStatus)
	mux.HandleFunc("POST /api/v1/tables/{id}/active", s.handleSetTableActive)

	mux.HandleFunc("POST /api/v1/reservations", s.handleCreateReservation)
	mux.HandleFunc("GET /api/v1/reservations", s.handleListReservations)
	mux.HandleFunc("GET /api/v1/reservations/{id}", s.handleGetReservation)
	mux.HandleFunc("POST /api/v1/reservations/{id}/{action}", s.handleReservationAction)

	mux.HandleFunc("POST /api/v1/orders", s.handleCreateOrder)
	mux.HandleFunc("GET /api/v1/orders", s.handleActiveOrders)
	mux.HandleFunc("GET /api/v1/orders/{id}", s.handleGetOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/items", s.handleAddOrderItem)
	mux.HandleFunc("POST /api/v1/orders/{id}/items/{itemID}/status", s.handleOrderItemStatus)
	mux.HandleFunc("POST /api/v1/orders/{id}/close", s.handleCloseOrder)

	mux.HandleFunc("GET /api/v1/menu", s.handleListDishes)
	mux.HandleFunc("POST /api/v1/menu", s.handleCreateDish)
	mux.HandleFunc("POST /api/v1/menu/{id}/availability", s.handleDishAvailability)

	mux.HandleFunc("GET /api/v1/analytics/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/v1/reports/daily", s.handleDailyReport)

	return s.loggingMiddleware(corsMiddleware(s.keyAuth.Wrap(mux)))
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Api-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
