package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fixora/backoffice/internal/adapter/http/response"
	"github.com/fixora/backoffice/internal/i18n"
	"github.com/fixora/backoffice/internal/infra/logger"
	apperror "github.com/fixora/backoffice/pkg/error"
)

// Server represents the HTTP server
type Server struct {
	addr    string
	handler http.Handler
	server  *http.Server
	logger  logger.Logger
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// NewServer creates a new HTTP server. limiter and auth may be nil.
func NewServer(
	config ServerConfig,
	logHandler *SystemLogHandler,
	log logger.Logger,
	limiter *RateLimiter,
	auth *AuthMiddleware,
) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, "ok", map[string]string{"status": "ok"})
	}).Methods("GET")

	api := router.NewRoute().Subrouter()
	if limiter != nil {
		api.Use(limiter.Middleware)
	}
	if auth != nil {
		api.Use(auth.RequireAdmin)
	}
	logHandler.RegisterRoutes(api)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.AppError(w, apperror.ErrNotFound, logHandler.t(r, i18n.RouteNotFound))
	})

	// Outside the router so preflight requests never hit method matching.
	var handler http.Handler = router
	handler = loggingMiddleware(log)(handler)
	handler = recoveryMiddleware(log)(handler)
	handler = corsMiddleware(config.CORSOrigins)(handler)
	handler = correlationMiddleware(handler)

	addr := net.JoinHostPort(config.Host, config.Port)

	return &Server{
		addr:    addr,
		handler: handler,
		logger:  log,
		server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Handler returns the fully wrapped request handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.addr})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
