package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tonzxz12/Findr-sub000/internal/config"
	"github.com/tonzxz12/Findr-sub000/internal/handlers"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/security"
)

const shutdownTimeout = 30 * time.Second

// Handlers groups the route handlers mounted by the server
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Projects  *handlers.ProjectHandler
	Inventory *handlers.InventoryHandler
	Clients   *handlers.ClientHandler
	Users     *handlers.UserHandler
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     *logger.Logger
	router     *mux.Router
	handler    http.Handler
	httpServer *http.Server

	handlers       Handlers
	authMiddleware *middleware.AuthenticationMiddleware
	security       *security.SecurityMiddleware
	httpMetrics    *middleware.HTTPMetrics
	gatherer       prometheus.Gatherer
}

// NewServer creates a new HTTP server
func NewServer(
	config *config.Config,
	logger *logger.Logger,
	h Handlers,
	authMiddleware *middleware.AuthenticationMiddleware,
	securityMiddleware *security.SecurityMiddleware,
	httpMetrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
) *Server {
	server := &Server{
		config:         config,
		logger:         logger,
		router:         mux.NewRouter(),
		handlers:       h,
		authMiddleware: authMiddleware,
		security:       securityMiddleware,
		httpMetrics:    httpMetrics,
		gatherer:       gatherer,
	}

	server.setupRoutes()
	server.setupHTTPServer()

	return server
}

// Handler returns the routed handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// mux only runs router middleware on matched routes, so the chain that
	// must also see preflights and unknown paths wraps the router.
	s.handler = chain(s.router,
		middleware.RequestID,
		middleware.AccessLog(s.logger),
		s.security.SecurityHeaders,
		s.security.CORS,
		s.security.RateLimit,
		s.security.LimitBody,
		middleware.CompressionMiddleware,
	)
	s.router.Use(s.httpMetrics.Middleware)
	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)

	// Probes and metrics (no auth required)
	s.handlers.Health.RegisterRoutes(s.router)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.NoStore)
	api.NotFoundHandler = http.HandlerFunc(s.notFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.methodNotAllowed)

	s.handlers.Auth.RegisterPublicRoutes(api)

	// Signed-in routes that are not bound to a single tenant
	session := api.NewRoute().Subrouter()
	session.Use(s.authMiddleware.RequireJWT)
	s.handlers.Auth.RegisterRoutes(session)
	s.handlers.Clients.RegisterRoutes(session, s.authMiddleware.RequireAdmin)

	admin := session.NewRoute().Subrouter()
	admin.Use(s.authMiddleware.RequireAdmin)
	s.handlers.Users.RegisterRoutes(admin)

	// Tenant-scoped routes
	scoped := api.NewRoute().Subrouter()
	scoped.Use(s.authMiddleware.RequireJWT, s.authMiddleware.RequireTenant)
	s.handlers.Dashboard.RegisterRoutes(scoped)
	s.handlers.Projects.RegisterRoutes(scoped)
	s.handlers.Inventory.RegisterRoutes(scoped)
}

// setupHTTPServer configures the HTTP server
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(s.config.Server.Host, s.config.Server.Port),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}
}

// Listen binds the configured address. Serve must be called with the
// returned listener.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return ln, nil
}

// Serve blocks until the server is shut down
func (s *Server) Serve(ln net.Listener) error {
	s.logger.WithField("addr", ln.Addr().String()).Info("Starting HTTP server")

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.WithError(err).Error("HTTP server error")
		return err
	}
	return nil
}

// Start listens on the configured address and serves until shutdown
func (s *Server) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
	}

	return s.httpServer.Shutdown(ctx)
}

// chain applies mws so that the first one is outermost
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusNotFound, middleware.ErrorResponse{
		Error:     "route not found",
		Status:    http.StatusNotFound,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusMethodNotAllowed, middleware.ErrorResponse{
		Error:     "method not allowed",
		Status:    http.StatusMethodNotAllowed,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
