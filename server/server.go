package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/foundation/component"
	"github.com/kbukum/foundation/logger"
	"github.com/kbukum/foundation/server/endpoint"
	"github.com/kbukum/foundation/server/middleware"
)

const componentName = "diagnostics-server"

var (
	_ component.Component   = (*Server)(nil)
	_ component.Describable = (*Server)(nil)
)

// Server is the diagnostics HTTP server.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     Config
	log        *logger.Logger

	mu       sync.RWMutex
	listener net.Listener
}

// New creates a Server with the standard middleware applied. Routes are added
// with RegisterEndpoints or through Engine.
func New(cfg Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	if log.GetLogger().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: gin.New(),
		config: cfg,
		log:    log.WithComponent("server"),
	}
	s.engine.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		middleware.RequestLogger(s.log),
	)

	// h2c lets HTTP/2 clients connect without TLS.
	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h2c.NewHandler(s.engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}
	return s
}

// Engine returns the Gin engine for additional routes.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the root handler, including h2c support.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Deps are the sources the default endpoints report on.
type Deps struct {
	ServiceName string
	Health      endpoint.HealthChecker
	Describe    endpoint.Describer
	Environment endpoint.Environment
}

// RegisterEndpoints registers the diagnostics routes. Endpoints whose source
// is nil are skipped, except /health and /info which always exist.
func (s *Server) RegisterEndpoints(d Deps) {
	s.engine.GET("/health", endpoint.Health(d.ServiceName, d.Health))
	s.engine.GET("/ready", endpoint.Readiness(d.ServiceName, d.Health))
	s.engine.GET("/info", endpoint.Info(d.ServiceName, d.Describe))
	if d.Environment != nil {
		s.engine.GET("/environment", endpoint.EnvironmentReport(d.Environment))
		s.engine.GET("/environment/properties/:name", endpoint.Property(d.Environment))
	}
}

// Start binds the port and serves in the background. It returns once the
// listener is bound.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("server failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
		}
	}()

	s.log.Info("diagnostics server started", map[string]interface{}{
		"addr": listener.Addr().String(),
	})
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Error("server shutdown error", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.log.Info("diagnostics server stopped")
	return nil
}

// Addr returns the bound address once started, else the configured one.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Name implements component.Component.
func (s *Server) Name() string { return componentName }

// Health implements component.Component.
func (s *Server) Health(_ context.Context) component.Health {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: "not listening",
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe implements component.Describable.
func (s *Server) Describe() component.Description {
	return component.Description{
		Name:    "Diagnostics server",
		Type:    "server",
		Details: s.Addr(),
	}
}
