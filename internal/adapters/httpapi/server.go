// Package httpapi exposes the lookup engine over HTTP for dashboards and overlays.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// Engine is the part of lookup.Controller the HTTP API needs
type Engine interface {
	Enqueue(target *system.Target)
	StatusSnapshot() (string, time.Time)
	Running() bool
	WorkerState() lookup.WorkerState
	Pending() int
}

var _ Engine = (*lookup.Controller)(nil)

// RouterOption configures the router
type RouterOption func(*routerConfig)

type routerConfig struct {
	middlewares    []func(http.Handler) http.Handler
	metricsPath    string
	metricsHandler http.Handler
	logger         common.Logger
}

// WithMiddlewares adds middleware to the router
func WithMiddlewares(mw ...func(http.Handler) http.Handler) RouterOption {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetrics serves handler at path
func WithMetrics(path string, handler http.Handler) RouterOption {
	return func(cfg *routerConfig) {
		cfg.metricsPath = path
		cfg.metricsHandler = handler
	}
}

// WithRouterLogger sets the logger used for request and enqueue traces
func WithRouterLogger(logger common.Logger) RouterOption {
	return func(cfg *routerConfig) { cfg.logger = logger }
}

// NewRouter creates the HTTP router for engine
func NewRouter(engine Engine, opts ...RouterOption) *chi.Mux {
	cfg := &routerConfig{logger: common.NoOpLogger()}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(contextLogger(cfg.logger))
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	h := &handlers{engine: engine}
	r.Get("/healthz", h.health)
	r.Get("/status", h.status)
	r.Post("/targets", h.enqueue)
	if cfg.metricsHandler != nil {
		r.Handle(cfg.metricsPath, cfg.metricsHandler)
	}

	return r
}

// contextLogger makes logger available to handlers through the request context
func contextLogger(logger common.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(common.WithLogger(r.Context(), logger)))
		})
	}
}

// LoggingMiddleware logs HTTP requests at debug level
func LoggingMiddleware(logger common.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Log(common.LevelDebug, fmt.Sprintf("HTTP %s %s %d", r.Method, r.URL.Path, ww.Status()), map[string]interface{}{
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			})
		})
	}
}

// Server runs the router on a TCP address
type Server struct {
	httpServer      *http.Server
	logger          common.Logger
	shutdownTimeout time.Duration
}

// NewServer creates a server for handler listening on address
func NewServer(address string, handler http.Handler, logger common.Logger, shutdownTimeout time.Duration) *Server {
	if logger == nil {
		logger = common.NoOpLogger()
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}
}

// Serve listens on the configured address until ctx is done
func (s *Server) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.ServeListener(ctx, lis)
}

// ServeListener serves on lis until ctx is done, then shuts down gracefully
func (s *Server) ServeListener(ctx context.Context, lis net.Listener) error {
	s.logger.Log(common.LevelInfo, "HTTP API listening", map[string]interface{}{
		"address": lis.Addr().String(),
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(lis)
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	<-errChan
	return nil
}
