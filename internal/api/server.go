// Package api serves clarifier's HTTP interface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bimmerbailey/clarifier/internal/gate"
	"github.com/bimmerbailey/clarifier/internal/recommend"
)

const (
	defaultRequestTimeout  = 90 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// Recommender produces recommendations. *recommend.Service implements it.
type Recommender interface {
	Recommend(ctx context.Context, modelID string, req recommend.Request) (*recommend.Response, error)
}

// Options configures a Server.
type Options struct {
	// Address is the TCP listen address, e.g. ":8080".
	Address string

	Gate        *gate.Gate
	Recommender Recommender

	// ModelID is passed to every inference call. Empty makes the
	// recommendation route answer 500.
	ModelID string

	// EnvPrefix additionally mounts the recommendation route under
	// "/<prefix>/". Empty disables it.
	EnvPrefix string

	// Reported by GET /health.
	Strategy     string
	ProviderName string
	ConfigSource string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end.
type Server struct {
	opts    Options
	logger  *slog.Logger
	handler http.Handler
}

// NewServer builds the router. It does not listen.
func NewServer(opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if opts.Gate == nil || opts.Recommender == nil {
		return nil, errors.New("gate and recommender are required")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	opts.EnvPrefix = strings.Trim(strings.ToLower(opts.EnvPrefix), "/ ")

	s := &Server{opts: opts, logger: logger}
	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Timeout(s.opts.RequestTimeout),
	)

	r.Get("/health", s.getHealth)

	gated := s.opts.Gate.Middleware(s.writeError)
	r.With(gated).Post("/recommendation", s.errorHandler(s.postRecommendation))
	if s.opts.EnvPrefix != "" {
		r.With(gated).Post("/"+s.opts.EnvPrefix+"/recommendation", s.errorHandler(s.postRecommendation))
	}
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve listens on the configured address until ctx is cancelled, then shuts
// down gracefully. Requests already in flight keep running until they finish
// or the shutdown timeout expires.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Address, err)
	}
	return s.serve(ctx, listener)
}

func (s *Server) serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "address", listener.Addr().String())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			s.logger.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
