package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/services"
	"marquee/internal/services/tmdb"
)

const component = "server"

// Server relays search requests to the metadata provider.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	searcher tmdb.Searcher
	version  string

	listener net.Listener
	server   *http.Server
	stopOnce sync.Once
}

// New assembles the router and handlers around the provided searcher.
func New(cfg *config.Config, searcher tmdb.Searcher, version string, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "configuration is required", nil)
	}
	if searcher == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "new", "searcher is required", nil)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Server{
		cfg:      cfg,
		logger:   logger.With(logging.String(logging.FieldComponent, component)),
		searcher: searcher,
		version:  strings.TrimSpace(version),
	}

	router := chi.NewRouter()
	router.Use(srv.requestID)
	router.Use(srv.requestLogger)
	router.Use(middleware.Recoverer)
	if cfg.CORS.Enabled {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader},
		}))
	}

	router.Get("/", srv.handleHome)
	router.Get("/healthz", srv.handleHealth)
	router.Post("/recommend/movie", srv.handleRecommendMovie)
	router.Post("/recommend/tv", srv.handleRecommendTV)

	srv.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start binds the configured address and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, component, "start", fmt.Sprintf("listen on %s", s.cfg.Server.Bind), err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop drains in-flight requests and closes the listener. It is safe to call
// from multiple goroutines; later callers block until the first finishes.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
		if s.listener != nil {
			_ = s.listener.Close()
		}
	})
}

// Addr reports the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the assembled router, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
