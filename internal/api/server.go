// Package api serves listening stats as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aquafemi/libi/internal/activity"
	"github.com/aquafemi/libi/internal/stats"
	"github.com/aquafemi/libi/pkg/lastfm"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// DefaultAddr is the default listen address.
const DefaultAddr = "127.0.0.1:8787"

// Stats is the stats service the server exposes.
type Stats interface {
	TopArtists(ctx context.Context, user string, period lastfm.Period, limit int) ([]stats.Artist, error)
	TopTracks(ctx context.Context, user string, period lastfm.Period, limit int) ([]stats.Track, error)
	ArtistDetail(ctx context.Context, user, artist string) (*stats.ArtistDetail, error)
	Album(ctx context.Context, user, artist, album string) (*stats.AlbumDetail, error)
	Recommendations(ctx context.Context, user string) ([]stats.Recommendation, error)
	Search(ctx context.Context, query string, limit int) ([]stats.SearchResult, error)
}

// Snapshots persists the last recent-activity list per user.
type Snapshots interface {
	SaveSnapshot(ctx context.Context, username string, v interface{}) error
	LoadSnapshot(ctx context.Context, username string, v interface{}) (time.Time, error)
}

// Config holds server configuration.
type Config struct {
	Addr     string
	Recent   activity.Config
	PageSize int
}

// Server is the HTTP server for the JSON API.
type Server struct {
	router    chi.Router
	server    *http.Server
	stats     Stats
	source    activity.Source
	snapshots Snapshots
	cfg       Config
	logger    zerolog.Logger
}

// NewServer creates a server. snapshots may be nil.
func NewServer(cfg Config, st Stats, source activity.Source, snapshots Snapshots, logger zerolog.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	router := chi.NewRouter()
	s := &Server{
		router:    router,
		stats:     st,
		source:    source,
		snapshots: snapshots,
		cfg:       cfg,
		logger:    logger.With().Str("component", "api").Logger(),
	}

	// Configure middleware
	s.setupMiddleware()

	// Configure routes
	s.setupRoutes()

	// Create HTTP server
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute, // recent enrichment can take a while
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Route("/users/{user}", func(r chi.Router) {
			r.Get("/recent", s.handleRecent)
			r.Get("/top/artists", s.handleTopArtists)
			r.Get("/top/tracks", s.handleTopTracks)
			r.Get("/artists/{artist}", s.handleArtist)
			r.Get("/artists/{artist}/albums/{album}", s.handleAlbum)
			r.Get("/recommendations", s.handleRecommendations)
		})
		r.Get("/search/artists", s.handleSearch)
		r.Get("/earnings", s.handleEarnings)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	})
}

// ServeHTTP lets the server be used as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("Starting API server")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutting down API server")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info().Msg("API server stopped")
	return nil
}

// requestLogger logs each request through zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Str("request_id", middleware.GetReqID(r.Context())).
			Dur("took", time.Since(start)).
			Msg("Request")
	})
}
