// Package api serves every analytic query as a read-only HTTP operation that
// returns a shape-tagged result table.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/listenupapp/movielens/internal/catalog"
	"github.com/listenupapp/movielens/internal/links"
	"github.com/listenupapp/movielens/internal/metadata"
	"github.com/listenupapp/movielens/internal/ratelimit"
	"github.com/listenupapp/movielens/internal/ratings"
	"github.com/listenupapp/movielens/internal/result"
	"github.com/listenupapp/movielens/internal/tags"
	"github.com/listenupapp/movielens/internal/validation"
)

// Version is reported in the OpenAPI document.
const Version = "1.0.0"

// Services holds the analytic engines served by the API.
type Services struct {
	Catalog *catalog.Catalog
	Tags    *tags.Analytics
	Ratings *ratings.Engine
	Links   *links.Links
	Cache   *metadata.Cache
}

// Options tunes the server. Zero values select the defaults.
type Options struct {
	// EnrichRequestsPerMinute caps enrichment requests per client address.
	EnrichRequestsPerMinute int
	EnrichBurst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services      *Services
	router        *chi.Mux
	api           huma.API
	validator     *validation.Validator
	enrichLimiter *ratelimit.KeyedRateLimiter
	logger        *slog.Logger
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.EnrichRequestsPerMinute <= 0 {
		opts.EnrichRequestsPerMinute = 30
	}
	if opts.EnrichBurst <= 0 {
		opts.EnrichBurst = 5
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()

	s := &Server{
		services:      services,
		router:        router,
		validator:     validation.New(),
		enrichLimiter: NewRateLimiter(opts.EnrichRequestsPerMinute, time.Minute, opts.EnrichBurst),
		logger:        logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("MovieLens Analysis API", Version)
	humaConfig.Info.Description = "Distributions, rankings and IMDb enrichment over a bounded MovieLens slice."
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerMovieRoutes()
	s.registerTagRoutes()
	s.registerRatingRoutes()
	s.registerLinkRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	s.enrichLimiter.Stop()
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestMetrics)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
}

// TableOutput wraps a result table for Huma.
type TableOutput struct {
	Body result.Table
}

func tableOutput(t result.Tabler) *TableOutput {
	return &TableOutput{Body: t.Table()}
}

// TopInput is the common top-N query.
type TopInput struct {
	N int `query:"n" default:"5" validate:"gte=0,lte=1000" doc:"Number of entries to return"`
}
