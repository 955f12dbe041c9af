package rest

import (
	"context"
	"net/http"

	"memebrowser/application/ports"
	querybus "memebrowser/application/queries/bus"
	"memebrowser/interfaces/http/rest/handlers"
	"memebrowser/interfaces/http/rest/middleware"
	pkgerrors "memebrowser/pkg/errors"
	"memebrowser/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Pinger reports whether the store can serve requests
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options toggles optional parts of the HTTP surface
type Options struct {
	EnableCORS bool
	StaticDir  string
	Debug      bool
}

// Router creates and configures the HTTP router
type Router struct {
	queryBus *querybus.QueryBus
	store    ports.RecordStore
	pinger   Pinger
	defaults handlers.PageDefaults
	metrics  *observability.Collector
	options  Options
	logger   *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	queryBus *querybus.QueryBus,
	store ports.RecordStore,
	pinger Pinger,
	defaults handlers.PageDefaults,
	metrics *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		queryBus: queryBus,
		store:    store,
		pinger:   pinger,
		defaults: defaults,
		metrics:  metrics,
		options:  options,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.options.Debug)
	memeHandler := handlers.NewMemeHandler(rt.queryBus, rt.store, rt.defaults, errorHandler, rt.logger)

	router.Route("/memes", func(r chi.Router) {
		r.Get("/", memeHandler.ListMemes)
		r.Get("/search", memeHandler.SearchMemes)
		r.Get("/image/{name}", memeHandler.GetImage)
		r.Head("/image/{name}", memeHandler.GetImage)
	})

	// Frontend bundle
	if rt.options.StaticDir != "" {
		router.Handle("/*", http.FileServer(http.Dir(rt.options.StaticDir)))
	}

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the record directory can be listed
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := rt.pinger.Ping(req.Context()); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
