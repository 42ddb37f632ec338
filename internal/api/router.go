package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/atomspace/internal/api/handlers"
	mw "github.com/Harshitk-cp/atomspace/internal/api/middleware"
	"github.com/Harshitk-cp/atomspace/internal/buildconfig"
	"github.com/Harshitk-cp/atomspace/internal/domain"
	"github.com/Harshitk-cp/atomspace/internal/service"
	"github.com/Harshitk-cp/atomspace/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the application wiring.
type Options struct {
	// DB backs the snapshot archive. Nil disables snapshots.
	DB             *pgxpool.Pool
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	Matcher        []service.MatcherOption

	// SnapshotInterval enables scheduled snapshots when DB is set.
	SnapshotInterval time.Duration
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router       *chi.Mux
	Knowledge    *service.KnowledgeService
	Snapshots    *service.SnapshotScheduler // nil unless scheduled snapshots are enabled
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(opts Options, logger *zap.Logger) *App {
	// Stores
	space := store.NewAtomSpace(store.WithLogger(logger))
	var snapshots domain.SnapshotStore
	if opts.DB != nil {
		snapshots = store.NewSnapshotStore(opts.DB)
	}

	// Services
	knowledgeSvc := service.NewKnowledgeService(space, snapshots, logger, opts.Matcher...)
	var schedulerSvc *service.SnapshotScheduler
	if snapshots != nil && opts.SnapshotInterval > 0 {
		schedulerSvc = service.NewSnapshotScheduler(knowledgeSvc, logger)
		schedulerSvc.SetInterval(opts.SnapshotInterval)
	}

	// Handlers
	atomHandler := handlers.NewAtomHandler(knowledgeSvc)
	spaceHandler := handlers.NewSpaceHandler(knowledgeSvc)
	queryHandler := handlers.NewQueryHandler(knowledgeSvc)
	typeHandler := handlers.NewTypeHandler(knowledgeSvc)
	snapshotHandler := handlers.NewSnapshotHandler(knowledgeSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Knowledge: knowledgeSvc,
		Snapshots: schedulerSvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	rps, burst := opts.RateLimitRPS, opts.RateLimitBurst
	if rps <= 0 {
		rps = 100
	}
	if burst <= 0 {
		burst = 20
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)                // Generate/extract request ID first
	r.Use(middleware.RealIP)           // Extract real IP
	r.Use(metricsCollector.Middleware) // Collect metrics
	r.Use(mw.Logging(logger))          // Log all requests
	r.Use(middleware.Recoverer)        // Recover from panics
	r.Use(mw.RateLimit(rps, burst))    // Rate limiting

	r.Get("/health", healthHandler(opts.DB))
	r.Get("/metrics", app.metricsHandler())
	r.Handle("/metrics/prometheus", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Route("/atoms", func(r chi.Router) {
			r.Get("/", atomHandler.List)
			r.Delete("/", atomHandler.Clear)
			r.Post("/nodes", atomHandler.CreateNode)
			r.Get("/nodes/lookup", atomHandler.LookupNode)
			r.Post("/links", atomHandler.CreateLink)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", atomHandler.GetByID)
				r.Delete("/", atomHandler.Delete)
				r.Get("/incoming", atomHandler.Incoming)
				r.Put("/tv", atomHandler.SetTruthValue)
			})
		})

		r.Route("/types", func(r chi.Router) {
			r.Get("/", typeHandler.List)
			r.Post("/", typeHandler.Register)
		})

		r.Route("/space", func(r chi.Router) {
			r.Get("/stats", spaceHandler.Stats)
			r.Get("/export", spaceHandler.Export)
		})

		r.Route("/query", func(r chi.Router) {
			r.Post("/", queryHandler.Query)
			r.Post("/match", queryHandler.Match)
		})

		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", snapshotHandler.Create)
			r.Get("/", snapshotHandler.List)
			r.Get("/{id}", snapshotHandler.GetByID)
		})
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": buildconfig.Version()})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		stats := app.Knowledge.Stats()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"atoms": map[string]any{
				"total": stats.Total,
				"nodes": stats.Nodes,
				"links": stats.Links,
			},
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.AtomStore     = (*store.AtomSpace)(nil)
	_ domain.SnapshotStore = (*store.SnapshotStore)(nil)
)
