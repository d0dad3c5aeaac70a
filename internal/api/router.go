package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"profverify/internal/api/handlers"
	mw "profverify/internal/api/middleware"
	"profverify/internal/config"
	"profverify/internal/domain"
	"profverify/internal/evidence"
	"profverify/internal/llm"
	"profverify/internal/service"
	"profverify/internal/store"
)

// App holds the router and request metrics for lifecycle management.
type App struct {
	Router       *chi.Mux
	Verifier     *service.VerificationService
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the evidence sources, the reasoning client, and the
// storage backends into the HTTP surface. db is only used for the
// health probe and may be nil when Postgres is not configured.
func NewApp(db *pgxpool.Pool, profiles domain.ProfileStore, history domain.HistoryStore, logger *zap.Logger) *App {
	// Evidence sources
	wiki := evidence.NewWikipediaClient()
	scholar := evidence.NewSemanticScholarClient()
	web := evidence.NewWebSearchClient()

	// Reasoning client via provider factory. A missing key is not
	// fatal; the judge degrades to its heuristic.
	var llmClient domain.LLMClient
	llmProvider := config.LLMProvider()

	client, err := llm.NewClient(llmProvider, config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed, using heuristic judge",
			zap.String("provider", llmProvider), zap.Error(err))
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
		llmClient = client
	}

	// Services
	resolver := service.NewProfileResolver(service.DefaultLookupStrategies(profiles), logger)
	judge := service.NewJudge(llmClient, logger)
	verifySvc := service.NewVerificationService(wiki, scholar, web, resolver, judge, history, logger)

	// Handlers
	verifyHandler := handlers.NewVerifyHandler(verifySvc)
	historyHandler := handlers.NewHistoryHandler(history)
	profileHandler := handlers.NewProfileHandler(resolver)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Verifier:  verifySvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes. Auth is a no-op when no API key is
	// configured.
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		r.Post("/verify", verifyHandler.Verify)
		r.Get("/history", historyHandler.List)
		r.Get("/profiles", profileHandler.Get)
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
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.ProfileStore   = (*store.ProfileStore)(nil)
	_ domain.ProfileStore   = (*store.SQLiteStore)(nil)
	_ domain.ProfileStore   = (*store.FailoverStore)(nil)
	_ domain.HistoryStore   = (*store.HistoryStore)(nil)
	_ domain.HistoryStore   = (*store.SQLiteStore)(nil)
	_ domain.HistoryStore   = (*store.FailoverStore)(nil)
	_ domain.EvidenceSource = (*evidence.WikipediaClient)(nil)
	_ domain.EvidenceSource = (*evidence.SemanticScholarClient)(nil)
	_ domain.EvidenceSource = (*evidence.WebSearchClient)(nil)
	_ domain.LLMClient      = (*llm.GeminiClient)(nil)
	_ domain.LLMClient      = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient      = (*llm.MockClient)(nil)
)
