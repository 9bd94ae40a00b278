// Package http is the REST surface of the back office. Routing is chi;
// every list endpoint speaks the shared query-state contract and every
// mutation goes through the role policy.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"forecourt/internal/amqp"
	"forecourt/internal/auth"
	"forecourt/internal/cache"
	"forecourt/internal/config"
	"forecourt/internal/log"
	"forecourt/internal/middleware/ratelimit"
	"forecourt/internal/middleware/security"
	"forecourt/internal/middleware/trace"
	"forecourt/internal/reconcile"
	"forecourt/internal/storage"
)

// Publisher queues import jobs for the worker.
type Publisher interface {
	PublishImportJob(ctx context.Context, msg *amqp.ImportJobMessage) error
}

type Server struct {
	cfg       config.Config
	store     *storage.SQLiteRepository
	tokens    *auth.Tokens
	publisher Publisher

	logger  *log.Logger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	reports *cache.LRU[[]reconcile.DayReport]
	caches  *cache.Manager
}

func NewServer(cfg config.Config, store *storage.SQLiteRepository, publisher Publisher) *Server {
	reports := cache.NewLRU[[]reconcile.DayReport](16, cfg.ReportCacheTTL)
	manager := cache.NewManager()
	manager.Register(reports)
	manager.StartCleanup(time.Minute)

	return &Server{
		cfg:       cfg,
		store:     store,
		tokens:    auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL),
		publisher: publisher,
		logger:    log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RequestsPerMinute,
		}),
		tracer:  trace.NewMiddleware(nil),
		reports: reports,
		caches:  manager,
	}
}

// Close releases background resources (cache cleanup, rate limiter).
func (s *Server) Close() {
	s.limiter.Stop()
	s.caches.Stop()
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.tracer.Middleware)
	r.Use(log.Middleware(s.logger))
	r.Use(security.Middleware(security.DefaultHeadersConfig()))
	r.Use(s.limiter.Middleware(trace.ClientIP,
		http.MethodPost, http.MethodPut, http.MethodDelete))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Group(func(protected chi.Router) {
			protected.Use(s.authMiddleware)
			protected.Post("/reset-password", s.handleResetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(s.authMiddleware)

		s.salesResource().mount(pr, "/sales")
		s.fuelsResource().mount(pr, "/fuels")
		pr.Route("/stock", func(r chi.Router) {
			s.snapshotsResource().mount(r, "/snapshots")
			s.categoriesResource().mount(r, "/categories")
		})
		s.employeesResource().mount(pr, "/employees")
		s.schedulesResource().mount(pr, "/schedules")
		s.loansResource().mount(pr, "/loans")
		s.accountsResource().mount(pr, "/accounts")
		s.equityResource().mount(pr, "/equity")
		s.invoicesResource().mount(pr, "/invoices")

		pr.Route("/reports", func(r chi.Router) {
			r.Use(s.requirePermission(auth.ResourceReports, auth.ActionRead))
			r.Get("/reconciliation", s.handleReconciliation)
			r.Get("/sales.xlsx", s.handleSalesWorkbook)
		})

		pr.Route("/imports", func(r chi.Router) {
			r.With(s.requirePermission(auth.ResourceImports, auth.ActionCreate)).
				Post("/", s.handleCreateImport)
			r.With(s.requirePermission(auth.ResourceImports, auth.ActionRead)).
				Get("/{id}", s.handleGetImport)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics := s.tracer.Snapshot()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"total_requests": metrics.TotalRequests,
		"total_errors":   metrics.TotalErrors,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
