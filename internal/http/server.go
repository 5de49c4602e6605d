// Package http is the web layer: it renders the finance pages from backend
// data, owns the session cookie, and enforces the route policy.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"aimms/internal/api"
	"aimms/internal/authz"
	"aimms/internal/cache"
	"aimms/internal/export"
	"aimms/internal/middleware/ratelimit"
	"aimms/internal/middleware/security"
	"aimms/internal/middleware/trace"
	"aimms/internal/session"
	"aimms/internal/storage"
	appweb "aimms/web"
)

// Options collects everything the server needs. Store and Exporter may be
// nil; the features backed by them degrade instead of failing startup.
type Options struct {
	Addr     string
	Backend  api.Service
	Sessions *session.Manager
	Policy   *authz.Policy
	Store    *storage.Store
	Exporter *export.Exporter

	CacheTTL  time.Duration
	CacheSize int
}

type Server struct {
	http.Server

	templates *template.Template
	backend   api.Service
	sessions  *session.Manager
	policy    *authz.Policy
	store     *storage.Store
	exporter  *export.Exporter

	tracer   *trace.Middleware
	detector *security.Detector
	headers  *security.HeadersMiddleware
	limiter  *ratelimit.Limiter

	profileCache *cache.LRUCache[*api.BudgetProfile]
	budgetsCache *cache.LRUCache[[]api.Budget]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(opts Options) *Server {
	if opts.Policy == nil {
		opts.Policy = authz.Default()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}

	mux := http.NewServeMux()
	detector := security.NewDetector()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: nil, // set below once the chain is assembled
		},
		backend:  opts.Backend,
		sessions: opts.Sessions,
		policy:   opts.Policy,
		store:    opts.Store,
		exporter: opts.Exporter,

		tracer:   trace.NewMiddleware(detector.ExtractClientIP),
		detector: detector,
		headers:  security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),

		profileCache: cache.NewLRUCache[*api.BudgetProfile](opts.CacheSize, opts.CacheTTL),
		budgetsCache: cache.NewLRUCache[[]api.Budget](opts.CacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(slog.Default()),
	}

	s.cacheManager.Register(s.profileCache)
	s.cacheManager.Register(s.budgetsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	// Auth
	mux.HandleFunc("/login-user", s.guard(s.handleUserLogin))
	mux.HandleFunc("/login-admin", s.guard(s.handleAdminLogin))
	mux.HandleFunc("/signup", s.guard(s.handleSignup))
	mux.HandleFunc("/logout", s.guard(s.handleLogout))

	// Pages
	mux.HandleFunc("/", s.guard(s.handleDashboard))
	mux.HandleFunc("/budgets", s.guard(s.handleBudgets))
	mux.HandleFunc("/onboarding", s.guard(s.handleOnboarding))
	mux.HandleFunc("/transactions", s.guard(s.handleTransactions))
	mux.HandleFunc("/transactions/export", s.guard(s.handleTransactionsExport))
	mux.HandleFunc("/goals", s.guard(s.handleGoals))
	mux.HandleFunc("/goals/delete", s.guard(s.handleGoalDelete))
	mux.HandleFunc("/goals/prediction", s.guard(s.handleGoalPrediction))
	mux.HandleFunc("/notifications", s.guard(s.handleNotifications))
	mux.HandleFunc("/notifications/read", s.guard(s.handleNotificationRead))
	mux.HandleFunc("/receipts", s.guard(s.handleReceipts))

	// Admin
	mux.HandleFunc("/admin/users", s.guard(s.handleAdminUsers))
	mux.HandleFunc("/admin/users/delete", s.guard(s.handleAdminUserDelete))

	s.Server.Handler = s.tracer.Middleware(s.headers.Middleware(mux))
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.backend == nil || s.sessions == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the background goroutines before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
