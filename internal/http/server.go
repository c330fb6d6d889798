package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"caixa/internal/analytics"
	"caixa/internal/cache"
	"caixa/internal/log"
	"caixa/internal/middleware/ratelimit"
	"caixa/internal/middleware/trace"
	"caixa/internal/services"
)

// Server exposes the movements ledger and its aggregates over JSON.
type Server struct {
	http.Server
	service     *services.MovementService
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	targetWindowMonths int

	// Aggregate results are cached per query and flushed on any mutation.
	dailyCache   *cache.LRUCache[analytics.AverageResult]
	weeklyCache  *cache.LRUCache[analytics.WeeklyAverage]
	monthlyCache *cache.LRUCache[analytics.MonthlyAverage]
	targetCache  *cache.LRUCache[analytics.TargetProjection]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, service *services.MovementService, targetWindowMonths int) *Server {
	if targetWindowMonths < 1 {
		targetWindowMonths = 3
	}

	s := &Server{
		service:            service,
		rateLimiter:        ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:             trace.NewMiddleware(extractClientIP),
		targetWindowMonths: targetWindowMonths,
		dailyCache:         cache.NewLRUCache[analytics.AverageResult](100, 5*time.Minute),
		weeklyCache:        cache.NewLRUCache[analytics.WeeklyAverage](100, 5*time.Minute),
		monthlyCache:       cache.NewLRUCache[analytics.MonthlyAverage](100, 5*time.Minute),
		targetCache:        cache.NewLRUCache[analytics.TargetProjection](10, 5*time.Minute),
		cacheManager:       cache.NewManager(),
	}

	s.cacheManager.Register(s.dailyCache)
	s.cacheManager.Register(s.weeklyCache)
	s.cacheManager.Register(s.monthlyCache)
	s.cacheManager.Register(s.targetCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/movements", s.handleCreateMovement)
	mux.HandleFunc("GET /api/movements", s.handleListMovements)
	mux.HandleFunc("GET /api/movements/{id}", s.handleGetMovement)
	mux.HandleFunc("POST /api/movements/{id}/paid", s.handleTogglePaid)
	mux.HandleFunc("DELETE /api/movements/{id}", s.handleDeleteMovement)

	mux.HandleFunc("GET /api/averages/daily", s.handleDailyAverage)
	mux.HandleFunc("GET /api/averages/weekly", s.handleWeeklyAverage)
	mux.HandleFunc("GET /api/averages/monthly", s.handleMonthlyAverage)
	mux.HandleFunc("GET /api/targets", s.handleTargets)
	mux.HandleFunc("GET /api/export.csv", s.handleExportCSV)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(s.withSecurity(mux)),
	}
	return s
}

// withSecurity adds security headers and rate limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if r.Method != http.MethodGet {
			clientIP := extractClientIP(r)
			if !s.rateLimiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// invalidateAggregates flushes every cached aggregate after a mutation.
func (s *Server) invalidateAggregates() {
	s.dailyCache.Clear()
	s.weeklyCache.Clear()
	s.monthlyCache.Clear()
	s.targetCache.Clear()
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
