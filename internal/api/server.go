// Public domain.

// Package api serves the transforms over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/soniakeys/altaz/batch"
	"github.com/soniakeys/altaz/internal/metrics"
	"github.com/soniakeys/altaz/timescale"
)

// Config holds service limits.
type Config struct {
	Workers    int     // batch workers, < 1 means GOMAXPROCS
	Threshold  int     // batch size for parallel execution, < 1 means default
	MaxObjects int     // objects per altaz request
	RateRPS    float64 // requests per second per client, 0 disables limiting
	RateBurst  int
}

// DefaultConfig is used for zero fields of a Config.
var DefaultConfig = Config{
	MaxObjects: 100000,
	RateRPS:    50,
	RateBurst:  100,
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	engine     *batch.Engine
	leaps      *timescale.LeapTable
	cfg        Config
}

// NewServer creates a configured HTTP server.  A nil logger discards.
func NewServer(addr string, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.MaxObjects < 1 {
		cfg.MaxObjects = DefaultConfig.MaxObjects
	}
	if cfg.RateRPS > 0 && cfg.RateBurst < 1 {
		cfg.RateBurst = DefaultConfig.RateBurst
	}
	s := &Server{
		logger: logger,
		engine: batch.New(cfg.Workers, cfg.Threshold, logger.With("component", "batch")),
		leaps:  timescale.DefaultLeapTable(),
		cfg:    cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("POST /api/v1/altaz", s.altaz)
	mux.HandleFunc("GET /api/v1/sidereal", s.sidereal)
	mux.HandleFunc("GET /api/v1/galactic", galacticHandler)
	mux.HandleFunc("GET /api/v1/airmass", airmassHandler)
	mux.HandleFunc("GET /api/v1/leapseconds", s.leapSeconds)

	// metrics -> request id and logging -> rate limit -> mux
	var handler http.Handler = mux
	if cfg.RateRPS > 0 {
		handler = rateLimitMiddleware(newLimiters(cfg.RateRPS, cfg.RateBurst))(handler)
	}
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// healthPath returns true for paths that are neither limited nor logged at INFO.
func healthPath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

type ctxKey int

const requestIDKey ctxKey = 0

// requestID returns the id loggingMiddleware assigned to the request.
func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get("X-Request-ID")
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := slog.LevelInfo
			if healthPath(r.URL.Path) {
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "request",
				"component", "api",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
