package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cours-de-latin/metermeter"
	"github.com/cours-de-latin/metermeter/internal/config"
	"github.com/cours-de-latin/metermeter/internal/metrics"
)

// EngineSource hands out the engine to use for one request. It is read on
// every request so that a reloaded engine takes effect immediately.
type EngineSource interface {
	Engine() *metermeter.Engine
	LexiconWords() int
	PriorWords() int
}

// Server runs the HTTP API.
type Server struct {
	http *http.Server
	log  zerolog.Logger
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg *config.Config, engines EngineSource, version string, startTime time.Time, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Recoverer)
	r.Use(Logger(log))
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(metrics.InstrumentHandler)

	health := NewHealthHandler(engines, version, startTime)
	r.Get("/api/health", health.ServeHTTP)

	h := NewAnalyzeHandler(engines, log)
	r.Post("/api/analyze", h.Analyze)
	r.Post("/api/analyze/batch", h.AnalyzeBatch)
	r.Post("/api/score", h.Score)
	r.Get("/api/meters", h.Meters)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewServer configures a Server on cfg.HTTPAddr with the configured timeouts.
func NewServer(cfg *config.Config, engines EngineSource, version string, startTime time.Time, log zerolog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      NewRouter(cfg, engines, version, startTime, log),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		log: log,
	}
}

// Start serves until Shutdown and returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("http server starting")
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.http.Shutdown(ctx)
}
