package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cours-de-latin/metermeter"
)

const namespace = "metermeter"

// HTTP metrics, incremented by InstrumentHandler.
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed.",
	}, []string{"method", "path_pattern", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path_pattern"})
)

// Analysis counters (incremented by the HTTP and stdio front ends).
var (
	LinesAnalyzedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lines_analyzed_total",
		Help:      "Lines analyzed, by winning meter (empty for unanalyzable lines).",
	}, []string{"meter"})

	LineAnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "line_analysis_duration_seconds",
		Help:      "Time to analyze one line.",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8), // 10µs → 160ms
	})

	LineConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "line_confidence",
		Help:      "Confidence of analyzed lines.",
		Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	OOVTokensTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "oov_tokens_total",
		Help:      "Tokens resolved by the spelling heuristics.",
	})

	LexiconReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lexicon_reloads_total",
		Help:      "Lexicon reload attempts, by result.",
	}, []string{"result"})

	StdioRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stdio_requests_total",
		Help:      "Requests served over the stdio protocol, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LinesAnalyzedTotal,
		LineAnalysisDuration,
		LineConfidence,
		OOVTokensTotal,
		LexiconReloadsTotal,
		StdioRequestsTotal,
	)
}

// ObserveAnalysis records one analyzed line. Batches pass their total duration
// divided by the line count.
func ObserveAnalysis(a metermeter.LineAnalysis, d time.Duration) {
	LinesAnalyzedTotal.WithLabelValues(a.Meter).Inc()
	LineAnalysisDuration.Observe(d.Seconds())
	if a.Meter != "" {
		LineConfidence.Observe(a.Confidence)
	}
	OOVTokensTotal.Add(float64(len(a.OOV)))
}

// InstrumentHandler returns middleware that records HTTP request metrics.
// It uses chi's route pattern as the path label to avoid cardinality explosion.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(sw, r)

		pattern := "unknown"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
