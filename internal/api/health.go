package api

import (
	"net/http"
	"time"

	"github.com/cours-de-latin/metermeter"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	LexiconWords  int    `json:"lexicon_words"`
	PriorWords    int    `json:"prior_words"`
	Meters        int    `json:"meters"`
}

// HealthHandler reports liveness and the loaded data sizes.
type HealthHandler struct {
	engines   EngineSource
	version   string
	startTime time.Time
}

// NewHealthHandler returns a HealthHandler measuring uptime from startTime.
func NewHealthHandler(engines EngineSource, version string, startTime time.Time) *HealthHandler {
	return &HealthHandler{engines: engines, version: version, startTime: startTime}
}

// ServeHTTP answers 503 while no engine is loaded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:        "ok",
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Meters:        len(metermeter.Catalog()),
	}
	status := http.StatusOK
	if h.engines.Engine() == nil {
		resp.Status = "unavailable"
		status = http.StatusServiceUnavailable
	} else {
		resp.LexiconWords = h.engines.LexiconWords()
		resp.PriorWords = h.engines.PriorWords()
	}
	WriteJSON(w, status, resp)
}
