package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/cours-de-latin/metermeter"
	"github.com/cours-de-latin/metermeter/internal/metrics"
)

// MaxBatchLines caps the lines of one batch request.
const MaxBatchLines = 2000

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	Text    string            `json:"text"`
	Context *metermeter.Prior `json:"context,omitempty"`
}

// BatchRequest is the body of POST /api/analyze/batch.
type BatchRequest struct {
	Lines   []string          `json:"lines"`
	Context *metermeter.Prior `json:"context,omitempty"`
	// TwoPass reruns the batch with its own dominant meter as the prior
	// when no context is given.
	TwoPass bool `json:"two_pass,omitempty"`
}

// BatchResponse holds one analysis per request line and the batch's dominant meter.
type BatchResponse struct {
	Results  []metermeter.LineAnalysis `json:"results"`
	Dominant metermeter.Prior          `json:"dominant"`
}

// ScoreRequest is the body of POST /api/score. Meter may be empty.
type ScoreRequest struct {
	Pattern string `json:"pattern"`
	Meter   string `json:"meter,omitempty"`
}

// ScoreResponse rates a pattern against the requested meter.
type ScoreResponse struct {
	Meter    string              `json:"meter"`
	Pattern  string              `json:"pattern"`
	Score    float64             `json:"score"`
	Features metermeter.Features `json:"features"`
}

// MeterInfo describes one catalog template in GET /api/meters.
type MeterInfo struct {
	Name    string          `json:"name"`
	Foot    metermeter.Foot `json:"foot"`
	Feet    int             `json:"feet"`
	Pattern string          `json:"pattern"`
}

// AnalyzeHandler serves the analysis and scoring routes.
type AnalyzeHandler struct {
	engines EngineSource
	log     zerolog.Logger
}

// NewAnalyzeHandler returns handlers that read the engine from engines on every request.
func NewAnalyzeHandler(engines EngineSource, log zerolog.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{engines: engines, log: log}
}

// prior validates an optional context prior. An empty meter means no prior.
func prior(p *metermeter.Prior) (*metermeter.Prior, error) {
	if p == nil || p.Meter == "" {
		return nil, nil
	}
	if _, err := metermeter.ParseMeterName(p.Meter); err != nil {
		return nil, err
	}
	return p, nil
}

func (h *AnalyzeHandler) engine(w http.ResponseWriter) *metermeter.Engine {
	e := h.engines.Engine()
	if e == nil {
		WriteError(w, http.StatusServiceUnavailable, "engine not loaded")
	}
	return e
}

// Analyze handles POST /api/analyze.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := prior(req.Context)
	if err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid context", err.Error())
		return
	}
	e := h.engine(w)
	if e == nil {
		return
	}

	start := time.Now()
	a, err := e.Analyze(req.Text, p)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("analyze failed")
		WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	metrics.ObserveAnalysis(a, time.Since(start))
	WriteJSON(w, http.StatusOK, a)
}

// AnalyzeBatch handles POST /api/analyze/batch.
func (h *AnalyzeHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Lines) > MaxBatchLines {
		WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d lines per batch", MaxBatchLines))
		return
	}
	p, err := prior(req.Context)
	if err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid context", err.Error())
		return
	}
	e := h.engine(w)
	if e == nil {
		return
	}

	start := time.Now()
	results, err := e.AnalyzeBatch(r.Context(), req.Lines, p)
	if err == nil && req.TwoPass && p == nil {
		if dom := metermeter.DominantMeter(results); dom.Meter != "" {
			h.log.Debug().Str("dominant_meter", dom.Meter).Float64("strength", dom.Strength).Msg("second pass")
			results, err = e.AnalyzeBatch(r.Context(), req.Lines, &dom)
		}
	}
	if err != nil {
		if r.Context().Err() != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("batch canceled")
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("batch analyze failed")
		WriteError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if n := len(results); n > 0 {
		per := time.Since(start) / time.Duration(n)
		for _, a := range results {
			metrics.ObserveAnalysis(a, per)
		}
	}
	WriteJSON(w, http.StatusOK, BatchResponse{Results: results, Dominant: metermeter.DominantMeter(results)})
}

// Score handles POST /api/score. Without a meter it returns the best meter
// for the pattern.
func (h *AnalyzeHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	e := h.engine(w)
	if e == nil {
		return
	}

	if req.Meter == "" {
		m, err := e.BestMeterForPattern(req.Pattern)
		if err != nil {
			WriteErrorDetail(w, http.StatusBadRequest, "invalid pattern", err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, m)
		return
	}

	score, err := e.ScorePattern(req.Pattern, req.Meter)
	if err != nil {
		msg := "invalid pattern"
		if errors.Is(err, metermeter.ErrUnknownMeter) {
			msg = "unknown meter"
		}
		WriteErrorDetail(w, http.StatusBadRequest, msg, err.Error())
		return
	}
	feats, err := e.MeterFeatures(req.Meter, req.Pattern)
	if err != nil {
		WriteErrorDetail(w, http.StatusBadRequest, "invalid pattern", err.Error())
		return
	}
	tmpl, _ := metermeter.ParseMeterName(req.Meter)
	WriteJSON(w, http.StatusOK, ScoreResponse{
		Meter:    tmpl.Name(),
		Pattern:  req.Pattern,
		Score:    score,
		Features: feats,
	})
}

// Meters handles GET /api/meters.
func (h *AnalyzeHandler) Meters(w http.ResponseWriter, r *http.Request) {
	cat := metermeter.Catalog()
	out := make([]MeterInfo, 0, len(cat))
	for _, t := range cat {
		out = append(out, MeterInfo{Name: t.Name(), Foot: t.Foot, Feet: t.Feet, Pattern: t.Pattern()})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"meters": out})
}
