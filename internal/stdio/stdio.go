// Package stdio serves the engine to an editor subprocess over a persistent
// newline-delimited JSON protocol: one request object per input line, one
// response object per output line.
package stdio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/cours-de-latin/metermeter"
	"github.com/cours-de-latin/metermeter/internal/metrics"
)

// maxRequestBytes bounds one request line.
const maxRequestBytes = 8 << 20

// EngineSource hands out the engine for one request.
type EngineSource interface {
	Engine() *metermeter.Engine
}

// Line is one buffer line to analyze. Lnum is echoed back untouched.
type Line struct {
	Lnum int    `json:"lnum"`
	Text string `json:"text"`
}

// Request is one input line of the protocol. ID is echoed verbatim.
type Request struct {
	ID      json.RawMessage   `json:"id"`
	Lines   []Line            `json:"lines"`
	Context *metermeter.Prior `json:"context,omitempty"`
}

// Result is the analysis of one requested line.
type Result struct {
	Lnum int `json:"lnum"`
	metermeter.LineAnalysis
}

// Response carries either the results or an error for one request.
type Response struct {
	ID      json.RawMessage `json:"id"`
	Results []Result        `json:"results,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Serve answers requests from r on w until r is exhausted or ctx is done.
// A malformed request gets an error response; the loop continues.
func Serve(ctx context.Context, r io.Reader, w io.Writer, engines EngineSource, log zerolog.Logger) error {
	log = log.With().Str("component", "stdio").Logger()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	served := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		resp := handle(ctx, raw, engines)
		if resp.Error != "" {
			metrics.StdioRequestsTotal.WithLabelValues("error").Inc()
			log.Warn().Str("error", resp.Error).RawJSON("id", idOrNull(resp.ID)).Msg("request failed")
		} else {
			metrics.StdioRequestsTotal.WithLabelValues("ok").Inc()
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
		served++
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	log.Debug().Int("requests", served).Msg("input closed")
	return nil
}

func handle(ctx context.Context, raw []byte, engines EngineSource) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Response{ID: idOf(raw), Error: "invalid request: " + err.Error()}
	}
	resp := Response{ID: req.ID}

	var prior *metermeter.Prior
	if req.Context != nil && req.Context.Meter != "" {
		if _, err := metermeter.ParseMeterName(req.Context.Meter); err != nil {
			resp.Error = "invalid context: " + err.Error()
			return resp
		}
		prior = req.Context
	}
	e := engines.Engine()
	if e == nil {
		resp.Error = "engine not loaded"
		return resp
	}

	texts := make([]string, len(req.Lines))
	for i, l := range req.Lines {
		texts[i] = l.Text
	}
	start := time.Now()
	analyses, err := e.AnalyzeBatch(ctx, texts, prior)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Results = make([]Result, len(analyses))
	var per time.Duration
	if len(analyses) > 0 {
		per = time.Since(start) / time.Duration(len(analyses))
	}
	for i, a := range analyses {
		resp.Results[i] = Result{Lnum: req.Lines[i].Lnum, LineAnalysis: a}
		metrics.ObserveAnalysis(a, per)
	}
	return resp
}

// idOf salvages the id of a request that failed to decode as a whole.
func idOf(raw []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if json.Unmarshal(raw, &probe) != nil {
		return nil
	}
	return probe.ID
}

func idOrNull(id json.RawMessage) []byte {
	if len(id) == 0 {
		return []byte("null")
	}
	return id
}
