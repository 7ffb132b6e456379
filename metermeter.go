// Package metermeter scans lines of English verse: it resolves the stress of
// every syllable, classifies the line's accentual-syllabic meter and maps the
// stressed syllables back to byte spans of the original text.
//
// The engine is pure computation. Pronunciation lookup is delegated to a
// Pronouncer and the function-word tendencies to a PriorTable, both fixed at
// construction and shared read-only by concurrent calls.
package metermeter

import (
	"errors"

	"github.com/rs/zerolog"
)

// DefaultWorkers bounds AnalyzeBatch concurrency when WithWorkers is not given.
const DefaultWorkers = 4

// DefaultMaxSyllables is the longest line, in syllables, the engine decodes
// when WithMaxSyllables is not given. The longest catalog template has 24 slots.
const DefaultMaxSyllables = 64

// Engine analyzes lines. It is safe for concurrent use.
type Engine struct {
	pron    Pronouncer
	priors  *PriorTable
	costs   Costs
	log     zerolog.Logger
	workers int
	maxSyls int
}

// Option configures an Engine.
type Option func(*Engine)

// WithPronouncer sets the pronunciation adapter. Default: BuiltinLexicon().
func WithPronouncer(p Pronouncer) Option {
	return func(e *Engine) { e.pron = p }
}

// WithPriors sets the function-word prior table. Default: BuiltinPriors().
func WithPriors(t *PriorTable) Option {
	return func(e *Engine) { e.priors = t }
}

// WithCosts sets the calibration. Default: DefaultCosts().
func WithCosts(c Costs) Option {
	return func(e *Engine) { e.costs = c }
}

// WithLogger sets the logger used for debug events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithWorkers bounds the goroutines AnalyzeBatch uses.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithMaxSyllables sets the longest line, in syllables, the engine decodes.
// Longer lines are reported as unanalyzable.
func WithMaxSyllables(n int) Option {
	return func(e *Engine) { e.maxSyls = n }
}

// New returns a ready-to-use Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		costs:   DefaultCosts(),
		log:     zerolog.Nop(),
		workers: DefaultWorkers,
		maxSyls: DefaultMaxSyllables,
	}
	for _, o := range opts {
		o(e)
	}
	if e.pron == nil {
		e.pron = BuiltinLexicon()
	}
	if e.priors == nil {
		e.priors = BuiltinPriors()
	}
	if err := e.costs.Validate(); err != nil {
		return nil, err
	}
	if e.workers < 1 {
		return nil, errors.New("metermeter: workers must be at least 1")
	}
	if e.maxSyls < 1 {
		return nil, errors.New("metermeter: max syllables must be at least 1")
	}
	return e, nil
}

// Costs returns the engine's calibration.
func (e *Engine) Costs() Costs { return e.costs }

// MaxSyllables returns the longest line, in syllables, the engine decodes.
func (e *Engine) MaxSyllables() int { return e.maxSyls }

// Priors returns the engine's prior table.
func (e *Engine) Priors() *PriorTable { return e.priors }

// Pronouncer returns the engine's pronunciation adapter.
func (e *Engine) Pronouncer() Pronouncer { return e.pron }
