package metermeter

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Analyze tokenizes line, pronounces every word and scans it.
// prior may be nil. An empty or wordless line yields a LineAnalysis with
// an empty meter and zero confidence, not an error.
func (e *Engine) Analyze(line string, prior *Prior) (LineAnalysis, error) {
	return e.AnalyzeTokens(line, Tokenize(line), prior)
}

// AnalyzeTokens scans line using caller-supplied token boundaries.
// It returns ErrTokenBounds if a token lies outside line or splits a character.
func (e *Engine) AnalyzeTokens(line string, tokens []Token, prior *Prior) (LineAnalysis, error) {
	if err := checkTokens(line, tokens); err != nil {
		return LineAnalysis{}, err
	}
	if e.tooManyWords(line, tokens) {
		return unanalyzable(line, nil), nil
	}
	prons := make([]Pronunciation, len(tokens))
	for i, t := range tokens {
		prons[i] = e.pron.Pronounce(t.Text)
	}
	return e.AnalyzePronounced(line, tokens, prons, prior)
}

// AnalyzePronounced scans line from raw pronunciation adapter output,
// prons[i] belonging to tokens[i].
func (e *Engine) AnalyzePronounced(line string, tokens []Token, prons []Pronunciation, prior *Prior) (LineAnalysis, error) {
	if err := checkTokens(line, tokens); err != nil {
		return LineAnalysis{}, err
	}
	if e.tooManyWords(line, tokens) {
		return unanalyzable(line, nil), nil
	}
	set := BuildOptions(tokens, prons, e.priors, e.costs)
	if set.Malformed > 0 {
		e.log.Debug().Int("malformed", set.Malformed).Str("line", line).Msg("skipped malformed syllabifications")
	}
	if len(set.OOV) > 0 {
		e.log.Debug().Strs("oov", set.OOV).Str("line", line).Msg("heuristic fallback")
	}
	return e.AnalyzeSyllables(line, tokens, set.Syllables, prior)
}

// AnalyzeSyllables scans line from prebuilt syllable option sets. Each
// syllable's Token indexes tokens, in non-decreasing order. It returns
// ErrEmptyOptionSet if a syllable has no options and ErrSyllableContract for
// any other malformed syllable. Lines longer than the engine's syllable limit
// are unanalyzable and carry no tokens.
func (e *Engine) AnalyzeSyllables(line string, tokens []Token, syls []Syllable, prior *Prior) (LineAnalysis, error) {
	if err := checkTokens(line, tokens); err != nil {
		return LineAnalysis{}, err
	}
	if err := checkSyllables(tokens, syls); err != nil {
		return LineAnalysis{}, err
	}
	if len(syls) > e.maxSyls {
		e.log.Debug().Int("syllables", len(syls)).Int("limit", e.maxSyls).Msg("line too long to scan")
		return unanalyzable(line, nil), nil
	}
	a := unanalyzable(line, tokens)
	a.OOV = oovTokens(tokens, syls)
	ratio := 0.0
	if words := distinctTokens(syls); words > 0 {
		ratio = float64(len(a.OOV)) / float64(words)
	}
	cls, ok, err := classify(syls, prior, e.costs, ratio)
	if err != nil {
		return LineAnalysis{}, err
	}
	if !ok {
		return a, nil
	}

	h := cls.winner.hyp
	sylSpans := syllableSpans(line, tokens, syls)
	for i, s := range syls {
		a.Syllables = append(a.Syllables, ResolvedSyllable{
			Token:  s.Token,
			Text:   s.Text,
			Stress: h.Labels[i],
			Label:  h.Labels[i].String(),
			Source: h.Sources[i],
			Start:  sylSpans[i].Start,
			End:    sylSpans[i].End,
		})
	}
	a.Pattern = h.Pattern()
	a.Meter = h.Template.Name()
	a.Foot = h.Template.Foot
	a.Feet = h.Template.Feet
	a.Confidence = cls.confidence
	a.Features = hypothesisFeatures(h)
	a.Spans = stressSpans(line, sylSpans, h.Labels)
	a.Scores = cls.scores
	a.IambicBias = cls.iambicBias
	a.PriorApplied = cls.priorApplied
	return a, nil
}

// AnalyzeBatch analyzes lines concurrently and returns one result per line,
// in input order. Lines are independent; the first error cancels the rest.
func (e *Engine) AnalyzeBatch(ctx context.Context, lines []string, prior *Prior) ([]LineAnalysis, error) {
	out := make([]LineAnalysis, len(lines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := e.Analyze(line, prior)
			if err != nil {
				return err
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// unanalyzable is the result for a line with no meter.
func unanalyzable(line string, tokens []Token) LineAnalysis {
	a := LineAnalysis{
		Text:      line,
		Tokens:    tokens,
		Syllables: []ResolvedSyllable{},
		Spans:     []Span{},
		OOV:       []string{},
		Scores:    []CandidateScore{},
	}
	if a.Tokens == nil {
		a.Tokens = []Token{}
	}
	return a
}

// tooManyWords reports whether tokens hold more words than the engine's
// syllable limit. Every word yields at least one syllable, so such a line is
// rejected before any pronunciation lookup.
func (e *Engine) tooManyWords(line string, tokens []Token) bool {
	if len(tokens) <= e.maxSyls {
		return false
	}
	words := 0
	for _, t := range tokens {
		if CleanWord(t.Text) == "" {
			continue
		}
		if words++; words > e.maxSyls {
			e.log.Debug().Int("tokens", len(tokens)).Int("limit", e.maxSyls).Int("bytes", len(line)).Msg("line too long to scan")
			return true
		}
	}
	return false
}

// checkSyllables verifies caller-supplied syllables against tokens.
func checkSyllables(tokens []Token, syls []Syllable) error {
	prev := 0
	for i, s := range syls {
		if s.Token < 0 || s.Token >= len(tokens) {
			return fmt.Errorf("syllable %d %q: token %d of %d: %w", i, s.Text, s.Token, len(tokens), ErrSyllableContract)
		}
		if s.Token < prev {
			return fmt.Errorf("syllable %d %q: token %d follows token %d: %w", i, s.Text, s.Token, prev, ErrSyllableContract)
		}
		if err := checkOptions(i, s); err != nil {
			return err
		}
		prev = s.Token
	}
	return nil
}

// oovTokens lists, in line order, the cleaned text of tokens resolved by heuristics.
func oovTokens(tokens []Token, syls []Syllable) []string {
	out := []string{}
	last := -1
	for _, s := range syls {
		if s.Token == last || s.Token < 0 || s.Token >= len(tokens) {
			continue
		}
		for _, o := range s.Options {
			if o.Source == SourceHeuristic {
				out = append(out, CleanWord(tokens[s.Token].Text))
				last = s.Token
				break
			}
		}
	}
	return out
}

func distinctTokens(syls []Syllable) int {
	n, last := 0, -2
	for _, s := range syls {
		if s.Token != last {
			n++
			last = s.Token
		}
	}
	return n
}
