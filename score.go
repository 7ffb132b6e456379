package metermeter

import (
	"fmt"
	"strings"
)

// patternSyllables turns a U/S string of at most limit labels into fixed,
// zero-cost syllables.
func patternSyllables(pattern string, limit int) ([]Syllable, error) {
	pattern = strings.ToUpper(strings.TrimSpace(pattern))
	if len(pattern) > limit {
		return nil, fmt.Errorf("stress pattern of %d syllables, limit %d: %w", len(pattern), limit, ErrLineTooLong)
	}
	if !validPattern(pattern) {
		return nil, fmt.Errorf("stress pattern %q: want a non-empty string of U and S", pattern)
	}
	syls := make([]Syllable, len(pattern))
	for i := range pattern {
		syls[i] = Syllable{
			Token:   -1,
			Index:   i,
			Text:    pattern[i : i+1],
			Options: []SyllableOption{{Label: Stress(pattern[i]), Source: SourcePattern}},
		}
	}
	return syls, nil
}

// ScorePattern rates how well a fixed stress pattern fits the named meter,
// 1 being a perfect fit. It uses the default calibration.
func ScorePattern(pattern, meter string) (float64, error) {
	return scorePattern(pattern, meter, DefaultCosts(), DefaultMaxSyllables)
}

// ScorePattern is like the package function ScorePattern but uses the engine's calibration.
func (e *Engine) ScorePattern(pattern, meter string) (float64, error) {
	return scorePattern(pattern, meter, e.costs, e.maxSyls)
}

func scorePattern(pattern, meter string, costs Costs, limit int) (float64, error) {
	tmpl, err := ParseMeterName(meter)
	if err != nil {
		return 0, err
	}
	syls, err := patternSyllables(pattern, limit)
	if err != nil {
		return 0, err
	}
	h, err := Decode(syls, tmpl, costs)
	if err != nil {
		return 0, err
	}
	return clamp01(1 - applyBias(h.Normalized(), tmpl, len(syls), costs)), nil
}

// PatternMatch is the best meter for a fixed stress pattern.
type PatternMatch struct {
	Meter string  `json:"meter"`
	Score float64 `json:"score"`
	// Margin is how far the runner-up's adjusted cost trails the winner's.
	Margin   float64  `json:"margin"`
	Features Features `json:"features"`
}

// BestMeterForPattern classifies a fixed stress pattern with the default calibration.
func BestMeterForPattern(pattern string) (PatternMatch, error) {
	return bestMeterForPattern(pattern, DefaultCosts(), DefaultMaxSyllables)
}

// BestMeterForPattern is like the package function BestMeterForPattern but uses the engine's calibration.
func (e *Engine) BestMeterForPattern(pattern string) (PatternMatch, error) {
	return bestMeterForPattern(pattern, e.costs, e.maxSyls)
}

func bestMeterForPattern(pattern string, costs Costs, limit int) (PatternMatch, error) {
	syls, err := patternSyllables(pattern, limit)
	if err != nil {
		return PatternMatch{}, err
	}
	cls, _, err := classify(syls, nil, costs, 0)
	if err != nil {
		return PatternMatch{}, err
	}
	m := PatternMatch{
		Meter:    cls.winner.hyp.Template.Name(),
		Score:    clamp01(1 - cls.winner.adj),
		Features: hypothesisFeatures(cls.winner.hyp),
	}
	if cls.gap < 1 {
		m.Margin = roundCost(cls.gap)
	} else {
		m.Margin = 1
	}
	return m, nil
}

// MeterFeatures reports the substitutions a fixed stress pattern needs to
// realize the named meter.
func MeterFeatures(meter, pattern string) (Features, error) {
	return meterFeatures(meter, pattern, DefaultCosts(), DefaultMaxSyllables)
}

// MeterFeatures is like the package function MeterFeatures but uses the engine's calibration.
func (e *Engine) MeterFeatures(meter, pattern string) (Features, error) {
	return meterFeatures(meter, pattern, e.costs, e.maxSyls)
}

func meterFeatures(meter, pattern string, costs Costs, limit int) (Features, error) {
	tmpl, err := ParseMeterName(meter)
	if err != nil {
		return Features{}, err
	}
	syls, err := patternSyllables(pattern, limit)
	if err != nil {
		return Features{}, err
	}
	h, err := Decode(syls, tmpl, costs)
	if err != nil {
		return Features{}, err
	}
	return hypothesisFeatures(h), nil
}
