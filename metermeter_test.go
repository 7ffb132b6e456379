package metermeter

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	return e
}

func TestNew(t *testing.T) {
	e, err := New()
	if err != nil {
		t.Fatalf("New(): %v", err)
	}
	lex, ok := e.Pronouncer().(*Lexicon)
	if !ok {
		t.Fatalf("default pronouncer is %T, want *Lexicon", e.Pronouncer())
	}
	t.Logf("Loaded %d lexicon words, %d priors", lex.Len(), e.Priors().Len())
	if lex.Len() < 100 {
		t.Errorf("builtin lexicon has %d words, want at least 100", lex.Len())
	}
}

func TestNewRejectsBadCosts(t *testing.T) {
	c := DefaultCosts()
	c.GapScale = 0
	_, err := New(WithCosts(c))
	assert.Error(t, err)

	_, err = New(WithWorkers(0))
	assert.Error(t, err)
}

func TestAnalyzeShallICompare(t *testing.T) {
	e := newEngine(t)
	a, err := e.Analyze("Shall I compare thee to a summer's day?", nil)
	require.NoError(t, err)

	assert.Equal(t, "iambic pentameter", a.Meter)
	assert.Greater(t, a.Confidence, 0.8)
	assert.Equal(t, EndingMasculine, a.Features.Ending)
	assert.Len(t, a.Syllables, 10)
	assert.Equal(t, Iambic, a.Foot)
	assert.Equal(t, 5, a.Feet)
	assert.Empty(t, a.OOV)
	assert.Equal(t, "iambic pentameter", a.Scores[0].Meter)
}

func TestAnalyzeEmptyLine(t *testing.T) {
	e := newEngine(t)
	for _, line := range []string{"", "   ", "— 42 —"} {
		a, err := e.Analyze(line, nil)
		require.NoError(t, err, "line %q", line)
		assert.Equal(t, "", a.Meter, "line %q", line)
		assert.Zero(t, a.Confidence, "line %q", line)
		assert.NotNil(t, a.Spans, "line %q", line)
		assert.Empty(t, a.Spans, "line %q", line)
	}
}

func TestAnalyzePerfectIambicLine(t *testing.T) {
	e := newEngine(t)
	a, err := e.Analyze("compare declines untrimmed compare declines", nil)
	require.NoError(t, err)

	assert.Equal(t, "iambic pentameter", a.Meter)
	assert.Equal(t, "USUSUSUSUS", a.Pattern)
	assert.GreaterOrEqual(t, a.Confidence, 0.95)
	assert.Len(t, a.Spans, 5)
}

func TestAnalyzeTrochaicLineResistsPrior(t *testing.T) {
	e := newEngine(t)
	line := "falling petals drifting slowly"

	plain, err := e.Analyze(line, nil)
	require.NoError(t, err)
	assert.Equal(t, "trochaic tetrameter", plain.Meter)

	biased, err := e.Analyze(line, &Prior{Meter: "iambic tetrameter", Strength: 1})
	require.NoError(t, err)
	assert.Equal(t, "trochaic tetrameter", biased.Meter)
	assert.False(t, biased.PriorApplied)
	assert.LessOrEqual(t, biased.Confidence, plain.Confidence)
}

func TestAnalyzePriorFlipsNearTie(t *testing.T) {
	e := newEngine(t)
	line := "Tyger Tyger burning bright"

	plain, err := e.Analyze(line, nil)
	require.NoError(t, err)
	assert.Equal(t, "trochaic tetrameter", plain.Meter)
	assert.True(t, plain.Features.Catalectic)

	biased, err := e.Analyze(line, &Prior{Meter: "iambic tetrameter", Strength: 1})
	require.NoError(t, err)
	assert.Equal(t, "iambic tetrameter", biased.Meter)
	assert.True(t, biased.PriorApplied)
	assert.True(t, biased.Features.Headless)
}

func TestAnalyzeAnapestic(t *testing.T) {
	e := newEngine(t)
	a, err := e.Analyze("in the light in the dark in the dawn", nil)
	require.NoError(t, err)
	assert.Equal(t, "anapestic trimeter", a.Meter)
	assert.Equal(t, "UUSUUSUUS", a.Pattern)
}

func TestAnalyzeOOVLowersConfidence(t *testing.T) {
	lex := BuiltinLexicon()
	line := "The flame of love is burning in the night"

	known, err := newEngine(t, WithPronouncer(lex)).Analyze(line, nil)
	require.NoError(t, err)
	unknown, err := newEngine(t, WithPronouncer(lex.Without("flame"))).Analyze(line, nil)
	require.NoError(t, err)

	assert.Empty(t, known.OOV)
	assert.Equal(t, []string{"flame"}, unknown.OOV)
	assert.Equal(t, known.Meter, unknown.Meter)
	assert.Less(t, unknown.Confidence, known.Confidence)
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := newEngine(t)
	prior := &Prior{Meter: "iambic pentameter", Strength: 0.7}
	line := "Rough winds do shake the darling buds of May,"
	first, err := e.Analyze(line, prior)
	require.NoError(t, err)
	for range 5 {
		again, err := e.Analyze(line, prior)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("Analyze not deterministic (-first +again):\n%s", diff)
		}
	}
}

var sonnet18 = []string{
	"Shall I compare thee to a summer's day?",
	"Thou art more lovely and more temperate:",
	"Rough winds do shake the darling buds of May,",
	"And summer's lease hath all too short a date:",
	"Sometime too hot the eye of heaven shines,",
	"And often is his gold complexion dimmed;",
	"And every fair from fair sometime declines,",
	"By chance or nature's changing course untrimmed:",
	"But thy eternal summer shall not fade,",
	"Nor lose possession of that fair thou ow'st;",
	"Nor shall Death brag thou wander'st in his shade,",
	"When in eternal lines to time thou grow'st:",
	"So long as men can breathe or eyes can see,",
	"So long lives this and this gives life to thee.",
}

func TestSonnet18Accuracy(t *testing.T) {
	e := newEngine(t)
	matches := 0
	var misses []string
	for i, line := range sonnet18 {
		a, err := e.Analyze(line, nil)
		require.NoError(t, err)
		if a.Meter == "iambic pentameter" {
			matches++
		} else {
			misses = append(misses, line+": "+a.Meter)
		}
		t.Logf("%2d %-50s %-20s %.3f %s", i+1, line, a.Meter, a.Confidence, a.Pattern)
	}
	accuracy := float64(matches) / float64(len(sonnet18))
	if accuracy < 0.7 {
		t.Errorf("sonnet 18 accuracy %.1f%%:\n%s", accuracy*100, strings.Join(misses, "\n"))
	}
}

func TestSpansValid(t *testing.T) {
	e := newEngine(t)
	lines := append([]string{
		"’Tis the café of Zoë—naïve!",
		"Ünter den Linden, schöne Straße",
		"Glück und Glas, wie leicht bricht das",
		"pollen crowds the glance of bees",
	}, sonnet18...)
	for _, line := range lines {
		a, err := e.Analyze(line, nil)
		require.NoError(t, err)
		prevEnd := 0
		for _, sp := range a.Spans {
			assert.True(t, 0 <= sp.Start && sp.Start < sp.End && sp.End <= len(line), "span %+v in %q", sp, line)
			assert.GreaterOrEqual(t, sp.Start, prevEnd, "overlapping span %+v in %q", sp, line)
			assert.True(t, onRuneBoundary(line, sp.Start) && onRuneBoundary(line, sp.End), "span %+v splits a character in %q", sp, line)
			prevEnd = sp.End
		}
	}
}

func TestAnalyzeTokensBounds(t *testing.T) {
	e := newEngine(t)
	line := "naïve day"

	_, err := e.AnalyzeTokens(line, []Token{{Text: "naïve", Start: 0, End: 20}}, nil)
	assert.ErrorIs(t, err, ErrTokenBounds)

	// byte 3 is inside "ï"
	_, err = e.AnalyzeTokens(line, []Token{{Text: "na", Start: 0, End: 3}}, nil)
	assert.ErrorIs(t, err, ErrTokenBounds)

	a, err := e.AnalyzeTokens(line, Tokenize(line), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Meter)
}

func TestAnalyzeSyllablesEmptyOptionSet(t *testing.T) {
	e := newEngine(t)
	line := "day"
	tokens := Tokenize(line)
	_, err := e.AnalyzeSyllables(line, tokens, []Syllable{{Token: 0, Text: "day"}}, nil)
	assert.ErrorIs(t, err, ErrEmptyOptionSet)
}

func TestAnalyzeSyllablesContract(t *testing.T) {
	e := newEngine(t)
	line := "summer day"
	tokens := Tokenize(line)
	stressed := []SyllableOption{{Label: Stressed, Source: SourceLexical}}
	unstressed := []SyllableOption{{Label: Unstressed, Source: SourceLexical}}

	tests := []struct {
		name string
		syls []Syllable
		want error
	}{
		{"well formed", []Syllable{
			{Token: 0, Index: 0, Text: "sum", Options: stressed},
			{Token: 0, Index: 1, Text: "mer", Options: unstressed},
			{Token: 1, Text: "day", Options: stressed},
		}, nil},
		{"token past the end", []Syllable{{Token: 3, Text: "day", Options: stressed}}, ErrSyllableContract},
		{"negative token", []Syllable{{Token: -1, Text: "day", Options: stressed}}, ErrSyllableContract},
		{"tokens out of order", []Syllable{
			{Token: 1, Text: "day", Options: stressed},
			{Token: 0, Text: "sum", Options: stressed},
		}, ErrSyllableContract},
		{"unknown label", []Syllable{{Token: 1, Text: "day", Options: []SyllableOption{{Label: 'X'}}}}, ErrSyllableContract},
		{"too many options", []Syllable{{Token: 1, Text: "day", Options: []SyllableOption{
			{Label: Stressed}, {Label: Unstressed, Cost: 0.5}, {Label: Stressed, Cost: 1},
		}}}, ErrSyllableContract},
		{"negative cost", []Syllable{{Token: 1, Text: "day", Options: []SyllableOption{{Label: Stressed, Cost: -1}}}}, ErrSyllableContract},
		{"no options", []Syllable{{Token: 1, Text: "day"}}, ErrEmptyOptionSet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := e.AnalyzeSyllables(line, tokens, tt.syls, nil)
			if tt.want == nil {
				require.NoError(t, err)
				assert.Len(t, a.Syllables, len(tt.syls))
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAnalyzeLineOverSyllableLimit(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, DefaultMaxSyllables, e.MaxSyllables())

	long := strings.Repeat("la ", DefaultMaxSyllables+1)
	a, err := e.Analyze(long, nil)
	require.NoError(t, err)
	assert.Empty(t, a.Meter)
	assert.Zero(t, a.Confidence)
	assert.Empty(t, a.Pattern)
	assert.Empty(t, a.Spans)
	assert.Empty(t, a.Tokens)
	assert.Equal(t, long, a.Text)

	a, err = e.Analyze(strings.Repeat("la ", DefaultMaxSyllables), nil)
	require.NoError(t, err)
	assert.Len(t, a.Syllables, DefaultMaxSyllables)

	// eight words but ten syllables: caught after syllabification
	line := "Shall I compare thee to a summer's day?"
	short := newEngine(t, WithMaxSyllables(9))
	a, err = short.Analyze(line, nil)
	require.NoError(t, err)
	assert.Empty(t, a.Meter)
	assert.Empty(t, a.Syllables)

	a, err = newEngine(t, WithMaxSyllables(10)).Analyze(line, nil)
	require.NoError(t, err)
	assert.Equal(t, "iambic pentameter", a.Meter)

	_, err = New(WithMaxSyllables(0))
	assert.Error(t, err)
}

func TestAnalyzePronouncedMalformed(t *testing.T) {
	e := newEngine(t)
	line := "summer day"
	tokens := Tokenize(line)
	prons := []Pronunciation{
		{Word: "summer", Hit: true, Syllabifications: []Syllabification{{}, {{Text: "sum", Stress: 'X'}}}},
		e.Pronouncer().Pronounce("day"),
	}
	a, err := e.AnalyzePronounced(line, tokens, prons, nil)
	require.NoError(t, err)
	// both candidates for "summer" are unusable, so it falls back to heuristics
	assert.Equal(t, []string{"summer"}, a.OOV)
	assert.Len(t, a.Syllables, 3)
	assert.Equal(t, SourceHeuristic, a.Syllables[0].Source)
}
