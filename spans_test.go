package metermeter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spanTexts(line string, spans []Span) []string {
	out := make([]string, len(spans))
	for i, sp := range spans {
		out[i] = line[sp.Start:sp.End]
	}
	return out
}

func TestStressSpansNarrowToNucleus(t *testing.T) {
	e := newEngine(t)
	line := "pollen crowds the glance"
	a, err := e.Analyze(line, nil)
	require.NoError(t, err)

	texts := spanTexts(line, a.Spans)
	assert.Contains(t, texts, "ol")
	assert.Contains(t, texts, "ance")
	assert.NotContains(t, texts, "pollen")
	assert.NotContains(t, texts, "glance")
}

func TestSyllableSpansSubstring(t *testing.T) {
	line := "Shall I compare"
	tokens := Tokenize(line)
	syls := []Syllable{
		{Token: 0, Text: "Shall"},
		{Token: 1, Text: "I"},
		{Token: 2, Text: "com"},
		{Token: 2, Index: 1, Text: "PARE"},
	}
	got := syllableSpans(line, tokens, syls)
	assert.Equal(t, []string{"Shall", "I", "com", "pare"}, spanTexts(line, got))
}

func TestSyllableSpansCursorAdvances(t *testing.T) {
	line := "lala"
	tokens := Tokenize(line)
	syls := []Syllable{{Token: 0, Text: "la"}, {Token: 0, Index: 1, Text: "la"}}
	got := syllableSpans(line, tokens, syls)
	assert.Equal(t, []Span{{0, 2}, {2, 4}}, got)
}

func TestSyllableSpansProportionalFallback(t *testing.T) {
	// phonetic syllables that do not occur in the spelling
	line := "x naïveté"
	tokens := Tokenize(line)
	syls := []Syllable{
		{Token: 0, Text: "eks"},
		{Token: 1, Text: "nah"},
		{Token: 1, Index: 1, Text: "eev"},
		{Token: 1, Index: 2, Text: "tay"},
	}
	got := syllableSpans(line, tokens, syls)
	require.Len(t, got, 4)
	assert.Equal(t, Span{0, 1}, got[0])
	tok := tokens[1]
	prev := tok.Start
	for _, sp := range got[1:] {
		assert.Equal(t, prev, sp.Start)
		assert.Greater(t, sp.End, sp.Start)
		assert.LessOrEqual(t, sp.End, tok.End)
		assert.True(t, onRuneBoundary(line, sp.Start) && onRuneBoundary(line, sp.End))
		prev = sp.End
	}
	assert.Equal(t, tok.End, prev)
}

func TestSyllableSpansMoreSyllablesThanRunes(t *testing.T) {
	line := "I"
	tokens := Tokenize(line)
	syls := []Syllable{{Token: 0, Text: "ai"}, {Token: 0, Index: 1, Text: "ee"}}
	got := syllableSpans(line, tokens, syls)
	for _, sp := range got {
		assert.Equal(t, Span{0, 1}, sp)
	}
	spans := stressSpans(line, got, []Stress{Stressed, Stressed})
	assert.Equal(t, []Span{{0, 1}}, spans)
}

func TestStressedSpanWithoutVowel(t *testing.T) {
	line := "hmm"
	assert.Equal(t, Span{0, 3}, stressedSpan(line, Span{0, 3}))
}

func TestSpanJSONPairs(t *testing.T) {
	b, err := json.Marshal([]Span{{1, 3}, {7, 12}})
	require.NoError(t, err)
	assert.Equal(t, `[[1,3],[7,12]]`, string(b))

	var back []Span
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Span{{1, 3}, {7, 12}}, back)

	var sp Span
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &sp))
	assert.Error(t, json.Unmarshal([]byte(`{"start":1,"end":2}`), &sp))
}

func TestLineAnalysisStressSpansEncoding(t *testing.T) {
	e := newEngine(t)
	a, err := e.Analyze("compare declines", nil)
	require.NoError(t, err)
	b, err := json.Marshal(a)
	require.NoError(t, err)

	var raw struct {
		Spans [][2]int `json:"stress_spans"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw.Spans, len(a.Spans))
	for i, sp := range a.Spans {
		assert.Equal(t, [2]int{sp.Start, sp.End}, raw.Spans[i])
	}
}
