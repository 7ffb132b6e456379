package metermeter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeterName(t *testing.T) {
	tmpl, err := ParseMeterName("  Iambic   Pentameter ")
	require.NoError(t, err)
	assert.Equal(t, MeterTemplate{Foot: Iambic, Feet: 5}, tmpl)
	assert.Equal(t, "USUSUSUSUS", tmpl.Pattern())
	assert.Equal(t, 10, tmpl.Len())

	for _, bad := range []string{"", "iambic", "spondaic pentameter", "iambic nonameter", "iambic penta meter"} {
		_, err := ParseMeterName(bad)
		assert.ErrorIs(t, err, ErrUnknownMeter, "%q", bad)
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	cat := Catalog()
	assert.Len(t, cat, len(Feet)*MaxFeet)
	for _, tmpl := range cat {
		got, err := ParseMeterName(tmpl.Name())
		require.NoError(t, err)
		assert.Equal(t, tmpl, got)
	}
}

func TestBestMeterForPattern(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"USUSUSUSUS", "iambic pentameter"},
		{"SUSUSUSU", "trochaic tetrameter"},
		{"UUSUUSUUSUUS", "anapestic tetrameter"},
		{strings.Repeat("SUU", 6), "dactylic hexameter"},
		{"usususus", "iambic tetrameter"},
	}
	for _, tt := range tests {
		m, err := BestMeterForPattern(tt.pattern)
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.want, m.Meter, tt.pattern)
		assert.InDelta(t, 1, m.Score, 1e-9, tt.pattern)
		assert.Greater(t, m.Margin, 0.05, tt.pattern)
	}

	_, err := BestMeterForPattern("USX")
	assert.Error(t, err)
	_, err = BestMeterForPattern("")
	assert.Error(t, err)
}

func TestScorePattern(t *testing.T) {
	perfect, err := ScorePattern("USUSUSUSUS", "iambic pentameter")
	require.NoError(t, err)
	assert.InDelta(t, 1, perfect, 1e-9)

	inverted, err := ScorePattern("SUUSUSUSUS", "iambic pentameter")
	require.NoError(t, err)
	assert.Less(t, inverted, perfect)
	assert.Greater(t, inverted, 0.9)

	_, err = ScorePattern("USUS", "iambic")
	assert.ErrorIs(t, err, ErrUnknownMeter)
}

func TestMeterFeatures(t *testing.T) {
	tests := []struct {
		pattern string
		want    Features
	}{
		{"SUUSUSUSUS", Features{Ending: EndingMasculine, Inversion: true, InitialInversion: true}},
		{"SSUSUSUSUS", Features{Ending: EndingMasculine, Spondee: true}},
		{"UUUSUSUSUS", Features{Ending: EndingMasculine, Pyrrhic: true}},
		{"USUSUSUSUSU", Features{Ending: EndingFeminine}},
		{"SUSUSUSUS", Features{Ending: EndingMasculine, Headless: true}},
		{"USUSSUUSUS", Features{Ending: EndingMasculine, Inversion: true}},
	}
	for _, tt := range tests {
		got, err := MeterFeatures("iambic pentameter", tt.pattern)
		require.NoError(t, err, tt.pattern)
		assert.Equal(t, tt.want, got, tt.pattern)
	}

	got, err := MeterFeatures("trochaic tetrameter", "SUSUSUS")
	require.NoError(t, err)
	assert.Equal(t, Features{Ending: EndingMasculine, Catalectic: true}, got)
}

func TestDominantMeter(t *testing.T) {
	lines := []LineAnalysis{
		{Meter: "iambic pentameter", Confidence: 0.9},
		{Meter: "iambic pentameter", Confidence: 0.8},
		{Meter: "trochaic pentameter", Confidence: 1.2},
		{Meter: "", Confidence: 0},
		{Meter: "iambic pentameter", Confidence: 0},
	}
	p := DominantMeter(lines)
	assert.Equal(t, "iambic pentameter", p.Meter)
	assert.Equal(t, 4, p.LineCount)
	assert.InDelta(t, 1.75/2.75, p.Strength, 1e-9)

	assert.Equal(t, Prior{}, DominantMeter(nil))
}

func TestPatternOverSyllableLimit(t *testing.T) {
	long := strings.Repeat("US", DefaultMaxSyllables/2) + "U"
	_, err := ScorePattern(long, "iambic pentameter")
	assert.ErrorIs(t, err, ErrLineTooLong)
	_, err = BestMeterForPattern(long)
	assert.ErrorIs(t, err, ErrLineTooLong)
	_, err = MeterFeatures("iambic pentameter", long)
	assert.ErrorIs(t, err, ErrLineTooLong)

	e, err := New(WithMaxSyllables(DefaultMaxSyllables + 1))
	require.NoError(t, err)
	_, err = e.ScorePattern(long, "iambic pentameter")
	assert.NoError(t, err)
	_, err = e.ScorePattern(long+"S", "iambic pentameter")
	assert.ErrorIs(t, err, ErrLineTooLong)
}
