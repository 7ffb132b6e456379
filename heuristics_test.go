package metermeter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanWord(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Summer's", "summer's"},
		{"’Tis", "tis"},
		{"o’er", "o'er"},
		{"day?", "day"},
		{"Naïve", "naïve"},
		{"'twas'", "twas"},
		{"42", ""},
	}
	for _, tt := range tests {
		if got := CleanWord(tt.in); got != tt.want {
			t.Errorf("CleanWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimateSyllables(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cat", 1},
		{"table", 2},
		{"compare", 2},
		{"heaven", 1},
		{"every", 2},
		{"o'er", 1},
		{"entwined", 2},
		{"wanted", 2},
		{"naked", 2},
		{"trampled", 2},
		{"beautiful", 3},
		{"rhythm", 1},
		{"", 0},
		{"!!", 0},
	}
	for _, tt := range tests {
		if got := EstimateSyllables(tt.word); got != tt.want {
			t.Errorf("EstimateSyllables(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestEstimateStressPattern(t *testing.T) {
	tests := []struct {
		word, want string
	}{
		{"the", "U"},
		{"into", "US"},
		{"cat", "S"},
		{"nation", "US"},
		{"singing", "SU"},
		{"fearless", "SU"},
		{"window", "SU"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EstimateStressPattern(tt.word); got != tt.want {
			t.Errorf("EstimateStressPattern(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestSplitSyllables(t *testing.T) {
	tests := []struct {
		word string
		k    int
		want []string
	}{
		{"pollen", 2, []string{"pol", "len"}},
		{"heaven", 2, []string{"hea", "ven"}},
		{"compare", 2, []string{"com", "pare"}},
		{"temperate", 3, []string{"tem", "pe", "rate"}},
		{"glance", 1, []string{"glance"}},
		{"Zoë", 2, []string{"Z", "oë"}},
		{"a", 2, []string{"a"}},
		{"word", 0, nil},
	}
	for _, tt := range tests {
		got := SplitSyllables(tt.word, tt.k)
		assert.Equal(t, tt.want, got, "SplitSyllables(%q, %d)", tt.word, tt.k)
		if len(got) > 0 {
			assert.Equal(t, tt.word, strings.Join(got, ""), "parts of %q must rejoin", tt.word)
		}
	}
}

func TestHeuristicSyllabification(t *testing.T) {
	s := HeuristicSyllabification("window")
	assert.Equal(t, "SU", s.Pattern())
	assert.Equal(t, "win", s[0].Text)
	assert.Equal(t, "dow", s[1].Text)

	assert.Nil(t, HeuristicSyllabification("—"))
}
