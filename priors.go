package metermeter

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed data/priors.yaml
var builtinPriors []byte

// PriorTable is the curated stress tendency of monosyllabic function words.
// Each value is the probability that the word is stressed in running verse.
// A PriorTable is immutable once loaded and safe to share.
type PriorTable struct {
	Version string             `yaml:"version"`
	Scale   float64            `yaml:"scale"`
	Words   map[string]float64 `yaml:"words"`
}

// LoadPriors parses a YAML prior table.
func LoadPriors(r io.Reader) (*PriorTable, error) {
	var t PriorTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode priors: empty document: %w", ErrLexiconFormat)
		}
		return nil, fmt.Errorf("decode priors: %w", err)
	}
	words := make(map[string]float64, len(t.Words))
	for w, p := range t.Words {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, fmt.Errorf("prior for %q is %g, want [0,1]: %w", w, p, ErrLexiconFormat)
		}
		words[CleanWord(w)] = p
	}
	t.Words = words
	if t.Scale <= 0 {
		t.Scale = 1
	}
	return &t, nil
}

// BuiltinPriors returns the prior table compiled into the binary.
func BuiltinPriors() *PriorTable {
	t, err := LoadPriors(bytes.NewReader(builtinPriors))
	if err != nil {
		panic("metermeter: builtin priors: " + err.Error())
	}
	return t
}

// Lookup returns the stress probability of a cleaned word.
func (t *PriorTable) Lookup(word string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	p, ok := t.Words[word]
	return p, ok
}

// Len returns the number of words in the table.
func (t *PriorTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Words)
}

// Sorted returns the table's words in sorted order.
func (t *PriorTable) Sorted() []string {
	if t == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(t.Words))
}
