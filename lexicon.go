package metermeter

import (
	"bytes"
	_ "embed"
	"maps"
	"slices"
)

//go:embed data/builtin_lexicon.json
var builtinLexicon []byte

// Lexicon is an in-memory pronunciation dictionary mapping a cleaned word to
// its U/S stress patterns, preferred first. It implements Pronouncer.
// A Lexicon is never mutated after construction.
type Lexicon struct {
	words map[string][]string
}

// NewLexicon builds a lexicon from raw entries. Keys are cleaned with
// CleanWord; patterns that are not pure U/S strings are dropped, and words
// left without a pattern are skipped.
func NewLexicon(entries map[string][]string) *Lexicon {
	l := &Lexicon{words: make(map[string][]string, len(entries))}
	for w, patterns := range entries {
		key := CleanWord(w)
		if key == "" {
			continue
		}
		var kept []string
		for _, p := range patterns {
			if validPattern(p) && !slices.Contains(kept, p) {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			l.words[key] = kept
		}
	}
	return l
}

// BuiltinLexicon returns the curated lexicon compiled into the binary.
func BuiltinLexicon() *Lexicon {
	l, err := ReadLexicon(bytes.NewReader(builtinLexicon))
	if err != nil {
		panic("metermeter: builtin lexicon: " + err.Error())
	}
	return l
}

// Merge returns a new lexicon holding the entries of l overridden by those of others, in order.
func (l *Lexicon) Merge(others ...*Lexicon) *Lexicon {
	out := &Lexicon{words: make(map[string][]string, l.Len())}
	maps.Copy(out.words, l.words)
	for _, o := range others {
		if o != nil {
			maps.Copy(out.words, o.words)
		}
	}
	return out
}

// Without returns a copy of l with the given words removed.
func (l *Lexicon) Without(words ...string) *Lexicon {
	out := l.Merge()
	for _, w := range words {
		delete(out.words, CleanWord(w))
	}
	return out
}

// Len returns the number of words.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// Patterns returns the stress patterns of word, or nil when it is unknown.
// A possessive "'s" falls back to the base word.
func (l *Lexicon) Patterns(word string) []string {
	if l == nil {
		return nil
	}
	key := CleanWord(word)
	if p, ok := l.words[key]; ok {
		return p
	}
	if base, ok := possessiveBase(key); ok {
		return l.words[base]
	}
	return nil
}

// Each calls fn for every entry in word order.
func (l *Lexicon) Each(fn func(word string, patterns []string)) {
	if l == nil {
		return
	}
	for _, w := range slices.Sorted(maps.Keys(l.words)) {
		fn(w, l.words[w])
	}
}

// Pronounce implements Pronouncer. Unknown words get a heuristic syllabification with Hit false.
func (l *Lexicon) Pronounce(word string) Pronunciation {
	return PronounceFromPatterns(word, l.Patterns(word))
}

// LookupKeys returns the keys a store should try for word, most specific
// first: the cleaned word and, for a possessive, its base.
func LookupKeys(word string) []string {
	key := CleanWord(word)
	if key == "" {
		return nil
	}
	if base, ok := possessiveBase(key); ok {
		return []string{key, base}
	}
	return []string{key}
}

// PronounceFromPatterns builds the Pronunciation of word from stored stress
// patterns. With no usable pattern it falls back to the spelling heuristics.
// It lets pronouncers backed by other stores share the lexicon's behavior.
func PronounceFromPatterns(word string, patterns []string) Pronunciation {
	pr := Pronunciation{Word: word}
	for _, p := range patterns {
		if validPattern(p) {
			pr.Syllabifications = append(pr.Syllabifications, syllabify(word, p))
		}
	}
	if len(pr.Syllabifications) > 0 {
		pr.Hit = true
		return pr
	}
	if syl := HeuristicSyllabification(word); len(syl) > 0 {
		pr.Syllabifications = []Syllabification{syl}
	}
	return pr
}

// HeuristicPronouncer answers every word from spelling alone.
type HeuristicPronouncer struct{}

// Pronounce implements Pronouncer.
func (HeuristicPronouncer) Pronounce(word string) Pronunciation {
	pr := Pronunciation{Word: word}
	if syl := HeuristicSyllabification(word); len(syl) > 0 {
		pr.Syllabifications = []Syllabification{syl}
	}
	return pr
}
