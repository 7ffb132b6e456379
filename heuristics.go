package metermeter

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// reVowelGroup matches one orthographic syllable nucleus.
var reVowelGroup = regexp.MustCompile(`(?i)[aeiouy]+`)

// unstressedFunctionWords carry no stress by default when out of context.
var unstressedFunctionWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "be": true,
	"but": true, "by": true, "for": true, "from": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "nor": true, "of": true, "on": true,
	"or": true, "so": true, "than": true, "that": true, "the": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true, "this": true,
	"to": true, "up": true, "was": true, "we": true, "were": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "with": true, "you": true,
	"your": true,
}

// stressedSuffixes pull the stress onto the final syllable.
var stressedSuffixes = []string{"tion", "sion", "cian", "ture", "gion", "self", "selves", "ique", "eer"}

// weakSuffixes leave the stress on the penultimate syllable.
var weakSuffixes = []string{"ing", "ed", "es", "ly", "er", "est", "ous", "less", "ness"}

// elidedSyllables overrides the vowel-group count for words usually contracted in verse.
var elidedSyllables = map[string]int{
	"heaven": 1,
	"even":   1,
	"every":  2,
	"oer":    1,
	"o'er":   1,
	"power":  1,
	"hour":   1,
	"flower": 1,
	"fiery":  2,
	"spirit": 2,
}

// syllabicEdAdjectives keep a sounded "-ed" after consonants other than t/d.
var syllabicEdAdjectives = map[string]bool{
	"aged": true, "beloved": true, "blessed": true, "crabbed": true, "crooked": true,
	"cursed": true, "dogged": true, "jagged": true, "learned": true, "naked": true,
	"ragged": true, "rugged": true, "sacred": true, "wicked": true, "winged": true,
	"wretched": true,
}

// EstimateSyllables guesses the syllable count of word from its spelling.
// It returns 0 only for words with no letters.
func EstimateSyllables(word string) int {
	clean := CleanWord(word)
	if clean == "" {
		return 0
	}
	if n, ok := elidedSyllables[clean]; ok {
		return n
	}

	n := len(reVowelGroup.FindAllStringIndex(clean, -1))
	r := []rune(clean)
	switch {
	case strings.HasSuffix(clean, "e") && !hasAnySuffix(clean, "le", "ye") && n > 1:
		n--
	case silentEd(clean, r) && n > 1:
		n--
	}
	return max(1, n)
}

// silentEd reports whether the past-tense "-ed" of clean is not sounded.
func silentEd(clean string, r []rune) bool {
	if !strings.HasSuffix(clean, "ed") || len(r) < 4 {
		return false
	}
	c := r[len(r)-3]
	if isVowel(c) || c == 't' || c == 'd' || syllabicEdAdjectives[clean] {
		return false
	}
	// trampled, troubled: the "e" belongs to a syllabic -le
	if strings.HasSuffix(clean, "led") && !strings.HasSuffix(clean, "lled") && len(r) >= 5 && !isVowel(r[len(r)-4]) {
		return false
	}
	return true
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// stressAt builds a pattern of n syllables with a single stress at idx.
func stressAt(n, idx int) string {
	if n <= 0 {
		return ""
	}
	idx = max(0, min(idx, n-1))
	b := []byte(strings.Repeat(string(Unstressed), n))
	b[idx] = byte(Stressed)
	return string(b)
}

// EstimateStressPattern guesses a U/S pattern for a word that no dictionary knows.
func EstimateStressPattern(word string) string {
	clean := CleanWord(word)
	if clean == "" {
		return ""
	}
	n := EstimateSyllables(clean)

	if unstressedFunctionWords[clean] {
		if n == 1 {
			return string(Unstressed)
		}
		return stressAt(n, n-1)
	}
	if n == 1 {
		return string(Stressed)
	}
	if hasAnySuffix(clean, stressedSuffixes...) {
		return stressAt(n, n-1)
	}
	if hasAnySuffix(clean, weakSuffixes...) {
		return stressAt(n, n-2)
	}
	return stressAt(n, 0)
}

// SplitSyllables splits the surface form of word into k orthographic
// syllables whose concatenation is word. Vowel groups anchor the split;
// when there are fewer groups than k the word is cut into even rune runs.
func SplitSyllables(word string, k int) []string {
	if k <= 0 || word == "" {
		return nil
	}
	if k == 1 {
		return []string{word}
	}
	r := []rune(word)

	// nuclei as [start, end) rune ranges
	var nuclei [][2]int
	for i := 0; i < len(r); {
		if !isVowel(r[i]) {
			i++
			continue
		}
		j := i
		for j < len(r) && isVowel(r[j]) {
			j++
		}
		nuclei = append(nuclei, [2]int{i, j})
		i = j
	}
	if len(nuclei) < k {
		return splitEven(r, k)
	}
	// fold surplus nuclei (silent e, elided vowels) into the last syllable
	nuclei = nuclei[:k]

	parts := make([]string, 0, k)
	start := 0
	for s := 0; s < k-1; s++ {
		gapStart, gapEnd := nuclei[s][1], nuclei[s+1][0]
		cut := gapStart
		if gapEnd-gapStart >= 2 {
			cut = gapStart + 1
		}
		parts = append(parts, string(r[start:cut]))
		start = cut
	}
	parts = append(parts, string(r[start:]))
	return parts
}

func splitEven(r []rune, k int) []string {
	if len(r) < k {
		k = len(r)
	}
	parts := make([]string, 0, k)
	for i := 0; i < k; i++ {
		a := i * len(r) / k
		b := (i + 1) * len(r) / k
		parts = append(parts, string(r[a:b]))
	}
	return parts
}

// HeuristicSyllabification builds the fallback syllabification of an unknown word.
func HeuristicSyllabification(word string) Syllabification {
	pattern := EstimateStressPattern(word)
	if pattern == "" {
		return nil
	}
	return syllabify(word, pattern)
}

// syllabify pairs a U/S pattern with the orthographic split of word.
// If the word has fewer runes than the pattern has syllables the text of the
// surplus syllables is left empty.
func syllabify(word, pattern string) Syllabification {
	texts := SplitSyllables(word, len(pattern))
	out := make(Syllabification, len(pattern))
	for i := range pattern {
		out[i].Stress = Stress(pattern[i])
		if i < len(texts) {
			out[i].Text = texts[i]
		}
	}
	return out
}

// validPattern reports whether p is a non-empty string of U and S only.
func validPattern(p string) bool {
	if p == "" || !utf8.ValidString(p) {
		return false
	}
	for i := 0; i < len(p); i++ {
		if !Stress(p[i]).Valid() {
			return false
		}
	}
	return true
}
