package metermeter

import (
	"strings"
	"unicode/utf8"
)

// syllableSpans locates every syllable inside its token's byte range.
// A token whose syllables cannot all be found as substrings is split
// proportionally to the syllables' rune widths instead.
func syllableSpans(line string, tokens []Token, syls []Syllable) []Span {
	out := make([]Span, len(syls))
	for i := 0; i < len(syls); {
		j := i
		for j < len(syls) && syls[j].Token == syls[i].Token {
			j++
		}
		ti := syls[i].Token
		if ti >= 0 && ti < len(tokens) {
			tok := tokens[ti]
			if !locate(line, tok, syls[i:j], out[i:j]) {
				proportional(line, tok, syls[i:j], out[i:j])
			}
		}
		i = j
	}
	return out
}

// locate fills spans by substring search with an advancing cursor.
func locate(line string, tok Token, syls []Syllable, spans []Span) bool {
	cursor := tok.Start
	for k, s := range syls {
		if s.Text == "" {
			return false
		}
		start := find(line, cursor, tok.End, s.Text)
		if start < 0 {
			return false
		}
		spans[k] = Span{Start: start, End: start + len(s.Text)}
		cursor = spans[k].End
	}
	return true
}

// find returns the byte offset of text in line[from:to], first exactly and
// then ignoring case, or -1. Matches always start and end on rune boundaries.
func find(line string, from, to int, text string) int {
	if from >= to || len(text) > to-from {
		return -1
	}
	window := line[from:to]
	if k := strings.Index(window, text); k >= 0 && utf8.RuneStart(window[k]) {
		if end := k + len(text); end == len(window) || utf8.RuneStart(window[end]) {
			return from + k
		}
	}
	for k := 0; k+len(text) <= len(window); {
		end := k + len(text)
		if (end == len(window) || utf8.RuneStart(window[end])) && strings.EqualFold(window[k:end], text) {
			return from + k
		}
		_, size := utf8.DecodeRuneInString(window[k:])
		k += size
	}
	return -1
}

// proportional splits the token's runes among syllables by rune width.
// Every syllable gets at least one rune while the token has enough of them.
func proportional(line string, tok Token, syls []Syllable, spans []Span) {
	text := line[tok.Start:tok.End]
	// byte offset of every rune boundary, including the end
	offsets := make([]int, 0, len(text)+1)
	for k := range text {
		offsets = append(offsets, k)
	}
	runes := len(offsets)
	offsets = append(offsets, len(text))

	weights := make([]int, len(syls))
	total := 0
	for k, s := range syls {
		weights[k] = max(1, utf8.RuneCountInString(s.Text))
		total += weights[k]
	}

	acc := 0
	prev := 0
	for k := range syls {
		acc += weights[k]
		cut := acc * runes / total
		// leave at least one rune for each remaining syllable
		cut = min(cut, runes-(len(syls)-k-1))
		cut = max(cut, prev+1)
		cut = min(cut, runes)
		start := prev
		if start >= cut {
			start = max(0, cut-1)
		}
		if k == len(syls)-1 {
			cut = runes
		}
		spans[k] = Span{Start: tok.Start + offsets[start], End: tok.Start + offsets[cut]}
		prev = cut
	}
}

// stressedSpan narrows a stressed syllable's span to its vowel nucleus and
// coda. A syllable with no vowel keeps its whole span.
func stressedSpan(line string, sp Span) Span {
	for k, r := range line[sp.Start:sp.End] {
		if isVowel(r) {
			return Span{Start: sp.Start + k, End: sp.End}
		}
	}
	return sp
}

// stressSpans returns the spans of the stressed syllables in line order,
// merging any that overlap.
func stressSpans(line string, sylSpans []Span, labels []Stress) []Span {
	out := []Span{}
	for i, sp := range sylSpans {
		if i >= len(labels) || labels[i] != Stressed || sp.End <= sp.Start {
			continue
		}
		sp = stressedSpan(line, sp)
		if n := len(out); n > 0 && sp.Start < out[n-1].End {
			out[n-1].End = max(out[n-1].End, sp.End)
			continue
		}
		out = append(out, sp)
	}
	return out
}
