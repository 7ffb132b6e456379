package metermeter

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// reWord matches a word: letters and combining marks, with inner apostrophes.
var reWord = regexp.MustCompile(`[\p{L}\p{M}]+(?:['’][\p{L}\p{M}]+)*`)

// Tokenize splits a line into word tokens with byte offsets.
// Punctuation, digits and hyphens separate tokens and never belong to one.
func Tokenize(line string) []Token {
	locs := reWord.FindAllStringIndex(line, -1)
	tokens := make([]Token, 0, len(locs))
	for i, loc := range locs {
		tokens = append(tokens, Token{
			Text:     line[loc[0]:loc[1]],
			Start:    loc[0],
			End:      loc[1],
			Position: i,
		})
	}
	return tokens
}

// checkTokens verifies that caller-supplied tokens lie inside line on rune
// boundaries and in increasing order.
func checkTokens(line string, tokens []Token) error {
	prev := 0
	for i, t := range tokens {
		if t.Start < prev || t.End < t.Start || t.End > len(line) {
			return fmt.Errorf("token %d [%d,%d) in line of %d bytes: %w", i, t.Start, t.End, len(line), ErrTokenBounds)
		}
		if !onRuneBoundary(line, t.Start) || !onRuneBoundary(line, t.End) {
			return fmt.Errorf("token %d [%d,%d) splits a character: %w", i, t.Start, t.End, ErrTokenBounds)
		}
		prev = t.End
	}
	return nil
}

func onRuneBoundary(s string, i int) bool {
	return i == 0 || i == len(s) || (i > 0 && i < len(s) && utf8.RuneStart(s[i]))
}
