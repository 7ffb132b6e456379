package metermeter

import (
	"strings"
	"unicode"
)

// apostropheReplacer folds typographic apostrophes and primes onto the ASCII apostrophe.
var apostropheReplacer = strings.NewReplacer(
	"’", "'", // ’ right single quotation mark
	"‘", "'", // ‘ left single quotation mark
	"ʼ", "'", // ʼ modifier letter apostrophe
	"′", "'", // ′ prime
)

// CleanWord returns the lookup key for a word: lowercase letters and inner
// apostrophes only, with leading and trailing apostrophes removed.
func CleanWord(word string) string {
	word = apostropheReplacer.Replace(strings.ToLower(word))
	var b strings.Builder
	b.Grow(len(word))
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || r == '\'' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "'")
}

// possessiveBase strips a trailing possessive "'s" from a cleaned word.
func possessiveBase(clean string) (string, bool) {
	if len(clean) > 2 && strings.HasSuffix(clean, "'s") {
		return clean[:len(clean)-2], true
	}
	return "", false
}

// vowelRunes are the letters counted as syllable nuclei, including common accented forms.
const vowelRunes = "aeiouyAEIOUYàáâãäåèéêëìíîïòóôõöùúûüýÿæœÀÁÂÃÄÅÈÉÊËÌÍÎÏÒÓÔÕÖÙÚÛÜÝÆŒ"

func isVowel(r rune) bool {
	return strings.ContainsRune(vowelRunes, r)
}
