package metermeter

import "errors"

var (
	// ErrEmptyOptionSet is returned when a syllable reaches the decoder with no admissible label.
	ErrEmptyOptionSet = errors.New("metermeter: syllable has no stress options")
	// ErrSyllableContract is returned for caller-supplied syllables that point at a missing
	// token, run backwards through the tokens or carry an unusable option set.
	ErrSyllableContract = errors.New("metermeter: malformed syllable option set")
	// ErrLineTooLong is returned for stress patterns longer than the syllable limit.
	ErrLineTooLong = errors.New("metermeter: too many syllables")
	// ErrTokenBounds is returned for caller-supplied tokens outside the line or inside a character.
	ErrTokenBounds = errors.New("metermeter: token outside line bounds")
	// ErrUnknownMeter is returned when a meter name does not name a catalog template.
	ErrUnknownMeter = errors.New("metermeter: unknown meter")
	// ErrLexiconFormat is returned for lexicon or prior files that cannot be parsed.
	ErrLexiconFormat = errors.New("metermeter: malformed lexicon data")
)
