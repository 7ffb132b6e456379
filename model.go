package metermeter

// Stress is the stress label of a single syllable.
type Stress byte

const (
	// Unstressed marks a weak syllable.
	Unstressed Stress = 'U'
	// Stressed marks a prominent syllable.
	Stressed Stress = 'S'
)

func (s Stress) String() string {
	return string(rune(s))
}

// Valid reports whether s is one of the two known labels.
func (s Stress) Valid() bool {
	return s == Stressed || s == Unstressed
}

// Source tags where a syllable option came from.
type Source string

const (
	// SourceLexical is a stress taken from a dictionary hit.
	SourceLexical Source = "lexical"
	// SourcePrior is a stress taken from the function-word prior table.
	SourcePrior Source = "prior"
	// SourceHeuristic is a stress estimated for an out-of-vocabulary word.
	SourceHeuristic Source = "heuristic"
	// SourcePattern is a fixed stress supplied by the caller as a U/S pattern.
	SourcePattern Source = "pattern"
)

// Token is a word-like unit of a line.
// Start and End are byte offsets into the original line.
type Token struct {
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Position int    `json:"position"`
}

// SyllableOption is one admissible stress label for one syllable.
type SyllableOption struct {
	// Label is the stress this option assigns.
	Label Stress
	// Cost is 0 for the preferred label and positive for a dispreferred one.
	Cost float64
	// Source says which evidence produced the option.
	Source Source
}

// Syllable is one syllable position of a line together with its admissible labels.
type Syllable struct {
	// Token is the index of the owning token in the line's token list.
	Token int
	// Index is the position of the syllable inside its token.
	Index int
	// Text is the orthographic (or phonetic) text of the syllable, used for span mapping.
	Text string
	// Options is never empty for a well-formed syllable.
	Options []SyllableOption
}

// SyllableStress is one syllable of a syllabification as reported by a Pronouncer.
type SyllableStress struct {
	Text   string
	Stress Stress
}

// Syllabification is one candidate split of a word into stressed/unstressed syllables.
type Syllabification []SyllableStress

// Pattern returns the U/S string of the syllabification.
func (s Syllabification) Pattern() string {
	b := make([]byte, len(s))
	for i, syl := range s {
		b[i] = byte(syl.Stress)
	}
	return string(b)
}

// Pronunciation is the answer of a Pronouncer for one word.
type Pronunciation struct {
	Word string
	// Syllabifications lists candidates, preferred first.
	Syllabifications []Syllabification
	// Hit is true for a dictionary hit and false for a heuristic fallback.
	Hit bool
}

// Pronouncer maps a word to its candidate syllabifications.
// Implementations must be safe for concurrent use.
type Pronouncer interface {
	Pronounce(word string) Pronunciation
}

// Prior is an optional soft context prior, typically the dominant meter of
// the surrounding poem. Strength is clamped to [0,1].
type Prior struct {
	Meter     string  `json:"dominant_meter"`
	Strength  float64 `json:"strength"`
	LineCount int     `json:"line_count,omitempty"`
}
