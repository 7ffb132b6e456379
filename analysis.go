package metermeter

import (
	"encoding/json"
	"fmt"
)

// Ending values reported in Features.
const (
	EndingMasculine = "masc"
	EndingFeminine  = "fem"
)

// Span is a half-open byte range [Start, End) of the original line.
// It encodes as the JSON pair [start, end].
type Span struct {
	Start int
	End   int
}

// MarshalJSON implements json.Marshaler.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Span) UnmarshalJSON(b []byte) error {
	var pair []int
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("span: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("span: want [start, end], got %d numbers", len(pair))
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Features summarizes the substitutions the winning hypothesis used.
type Features struct {
	// Ending is "masc" when the line ends on a stressed syllable, "fem" otherwise.
	Ending           string `json:"ending"`
	Inversion        bool   `json:"inversion"`
	InitialInversion bool   `json:"initial_inversion"`
	Spondee          bool   `json:"spondee"`
	Pyrrhic          bool   `json:"pyrrhic"`
	Headless         bool   `json:"headless"`
	Catalectic       bool   `json:"catalectic"`
}

// ResolvedSyllable is a syllable after decoding: its final label and where it sits in the line.
type ResolvedSyllable struct {
	Token  int    `json:"token"`
	Text   string `json:"text"`
	Stress Stress `json:"-"`
	Label  string `json:"stress"`
	Source Source `json:"source"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// CandidateScore is the adjusted, length-normalized cost of one template.
type CandidateScore struct {
	Meter string  `json:"meter"`
	Cost  float64 `json:"cost"`
}

// LineAnalysis is the result of analyzing one line.
// An unanalyzable line has an empty Meter and zero Confidence.
type LineAnalysis struct {
	Text       string             `json:"text"`
	Tokens     []Token            `json:"tokens"`
	Syllables  []ResolvedSyllable `json:"syllables"`
	Pattern    string             `json:"stress_pattern"`
	Meter      string             `json:"meter_name"`
	Foot       Foot               `json:"foot,omitempty"`
	Feet       int                `json:"feet_count"`
	Confidence float64            `json:"confidence"`
	Features   Features           `json:"features"`
	// Spans marks the stressed syllables, in line order.
	Spans []Span `json:"stress_spans"`
	// OOV lists the normalized tokens resolved by heuristic fallback.
	OOV []string `json:"oov_tokens"`
	// Scores holds the best few candidates, best first.
	Scores []CandidateScore `json:"scores"`
	// IambicBias is set when a near-tied iambic template was preferred over the cheapest one.
	IambicBias bool `json:"iambic_bias"`
	// PriorApplied is set when the context prior's meter won.
	PriorApplied bool `json:"prior_applied"`
}

// Labels returns the resolved stress labels, one per syllable.
func (a *LineAnalysis) Labels() []Stress {
	out := make([]Stress, len(a.Syllables))
	for i, s := range a.Syllables {
		out[i] = s.Stress
	}
	return out
}
