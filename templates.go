package metermeter

import (
	"fmt"
	"math"
	"strings"
)

// Foot is a metrical foot type.
type Foot string

const (
	Iambic    Foot = "iambic"
	Trochaic  Foot = "trochaic"
	Anapestic Foot = "anapestic"
	Dactylic  Foot = "dactylic"
)

// Feet in tie-break preference order.
var Feet = []Foot{Iambic, Trochaic, Anapestic, Dactylic}

const (
	MinFeet = 1
	MaxFeet = 8
)

// lineNames indexed by foot count.
var lineNames = [...]string{
	1: "monometer", 2: "dimeter", 3: "trimeter", 4: "tetrameter",
	5: "pentameter", 6: "hexameter", 7: "heptameter", 8: "octameter",
}

// Unit returns the expected labels of one foot.
func (f Foot) Unit() []Stress {
	switch f {
	case Iambic:
		return []Stress{Unstressed, Stressed}
	case Trochaic:
		return []Stress{Stressed, Unstressed}
	case Anapestic:
		return []Stress{Unstressed, Unstressed, Stressed}
	case Dactylic:
		return []Stress{Stressed, Unstressed, Unstressed}
	}
	return nil
}

// Rising reports whether the foot ends on its stress.
func (f Foot) Rising() bool {
	return f == Iambic || f == Anapestic
}

// Binary reports whether the foot has two syllables.
func (f Foot) Binary() bool {
	return len(f.Unit()) == 2
}

func (f Foot) rank() int {
	for i, g := range Feet {
		if g == f {
			return i
		}
	}
	return len(Feet)
}

// stressSlot is the index of the stressed position inside the foot.
func (f Foot) stressSlot() int {
	for i, s := range f.Unit() {
		if s == Stressed {
			return i
		}
	}
	return -1
}

// MeterTemplate is one entry of the catalog: a foot type repeated Feet times.
type MeterTemplate struct {
	Foot Foot `json:"foot"`
	Feet int  `json:"feet"`
}

// Name returns the display name, e.g. "iambic pentameter".
func (t MeterTemplate) Name() string {
	if t.Feet < MinFeet || t.Feet > MaxFeet {
		return ""
	}
	return string(t.Foot) + " " + lineNames[t.Feet]
}

func (t MeterTemplate) String() string { return t.Name() }

// Len returns the expected syllable count.
func (t MeterTemplate) Len() int {
	return len(t.Foot.Unit()) * t.Feet
}

// Expected returns the expected label at template slot j.
func (t MeterTemplate) Expected(j int) Stress {
	u := t.Foot.Unit()
	return u[j%len(u)]
}

// Pattern returns the expected U/S string.
func (t MeterTemplate) Pattern() string {
	u := t.Foot.Unit()
	var b strings.Builder
	b.Grow(t.Len())
	for range t.Feet {
		for _, s := range u {
			b.WriteByte(byte(s))
		}
	}
	return b.String()
}

// Permits reports whether the template family allows deviation kind k at all.
// Feminine endings and headless openings belong to rising feet; catalexis
// belongs to falling feet.
func (t MeterTemplate) Permits(k DeviationKind) bool {
	switch k {
	case FeminineEnding, Headless:
		return t.Foot.Rising()
	case Catalexis:
		return !t.Foot.Rising()
	}
	return true
}

// Catalog returns every template, feet in preference order, then by foot count.
func Catalog() []MeterTemplate {
	out := make([]MeterTemplate, 0, len(Feet)*MaxFeet)
	for _, f := range Feet {
		for n := MinFeet; n <= MaxFeet; n++ {
			out = append(out, MeterTemplate{Foot: f, Feet: n})
		}
	}
	return out
}

// ParseMeterName parses names such as "iambic pentameter" or "Dactylic  Hexameter".
func ParseMeterName(name string) (MeterTemplate, error) {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) != 2 {
		return MeterTemplate{}, fmt.Errorf("%q: %w", name, ErrUnknownMeter)
	}
	foot := Foot(fields[0])
	if foot.Unit() == nil {
		return MeterTemplate{}, fmt.Errorf("%q: foot %q: %w", name, fields[0], ErrUnknownMeter)
	}
	for n := MinFeet; n <= MaxFeet; n++ {
		if lineNames[n] == fields[1] {
			return MeterTemplate{Foot: foot, Feet: n}, nil
		}
	}
	return MeterTemplate{}, fmt.Errorf("%q: line length %q: %w", name, fields[1], ErrUnknownMeter)
}

// candidateTemplates expands the templates worth decoding for a line of n
// syllables: for each foot, the foot counts within one of n divided by the
// foot's length, clamped to the catalog range.
func candidateTemplates(n int) []MeterTemplate {
	if n <= 0 {
		return nil
	}
	var out []MeterTemplate
	for _, f := range Feet {
		center := int(math.Round(float64(n) / float64(len(f.Unit()))))
		lo := max(MinFeet, center-1)
		hi := min(MaxFeet, center+1)
		if lo > hi {
			lo, hi = MaxFeet, MaxFeet
		}
		for k := lo; k <= hi; k++ {
			out = append(out, MeterTemplate{Foot: f, Feet: k})
		}
	}
	return out
}
