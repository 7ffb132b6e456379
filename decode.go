package metermeter

import (
	"fmt"
	"math"
	"slices"
)

// DeviationKind names a departure from a template's expected stress.
// It encodes as its snake_case name.
type DeviationKind uint8

const (
	noDeviation     DeviationKind = iota
	Promotion                     // S in a U slot
	Demotion                      // U in an S slot
	FeminineEnding                // extra final U after a complete rising line
	Headless                      // missing opening U of a rising line
	Catalexis                     // missing closing U of a falling line
	ExtraSyllable                 // syllable matched to no slot
	MissingSyllable               // slot matched to no syllable
)

var deviationNames = [...]string{
	noDeviation:     "",
	Promotion:       "promotion",
	Demotion:        "demotion",
	FeminineEnding:  "feminine_ending",
	Headless:        "headless",
	Catalexis:       "catalexis",
	ExtraSyllable:   "extra_syllable",
	MissingSyllable: "missing_syllable",
}

// String returns the snake_case name of k.
func (k DeviationKind) String() string {
	if int(k) < len(deviationNames) {
		return deviationNames[k]
	}
	return fmt.Sprintf("DeviationKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k DeviationKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Deviation records one deviation on the decoded path.
// Syllable is -1 for a skipped slot and Slot is -1 for an extra syllable.
type Deviation struct {
	Kind     DeviationKind `json:"kind"`
	Syllable int           `json:"syllable"`
	Slot     int           `json:"slot"`
}

// Hypothesis is the cheapest alignment of a line to one template.
type Hypothesis struct {
	Template MeterTemplate
	// Labels holds the chosen label of every syllable.
	Labels []Stress
	// Sources holds the origin of every chosen label.
	Sources []Source
	// Slots maps every syllable to its template slot, -1 for extra syllables.
	Slots      []int
	Cost       float64
	Deviations []Deviation
}

// Pattern returns the chosen labels as a U/S string.
func (h Hypothesis) Pattern() string {
	b := make([]byte, len(h.Labels))
	for i, s := range h.Labels {
		b[i] = byte(s)
	}
	return string(b)
}

// Normalized returns the cost divided by the larger of syllable count and template length.
func (h Hypothesis) Normalized() float64 {
	d := max(len(h.Labels), h.Template.Len())
	if d == 0 {
		return 0
	}
	return h.Cost / float64(d)
}

// Has reports whether the path used a deviation of kind k.
func (h Hypothesis) Has(k DeviationKind) bool {
	return slices.ContainsFunc(h.Deviations, func(d Deviation) bool { return d.Kind == k })
}

type move uint8

const (
	moveNone move = iota
	moveMatch
	moveExtra
	moveSkip
)

// cell is one entry of the lattice: the cheapest way to have consumed i
// syllables and j template slots. opt indexes the chosen option, -1 for a
// skipped slot; option sets never exceed maxOptions.
type cell struct {
	cost float64
	move move
	opt  int8
	dev  DeviationKind
}

// lattice is the (n+1)×(L+1) table, stored row-major.
type lattice struct {
	cols  int
	cells []cell
}

func newLattice(n, l int) *lattice {
	t := &lattice{cols: l + 1, cells: make([]cell, (n+1)*(l+1))}
	for i := range t.cells {
		t.cells[i] = cell{cost: math.Inf(1), opt: -1}
	}
	return t
}

func (t *lattice) at(i, j int) *cell {
	return &t.cells[i*t.cols+j]
}

func (c *cell) relax(cost float64, m move, opt int, dev DeviationKind) {
	if cost < c.cost {
		*c = cell{cost: cost, move: m, opt: int8(opt), dev: dev}
	}
}

// checkOptions verifies one syllable's option set: one or two options, each
// with a known label and a finite, non-negative cost.
func checkOptions(i int, s Syllable) error {
	switch {
	case len(s.Options) == 0:
		return fmt.Errorf("syllable %d %q: %w", i, s.Text, ErrEmptyOptionSet)
	case len(s.Options) > maxOptions:
		return fmt.Errorf("syllable %d %q has %d options, at most %d allowed: %w", i, s.Text, len(s.Options), maxOptions, ErrSyllableContract)
	}
	for k, o := range s.Options {
		if !o.Label.Valid() {
			return fmt.Errorf("syllable %d %q option %d: label %q: %w", i, s.Text, k, o.Label.String(), ErrSyllableContract)
		}
		if o.Cost < 0 || math.IsNaN(o.Cost) || math.IsInf(o.Cost, 0) {
			return fmt.Errorf("syllable %d %q option %d: cost %v: %w", i, s.Text, k, o.Cost, ErrSyllableContract)
		}
	}
	return nil
}

// Decode finds the minimum-cost stress assignment of syls against tmpl.
// It returns ErrEmptyOptionSet if any syllable has no options and
// ErrSyllableContract if an option set is too large or carries an unknown
// label or an unusable cost.
func Decode(syls []Syllable, tmpl MeterTemplate, costs Costs) (Hypothesis, error) {
	for i, s := range syls {
		if err := checkOptions(i, s); err != nil {
			return Hypothesis{}, err
		}
	}
	L := tmpl.Len()
	if L == 0 {
		return Hypothesis{}, fmt.Errorf("template %+v: %w", tmpl, ErrUnknownMeter)
	}
	n := len(syls)
	t := newLattice(n, L)
	t.at(0, 0).cost = 0

	for i := 0; i <= n; i++ {
		for j := 0; j <= L; j++ {
			if i == 0 && j == 0 {
				continue
			}
			c := t.at(i, j)
			// Order matters on ties: match, then extra syllable, then skipped slot.
			if i > 0 && j > 0 {
				opt, step, dev := matchStep(syls[i-1], tmpl, j-1, costs)
				c.relax(t.at(i-1, j-1).cost+step, moveMatch, opt, dev)
			}
			if i > 0 {
				fem := i == n && j == L && tmpl.Permits(FeminineEnding)
				opt, step, dev := extraStep(syls[i-1], fem, costs)
				c.relax(t.at(i-1, j).cost+step, moveExtra, opt, dev)
			}
			if j > 0 {
				step, dev := skipStep(tmpl, i, n, j-1, costs)
				c.relax(t.at(i, j-1).cost+step, moveSkip, -1, dev)
			}
		}
	}
	return t.backtrace(syls, tmpl), nil
}

// mismatch is the penalty for label s in slot j.
func mismatch(tmpl MeterTemplate, j int, s Stress, costs Costs) (float64, DeviationKind) {
	want := tmpl.Expected(j)
	if s == want {
		return 0, noDeviation
	}
	pen, kind := costs.Demotion, Demotion
	if s == Stressed {
		pen, kind = costs.Promotion, Promotion
	}
	if tmpl.Foot.Binary() && j < 2 {
		pen *= costs.InversionDiscount
	}
	return pen, kind
}

func matchStep(s Syllable, tmpl MeterTemplate, j int, costs Costs) (int, float64, DeviationKind) {
	best, bestCost := -1, math.Inf(1)
	var bestDev DeviationKind
	for k, o := range s.Options {
		pen, dev := mismatch(tmpl, j, o.Label, costs)
		if c := o.Cost + pen; c < bestCost {
			best, bestCost, bestDev = k, c, dev
		}
	}
	return best, bestCost, bestDev
}

func extraStep(s Syllable, feminine bool, costs Costs) (int, float64, DeviationKind) {
	best, bestCost := -1, math.Inf(1)
	dev := ExtraSyllable
	if feminine {
		for k, o := range s.Options {
			if o.Label == Unstressed && o.Cost+costs.FeminineEnding < bestCost {
				best, bestCost, dev = k, o.Cost+costs.FeminineEnding, FeminineEnding
			}
		}
	}
	for k, o := range s.Options {
		if c := o.Cost + costs.Insertion; c < bestCost {
			best, bestCost, dev = k, c, ExtraSyllable
		}
	}
	return best, bestCost, dev
}

func skipStep(tmpl MeterTemplate, i, n, j int, costs Costs) (float64, DeviationKind) {
	if j == 0 && i == 0 && tmpl.Expected(0) == Unstressed && tmpl.Permits(Headless) {
		return costs.Headless, Headless
	}
	if i == n && tmpl.Permits(Catalexis) && trailingWeak(tmpl, j) {
		return costs.Catalexis, Catalexis
	}
	return costs.Deletion, MissingSyllable
}

// trailingWeak reports whether slot j is one of the unstressed slots after
// the stress of the final foot.
func trailingWeak(tmpl MeterTemplate, j int) bool {
	u := len(tmpl.Foot.Unit())
	last := tmpl.Len() - u
	return j > last+tmpl.Foot.stressSlot() && tmpl.Expected(j) == Unstressed
}

func (t *lattice) backtrace(syls []Syllable, tmpl MeterTemplate) Hypothesis {
	n, L := len(syls), tmpl.Len()
	h := Hypothesis{
		Template: tmpl,
		Labels:   make([]Stress, n),
		Sources:  make([]Source, n),
		Slots:    make([]int, n),
		Cost:     t.at(n, L).cost,
	}
	var devs []Deviation
	i, j := n, L
	for i > 0 || j > 0 {
		c := t.at(i, j)
		switch c.move {
		case moveMatch:
			o := syls[i-1].Options[c.opt]
			h.Labels[i-1], h.Sources[i-1], h.Slots[i-1] = o.Label, o.Source, j-1
			if c.dev != noDeviation {
				devs = append(devs, Deviation{Kind: c.dev, Syllable: i - 1, Slot: j - 1})
			}
			i, j = i-1, j-1
		case moveExtra:
			o := syls[i-1].Options[c.opt]
			h.Labels[i-1], h.Sources[i-1], h.Slots[i-1] = o.Label, o.Source, -1
			devs = append(devs, Deviation{Kind: c.dev, Syllable: i - 1, Slot: -1})
			i--
		case moveSkip:
			devs = append(devs, Deviation{Kind: c.dev, Syllable: -1, Slot: j - 1})
			j--
		default:
			// unreachable once (0,0) is seeded: every other cell has a finite predecessor
			panic(fmt.Sprintf("metermeter: broken lattice at (%d,%d)", i, j))
		}
	}
	slices.Reverse(devs)
	h.Deviations = devs
	return h
}
