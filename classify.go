package metermeter

import (
	"cmp"
	"math"
	"slices"
)

// maxScores is how many candidates a LineAnalysis reports.
const maxScores = 5

type scored struct {
	hyp  Hypothesis
	raw  float64 // normalized cost
	base float64 // raw after positional bias
	adj  float64 // base after the context prior
}

type classification struct {
	winner       scored
	gap          float64
	confidence   float64
	scores       []CandidateScore
	iambicBias   bool
	priorApplied bool
}

// applyBias adjusts a normalized cost for the line length: lines of nine to
// eleven syllables favor iambic pentameter and disfavor ternary feet.
func applyBias(raw float64, tmpl MeterTemplate, n int, costs Costs) float64 {
	if n < 9 || n > 11 {
		return raw
	}
	switch {
	case tmpl.Foot == Iambic && tmpl.Feet == 5:
		return raw - costs.PentameterBonus
	case !tmpl.Foot.Binary():
		return raw + costs.TernaryPenalty
	}
	return raw
}

// priorBonus is the discount the context prior grants to its own meter.
func priorBonus(prior *Prior, tmpl MeterTemplate, costs Costs) float64 {
	if prior == nil || prior.Meter == "" {
		return 0
	}
	want, err := ParseMeterName(prior.Meter)
	if err != nil || want != tmpl {
		return 0
	}
	return clamp01(prior.Strength) * costs.MaxPriorBonus
}

func roundCost(x float64) float64 {
	return math.Round(x*1e9) / 1e9
}

// compareScored orders candidates: cheaper first, then foot preference,
// fewer deviations, closer length, fewer feet.
func compareScored(n int, costOf func(scored) float64) func(a, b scored) int {
	return func(a, b scored) int {
		return cmp.Or(
			cmp.Compare(roundCost(costOf(a)), roundCost(costOf(b))),
			cmp.Compare(a.hyp.Template.Foot.rank(), b.hyp.Template.Foot.rank()),
			cmp.Compare(len(a.hyp.Deviations), len(b.hyp.Deviations)),
			cmp.Compare(absInt(a.hyp.Template.Len()-n), absInt(b.hyp.Template.Len()-n)),
			cmp.Compare(a.hyp.Template.Feet, b.hyp.Template.Feet),
		)
	}
}

// classify decodes syls against every candidate template and picks the winner.
// ok is false when there is nothing to classify.
func classify(syls []Syllable, prior *Prior, costs Costs, oovRatio float64) (classification, bool, error) {
	n := len(syls)
	if n == 0 {
		return classification{}, false, nil
	}
	tmpls := candidateTemplates(n)
	cands := make([]scored, 0, len(tmpls))
	for _, t := range tmpls {
		h, err := Decode(syls, t, costs)
		if err != nil {
			return classification{}, false, err
		}
		raw := h.Normalized()
		base := applyBias(raw, t, n, costs)
		cands = append(cands, scored{hyp: h, raw: raw, base: base, adj: base - priorBonus(prior, t, costs)})
	}
	return rank(cands, n, costs, oovRatio), true, nil
}

// rank orders decoded candidates and derives the winner and its confidence.
func rank(cands []scored, n int, costs Costs, oovRatio float64) classification {
	slices.SortStableFunc(cands, compareScored(n, func(s scored) float64 { return s.adj }))

	var c classification
	wi := 0
	if cands[0].hyp.Template.Foot != Iambic {
		limit := cands[0].adj + costs.IambicEpsilon
		for i, s := range cands {
			if s.hyp.Template.Foot == Iambic && roundCost(s.adj) <= roundCost(limit) {
				wi = i
				c.iambicBias = true
				break
			}
		}
	}
	c.winner = cands[wi]

	c.gap = math.Inf(1)
	for i, s := range cands {
		if i != wi {
			c.gap = math.Max(0, s.adj-c.winner.adj)
			break
		}
	}

	// The prior applied if it moved the winner away from the unprimed ranking.
	if c.winner.adj != c.winner.base {
		best := slices.MinFunc(cands, compareScored(n, func(s scored) float64 { return s.base }))
		c.priorApplied = best.hyp.Template != c.winner.hyp.Template
	}

	c.confidence = confidence(c.gap, c.winner.raw, oovRatio, costs)
	for i := 0; i < len(cands) && i < maxScores; i++ {
		c.scores = append(c.scores, CandidateScore{Meter: cands[i].hyp.Template.Name(), Cost: roundCost(cands[i].adj)})
	}
	return c
}

// confidence maps the winning margin and fit to [0,1]. It is non-decreasing
// in gap and non-increasing in raw cost and OOV ratio.
func confidence(gap, raw, oovRatio float64, costs Costs) float64 {
	gapTerm := 1.0
	if !math.IsInf(gap, 1) {
		gapTerm = 1 - math.Exp(-math.Max(0, gap)/costs.GapScale)
	}
	fitTerm := math.Exp(-math.Max(0, raw) / costs.FitScale)
	v := costs.GapWeight*gapTerm + costs.FitWeight*fitTerm
	v *= 1 - costs.OOVWeight*clamp01(oovRatio)
	return clamp01(v)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
