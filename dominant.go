package metermeter

import "math"

// DominantMeter votes for the prevailing meter of a group of lines, each
// line weighted by its confidence clamped to [0.05, 1]. The result can be
// fed back as the prior of a second pass. Lines without a meter do not vote.
func DominantMeter(analyses []LineAnalysis) Prior {
	weights := map[string]float64{}
	var order []string
	total := 0.0
	n := 0
	for _, a := range analyses {
		if a.Meter == "" {
			continue
		}
		w := math.Max(0.05, math.Min(1, a.Confidence))
		if _, seen := weights[a.Meter]; !seen {
			order = append(order, a.Meter)
		}
		weights[a.Meter] += w
		total += w
		n++
	}
	if n == 0 {
		return Prior{}
	}
	best := order[0]
	for _, m := range order[1:] {
		if weights[m] > weights[best] {
			best = m
		}
	}
	return Prior{Meter: best, Strength: weights[best] / total, LineCount: n}
}
