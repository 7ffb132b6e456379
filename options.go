package metermeter

import "math"

// maxOptions bounds the option set of a syllable: one per label.
const maxOptions = 2

// OptionSet is the Syllable Option Builder's output for one line.
type OptionSet struct {
	Syllables []Syllable
	// OOV lists the cleaned words that fell back to heuristics.
	OOV []string
	// Malformed counts syllabifications dropped for being empty or carrying unknown labels.
	Malformed int
}

// BuildOptions turns tokens and their pronunciations into per-syllable option
// sets. prons[i] belongs to tokens[i]; a missing entry is treated as a miss.
// Tokens without letters contribute no syllables.
func BuildOptions(tokens []Token, prons []Pronunciation, priors *PriorTable, costs Costs) OptionSet {
	var out OptionSet
	for ti, tok := range tokens {
		clean := CleanWord(tok.Text)
		if clean == "" {
			continue
		}
		var pr Pronunciation
		if ti < len(prons) {
			pr = prons[ti]
		}

		var valid []Syllabification
		for _, s := range pr.Syllabifications {
			if wellFormed(s) {
				valid = append(valid, s)
			} else {
				out.Malformed++
			}
		}
		hit := pr.Hit && len(valid) > 0
		if len(valid) == 0 {
			if s := HeuristicSyllabification(tok.Text); len(s) > 0 {
				valid = []Syllabification{s}
			}
		}
		if len(valid) == 0 {
			continue
		}

		primary := valid[0]
		var alts []Syllabification
		for _, s := range valid[1:] {
			if len(s) == len(primary) {
				alts = append(alts, s)
			}
		}

		p, isFunction := priors.Lookup(clean)
		if !isFunction {
			if base, ok := possessiveBase(clean); ok {
				p, isFunction = priors.Lookup(base)
			}
		}
		isFunction = isFunction && len(primary) == 1
		if !hit && !isFunction {
			out.OOV = append(out.OOV, clean)
		}
		for si, syl := range primary {
			s := Syllable{Token: ti, Index: si, Text: syl.Text}
			switch {
			case isFunction:
				s.Options = priorOptions(p, priors.Scale*costs.PriorScale)
			case hit:
				s.Options = lexicalOptions(syl.Stress, si, alts, costs)
			default:
				s.Options = []SyllableOption{
					{Label: syl.Stress, Cost: costs.OOVBase, Source: SourceHeuristic},
					{Label: flip(syl.Stress), Cost: costs.OOVBase + costs.OOVFlex, Source: SourceHeuristic},
				}
			}
			out.Syllables = append(out.Syllables, s)
		}
	}
	return out
}

// priorOptions emits both labels for a function word stressed with
// probability p. The dispreferred label costs scale·|2p−1|.
func priorOptions(p, scale float64) []SyllableOption {
	pref := Unstressed
	if p >= 0.5 {
		pref = Stressed
	}
	return []SyllableOption{
		{Label: pref, Cost: 0, Source: SourcePrior},
		{Label: flip(pref), Cost: scale * math.Abs(2*p-1), Source: SourcePrior},
	}
}

func lexicalOptions(label Stress, si int, alts []Syllabification, costs Costs) []SyllableOption {
	opts := []SyllableOption{{Label: label, Source: SourceLexical}}
	for _, a := range alts {
		if len(opts) == maxOptions {
			break
		}
		if a[si].Stress != label {
			opts = append(opts, SyllableOption{Label: a[si].Stress, Cost: costs.AltPronunciation, Source: SourceLexical})
		}
	}
	return opts
}

func flip(s Stress) Stress {
	if s == Stressed {
		return Unstressed
	}
	return Stressed
}

func wellFormed(s Syllabification) bool {
	if len(s) == 0 {
		return false
	}
	for _, syl := range s {
		if !syl.Stress.Valid() {
			return false
		}
	}
	return true
}
