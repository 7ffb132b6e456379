package metermeter

// hypothesisFeatures derives the feature record of a decoded line.
func hypothesisFeatures(h Hypothesis) Features {
	var f Features
	if len(h.Labels) == 0 {
		return f
	}
	f.Ending = EndingFeminine
	if h.Labels[len(h.Labels)-1] == Stressed {
		f.Ending = EndingMasculine
	}
	f.Headless = h.Has(Headless)
	f.Catalectic = h.Has(Catalexis)

	tmpl := h.Template
	u := len(tmpl.Foot.Unit())
	stress := tmpl.Foot.stressSlot()

	// labels per slot; slots without a syllable stay zero
	bySlot := make([]Stress, tmpl.Len())
	for i, j := range h.Slots {
		if j >= 0 {
			bySlot[j] = h.Labels[i]
		}
	}
	for foot := 0; foot < tmpl.Feet; foot++ {
		slots := bySlot[foot*u : (foot+1)*u]
		stressed, complete, at := 0, true, -1
		for k, s := range slots {
			switch s {
			case 0:
				complete = false
			case Stressed:
				stressed++
				at = k
			}
		}
		if !complete {
			continue
		}
		switch {
		case stressed == 0:
			f.Pyrrhic = true
		case stressed >= 2:
			f.Spondee = true
		case at != stress:
			f.Inversion = true
			if foot == 0 {
				f.InitialInversion = true
			}
		}
	}
	return f
}
