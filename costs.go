package metermeter

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Costs holds every calibration constant of the option builder, decoder and classifier.
// The zero value is not useful; start from DefaultCosts.
type Costs struct {
	// Mismatch penalties.
	Promotion         float64 `yaml:"promotion"`          // S where the template expects U
	Demotion          float64 `yaml:"demotion"`           // U where the template expects S
	InversionDiscount float64 `yaml:"inversion_discount"` // multiplier for mismatches in the first binary foot

	// Positional deviations.
	FeminineEnding float64 `yaml:"feminine_ending"`
	Headless       float64 `yaml:"headless"`
	Catalexis      float64 `yaml:"catalexis"`
	Insertion      float64 `yaml:"insertion"`
	Deletion       float64 `yaml:"deletion"`

	// Option builder.
	PriorScale       float64 `yaml:"prior_scale"`
	AltPronunciation float64 `yaml:"alt_pronunciation"`
	OOVBase          float64 `yaml:"oov_base"`
	OOVFlex          float64 `yaml:"oov_flex"`

	// Classifier.
	IambicEpsilon   float64 `yaml:"iambic_epsilon"`
	MaxPriorBonus   float64 `yaml:"max_prior_bonus"`
	PentameterBonus float64 `yaml:"pentameter_bonus"`
	TernaryPenalty  float64 `yaml:"ternary_penalty"`

	// Confidence.
	GapScale  float64 `yaml:"gap_scale"`
	FitScale  float64 `yaml:"fit_scale"`
	GapWeight float64 `yaml:"gap_weight"`
	FitWeight float64 `yaml:"fit_weight"`
	OOVWeight float64 `yaml:"oov_weight"`
}

// DefaultCosts returns the calibration the engine ships with.
func DefaultCosts() Costs {
	return Costs{
		Promotion:         0.5,
		Demotion:          0.7,
		InversionDiscount: 0.5,
		FeminineEnding:    0.3,
		Headless:          0.6,
		Catalexis:         0.3,
		Insertion:         1.0,
		Deletion:          1.0,
		PriorScale:        1.0,
		AltPronunciation:  0.2,
		OOVBase:           0.15,
		OOVFlex:           0.25,
		IambicEpsilon:     0.02,
		MaxPriorBonus:     0.06,
		PentameterBonus:   0.03,
		TernaryPenalty:    0.02,
		GapScale:          0.04,
		FitScale:          1.0,
		GapWeight:         0.6,
		FitWeight:         0.4,
		OOVWeight:         0.25,
	}
}

// Validate rejects calibrations the decoder cannot work with.
func (c Costs) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"promotion", c.Promotion}, {"demotion", c.Demotion},
		{"inversion_discount", c.InversionDiscount}, {"feminine_ending", c.FeminineEnding},
		{"headless", c.Headless}, {"catalexis", c.Catalexis},
		{"insertion", c.Insertion}, {"deletion", c.Deletion},
		{"prior_scale", c.PriorScale}, {"alt_pronunciation", c.AltPronunciation},
		{"oov_base", c.OOVBase}, {"oov_flex", c.OOVFlex},
		{"iambic_epsilon", c.IambicEpsilon}, {"max_prior_bonus", c.MaxPriorBonus},
		{"pentameter_bonus", c.PentameterBonus}, {"ternary_penalty", c.TernaryPenalty},
		{"fit_weight", c.FitWeight}, {"gap_weight", c.GapWeight}, {"oov_weight", c.OOVWeight},
	}
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("costs: %s must not be negative (got %g)", f.name, f.v)
		}
	}
	if c.GapScale <= 0 || c.FitScale <= 0 {
		return errors.New("costs: gap_scale and fit_scale must be positive")
	}
	return nil
}

// LoadCosts reads a YAML calibration from r on top of base.
// Keys absent from the document keep their base value.
func LoadCosts(r io.Reader, base Costs) (Costs, error) {
	c := base
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("decode costs: %w", err)
	}
	if err := c.Validate(); err != nil {
		return base, err
	}
	return c, nil
}
