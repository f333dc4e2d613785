package biquad

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// Cascade is a fixed-capacity series of normalized biquad stages. Only the
// first NumStages entries are active. A Cascade holds no signal memory; pair
// it with a [State] per channel.
type Cascade struct {
	stages    []Coefficients
	numStages int
}

// NewCascade reserves room for maxStages stages. The cascade starts empty
// and passes signals through unchanged.
func NewCascade(maxStages int) *Cascade {
	if maxStages < 0 {
		maxStages = 0
	}

	stages := make([]Coefficients, maxStages)
	for i := range stages {
		stages[i] = Identity()
	}

	return &Cascade{stages: stages}
}

// MaxStages returns the reserved stage count.
func (c *Cascade) MaxStages() int { return len(c.stages) }

// NumStages returns the number of active stages.
func (c *Cascade) NumStages() int { return c.numStages }

// Order returns the filter order implied by the active stages.
func (c *Cascade) Order() int {
	order := 0
	for i := range c.numStages {
		if c.stages[i].IsFirstOrder() {
			order++
		} else {
			order += 2
		}
	}

	return order
}

// Stages returns the active stages. The slice aliases the cascade and must
// not be modified while a design is in use.
func (c *Cascade) Stages() []Coefficients { return c.stages[:c.numStages] }

// Stage returns a copy of the i-th active stage.
func (c *Cascade) Stage(i int) Coefficients { return c.stages[i] }

// SetStages replaces the active stages with normalized copies of stages.
func (c *Cascade) SetStages(stages ...Coefficients) error {
	if len(stages) > len(c.stages) {
		return fmt.Errorf("%w: %d > %d", ErrTooManyStages, len(stages), len(c.stages))
	}

	for i := range stages {
		c.stages[i] = stages[i]
		c.stages[i].Normalize()
	}

	for i := len(stages); i < len(c.stages); i++ {
		c.stages[i] = Identity()
	}

	c.numStages = len(stages)

	return nil
}

// SetLayout writes one stage per layout pair and rescales the first stage so
// the response at the layout's normalization frequency equals its target
// gain.
func (c *Cascade) SetLayout(l *pz.Layout) error {
	numStages := (l.NumPoles() + 1) / 2
	if numStages > len(c.stages) {
		return fmt.Errorf("%w: %d > %d", ErrTooManyStages, numStages, len(c.stages))
	}

	for i := range numStages {
		if err := c.stages[i].SetPoleZeroPair(l.Pair(i)); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}

	for i := numStages; i < len(c.stages); i++ {
		c.stages[i] = Identity()
	}

	c.numStages = numStages

	mag := cmplx.Abs(c.Response(l.NormalW() / pz.DoublePi))
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return fmt.Errorf("%w: |H| = %v at w = %v", ErrDegenerateResponse, mag, l.NormalW())
	}

	c.ApplyScale(l.NormalGain() / mag)

	return nil
}

// ApplyScale scales the overall gain by scaling the first stage.
func (c *Cascade) ApplyScale(scale float64) {
	if c.numStages == 0 {
		return
	}

	c.stages[0].ApplyScale(scale)
}
