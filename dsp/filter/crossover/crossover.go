package crossover

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-iir/dsp/filter/biquad"
	"github.com/cwbudde/algo-iir/dsp/filter/iir"
)

// Errors returned by the constructors.
var (
	ErrInvalidOrder      = errors.New("crossover: order must be a positive even integer")
	ErrInvalidSampleRate = errors.New("crossover: sample rate must be positive")
	ErrInvalidFrequency  = errors.New("crossover: frequency must be in (0, sampleRate/2)")
	ErrFrequencyOrder    = errors.New("crossover: frequencies must be strictly ascending")
)

// branch is one output path: a Butterworth cascade applied twice.
type branch struct {
	cascade *biquad.Cascade
	state   biquad.State
}

func newBranch(kind iir.Kind, freq float64, n int, sampleRate float64, invert bool) (*branch, error) {
	f, err := iir.New(iir.Butterworth, kind, iir.WithMaxOrder(max(n, iir.DefaultMaxOrder)))
	if err != nil {
		return nil, err
	}

	if err := f.Design(iir.Params{Order: n, SampleRate: sampleRate, Frequency: freq}); err != nil {
		return nil, err
	}

	stages := f.Stages()
	c := biquad.NewCascade(2 * len(stages))

	if err := c.SetStages(append(stages, stages...)...); err != nil {
		return nil, err
	}

	if invert {
		c.ApplyScale(-1)
	}

	return &branch{cascade: c, state: biquad.NewState(biquad.TransposedDirectFormII, c.NumStages())}, nil
}

func (b *branch) process(x float64) float64 { return b.state.Process(x, b.cascade.Stages()) }

// Crossover is a two-way Linkwitz-Riley crossover network that splits
// an input signal into complementary lowpass and highpass outputs.
//
// The lowpass and highpass outputs sum to an allpass-filtered version
// of the input. The highpass polarity is inverted for orders ≡ 2 mod 4
// (LR2, LR6, …) so the sum stays allpass for every even order.
type Crossover struct {
	lp    *branch
	hp    *branch
	freq  float64
	order int
	sr    float64
}

// New creates a two-way Linkwitz-Riley crossover at freq. order must be a
// positive even integer no larger than 2·[iir.MaxOrder].
func New(freq float64, order int, sampleRate float64) (*Crossover, error) {
	if order <= 0 || order%2 != 0 || order/2 > iir.MaxOrder {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if freq <= 0 || freq >= sampleRate/2 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrequency, freq)
	}

	n := order / 2

	lp, err := newBranch(iir.LowPass, freq, n, sampleRate, false)
	if err != nil {
		return nil, fmt.Errorf("crossover: LR%d lowpass: %w", order, err)
	}

	hp, err := newBranch(iir.HighPass, freq, n, sampleRate, n%2 == 1)
	if err != nil {
		return nil, fmt.Errorf("crossover: LR%d highpass: %w", order, err)
	}

	return &Crossover{lp: lp, hp: hp, freq: freq, order: order, sr: sampleRate}, nil
}

// ProcessSample filters one input sample and returns the lowpass and
// highpass outputs.
func (c *Crossover) ProcessSample(x float64) (lo, hi float64) {
	return c.lp.process(x), c.hp.process(x)
}

// ProcessBlock filters input, writing the lowpass output to lo and the
// highpass output to hi. All three slices must have the same length.
func (c *Crossover) ProcessBlock(input, lo, hi []float64) {
	n := len(input)
	if n == 0 {
		return
	}

	_ = lo[n-1]
	_ = hi[n-1]

	copy(lo, input)
	copy(hi, input)
	c.lp.state.ProcessBlock(lo, c.lp.cascade.Stages())
	c.hp.state.ProcessBlock(hi, c.hp.cascade.Stages())
}

// LP returns the lowpass cascade for inspection or analysis.
func (c *Crossover) LP() *biquad.Cascade { return c.lp.cascade }

// HP returns the highpass cascade, including the polarity inversion for
// orders ≡ 2 mod 4.
func (c *Crossover) HP() *biquad.Cascade { return c.hp.cascade }

// Freq returns the crossover frequency in Hz.
func (c *Crossover) Freq() float64 { return c.freq }

// Order returns the Linkwitz-Riley order.
func (c *Crossover) Order() int { return c.order }

// SampleRate returns the sample rate in Hz.
func (c *Crossover) SampleRate() float64 { return c.sr }

// Reset clears both branches.
func (c *Crossover) Reset() {
	c.lp.state.Reset()
	c.hp.state.Reset()
}

// MultiBand splits a signal into N+1 bands with N cascaded two-way
// crossovers. Each stage's highpass output feeds the next stage, so the
// band sum equals LP₁ + HP₁·AP₂·…·APₙ. The flatness error is negligible
// when crossovers are at least an octave apart.
type MultiBand struct {
	stages []*Crossover
	bands  int
}

// NewMultiBand creates a multi-way crossover. freqs must be strictly
// ascending and order applies to every crossover point.
func NewMultiBand(freqs []float64, order int, sampleRate float64) (*MultiBand, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: no frequencies", ErrInvalidFrequency)
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return nil, fmt.Errorf("%w: %.1f after %.1f", ErrFrequencyOrder, freqs[i], freqs[i-1])
		}
	}

	stages := make([]*Crossover, len(freqs))
	for i, f := range freqs {
		xo, err := New(f, order, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("crossover: stage %d: %w", i, err)
		}

		stages[i] = xo
	}

	return &MultiBand{stages: stages, bands: len(freqs) + 1}, nil
}

// NumBands returns the number of output bands.
func (m *MultiBand) NumBands() int { return m.bands }

// Stages returns the two-way crossover stages.
func (m *MultiBand) Stages() []*Crossover { return m.stages }

// ProcessSample filters one sample into out, lowest band first. out must
// hold NumBands values.
func (m *MultiBand) ProcessSample(x float64, out []float64) {
	_ = out[m.bands-1]

	remainder := x
	for i, stage := range m.stages {
		out[i], remainder = stage.ProcessSample(remainder)
	}

	out[m.bands-1] = remainder
}

// ProcessBlock filters input and returns NumBands output blocks.
func (m *MultiBand) ProcessBlock(input []float64) [][]float64 {
	n := len(input)

	out := make([][]float64, m.bands)
	for i := range out {
		out[i] = make([]float64, n)
	}

	remainder := make([]float64, n)
	copy(remainder, input)

	hi := make([]float64, n)
	for i, stage := range m.stages {
		stage.ProcessBlock(remainder, out[i], hi)
		copy(remainder, hi)
	}

	copy(out[m.bands-1], remainder)

	return out
}

// Reset clears all stages.
func (m *MultiBand) Reset() {
	for _, s := range m.stages {
		s.Reset()
	}
}
