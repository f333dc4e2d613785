package weighting

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iir/dsp/filter/biquad"
	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// IEC 61672 analog prototype pole frequencies (Hz).
const (
	f1 = 20.598997 // double pole for A, B, C
	f2 = 107.65265 // single pole for A, B
	f3 = 158.48932 // single pole for B only
	f4 = 737.86223 // single pole for A only
	f5 = 12194.217 // double pole for A, B, C
)

const referenceFreq = 1000.0

// Errors returned by New.
var (
	ErrInvalidSampleRate = errors.New("weighting: sample rate must be positive")
	ErrUnknownType       = errors.New("weighting: unknown type")
)

// Type identifies a frequency weighting curve.
type Type int

const (
	// TypeA is the A-weighting curve per IEC 61672, close to the 40-phon
	// equal-loudness contour.
	TypeA Type = iota

	// TypeB is the B-weighting curve per IEC 61672 (70 phon).
	TypeB

	// TypeC is the C-weighting curve per IEC 61672 (100 phon), used for
	// peak measurements and C-A differences.
	TypeC

	// TypeZ applies no weighting.
	TypeZ
)

// String returns a human-readable name for the weighting type.
func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeB:
		return "B"
	case TypeC:
		return "C"
	case TypeZ:
		return "Z"
	default:
		return "Unknown"
	}
}

// Filter is a weighting curve realized as a biquad cascade.
type Filter struct {
	cascade *biquad.Cascade
	state   biquad.State
	sr      float64
}

// New returns a weighting filter for sampleRate, normalized to 0 dB at
// 1 kHz. The A, B and C curves need the f5 pole below Nyquist, so their
// sample rate must exceed 2·f5 (about 24.4 kHz).
func New(t Type, sampleRate float64) (*Filter, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if t >= TypeA && t < TypeZ && sampleRate <= 2*f5 {
		return nil, fmt.Errorf("%w: %v Hz puts the %v Hz pole above Nyquist", ErrInvalidSampleRate, sampleRate, f5)
	}

	l := pz.NewLayout(6)

	switch t {
	case TypeA:
		// s^4 / ((s+ω1)^2 (s+ω2) (s+ω4) (s+ω5)^2)
		l.AddPairs(highPassPoles(f1, f1, sampleRate), dcZeros)
		l.AddPairs(highPassPoles(f5, f5, sampleRate), nyquistZeros)
		l.AddPairs(highPassPoles(f2, f4, sampleRate), dcZeros)
	case TypeB:
		// s^3 / ((s+ω1)^2 (s+ω3) (s+ω5)^2)
		l.AddPairs(highPassPoles(f1, f1, sampleRate), dcZeros)
		l.AddPairs(highPassPoles(f5, f5, sampleRate), nyquistZeros)
		l.Add(pole(f3, sampleRate), 1)
	case TypeC:
		// s^2 / ((s+ω1)^2 (s+ω5)^2)
		l.AddPairs(highPassPoles(f1, f1, sampleRate), dcZeros)
		l.AddPairs(highPassPoles(f5, f5, sampleRate), nyquistZeros)
	case TypeZ:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}

	l.SetNormal(pz.DoublePi*referenceFreq/sampleRate, 1)

	c := biquad.NewCascade(3)
	if err := c.SetLayout(l); err != nil {
		return nil, fmt.Errorf("weighting: %v: %w", t, err)
	}

	return &Filter{
		cascade: c,
		state:   biquad.NewState(biquad.TransposedDirectFormII, c.NumStages()),
		sr:      sampleRate,
	}, nil
}

var (
	dcZeros      = pz.ComplexPair{First: 1, Second: 1}
	nyquistZeros = pz.ComplexPair{First: -1, Second: -1}
)

// pole maps the analog pole -2πf to z with a bilinear transform prewarped
// at f, so the corner lands exactly at f.
func pole(f, sampleRate float64) complex128 {
	k := math.Tan(math.Pi * f / sampleRate)
	return complex((1-k)/(1+k), 0)
}

func highPassPoles(fa, fb, sampleRate float64) pz.ComplexPair {
	return pz.ComplexPair{First: pole(fa, sampleRate), Second: pole(fb, sampleRate)}
}

// ProcessSample filters one sample.
func (f *Filter) ProcessSample(x float64) float64 {
	return f.state.Process(x, f.cascade.Stages())
}

// ProcessBlock filters buf in place.
func (f *Filter) ProcessBlock(buf []float64) {
	f.state.ProcessBlock(buf, f.cascade.Stages())
}

// Reset clears the filter memory.
func (f *Filter) Reset() { f.state.Reset() }

// MagnitudeDB returns the gain in dB at freqHz.
func (f *Filter) MagnitudeDB(freqHz float64) float64 {
	return f.cascade.MagnitudeDB(freqHz, f.sr)
}

// Cascade returns the underlying stages for inspection.
func (f *Filter) Cascade() *biquad.Cascade { return f.cascade }
