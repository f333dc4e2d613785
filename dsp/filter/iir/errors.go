package iir

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-iir/dsp/filter/iir/analog"
)

var (
	// ErrInvalidOrder is returned for an order below 1.
	ErrInvalidOrder = analog.ErrInvalidOrder
	// ErrOrderTooHigh is returned for an order above the filter's maximum
	// order, and by New for a maximum order above MaxOrder.
	ErrOrderTooHigh = errors.New("iir: order exceeds maximum order")
	// ErrInvalidSampleRate is returned for a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("iir: sample rate must be positive")
	// ErrInvalidFrequency is returned for a frequency outside (0, Nyquist).
	ErrInvalidFrequency = errors.New("iir: frequency must be in (0, sampleRate/2)")
	// ErrInvalidWidth is returned for an unusable band width, Q, slope or
	// octave bandwidth.
	ErrInvalidWidth = errors.New("iir: invalid width")
	// ErrInvalidRipple is returned for an unusable passband ripple.
	ErrInvalidRipple = analog.ErrInvalidRipple
	// ErrInvalidStopband is returned for an unusable stopband attenuation.
	ErrInvalidStopband = analog.ErrInvalidStopband
	// ErrInvalidGain is returned for a non-finite gain.
	ErrInvalidGain = analog.ErrInvalidGain
	// ErrUnsupportedKind is returned by New for a family that does not
	// provide the requested kind.
	ErrUnsupportedKind = errors.New("iir: kind not supported by family")
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (f *Filter) validate(p Params) error {
	if !finite(p.SampleRate) || p.SampleRate <= 0 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, p.SampleRate)
	}

	if !finite(p.Frequency) || p.Frequency <= 0 || p.Frequency >= p.SampleRate/2 {
		return fmt.Errorf("%w: %f Hz at %f Hz", ErrInvalidFrequency, p.Frequency, p.SampleRate)
	}

	if f.family == RBJ {
		return nil
	}

	if p.Order < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidOrder, p.Order)
	}

	if p.Order > f.maxOrder {
		return fmt.Errorf("%w: %d > %d", ErrOrderTooHigh, p.Order, f.maxOrder)
	}

	if f.kind.isBand() && (!finite(p.Width) || p.Width <= 0) {
		return fmt.Errorf("%w: %f Hz", ErrInvalidWidth, p.Width)
	}

	return nil
}
