package biquad

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

var (
	// ErrTooManyStages is returned when a layout or stage list needs more
	// stages than the cascade reserved.
	ErrTooManyStages = errors.New("biquad: stage count exceeds cascade capacity")

	// ErrDegenerateResponse is returned when the cascade response at the
	// normalization frequency is zero or not finite.
	ErrDegenerateResponse = errors.New("biquad: degenerate response at normalization frequency")

	// ErrUnmatchedPair is returned when a pole or zero pair cannot form a
	// real-coefficient quadratic.
	ErrUnmatchedPair = errors.New("biquad: pole/zero pair is neither conjugate nor real")
)

// Coefficients holds the transfer function of one second-order section:
//
//	H(z) = (B0 + B1*z^-1 + B2*z^-2) / (A0 + A1*z^-1 + A2*z^-2)
//
// Stages stored in a [Cascade] are normalized so that A0 = 1. The sign
// convention for processing (transposed Direct Form II) is:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A0, A1, A2 float64 // feedback (denominator)
}

// Identity returns a pass-through stage.
func Identity() Coefficients {
	return Coefficients{B0: 1, A0: 1}
}

// SetCoefficients stores the transfer function normalized by a0.
func (c *Coefficients) SetCoefficients(a0, a1, a2, b0, b1, b2 float64) {
	c.A0 = 1
	c.A1 = a1 / a0
	c.A2 = a2 / a0
	c.B0 = b0 / a0
	c.B1 = b1 / a0
	c.B2 = b2 / a0
}

// Normalize divides all coefficients by A0.
func (c *Coefficients) Normalize() {
	c.SetCoefficients(c.A0, c.A1, c.A2, c.B0, c.B1, c.B2)
}

// ApplyScale multiplies the numerator by scale.
func (c *Coefficients) ApplyScale(scale float64) {
	c.B0 *= scale
	c.B1 *= scale
	c.B2 *= scale
}

// IsFirstOrder reports whether the stage has no second-order terms.
func (c *Coefficients) IsFirstOrder() bool {
	return c.A2 == 0 && c.B2 == 0
}

// SetOnePole builds a first-order section with a real pole and a real zero.
//
//	H(z) = (1 - zero*z^-1) / (1 - pole*z^-1)
func (c *Coefficients) SetOnePole(pole, zero complex128) {
	c.SetCoefficients(1, -real(pole), 0, 1, -real(zero), 0)
}

// SetTwoPole builds a second-order section from two poles and two zeros.
// Each pair must either be complex conjugates or both real.
func (c *Coefficients) SetTwoPole(pole1, zero1, pole2, zero2 complex128) {
	a1, a2 := quadFromRoots(pole1, pole2)
	b1, b2 := quadFromRoots(zero1, zero2)

	c.SetCoefficients(1, a1, a2, 1, b1, b2)
}

// quadFromRoots returns (c1, c2) of 1 + c1*z^-1 + c2*z^-2 with roots r1, r2.
func quadFromRoots(r1, r2 complex128) (float64, float64) {
	if imag(r1) != 0 {
		return -2 * real(r1), real(r1)*real(r1) + imag(r1)*imag(r1)
	}

	return -(real(r1) + real(r2)), real(r1) * real(r2)
}

// SetPoleZeroPair builds the stage for one layout entry.
func (c *Coefficients) SetPoleZeroPair(p pz.PoleZeroPair) error {
	if p.IsSinglePole() {
		c.SetOnePole(p.Poles.First, p.Zeros.First)

		return nil
	}

	if !p.Poles.IsMatchedPair() || !p.Zeros.IsMatchedPair() {
		return fmt.Errorf("%w: poles %v zeros %v", ErrUnmatchedPair, p.Poles, p.Zeros)
	}

	c.SetTwoPole(p.Poles.First, p.Zeros.First, p.Poles.Second, p.Zeros.Second)

	return nil
}
