package transform

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// ErrConjugateMismatch is returned when the image of a conjugate root is
// not the conjugate of the image of its partner, which would give a stage
// with complex coefficients.
var ErrConjugateMismatch = errors.New("transform: transformed roots are not conjugate")

// conjugateTol is relative to the magnitude of the compared roots.
const conjugateTol = 1e-9

// LowPass maps an analog low-pass (or low-shelf) prototype to a digital
// low-pass with cutoff fc.
func LowPass(fc float64, digital, analog *pz.Layout) error {
	digital.Reset()

	f := complex(math.Tan(math.Pi*fc), 0)

	err := mapLayout(digital, analog, func(c complex128) complex128 {
		if pz.IsInfinity(c) {
			return -1
		}

		c *= f

		return (1 + c) / (1 - c)
	})
	if err != nil {
		return err
	}

	digital.SetNormal(analog.NormalW(), analog.NormalGain())

	return nil
}

// HighPass maps an analog low-pass (or low-shelf) prototype to a digital
// high-pass with cutoff fc. The normalization frequency is mirrored around
// Nyquist/2.
func HighPass(fc float64, digital, analog *pz.Layout) error {
	digital.Reset()

	f := complex(1/math.Tan(math.Pi*fc), 0)

	err := mapLayout(digital, analog, func(c complex128) complex128 {
		if pz.IsInfinity(c) {
			return 1
		}

		c *= f

		return -(1 + c) / (1 - c)
	})
	if err != nil {
		return err
	}

	digital.SetNormal(math.Pi-analog.NormalW(), analog.NormalGain())

	return nil
}

func mapLayout(digital, analog *pz.Layout, t func(complex128) complex128) error {
	for i := range analog.NumPairs() {
		p := analog.Pair(i)

		if p.IsSinglePole() {
			digital.Add(realPart(t(p.Poles.First)), realPart(t(p.Zeros.First)))

			continue
		}

		poles, err := mapPair(p.Poles, t)
		if err != nil {
			return fmt.Errorf("pair %d poles: %w", i, err)
		}

		zeros, err := mapPair(p.Zeros, t)
		if err != nil {
			return fmt.Errorf("pair %d zeros: %w", i, err)
		}

		digital.AddPairs(poles, zeros)
	}

	return nil
}

// mapPair maps a conjugate pair through its upper member and checks the
// image of the lower member against it. Real pairs are mapped member by
// member.
func mapPair(p pz.ComplexPair, t func(complex128) complex128) (pz.ComplexPair, error) {
	if isComplex(p.First) {
		first := t(p.First)
		if !closeTo(t(p.Second), cmplx.Conj(first)) {
			return pz.ComplexPair{}, fmt.Errorf("%w: %v", ErrConjugateMismatch, p.First)
		}

		return pz.ConjugatePair(first), nil
	}

	return canonicalPair(pz.ComplexPair{First: t(p.First), Second: t(p.Second)})
}

// canonicalPair snaps a pair that is real or conjugate within tolerance
// onto the exact form a real-coefficient stage needs.
func canonicalPair(p pz.ComplexPair) (pz.ComplexPair, error) {
	if isReal(p.First) && isReal(p.Second) {
		return pz.ComplexPair{First: realPart(p.First), Second: realPart(p.Second)}, nil
	}

	if closeTo(p.Second, cmplx.Conj(p.First)) {
		return pz.ConjugatePair(p.First), nil
	}

	return pz.ComplexPair{}, fmt.Errorf("%w: %v, %v", ErrConjugateMismatch, p.First, p.Second)
}

func isComplex(c complex128) bool {
	return imag(c) != 0 && !pz.IsInfinity(c)
}

func isReal(c complex128) bool {
	return math.Abs(imag(c)) <= conjugateTol*math.Max(1, cmplx.Abs(c))
}

func realPart(c complex128) complex128 {
	return complex(real(c), 0)
}

func closeTo(a, b complex128) bool {
	return cmplx.Abs(a-b) <= conjugateTol*math.Max(1, cmplx.Abs(b))
}
