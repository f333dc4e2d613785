package analog

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// ChebyshevILowPass places poles on an ellipse so the passband ripples by
// RippleDB. Zeros are at infinity. Even orders have their DC gain at the
// bottom of the ripple.
type ChebyshevILowPass struct{}

// Design implements [Prototype].
func (ChebyshevILowPass) Design(dst *pz.Layout, p Params) error {
	if err := checkRipple(p.RippleDB); err != nil {
		return err
	}

	n := p.Order
	eps := math.Sqrt(1/math.Exp(-p.RippleDB*0.1*pz.Ln10) - 1)
	v0 := math.Asinh(1/eps) / float64(n)
	sinhV0 := -math.Sinh(v0)
	coshV0 := math.Cosh(v0)
	n2 := float64(2 * n)

	for i := range n / 2 {
		k := float64(2*i + 1 - n)
		a := sinhV0 * math.Cos(k*math.Pi/n2)
		b := coshV0 * math.Sin(k*math.Pi/n2)
		dst.AddConjugatePairs(complex(a, b), pz.Infinity())
	}

	if n%2 == 1 {
		dst.Add(complex(sinhV0, 0), pz.Infinity())
		dst.SetNormal(0, 1)
	} else {
		dst.SetNormal(0, pz.DBToLinear(-p.RippleDB))
	}

	return nil
}

// ChebyshevIILowPass (inverse Chebyshev) has a flat passband and an
// equiripple stopband at least StopbandDB down, with finite zeros on the
// imaginary axis.
type ChebyshevIILowPass struct{}

// Design implements [Prototype].
func (ChebyshevIILowPass) Design(dst *pz.Layout, p Params) error {
	if err := checkStopband(p.StopbandDB); err != nil {
		return err
	}

	n := p.Order
	eps := math.Sqrt(1 / (math.Exp(p.StopbandDB*0.1*pz.Ln10) - 1))
	v0 := math.Asinh(1/eps) / float64(n)
	sinhV0 := -math.Sinh(v0)
	coshV0 := math.Cosh(v0)
	fn := math.Pi / float64(2*n)

	k := 1
	for range n / 2 {
		a := sinhV0 * math.Cos(float64(k-n)*fn)
		b := coshV0 * math.Sin(float64(k-n)*fn)
		d2 := a*a + b*b
		pole := complex(a/d2, b/d2)
		zero := complex(0, 1/math.Cos(float64(k)*fn))
		dst.AddConjugatePairs(pole, zero)

		k += 2
	}

	if n%2 == 1 {
		dst.Add(complex(1/sinhV0, 0), pz.Infinity())
	}

	dst.SetNormal(0, 1)

	return nil
}

// ChebyshevILowShelf is the Orfanidis high-order shelving prototype with a
// RippleDB equiripple band around the shelf gain.
type ChebyshevILowShelf struct{}

// Design implements [Prototype].
func (ChebyshevILowShelf) Design(dst *pz.Layout, p Params) error {
	if err := checkGain(p.GainDB); err != nil {
		return err
	}

	if err := checkRipple(p.RippleDB); err != nil {
		return err
	}

	chebyshevShelf(dst, p.Order, p.GainDB, p.RippleDB)

	return nil
}

// ChebyshevIILowShelf is the Orfanidis shelving prototype with its
// equiripple band of StopbandDB on the unity-gain side.
type ChebyshevIILowShelf struct{}

// Design implements [Prototype].
func (ChebyshevIILowShelf) Design(dst *pz.Layout, p Params) error {
	if err := checkGain(p.GainDB); err != nil {
		return err
	}

	if err := checkStopband(p.StopbandDB); err != nil {
		return err
	}

	chebyshevShelf(dst, p.Order, p.GainDB, p.StopbandDB)

	return nil
}

// chebyshevShelf implements the shelving design from Orfanidis, "High-Order
// Digital Parametric Equalizer Design". bandDB is clamped to |gainDB|; when
// the clamp makes the band edge coincide with the reference gain, the band
// edge falls back to the arithmetic-mean power definition
// Gb² = (G² + G0²)/2. A 0 dB shelf yields a flat layout.
func chebyshevShelf(dst *pz.Layout, n int, gainDB, bandDB float64) {
	dst.SetNormal(math.Pi, 1)

	if gainDB == 0 {
		flatLayout(dst, n)

		return
	}

	gainDB = -gainDB

	if bandDB >= math.Abs(gainDB) {
		bandDB = math.Abs(gainDB)
	}

	if gainDB < 0 {
		bandDB = -bandDB
	}

	const g0 = 1.0

	g := pz.DBToLinear(gainDB)
	gb := pz.DBToLinear(gainDB - bandDB)

	if gb == g0 {
		gb = math.Sqrt((g*g + g0*g0) / 2)
	}

	eps := math.Sqrt((g*g - gb*gb) / (gb*gb - g0*g0))
	root := math.Sqrt(1 + 1/(eps*eps))
	fn := 1 / float64(n)

	b := math.Pow(g/eps+gb*root, fn)
	u := math.Log(b / math.Pow(g0, fn))
	v := math.Log(math.Pow(1/eps+root, fn))

	sinhU, coshU := math.Sinh(u), math.Cosh(u)
	sinhV, coshV := math.Sinh(v), math.Cosh(v)
	n2 := float64(2 * n)

	for i := 1; i <= n/2; i++ {
		a := math.Pi * float64(2*i-1) / n2
		sn, cs := math.Sin(a), math.Cos(a)
		dst.AddConjugatePairs(complex(-sn*sinhU, cs*coshU), complex(-sn*sinhV, cs*coshV))
	}

	if n%2 == 1 {
		dst.Add(complex(-sinhU, 0), complex(-sinhV, 0))
	}
}

// flatLayout stores n poles with coincident zeros so the response is
// constant.
func flatLayout(dst *pz.Layout, n int) {
	n2 := float64(2 * n)

	for i := range n / 2 {
		c := cmplx.Rect(1, pz.HalfPi+float64(2*i+1)*math.Pi/n2)
		dst.AddConjugatePairs(c, c)
	}

	if n%2 == 1 {
		dst.Add(-1, -1)
	}
}
