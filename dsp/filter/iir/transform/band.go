package transform

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// edgeMin keeps band edges away from 0 and π where the warp degenerates.
const edgeMin = 1e-8

// bandEdges returns the lower and upper band edges in radians/sample for a
// band of width fw centered on fc, clamped to [edgeMin, π-edgeMin].
func bandEdges(fc, fw float64) (lower, upper float64) {
	ww := 2 * math.Pi * fw
	lower = 2*math.Pi*fc - ww/2
	upper = lower + ww

	if lower < edgeMin {
		lower = edgeMin
	}

	if upper > math.Pi-edgeMin {
		upper = math.Pi - edgeMin
	}

	return lower, upper
}

// BandPass maps an analog low-pass prototype to a digital band-pass
// centered on fc with width fw. Every analog root yields two digital
// roots.
func BandPass(fc, fw float64, digital, analog *pz.Layout) error {
	digital.Reset()

	wc2, wc := bandEdges(fc, fw)
	a := math.Cos((wc+wc2)/2) / math.Cos((wc-wc2)/2)
	b := 1 / math.Tan((wc-wc2)/2)
	a2, b2 := a*a, b*b
	ab2 := complex(2*a*b, 0)

	t := func(c complex128) (complex128, complex128) {
		if pz.IsInfinity(c) {
			return -1, 1
		}

		c = (1 + c) / (1 - c)

		k := b2*(a2-1) + 1
		v := cmplx.Sqrt((complex(4*k, 0)*c+complex(8*(b2*(a2-1)-1), 0))*c + complex(4*k, 0))
		u := -v + ab2*c + ab2
		v += ab2*c + ab2
		d := complex(2*(b-1), 0)*c + complex(2*(1+b), 0)

		return u / d, v / d
	}

	if err := mapBandLayout(digital, analog, t); err != nil {
		return err
	}

	wn := analog.NormalW()
	digital.SetNormal(
		2*math.Atan(math.Sqrt(math.Tan((wc+wn)/2)*math.Tan((wc2+wn)/2))),
		analog.NormalGain(),
	)

	return nil
}

// BandStop maps an analog low-pass prototype to a digital band-stop
// centered on fc with width fw. The normalization point moves to whichever
// band edge of the spectrum lies farther from the stop band.
func BandStop(fc, fw float64, digital, analog *pz.Layout) error {
	digital.Reset()

	wc2, wc := bandEdges(fc, fw)
	a := math.Cos((wc+wc2)/2) / math.Cos((wc-wc2)/2)
	b := math.Tan((wc - wc2) / 2)
	a2, b2 := a*a, b*b
	ca := complex(a, 0)

	t := func(c complex128) (complex128, complex128) {
		if pz.IsInfinity(c) {
			c = -1
		} else {
			c = (1 + c) / (1 - c)
		}

		u := cmplx.Sqrt((complex(4*(b2+a2-1), 0)*c+complex(8*(b2-a2+1), 0))*c + complex(4*(a2+b2-1), 0))
		v := -u/2 + ca - ca*c
		u = u/2 + ca - ca*c
		d := complex(b+1, 0) + complex(b-1, 0)*c

		return u / d, v / d
	}

	if err := mapBandLayout(digital, analog, t); err != nil {
		return err
	}

	if fc < 0.25 {
		digital.SetNormal(math.Pi, analog.NormalGain())
	} else {
		digital.SetNormal(0, analog.NormalGain())
	}

	return nil
}

type bandMap func(complex128) (complex128, complex128)

func mapBandLayout(digital, analog *pz.Layout, t bandMap) error {
	for i := range analog.NumPairs() {
		p := analog.Pair(i)

		if p.IsSinglePole() {
			poles, err := canonicalPair(pair(t(p.Poles.First)))
			if err != nil {
				return fmt.Errorf("pair %d poles: %w", i, err)
			}

			zeros, err := canonicalPair(pair(t(p.Zeros.First)))
			if err != nil {
				return fmt.Errorf("pair %d zeros: %w", i, err)
			}

			digital.AddPairs(poles, zeros)

			continue
		}

		poles, err := mapBandPair(p.Poles, t)
		if err != nil {
			return fmt.Errorf("pair %d poles: %w", i, err)
		}

		zeros, err := mapBandPair(p.Zeros, t)
		if err != nil {
			return fmt.Errorf("pair %d zeros: %w", i, err)
		}

		digital.AddPairs(poles[0], zeros[0])
		digital.AddPairs(poles[1], zeros[1])
	}

	return nil
}

// mapBandPair maps one analog pair to two digital pairs. A conjugate pair
// (c, c*) with t(c) = (u, v) yields (u, u*) and (v, v*), after checking
// that t(c*) is {u*, v*} in either order. Real members map to one matched
// pair each.
func mapBandPair(p pz.ComplexPair, t bandMap) ([2]pz.ComplexPair, error) {
	if isComplex(p.First) {
		u, v := t(p.First)
		uc, vc := t(p.Second)

		cu, cv := cmplx.Conj(u), cmplx.Conj(v)
		if !(closeTo(uc, cu) && closeTo(vc, cv)) && !(closeTo(uc, cv) && closeTo(vc, cu)) {
			return [2]pz.ComplexPair{}, fmt.Errorf("%w: %v", ErrConjugateMismatch, p.First)
		}

		return [2]pz.ComplexPair{pz.ConjugatePair(u), pz.ConjugatePair(v)}, nil
	}

	first, err := canonicalPair(pair(t(p.First)))
	if err != nil {
		return [2]pz.ComplexPair{}, err
	}

	second, err := canonicalPair(pair(t(p.Second)))
	if err != nil {
		return [2]pz.ComplexPair{}, err
	}

	return [2]pz.ComplexPair{first, second}, nil
}

func pair(first, second complex128) pz.ComplexPair {
	return pz.ComplexPair{First: first, Second: second}
}
