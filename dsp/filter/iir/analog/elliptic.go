package analog

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
	"github.com/cwbudde/algo-iir/internal/ellipticmath"
)

// EllipticLowPass is an equiripple passband (RippleDB) and equiripple
// stopband (StopbandDB) design. The passband edge is ω = 1.
//
// Zeros and poles are both closed form (Orfanidis, "Lecture Notes on
// Elliptic Filter Design"): with u_i = (2i-1)/N and
// v0 = -j·asn(j/ε, k1)/N,
//
//	zero_i = j / (k·cd(u_i·K))
//	pole_i = j·cd((u_i - j·v0)·K)
//	pole_0 = j·sn(j·v0·K)        (odd N)
type EllipticLowPass struct{}

// Design implements [Prototype].
func (EllipticLowPass) Design(dst *pz.Layout, p Params) error {
	if err := checkRipple(p.RippleDB); err != nil {
		return err
	}

	if err := checkStopband(p.StopbandDB); err != nil {
		return err
	}

	if p.StopbandDB <= p.RippleDB {
		return fmt.Errorf("%w: %f dB must exceed ripple %f dB", ErrInvalidStopband, p.StopbandDB, p.RippleDB)
	}

	n := p.Order
	epsP := math.Sqrt(math.Pow(10, p.RippleDB/10) - 1)

	if n%2 == 1 {
		dst.SetNormal(0, 1)
	} else {
		dst.SetNormal(0, pz.DBToLinear(-p.RippleDB))
	}

	if n == 1 {
		// R_1(ω) = ω: a single real pole at -1/ε.
		dst.Add(complex(-1/epsP, 0), pz.Infinity())

		return nil
	}

	epsS := math.Sqrt(math.Pow(10, p.StopbandDB/10) - 1)
	k1 := ellipticmath.NewModulus(epsP / epsS)
	k := ellipticmath.Degree(n, k1.K)

	fn := complex(float64(n), 0)
	v0 := real(-1i * k1.ASN(complex(0, 1/epsP)) / fn)

	// The highest-Q pole pair sits nearest the band edge, as does the
	// lowest transmission zero; i = 0 is both.
	for i := range n / 2 {
		u := float64(2*i+1) / float64(n)

		zeta := real(k.CD(complex(u, 0)))
		pole := 1i * k.CD(complex(u, -v0))

		if !(real(pole) < 0) {
			return fmt.Errorf("%w: elliptic order %d pole %v", ErrDegenerateRoots, n, pole)
		}

		dst.AddConjugatePairs(pole, complex(0, 1/(k.K*zeta)))
	}

	if n%2 == 1 {
		pole := real(1i * k.SN(complex(0, v0)))
		if !(pole < 0) {
			return fmt.Errorf("%w: elliptic order %d real pole %v", ErrDegenerateRoots, n, pole)
		}

		dst.Add(complex(pole, 0), pz.Infinity())
	}

	return nil
}
