package biquad

import (
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// Poles returns the z-plane poles of the stage denominator:
//
//	A0 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() pz.ComplexPair {
	return quadraticRoots(c.A0, c.A1, c.A2)
}

// Zeros returns the z-plane zeros of the stage numerator:
//
//	B0 + B1*z^-1 + B2*z^-2 = 0
func (c *Coefficients) Zeros() pz.ComplexPair {
	return quadraticRoots(c.B0, c.B1, c.B2)
}

// PoleZeroPair recovers the poles and zeros of the stage. First-order
// stages are reported as single entries.
func (c *Coefficients) PoleZeroPair() pz.PoleZeroPair {
	return pz.PoleZeroPair{
		Poles:  c.Poles(),
		Zeros:  c.Zeros(),
		Single: c.IsFirstOrder(),
	}
}

// PoleZeros recovers one pole/zero entry per active stage.
func (c *Cascade) PoleZeros() []pz.PoleZeroPair {
	out := make([]pz.PoleZeroPair, c.numStages)
	for i := range out {
		out[i] = c.stages[i].PoleZeroPair()
	}

	return out
}

// quadraticRoots solves a + b*w + c*w^2 = 0 for w = z^-1 and returns the
// roots in z.
func quadraticRoots(a, b, c float64) pz.ComplexPair {
	if c == 0 {
		if b == 0 {
			return pz.ComplexPair{}
		}

		// a + b*z^-1 = 0  =>  z = -b/a
		return pz.ComplexPair{First: complex(-b/a, 0)}
	}

	// Multiply through by z^2: a*z^2 + b*z + c = 0.
	disc := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	den := complex(2*a, 0)

	return pz.ComplexPair{
		First:  (-complex(b, 0) + disc) / den,
		Second: (-complex(b, 0) - disc) / den,
	}
}
