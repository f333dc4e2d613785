package polyroot

import (
	"math"
	"math/big"
	"math/cmplx"
)

const (
	extendedIterations = 10

	// maxExtendedShift bounds how far, relative to its magnitude, a root may
	// move during extended polishing before the move is rejected.
	maxExtendedShift = 1e-2
)

// ExtendedPoly holds real polynomial coefficients as unevaluated sums
// Hi[i] + Lo[i], about 106 significant bits each. Roots of high-degree
// polynomials whose float64 coefficients are already rounded (reverse
// Bessel, Optimum-L) are only known to cond·ε; Newton steps evaluated in
// double-double arithmetic against exact coefficients recover them to
// float64 precision.
type ExtendedPoly struct {
	Hi []float64
	Lo []float64
}

// NewExtendedPoly rounds exact rational coefficients (ascending order) to
// double-double.
func NewExtendedPoly(coef []*big.Rat) ExtendedPoly {
	p := ExtendedPoly{
		Hi: make([]float64, len(coef)),
		Lo: make([]float64, len(coef)),
	}

	var rest big.Rat

	for i, c := range coef {
		hi, _ := c.Float64()
		rest.Sub(c, new(big.Rat).SetFloat64(hi))
		lo, _ := rest.Float64()

		p.Hi[i] = hi
		p.Lo[i] = lo
	}

	return p
}

// Degree returns the polynomial degree.
func (p ExtendedPoly) Degree() int { return len(p.Hi) - 1 }

// Load writes the leading parts into a solver's coefficient buffer.
func (p ExtendedPoly) Load(s *Solver) {
	c := s.Coef()
	for i, v := range p.Hi {
		c[i] = complex(v, 0)
	}
}

// Polish refines each root in place by Newton iteration with the value and
// derivative evaluated in double-double arithmetic. A root whose refinement
// leaves its neighborhood keeps its input value.
func (p ExtendedPoly) Polish(roots []complex128) {
	for i, x0 := range roots {
		x := x0

		for range extendedIterations {
			v, d := p.eval(x)
			if d == 0 {
				break
			}

			x1 := x - v/d
			if x1 == x || cmplx.IsNaN(x1) {
				break
			}

			x = x1
		}

		if cmplx.Abs(x-x0) <= maxExtendedShift*cmplx.Abs(x0) {
			roots[i] = x
		}
	}
}

// eval returns p(x) and p'(x) by Horner's rule in complex double-double.
func (p ExtendedPoly) eval(x complex128) (complex128, complex128) {
	xr := dd{real(x), 0}
	xi := dd{imag(x), 0}

	var vr, vi, dr, di dd

	for j := len(p.Hi) - 1; j >= 0; j-- {
		// d = d·x + v
		dr, di = ddAdd(ddSub(ddMul(dr, xr), ddMul(di, xi)), vr),
			ddAdd(ddAdd(ddMul(dr, xi), ddMul(di, xr)), vi)
		// v = v·x + a_j
		vr, vi = ddAdd(ddSub(ddMul(vr, xr), ddMul(vi, xi)), dd{p.Hi[j], p.Lo[j]}),
			ddAdd(ddMul(vr, xi), ddMul(vi, xr))
	}

	return complex(vr.hi+vr.lo, vi.hi+vi.lo), complex(dr.hi+dr.lo, di.hi+di.lo)
}

// dd is a double-double value hi + lo with |lo| <= ulp(hi)/2.
type dd struct{ hi, lo float64 }

func twoSum(a, b float64) (float64, float64) {
	s := a + b
	bb := s - a

	return s, (a - (s - bb)) + (b - bb)
}

func quickTwoSum(a, b float64) dd {
	s := a + b

	return dd{s, b - (s - a)}
}

func ddAdd(x, y dd) dd {
	s, e := twoSum(x.hi, y.hi)
	e += x.lo + y.lo

	return quickTwoSum(s, e)
}

func ddSub(x, y dd) dd {
	return ddAdd(x, dd{-y.hi, -y.lo})
}

func ddMul(x, y dd) dd {
	p := x.hi * y.hi
	e := math.FMA(x.hi, y.hi, -p)
	e += x.hi*y.lo + x.lo*y.hi

	return quickTwoSum(p, e)
}
