package polyroot

import (
	"fmt"
	"math"
	"math/cmplx"
)

const (
	// laguerreMR is the number of fractional breakout steps.
	laguerreMR = 8
	// laguerreMT is the iteration period between breakout steps.
	laguerreMT = 10
	// MaxIterations caps Laguerre iteration for a single root.
	MaxIterations = laguerreMT * laguerreMR

	machineEpsilon = 2.220446049250313e-16
)

// breakoutFractions cycles the step size when the plain Laguerre step
// stagnates in a limit cycle.
var breakoutFractions = [laguerreMR + 1]float64{0, 0.5, 0.25, 0.75, 0.13, 0.38, 0.62, 0.88, 1}

// Solver finds all roots of a complex polynomial by Laguerre iteration with
// deflation, optional polishing against the original coefficients, and a
// deterministic sort by descending imaginary part.
//
// All buffers are sized at construction so repeated solves do not allocate.
// A Solver is not safe for concurrent use.
type Solver struct {
	maxDegree int
	coef      []complex128
	deflated  []complex128
	roots     []complex128
}

type solveConfig struct {
	polish bool
	sort   bool
}

// SolveOption configures a single Solve call.
type SolveOption func(*solveConfig)

// WithoutPolish skips re-running Laguerre against the undeflated polynomial.
func WithoutPolish() SolveOption {
	return func(c *solveConfig) { c.polish = false }
}

// WithoutSort leaves roots in deflation order.
func WithoutSort() SolveOption {
	return func(c *solveConfig) { c.sort = false }
}

// NewSolver returns a Solver for polynomials up to maxDegree.
func NewSolver(maxDegree int) *Solver {
	if maxDegree < 1 {
		maxDegree = 1
	}

	return &Solver{
		maxDegree: maxDegree,
		coef:      make([]complex128, maxDegree+1),
		deflated:  make([]complex128, maxDegree+1),
		roots:     make([]complex128, maxDegree),
	}
}

// MaxDegree returns the largest degree the solver accepts.
func (s *Solver) MaxDegree() int { return s.maxDegree }

// Coef returns the coefficient buffer. Callers write a[0]..a[degree] before
// calling Solve; entries above the degree are ignored.
func (s *Solver) Coef() []complex128 { return s.coef }

// Solve finds the roots of the polynomial held in Coef()[0:degree+1].
// The returned slice aliases the solver's storage and is valid until the
// next call.
func (s *Solver) Solve(degree int, opts ...SolveOption) ([]complex128, error) {
	cfg := solveConfig{polish: true, sort: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if degree > s.maxDegree {
		return nil, fmt.Errorf("%w: %d > %d", ErrDegreeTooHigh, degree, s.maxDegree)
	}

	if degree < 1 || s.coef[degree] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	ad := s.deflated[:degree+1]
	copy(ad, s.coef[:degree+1])

	for j := degree - 1; j >= 0; j-- {
		x, err := laguerre(ad[:j+2], 0)
		if err != nil {
			return nil, fmt.Errorf("%w: deflation at degree %d", err, j+1)
		}

		if math.Abs(imag(x)) <= 2*machineEpsilon*math.Abs(real(x)) {
			x = complex(real(x), 0)
		}

		s.roots[j] = x

		// Synthetic division by (t - x).
		b := ad[j+1]
		for jj := j; jj >= 0; jj-- {
			c := ad[jj]
			ad[jj] = b
			b = x*b + c
		}
	}

	roots := s.roots[:degree]

	if cfg.polish {
		for j := range roots {
			x, err := laguerre(s.coef[:degree+1], roots[j])
			if err != nil {
				return nil, fmt.Errorf("%w: polishing root %d", err, j)
			}

			roots[j] = x
		}
	}

	if cfg.sort {
		sortByImagDesc(roots)
	}

	return roots, nil
}

// laguerre refines x towards a root of the polynomial a (ascending order,
// degree len(a)-1).
//
// A step that would leave the Cauchy disc |x| <= 1 + max|a_j/a_m|, which
// holds every root, is shortened to the disc radius. Where the derivatives
// nearly vanish (x = 0 on x^m - c) the raw step lands far outside it.
func laguerre(a []complex128, x complex128) (complex128, error) {
	m := len(a) - 1
	fm := complex(float64(m), 0)
	fm1 := complex(float64(m-1), 0)
	bound := cauchyBound(a)

	for iter := 1; iter <= MaxIterations; iter++ {
		b := a[m]
		errBound := cmplx.Abs(b)
		abx := cmplx.Abs(x)

		var d, f complex128

		for j := m - 1; j >= 0; j-- {
			f = x*f + d
			d = x*d + b
			b = x*b + a[j]
			errBound = cmplx.Abs(b) + abx*errBound
		}

		errBound *= machineEpsilon

		if cmplx.Abs(b) <= errBound {
			return x, nil
		}

		g := d / b
		g2 := g * g
		h := g2 - 2*f/b
		sq := cmplx.Sqrt(fm1 * (fm*h - g2))
		gp := g + sq
		gm := g - sq

		abp := cmplx.Abs(gp)
		abm := cmplx.Abs(gm)

		if abp < abm {
			gp = gm
		}

		var dx complex128
		if math.Max(abp, abm) > 0 {
			dx = fm / gp
		} else {
			dx = cmplx.Rect(1+abx, float64(iter))
		}

		x1 := x - dx
		if cmplx.Abs(x1) > bound {
			dx *= complex(bound/cmplx.Abs(dx), 0)
			x1 = x - dx
		}

		if x == x1 {
			return x, nil
		}

		if iter%laguerreMT != 0 {
			x = x1
		} else {
			x -= complex(breakoutFractions[iter/laguerreMT], 0) * dx
		}
	}

	return x, ErrNoConvergence
}

// cauchyBound returns 1 + max|a_j/a_m|, an upper bound on the magnitude of
// every root of a.
func cauchyBound(a []complex128) float64 {
	m := len(a) - 1
	lead := cmplx.Abs(a[m])

	var largest float64
	for _, c := range a[:m] {
		largest = math.Max(largest, cmplx.Abs(c))
	}

	return 1 + largest/lead
}

func sortByImagDesc(roots []complex128) {
	for j := 1; j < len(roots); j++ {
		x := roots[j]
		i := j - 1

		for ; i >= 0; i-- {
			if imag(roots[i]) >= imag(x) {
				break
			}

			roots[i+1] = roots[i]
		}

		roots[i+1] = x
	}
}
