package analog

import (
	"fmt"
	"math"
	"math/big"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
	"github.com/cwbudde/algo-iir/internal/polyroot"
)

// reverseBessel returns the exact coefficients of the reverse Bessel
// polynomial θ_n(s) = Σ a_k s^k, a_k = (2n-k)! / (2^(n-k) k! (n-k)!).
// a_0 exceeds 2^53 from n = 13 on.
func reverseBessel(n int) []*big.Rat {
	coef := make([]*big.Rat, n+1)
	a := big.NewRat(1, 1)
	coef[n] = new(big.Rat).Set(a)

	for k := n; k > 0; k-- {
		a.Mul(a, big.NewRat(int64((2*n-k+1)*k), int64(2*(n-k+1))))
		coef[k-1] = new(big.Rat).Set(a)
	}

	return coef
}

// solveExtended finds the roots of an exact polynomial: Laguerre on the
// rounded coefficients, then Newton polishing in double-double.
func solveExtended(s *polyroot.Solver, coef []*big.Rat) ([]complex128, error) {
	exact := polyroot.NewExtendedPoly(coef)
	exact.Load(s)

	roots, err := s.Solve(exact.Degree())
	if err != nil {
		return nil, err
	}

	exact.Polish(roots)

	return roots, nil
}

// BesselLowPass has maximally flat group delay. Poles are the roots of the
// reverse Bessel polynomial, normalized to unit delay at DC.
type BesselLowPass struct {
	solver *polyroot.Solver
}

// NewBesselLowPass returns a prototype for orders up to maxOrder.
func NewBesselLowPass(maxOrder int) *BesselLowPass {
	return &BesselLowPass{solver: polyroot.NewSolver(maxOrder)}
}

// Design implements [Prototype].
func (b *BesselLowPass) Design(dst *pz.Layout, p Params) error {
	n := p.Order

	roots, err := solveExtended(b.solver, reverseBessel(n))
	if err != nil {
		return fmt.Errorf("bessel order %d: %w", n, err)
	}

	poles, single, hasSingle, err := factorStable(roots, n)
	if err != nil {
		return err
	}

	for _, q := range poles {
		dst.AddPairs(pz.ComplexPair{First: q[0], Second: q[1]}, pz.ComplexPair{First: pz.Infinity(), Second: pz.Infinity()})
	}

	if hasSingle {
		dst.Add(single, pz.Infinity())
	}

	dst.SetNormal(0, 1)

	return nil
}

// BesselLowShelf keeps the Bessel poles and moves the zeros to the roots of
// θ_n(s) + (G-1)·a_0, which sets the DC gain to GainDB.
type BesselLowShelf struct {
	poles *polyroot.Solver
	zeros *polyroot.Solver
}

// NewBesselLowShelf returns a prototype for orders up to maxOrder.
func NewBesselLowShelf(maxOrder int) *BesselLowShelf {
	return &BesselLowShelf{
		poles: polyroot.NewSolver(maxOrder),
		zeros: polyroot.NewSolver(maxOrder),
	}
}

// Design implements [Prototype].
func (b *BesselLowShelf) Design(dst *pz.Layout, p Params) error {
	if err := checkGain(p.GainDB); err != nil {
		return err
	}

	n := p.Order
	coef := reverseBessel(n)

	pr, err := solveExtended(b.poles, coef)
	if err != nil {
		return fmt.Errorf("bessel shelf poles order %d: %w", n, err)
	}

	coef[0].Mul(coef[0], new(big.Rat).SetFloat64(pz.DBToLinear(p.GainDB)))

	zr, err := solveExtended(b.zeros, coef)
	if err != nil {
		return fmt.Errorf("bessel shelf zeros order %d: %w", n, err)
	}

	poles, ps, hasPS, err := factorStable(pr, n)
	if err != nil {
		return err
	}

	zeros, zs, hasZS, err := polyroot.Factor(zr)
	if err != nil || len(zeros) != len(poles) || hasZS != hasPS {
		return fmt.Errorf("%w: bessel shelf zeros order %d", ErrDegenerateRoots, n)
	}

	for i := range poles {
		dst.AddPairs(
			pz.ComplexPair{First: poles[i][0], Second: poles[i][1]},
			pz.ComplexPair{First: zeros[i][0], Second: zeros[i][1]},
		)
	}

	if hasPS {
		dst.Add(ps, zs)
	}

	dst.SetNormal(math.Pi, 1)

	return nil
}

// factorStable groups roots into quadratic factors and checks that there
// are exactly n/2 of them, an odd real root for odd n, and that all roots
// lie in the left half-plane.
func factorStable(roots []complex128, n int) ([][2]complex128, complex128, bool, error) {
	quads, single, hasSingle, err := polyroot.Factor(roots)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: %w", ErrDegenerateRoots, err)
	}

	if len(quads) != n/2 || hasSingle != (n%2 == 1) {
		return nil, 0, false, fmt.Errorf("%w: %d quadratic factors for order %d", ErrDegenerateRoots, len(quads), n)
	}

	for _, r := range roots {
		if real(r) >= 0 {
			return nil, 0, false, fmt.Errorf("%w: root %v not in left half-plane", ErrDegenerateRoots, r)
		}
	}

	return quads, single, hasSingle, nil
}
