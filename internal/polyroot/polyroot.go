// Package polyroot finds the complex roots of polynomials and groups them
// into real-coefficient second-order factors for cascade assembly.
//
// Coefficients are always given in ascending power order:
//
//	a[0] + a[1]*x + a[2]*x^2 + ... + a[n]*x^n
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"
)

var (
	// ErrDegeneratePolynomial is returned when the leading coefficient is
	// zero, the degree is below one, or roots cannot be grouped into
	// conjugate pairs.
	ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

	// ErrNoConvergence is returned when Laguerre iteration exceeds its
	// iteration cap.
	ErrNoConvergence = errors.New("polyroot: laguerre iteration did not converge")

	// ErrDegreeTooHigh is returned when a solve request exceeds the
	// capacity the Solver was created with.
	ErrDegreeTooHigh = errors.New("polyroot: degree exceeds solver capacity")
)

const (
	// ConjugateTol is the relative tolerance for conjugate pair matching.
	ConjugateTol = 1e-7

	// PairTol is the relative tolerance Factor accepts between mirrored
	// roots. High-degree polynomials with rounded coefficients lose several
	// digits in their roots.
	PairTol = 1e-3
)

// PolyEval evaluates a polynomial at x using Horner's method.
func PolyEval(coef []complex128, x complex128) complex128 {
	if len(coef) == 0 {
		return 0
	}

	v := coef[len(coef)-1]
	for i := len(coef) - 2; i >= 0; i-- {
		v = v*x + coef[i]
	}

	return v
}

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}

// IsReal reports whether x lies on the real axis within tol relative to its
// magnitude.
func IsReal(x complex128, tol float64) bool {
	return math.Abs(imag(x)) <= tol*math.Max(1, cmplx.Abs(x))
}

// Factor groups the roots of a real-coefficient polynomial into quadratic
// factors with real coefficients.
//
// Roots are sorted by descending imaginary part, so root i mirrors root
// n-1-i. Mirrored roots that agree as conjugates within PairTol relative to
// their magnitude form a pair, rebuilt as the exact conjugate of their
// mean. The remaining middle block must be real within PairTol; its real
// parts are paired in ascending order and, for an odd count, the largest is
// returned as single with hasSingle set. Complex pairs come first, highest
// imaginary part first.
func Factor(roots []complex128) (pairs [][2]complex128, single complex128, hasSingle bool, err error) {
	sorted := make([]complex128, len(roots))
	copy(sorted, roots)
	sortByImagDesc(sorted)

	pairs = make([][2]complex128, 0, (len(roots)+1)/2)

	lo, hi := 0, len(sorted)-1
	for lo < hi {
		a, b := sorted[lo], sorted[hi]
		if IsReal(a, PairTol) && IsReal(b, PairTol) {
			break
		}

		if !IsConjugate(a, b, PairTol) {
			return nil, 0, false, ErrDegeneratePolynomial
		}

		upper := (a + cmplx.Conj(b)) / 2
		pairs = append(pairs, [2]complex128{upper, cmplx.Conj(upper)})
		lo++
		hi--
	}

	reals := make([]float64, 0, hi-lo+1)

	for _, r := range sorted[lo : hi+1] {
		if !IsReal(r, PairTol) {
			return nil, 0, false, ErrDegeneratePolynomial
		}

		reals = append(reals, real(r))
	}

	sort.Float64s(reals)

	for len(reals) >= 2 {
		pairs = append(pairs, [2]complex128{complex(reals[0], 0), complex(reals[1], 0)})
		reals = reals[2:]
	}

	if len(reals) == 1 {
		return pairs, complex(reals[0], 0), true, nil
	}

	return pairs, 0, false, nil
}

// Roots returns the sorted, polished roots of coef. It allocates a fresh
// Solver and is meant for one-off use outside real-time paths.
func Roots(coef []complex128) ([]complex128, error) {
	degree := len(coef) - 1
	if degree < 1 {
		return nil, ErrDegeneratePolynomial
	}

	s := NewSolver(degree)
	copy(s.Coef(), coef)

	roots, err := s.Solve(degree)
	if err != nil {
		return nil, err
	}

	out := make([]complex128, len(roots))
	copy(out, roots)

	return out, nil
}
