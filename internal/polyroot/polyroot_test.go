package polyroot

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// polyFromRoots expands prod(x - r_i) into ascending coefficients.
func polyFromRoots(roots []complex128) []complex128 {
	coef := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(coef)+1)
		for i, c := range coef {
			next[i+1] += c
			next[i] -= r * c
		}

		coef = next
	}

	return coef
}

func sortedCopy(roots []complex128) []complex128 {
	out := append([]complex128(nil), roots...)
	sort.SliceStable(out, func(i, j int) bool {
		if imag(out[i]) != imag(out[j]) {
			return imag(out[i]) > imag(out[j])
		}

		return real(out[i]) > real(out[j])
	})

	return out
}

// matchRoots checks got and want are the same multiset within tol.
func matchRoots(t *testing.T, got, want []complex128, tol float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("root count: got %d, want %d", len(got), len(want))
	}

	used := make([]bool, len(got))
	for _, w := range want {
		best := -1
		bestDist := math.Inf(1)

		for i, g := range got {
			if used[i] {
				continue
			}

			if d := cmplx.Abs(g - w); d < bestDist {
				best = i
				bestDist = d
			}
		}

		if bestDist > tol*math.Max(1, cmplx.Abs(w)) {
			t.Fatalf("root %v not recovered (closest distance %g), got %v", w, bestDist, got)
		}

		used[best] = true
	}
}

func TestPolyEval(t *testing.T) {
	// 2 - 3x + x^2 = (x-1)(x-2)
	coef := []complex128{2, -3, 1}
	for _, x := range []complex128{1, 2} {
		if v := PolyEval(coef, x); cmplx.Abs(v) > 1e-15 {
			t.Fatalf("PolyEval(%v) = %v, want 0", x, v)
		}
	}

	if v := PolyEval(coef, 3); v != 2 {
		t.Fatalf("PolyEval(3) = %v, want 2", v)
	}
}

func TestSolveKnownRoots(t *testing.T) {
	tests := []struct {
		name  string
		roots []complex128
	}{
		{"linear", []complex128{-0.5}},
		{"real pair", []complex128{1, 2}},
		{"conjugate pair", []complex128{complex(-0.3, 0.9), complex(-0.3, -0.9)}},
		{"quartic mixed", []complex128{-2, -1, 1, 2}},
		{"butterworth 5", []complex128{
			cmplx.Rect(1, math.Pi*0.6), cmplx.Rect(1, -math.Pi*0.6),
			cmplx.Rect(1, math.Pi*0.8), cmplx.Rect(1, -math.Pi*0.8),
			-1,
		}},
		{"complex coefficients", []complex128{complex(1, 1), complex(-2, 0.5), complex(0, -3)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coef := polyFromRoots(tt.roots)

			got, err := Roots(coef)
			if err != nil {
				t.Fatalf("Roots: %v", err)
			}

			matchRoots(t, got, tt.roots, 1e-9)
		})
	}
}

func TestSolveSortsByDescendingImag(t *testing.T) {
	want := []complex128{complex(0.2, 2), complex(-1, 0.5), -3, complex(-1, -0.5), complex(0.2, -2)}

	got, err := Roots(polyFromRoots(want))
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < len(got); i++ {
		if imag(got[i]) > imag(got[i-1]) {
			t.Fatalf("roots not sorted by descending imag: %v", got)
		}
	}

	exp := sortedCopy(want)
	for i := range got {
		if cmplx.Abs(got[i]-exp[i]) > 1e-9 {
			t.Fatalf("root %d: got %v, want %v", i, got[i], exp[i])
		}
	}
}

func TestSolveRealSnap(t *testing.T) {
	got, err := Roots(polyFromRoots([]complex128{-3, -2, -1}))
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range got {
		if math.Abs(imag(r)) > 1e-12 {
			t.Fatalf("expected real roots, got %v", got)
		}
	}
}

func TestSolveClusteredRoots(t *testing.T) {
	// Roots of nearly equal magnitude spread around the circle plus a tight
	// cluster stress the step-size selection and breakout schedule.
	var roots []complex128
	for k := range 6 {
		roots = append(roots, cmplx.Rect(1+1e-4*float64(k), 2*math.Pi*float64(k)/6+0.1))
	}

	roots = append(roots, 0.5, 0.5001, 0.4999)

	got, err := Roots(polyFromRoots(roots))
	if err != nil {
		t.Fatalf("Roots: %v", err)
	}

	// Close real roots are ill-conditioned; compare with a looser bound.
	matchRoots(t, got, roots, 1e-3)

	coef := polyFromRoots(roots)
	for _, r := range got {
		if v := cmplx.Abs(PolyEval(coef, r)); v > 1e-9 {
			t.Fatalf("residual %g at root %v", v, r)
		}
	}
}

func TestSolveLeavesFlatStartingPoint(t *testing.T) {
	// The sextic left after deflating the cluster near 0.5 in
	// TestSolveClusteredRoots: close to x^6 - c, so every derivative nearly
	// vanishes at the starting point x = 0 and the raw Laguerre step
	// alternates between |x| ≈ 40 and the origin.
	coef := []complex128{
		complex(-0.8266, -0.5655),
		complex(5.1e-4, -3.1e-4),
		complex(3.4e-4, -4.3e-5),
		complex(2.9e-4, 8.9e-5),
		complex(2.6e-4, 2.3e-4),
		complex(2.5e-4, 5.5e-4),
		1,
	}

	got, err := Roots(coef)
	if err != nil {
		t.Fatalf("Roots: %v", err)
	}

	if len(got) != 6 {
		t.Fatalf("got %d roots, want 6", len(got))
	}

	for _, r := range got {
		if v := cmplx.Abs(PolyEval(coef, r)); v > 1e-12 {
			t.Fatalf("residual %g at root %v", v, r)
		}

		if m := cmplx.Abs(r); math.Abs(m-1) > 1e-3 {
			t.Fatalf("root %v has magnitude %v, want about 1", r, m)
		}
	}
}

func TestCauchyBound(t *testing.T) {
	roots := []complex128{complex(3, 4), -0.5, complex(0.1, -2)}
	bound := cauchyBound(polyFromRoots(roots))

	for _, r := range roots {
		if cmplx.Abs(r) > bound {
			t.Fatalf("root %v outside bound %v", r, bound)
		}
	}
}

func TestSolveMatchesCompanionEigenvalues(t *testing.T) {
	// x^6 + 0.5x^5 - 2x^3 + 3x + 7
	coef := []float64{7, 3, 0, -2, 0, 0.5, 1}
	n := len(coef) - 1

	comp := mat.NewDense(n, n, nil)
	for i := 1; i < n; i++ {
		comp.Set(i, i-1, 1)
	}

	for i := range n {
		comp.Set(i, n-1, -coef[i]/coef[n])
	}

	var eig mat.Eigen
	if ok := eig.Factorize(comp, mat.EigenNone); !ok {
		t.Fatal("eigen factorization failed")
	}

	want := eig.Values(nil)

	ccoef := make([]complex128, len(coef))
	for i, c := range coef {
		ccoef[i] = complex(c, 0)
	}

	got, err := Roots(ccoef)
	if err != nil {
		t.Fatal(err)
	}

	matchRoots(t, got, want, 1e-8)
}

func TestSolveWithoutPolishAndSort(t *testing.T) {
	want := []complex128{-1, complex(0, 1), complex(0, -1)}

	s := NewSolver(4)
	copy(s.Coef(), polyFromRoots(want))

	got, err := s.Solve(3, WithoutPolish(), WithoutSort())
	if err != nil {
		t.Fatal(err)
	}

	matchRoots(t, got, want, 1e-9)
}

func TestSolveErrors(t *testing.T) {
	s := NewSolver(3)

	if _, err := s.Solve(4); !errors.Is(err, ErrDegreeTooHigh) {
		t.Fatalf("expected ErrDegreeTooHigh, got %v", err)
	}

	copy(s.Coef(), []complex128{1, 2, 0})

	if _, err := s.Solve(2); !errors.Is(err, ErrDegeneratePolynomial) {
		t.Fatalf("expected ErrDegeneratePolynomial for zero leading coefficient, got %v", err)
	}

	if _, err := s.Solve(0); !errors.Is(err, ErrDegeneratePolynomial) {
		t.Fatalf("expected ErrDegeneratePolynomial for degree 0, got %v", err)
	}
}

func TestLaguerreIterationCap(t *testing.T) {
	// A NaN coefficient never satisfies the residual bound.
	_, err := laguerre([]complex128{complex(math.NaN(), 0), 1}, 0)
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("expected ErrNoConvergence, got %v", err)
	}
}

func TestFactor(t *testing.T) {
	roots := []complex128{complex(-0.5, 0.8), -2, complex(-0.5, -0.8), -1, -3}

	pairs, single, hasSingle, err := Factor(roots)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 2 {
		t.Fatalf("pairs: got %d, want 2", len(pairs))
	}

	if pairs[0][0] != complex(-0.5, 0.8) || pairs[0][1] != complex(-0.5, -0.8) {
		t.Fatalf("conjugate pair: got %v", pairs[0])
	}

	if pairs[1][0] != -3 || pairs[1][1] != -2 {
		t.Fatalf("real pair: got %v", pairs[1])
	}

	if !hasSingle || single != -1 {
		t.Fatalf("single: got %v (%v), want -1", single, hasSingle)
	}
}

func TestFactorRejectsUnpairedComplex(t *testing.T) {
	_, _, _, err := Factor([]complex128{complex(1, 1), complex(2, -1)})
	if !errors.Is(err, ErrDegeneratePolynomial) {
		t.Fatalf("expected ErrDegeneratePolynomial, got %v", err)
	}
}

func TestFactorToleratesRoundedRoots(t *testing.T) {
	// Mirrored roots agree only to about 1e-5, and the real root carries
	// imaginary noise, as Laguerre leaves them for high-degree polynomials.
	roots := []complex128{
		complex(-3.8271737851, 14.8921589246),
		complex(-11.5985295075, 3.2e-6),
		complex(-3.8271737851-4e-5, -14.8921589246+6e-5),
		complex(-9.1475886816, 8.8259983041),
		complex(-9.1475886816+2e-5, -8.8259983041-3e-5),
	}

	pairs, single, hasSingle, err := Factor(roots)
	if err != nil {
		t.Fatal(err)
	}

	if len(pairs) != 2 || !hasSingle {
		t.Fatalf("got %d pairs, single %v", len(pairs), hasSingle)
	}

	for _, p := range pairs {
		if p[1] != cmplx.Conj(p[0]) || imag(p[0]) <= 0 {
			t.Fatalf("pair %v is not an exact conjugate pair", p)
		}
	}

	if imag(pairs[0][0]) < imag(pairs[1][0]) {
		t.Fatalf("pairs not ordered by imaginary part: %v", pairs)
	}

	if single != complex(-11.5985295075, 0) {
		t.Fatalf("single = %v", single)
	}
}

func TestFactorRealPairsInEvenDegree(t *testing.T) {
	pairs, _, hasSingle, err := Factor([]complex128{-4, complex(-1, 1), -2, complex(-1, -1)})
	if err != nil {
		t.Fatal(err)
	}

	if hasSingle || len(pairs) != 2 {
		t.Fatalf("got %v, single %v", pairs, hasSingle)
	}

	if pairs[1] != [2]complex128{-4, -2} {
		t.Fatalf("real pair %v, want [-4 -2]", pairs[1])
	}
}

func TestExtendedPolishRecoversWilkinsonRoots(t *testing.T) {
	// Π (x - k), k = 1..18. The integer coefficients exceed 2^53, so the
	// float64 polynomial alone only yields the roots to about 1e-4.
	const n = 18

	coef := []*big.Rat{big.NewRat(1, 1)}
	for k := int64(1); k <= n; k++ {
		next := make([]*big.Rat, len(coef)+1)
		for i := range next {
			next[i] = new(big.Rat)
		}

		for i, c := range coef {
			next[i+1].Add(next[i+1], c)
			next[i].Sub(next[i], new(big.Rat).Mul(c, big.NewRat(k, 1)))
		}

		coef = next
	}

	p := NewExtendedPoly(coef)
	if p.Degree() != n {
		t.Fatalf("degree %d, want %d", p.Degree(), n)
	}

	s := NewSolver(n)
	p.Load(s)

	roots, err := s.Solve(n)
	if err != nil {
		t.Fatal(err)
	}

	p.Polish(roots)

	want := make([]complex128, n)
	for k := range n {
		want[k] = complex(float64(k+1), 0)
	}

	matchRoots(t, roots, want, 1e-12)
}

func TestNewExtendedPolySplitsExactly(t *testing.T) {
	// 3^40 needs 64 bits.
	v := new(big.Int).Exp(big.NewInt(3), big.NewInt(40), nil)
	r := new(big.Rat).SetInt(v)

	p := NewExtendedPoly([]*big.Rat{r, big.NewRat(1, 3)})

	sum := new(big.Rat).SetFloat64(p.Hi[0])
	sum.Add(sum, new(big.Rat).SetFloat64(p.Lo[0]))

	if sum.Cmp(r) != 0 {
		t.Fatalf("hi+lo = %v, want %v", sum, r)
	}

	if p.Lo[0] == 0 {
		t.Fatal("expected a nonzero low part")
	}

	if p.Hi[1] != 1.0/3 || p.Lo[1] == 0 || math.Abs(p.Lo[1]) > 1e-16 {
		t.Fatalf("1/3 split as %v + %v", p.Hi[1], p.Lo[1])
	}
}

func TestIsConjugate(t *testing.T) {
	if !IsConjugate(complex(1, 2), complex(1, -2), ConjugateTol) {
		t.Fatal("expected conjugates")
	}

	if IsConjugate(complex(1, 2), complex(1, 2), ConjugateTol) {
		t.Fatal("expected non-conjugates")
	}
}
