package analog

import (
	"fmt"
	"math/big"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
	"github.com/cwbudde/algo-iir/internal/polyroot"
)

// LegendreLowPass is the "Optimum L" design: the steepest monotonic
// magnitude response at the cutoff. |H(jω)|² = 1/(1 + L_n(ω²)) with
// L_n(1) = 1, so the cutoff is the -3 dB point.
type LegendreLowPass struct {
	solver *polyroot.Solver
}

// NewLegendreLowPass returns a prototype for orders up to maxOrder.
func NewLegendreLowPass(maxOrder int) *LegendreLowPass {
	return &LegendreLowPass{solver: polyroot.NewSolver(2 * maxOrder)}
}

// Design implements [Prototype].
func (l *LegendreLowPass) Design(dst *pz.Layout, p Params) error {
	n := p.Order
	w := optimumL(n)

	// 1 + L(-s²) = 1 + Σ w_i (-1)^i s^(2i)
	coef := make([]*big.Rat, 2*n+1)
	for i := range coef {
		coef[i] = new(big.Rat)
	}

	coef[0].Add(w[0], big.NewRat(1, 1))

	for i := 1; i <= n; i++ {
		coef[2*i].Set(w[i])
		if i%2 == 1 {
			coef[2*i].Neg(coef[2*i])
		}
	}

	roots, err := solveExtended(l.solver, coef)
	if err != nil {
		return fmt.Errorf("legendre order %d: %w", n, err)
	}

	left := make([]complex128, 0, n)
	for _, r := range roots {
		if real(r) < 0 {
			left = append(left, r)
		}
	}

	if len(left) != n {
		return fmt.Errorf("%w: legendre order %d has %d left half-plane roots", ErrDegenerateRoots, n, len(left))
	}

	poles, single, hasSingle, err := factorStable(left, n)
	if err != nil {
		return err
	}

	inf := pz.ComplexPair{First: pz.Infinity(), Second: pz.Infinity()}
	for _, q := range poles {
		dst.AddPairs(pz.ComplexPair{First: q[0], Second: q[1]}, inf)
	}

	if hasSingle {
		dst.Add(single, pz.Infinity())
	}

	dst.SetNormal(0, 1)

	return nil
}

// optimumL returns the exact ascending coefficients of the Optimum-L
// polynomial L_n(x), x = ω², with L_n(0) = 0 and L_n(1) = 1. The
// coefficients are rational: the normalization of the Legendre series only
// enters squared.
func optimumL(n int) []*big.Rat {
	k := (n - 1) / 2

	// s(t) = Σ a_i P_i(t), a_i = (2i+1)/den
	a := make([]int64, k+1)

	var den2 *big.Rat

	if n%2 == 1 {
		for i := range a {
			a[i] = int64(2*i + 1)
		}

		den2 = big.NewRat(int64(2*(k+1)*(k+1)), 1)
	} else {
		for i := range a {
			if i%2 == k%2 {
				a[i] = int64(2*i + 1)
			}
		}

		den2 = big.NewRat(int64((k+1)*(k+2)), 1)
	}

	s := ratPoly(k + 1)
	prev, cur := []*big.Rat{big.NewRat(1, 1)}, []*big.Rat{new(big.Rat), big.NewRat(1, 1)}

	for i := range k + 1 {
		var pi []*big.Rat

		switch i {
		case 0:
			pi = prev
		case 1:
			pi = cur
		default:
			// i·P_i = (2i-1)·t·P_{i-1} - (i-1)·P_{i-2}
			next := ratPoly(i + 1)
			up := big.NewRat(int64(2*i-1), int64(i))
			down := big.NewRat(int64(i-1), int64(i))

			var t big.Rat

			for j, c := range cur {
				next[j+1].Add(next[j+1], t.Mul(c, up))
			}

			for j, c := range prev {
				next[j].Sub(next[j], t.Mul(c, down))
			}

			prev, cur = cur, next
			pi = next
		}

		ai := big.NewRat(a[i], 1)

		var t big.Rat

		for j, c := range pi {
			s[j].Add(s[j], t.Mul(c, ai))
		}
	}

	integrand := ratPolyMul(s, s)
	for _, c := range integrand {
		c.Quo(c, den2)
	}

	if n%2 == 0 {
		integrand = ratPolyMul(integrand, []*big.Rat{big.NewRat(1, 1), big.NewRat(1, 1)})
	}

	// V(t) = ∫ integrand dt
	v := ratPoly(len(integrand) + 1)
	for j, c := range integrand {
		v[j+1].Quo(c, big.NewRat(int64(j+1), 1))
	}

	// L(x) = V(2x-1) - V(-1)
	out := ratPoly(1)
	lin := []*big.Rat{big.NewRat(-1, 1), big.NewRat(2, 1)}

	for j := len(v) - 1; j >= 0; j-- {
		out = ratPolyMul(out, lin)
		out[0].Add(out[0], v[j])
	}

	// V(-1) by Horner
	vm := new(big.Rat)
	for j := len(v) - 1; j >= 0; j-- {
		vm.Neg(vm)
		vm.Add(vm, v[j])
	}

	out[0].Sub(out[0], vm)

	return out[:n+1]
}

func ratPoly(n int) []*big.Rat {
	p := make([]*big.Rat, n)
	for i := range p {
		p[i] = new(big.Rat)
	}

	return p
}

// ratPolyMul multiplies two ascending-order polynomials.
func ratPolyMul(a, b []*big.Rat) []*big.Rat {
	out := ratPoly(len(a) + len(b) - 1)

	var t big.Rat

	for i, x := range a {
		for j, y := range b {
			out[i+j].Add(out[i+j], t.Mul(x, y))
		}
	}

	return out
}
