package analog

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
	"github.com/cwbudde/algo-iir/internal/ellipticmath"
)

const halfPowerDB = -3.010299956639812

// response evaluates the layout's monic rational function at s = jw. Zeros
// at infinity contribute no factor.
func response(l *pz.Layout, w float64) complex128 {
	s := complex(0, w)
	h := complex(1, 0)

	for _, p := range l.Pairs() {
		poles := []complex128{p.Poles.First}
		zeros := []complex128{p.Zeros.First}

		if !p.IsSinglePole() {
			poles = append(poles, p.Poles.Second)
			zeros = append(zeros, p.Zeros.Second)
		}

		for _, z := range zeros {
			if !pz.IsInfinity(z) {
				h *= s - z
			}
		}

		for _, q := range poles {
			h /= s - q
		}
	}

	return h
}

// gainDB returns the layout gain at w after calibrating to its
// normalization point (w = 0, or w = π meaning s → ∞).
func gainDB(l *pz.Layout, w float64) float64 {
	mag := cmplx.Abs(response(l, w))
	if l.NormalW() == 0 {
		mag /= cmplx.Abs(response(l, 0))
	}

	return pz.LinearToDB(mag * l.NormalGain())
}

func design(t *testing.T, proto Prototype, p Params) *pz.Layout {
	t.Helper()

	l := pz.NewLayout(p.Order)
	if err := proto.Design(l, p); err != nil {
		t.Fatalf("design %+v: %v", p, err)
	}

	if l.NumPoles() != p.Order {
		t.Fatalf("got %d poles, want %d", l.NumPoles(), p.Order)
	}

	return l
}

func requireLeftHalfPlane(t *testing.T, l *pz.Layout) {
	t.Helper()

	for i, p := range l.Pairs() {
		if real(p.Poles.First) >= 0 || (!p.IsSinglePole() && real(p.Poles.Second) >= 0) {
			t.Fatalf("pair %d: poles %v not in left half-plane", i, p.Poles)
		}

		if !p.IsSinglePole() && !p.Poles.IsMatchedPair() {
			t.Fatalf("pair %d: poles %v do not form a real quadratic", i, p.Poles)
		}
	}
}

func TestAllPrototypesAreStable(t *testing.T) {
	const maxOrder = 25

	protos := map[string]Prototype{
		"ButterworthLowPass":  ButterworthLowPass{},
		"ButterworthLowShelf": ButterworthLowShelf{},
		"ChebyshevILowPass":   ChebyshevILowPass{},
		"ChebyshevIILowPass":  ChebyshevIILowPass{},
		"ChebyshevILowShelf":  ChebyshevILowShelf{},
		"ChebyshevIILowShelf": ChebyshevIILowShelf{},
		"EllipticLowPass":     EllipticLowPass{},
		"BesselLowPass":       NewBesselLowPass(maxOrder),
		"BesselLowShelf":      NewBesselLowShelf(maxOrder),
		"LegendreLowPass":     NewLegendreLowPass(maxOrder),
	}

	for name, proto := range protos {
		for order := 1; order <= maxOrder; order++ {
			t.Run(fmt.Sprintf("%s/%d", name, order), func(t *testing.T) {
				l := design(t, proto, Params{Order: order, GainDB: -6, RippleDB: 0.5, StopbandDB: 50})
				requireLeftHalfPlane(t, l)
			})
		}
	}
}

func TestButterworthLowPass(t *testing.T) {
	for _, order := range []int{1, 2, 5, 8} {
		l := design(t, ButterworthLowPass{}, Params{Order: order})

		for _, p := range l.Pairs() {
			if r := cmplx.Abs(p.Poles.First); math.Abs(r-1) > 1e-12 {
				t.Fatalf("order %d: pole radius %v", order, r)
			}
		}

		if got := gainDB(l, 1); math.Abs(got-halfPowerDB) > 1e-9 {
			t.Fatalf("order %d: gain at ω=1 is %v dB", order, got)
		}
	}
}

func TestButterworthLowShelf(t *testing.T) {
	l := design(t, ButterworthLowShelf{}, Params{Order: 3, GainDB: 9})

	if got := gainDB(l, 0); math.Abs(got-9) > 1e-9 {
		t.Fatalf("DC gain %v dB, want 9", got)
	}

	if got := gainDB(l, 1e6); math.Abs(got) > 1e-4 {
		t.Fatalf("HF gain %v dB, want 0", got)
	}
}

func TestChebyshevIRipple(t *testing.T) {
	const ripple = 1.0

	for _, order := range []int{3, 4} {
		l := design(t, ChebyshevILowPass{}, Params{Order: order, RippleDB: ripple})

		if got := gainDB(l, 1); math.Abs(got+ripple) > 1e-9 {
			t.Fatalf("order %d: gain at band edge %v dB", order, got)
		}

		for w := 0.0; w <= 1; w += 0.01 {
			if got := gainDB(l, w); got > 1e-9 || got < -ripple-1e-9 {
				t.Fatalf("order %d: passband gain %v dB at ω=%v", order, got, w)
			}
		}
	}
}

func TestChebyshevIIStopband(t *testing.T) {
	const stop = 40.0

	l := design(t, ChebyshevIILowPass{}, Params{Order: 5, StopbandDB: stop})

	if got := gainDB(l, 1); math.Abs(got+stop) > 1e-6 {
		t.Fatalf("gain at stopband edge %v dB, want %v", got, -stop)
	}

	for w := 1.0; w < 50; w += 0.05 {
		if got := gainDB(l, w); got > -stop+1e-6 {
			t.Fatalf("stopband gain %v dB at ω=%v", got, w)
		}
	}

	// Finite transmission zeros on the imaginary axis.
	if z := l.Pair(0).Zeros.First; real(z) != 0 || imag(z) < 1 {
		t.Fatalf("unexpected zero %v", z)
	}
}

func TestChebyshevShelves(t *testing.T) {
	for _, proto := range []Prototype{ChebyshevILowShelf{}, ChebyshevIILowShelf{}} {
		l := design(t, proto, Params{Order: 4, GainDB: 12, RippleDB: 1, StopbandDB: 1})

		dc := gainDB(l, 0)
		if dc > 12+1e-9 || dc < 11-1e-9 {
			t.Fatalf("%T: DC gain %v dB", proto, dc)
		}

		if got := gainDB(l, 1e6); math.Abs(got) > 1.0+1e-6 {
			t.Fatalf("%T: HF gain %v dB", proto, got)
		}
	}
}

func TestChebyshevShelfZeroGainIsFlat(t *testing.T) {
	l := design(t, ChebyshevIILowShelf{}, Params{Order: 5, GainDB: 0, StopbandDB: 3})

	for _, w := range []float64{0, 0.3, 1, 10} {
		if got := gainDB(l, w); math.Abs(got) > 1e-12 {
			t.Fatalf("gain %v dB at ω=%v", got, w)
		}
	}
}

func TestEllipticLowPass(t *testing.T) {
	const (
		ripple = 0.5
		stop   = 40.0
	)

	e := EllipticLowPass{}

	for _, order := range []int{1, 2, 3, 4, 6, 7} {
		l := design(t, e, Params{Order: order, RippleDB: ripple, StopbandDB: stop})

		if got := gainDB(l, 1); math.Abs(got+ripple) > 1e-6 {
			t.Fatalf("order %d: gain at band edge %v dB", order, got)
		}

		for w := 0.0; w <= 1; w += 0.01 {
			if got := gainDB(l, w); got > 1e-6 || got < -ripple-1e-6 {
				t.Fatalf("order %d: passband gain %v dB at ω=%v", order, got, w)
			}
		}

		if order%2 == 0 {
			if got := gainDB(l, 1e5); math.Abs(got+stop) > 1e-3 {
				t.Fatalf("order %d: gain at infinity %v dB, want %v", order, got, -stop)
			}
		}
	}
}

func TestEllipticHighOrder(t *testing.T) {
	specs := []struct{ ripple, stop float64 }{
		{1, 60}, {0.5, 40}, {3, 100}, {0.1, 80},
	}

	for _, sp := range specs {
		epsP := math.Sqrt(math.Pow(10, sp.ripple/10) - 1)
		epsS := math.Sqrt(math.Pow(10, sp.stop/10) - 1)

		for order := 2; order <= 25; order++ {
			t.Run(fmt.Sprintf("%g-%g/%d", sp.ripple, sp.stop, order), func(t *testing.T) {
				l := design(t, EllipticLowPass{}, Params{Order: order, RippleDB: sp.ripple, StopbandDB: sp.stop})
				requireLeftHalfPlane(t, l)

				if got := gainDB(l, 1); math.Abs(got+sp.ripple) > 1e-6 {
					t.Fatalf("gain at passband edge %v dB, want %v", got, -sp.ripple)
				}

				k := ellipticmath.Degree(order, epsP/epsS).K
				if got := gainDB(l, 1/k); math.Abs(got+sp.stop) > 1e-6 {
					t.Fatalf("gain at stopband edge %v dB, want %v", got, -sp.stop)
				}

				for w := 0.0; w <= 1; w += 0.005 {
					if got := gainDB(l, w); got > 1e-6 || got < -sp.ripple-1e-6 {
						t.Fatalf("passband gain %v dB at ω=%v", got, w)
					}
				}
			})
		}
	}
}

func TestEllipticNarrowTransition(t *testing.T) {
	// Order 25 for 3 dB / 10 dB leaves k' ≈ 5e-11; k itself rounds to 1.
	l := design(t, EllipticLowPass{}, Params{Order: 25, RippleDB: 3, StopbandDB: 10})
	requireLeftHalfPlane(t, l)

	if got := gainDB(l, 0.99); got > 1e-6 || got < -3-1e-6 {
		t.Fatalf("passband gain %v dB", got)
	}

	if got := gainDB(l, 1.01); got > -10+1e-6 {
		t.Fatalf("stopband gain %v dB", got)
	}
}

func TestBesselDelayIsNormalized(t *testing.T) {
	for order := 1; order <= 25; order++ {
		l := design(t, NewBesselLowPass(25), Params{Order: order})

		// τ(0) = Σ -Re(1/p) over all poles.
		tau := 0.0

		for _, p := range l.Pairs() {
			tau -= real(1 / p.Poles.First)
			if !p.IsSinglePole() {
				tau -= real(1 / p.Poles.Second)
			}
		}

		if math.Abs(tau-1) > 1e-9 {
			t.Fatalf("order %d: DC group delay %v, want 1", order, tau)
		}
	}
}

func TestBesselLowShelf(t *testing.T) {
	for _, gain := range []float64{-12, 6} {
		l := design(t, NewBesselLowShelf(8), Params{Order: 4, GainDB: gain})

		if got := gainDB(l, 0); math.Abs(got-gain) > 1e-9 {
			t.Fatalf("DC gain %v dB, want %v", got, gain)
		}

		if got := gainDB(l, 1e7); math.Abs(got) > 1e-4 {
			t.Fatalf("HF gain %v dB, want 0", got)
		}
	}
}

func TestLegendreLowPass(t *testing.T) {
	for order := 1; order <= 25; order++ {
		l := design(t, NewLegendreLowPass(25), Params{Order: order})

		if got := gainDB(l, 1); math.Abs(got-halfPowerDB) > 1e-9 {
			t.Fatalf("order %d: gain at ω=1 is %v dB", order, got)
		}

		// |H(jω)|² = 1/(1 + L_n(ω²))
		x := big.NewRat(49, 100)
		lx, _ := ratPolyEval(optimumL(order), x).Float64()

		if got, want := gainDB(l, 0.7), -10*math.Log10(1+lx); math.Abs(got-want) > 1e-9 {
			t.Fatalf("order %d: gain at ω=0.7 is %v dB, want %v", order, got, want)
		}

		prev := 1.0
		for w := 0.0; w <= 3; w += 0.01 {
			got := gainDB(l, w)
			if got > prev+1e-12 {
				t.Fatalf("order %d: response not monotonic at ω=%v", order, w)
			}

			prev = got
		}
	}
}

func ratPolyEval(c []*big.Rat, x *big.Rat) *big.Rat {
	v := new(big.Rat)
	for i := len(c) - 1; i >= 0; i-- {
		v.Mul(v, x)
		v.Add(v, c[i])
	}

	return v
}

func TestOptimumL(t *testing.T) {
	one := big.NewRat(1, 1)

	for n := 1; n <= 25; n++ {
		c := optimumL(n)

		if len(c) != n+1 || c[n].Sign() == 0 {
			t.Fatalf("L_%d has %d coefficients, leading %v", n, len(c), c[len(c)-1])
		}

		if got := ratPolyEval(c, new(big.Rat)); got.Sign() != 0 {
			t.Fatalf("L_%d(0) = %v", n, got)
		}

		if got := ratPolyEval(c, one); got.Cmp(one) != 0 {
			t.Fatalf("L_%d(1) = %v", n, got)
		}
	}

	// Published tables: L_3 = 3x³ - 3x² + x, L_4 = 6x⁴ - 8x³ + 3x².
	for n, want := range map[int][]int64{3: {0, 1, -3, 3}, 4: {0, 0, 3, -8, 6}} {
		for i, c := range optimumL(n) {
			if c.Cmp(big.NewRat(want[i], 1)) != 0 {
				t.Fatalf("L_%d coefficient %d = %v, want %d", n, i, c, want[i])
			}
		}
	}
}

func TestReverseBesselIsExact(t *testing.T) {
	// a_0 = (2n)! / (2^n n!) = (2n-1)!!
	c := reverseBessel(25)

	want := big.NewInt(1)
	for k := int64(3); k <= 49; k += 2 {
		want.Mul(want, big.NewInt(k))
	}

	if !c[0].IsInt() || c[0].Num().Cmp(want) != 0 {
		t.Fatalf("a_0 = %v, want %v", c[0], want)
	}

	if c[25].Cmp(big.NewRat(1, 1)) != 0 || c[24].Cmp(big.NewRat(325, 1)) != 0 {
		t.Fatalf("leading coefficients %v, %v", c[25], c[24])
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		proto Prototype
		p     Params
		want  error
	}{
		{"ripple zero", ChebyshevILowPass{}, Params{Order: 2}, ErrInvalidRipple},
		{"ripple nan", EllipticLowPass{}, Params{Order: 2, RippleDB: math.NaN(), StopbandDB: 40}, ErrInvalidRipple},
		{"stopband negative", ChebyshevIILowPass{}, Params{Order: 2, StopbandDB: -1}, ErrInvalidStopband},
		{"stopband below ripple", EllipticLowPass{}, Params{Order: 2, RippleDB: 3, StopbandDB: 2}, ErrInvalidStopband},
		{"gain inf", ButterworthLowShelf{}, Params{Order: 2, GainDB: math.Inf(-1)}, ErrInvalidGain},
		{"bessel gain nan", NewBesselLowShelf(4), Params{Order: 2, GainDB: math.NaN()}, ErrInvalidGain},
		{"shelf ripple", ChebyshevILowShelf{}, Params{Order: 2, GainDB: 3}, ErrInvalidRipple},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.proto.Design(pz.NewLayout(4), tc.p)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

type countingPrototype struct {
	calls int
	fail  bool
}

func (c *countingPrototype) Design(dst *pz.Layout, p Params) error {
	c.calls++
	if c.fail {
		return ErrDegenerateRoots
	}

	return ButterworthLowPass{}.Design(dst, p)
}

func TestDesignerCache(t *testing.T) {
	proto := &countingPrototype{}
	d := NewDesigner(proto, 6)

	l1, err := d.Design(Params{Order: 4})
	if err != nil {
		t.Fatal(err)
	}

	l2, err := d.Design(Params{Order: 4})
	if err != nil {
		t.Fatal(err)
	}

	if l1 != l2 || proto.calls != 1 {
		t.Fatalf("identical params redesigned: calls=%d", proto.calls)
	}

	if _, err := d.Design(Params{Order: 5}); err != nil {
		t.Fatal(err)
	}

	if proto.calls != 2 || d.Layout().NumPoles() != 5 {
		t.Fatalf("changed params not redesigned: calls=%d poles=%d", proto.calls, d.Layout().NumPoles())
	}

	proto.fail = true
	if _, err := d.Design(Params{Order: 3}); !errors.Is(err, ErrDegenerateRoots) {
		t.Fatalf("err = %v", err)
	}

	// A failed design must not leave a stale cache entry behind.
	proto.fail = false
	if _, err := d.Design(Params{Order: 5}); err != nil {
		t.Fatal(err)
	}

	if proto.calls != 4 {
		t.Fatalf("calls = %d, want 4", proto.calls)
	}
}

func TestDesignerOrderRange(t *testing.T) {
	d := NewDesigner(ButterworthLowPass{}, 4)

	for _, order := range []int{0, -1, 5} {
		if _, err := d.Design(Params{Order: order}); !errors.Is(err, ErrInvalidOrder) {
			t.Fatalf("order %d: err = %v", order, err)
		}
	}

	if d.Prototype() != (ButterworthLowPass{}) {
		t.Fatal("prototype not retained")
	}
}
