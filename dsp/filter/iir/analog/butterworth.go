package analog

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/pz"
)

// ButterworthLowPass places n poles evenly on the left half of the unit
// circle with all zeros at infinity.
type ButterworthLowPass struct{}

// Design implements [Prototype].
func (ButterworthLowPass) Design(dst *pz.Layout, p Params) error {
	n := p.Order
	n2 := float64(2 * n)

	for i := range n / 2 {
		pole := cmplx.Rect(1, pz.HalfPi+float64(2*i+1)*math.Pi/n2)
		dst.AddConjugatePairs(pole, pz.Infinity())
	}

	if n%2 == 1 {
		dst.Add(-1, pz.Infinity())
	}

	dst.SetNormal(0, 1)

	return nil
}

// ButterworthLowShelf scales the Butterworth angles so the DC gain is
// GainDB while the gain at high frequencies stays at 0 dB.
type ButterworthLowShelf struct{}

// Design implements [Prototype].
func (ButterworthLowShelf) Design(dst *pz.Layout, p Params) error {
	if err := checkGain(p.GainDB); err != nil {
		return err
	}

	n := p.Order
	n2 := float64(2 * n)

	g := math.Pow(pz.DBToLinear(p.GainDB), 1/n2)
	gp := -1 / g
	gz := -g

	for i := 1; i <= n/2; i++ {
		theta := math.Pi * (0.5 - float64(2*i-1)/n2)
		dst.AddConjugatePairs(cmplx.Rect(gp, theta), cmplx.Rect(gz, theta))
	}

	if n%2 == 1 {
		dst.Add(complex(gp, 0), complex(gz, 0))
	}

	dst.SetNormal(math.Pi, 1)

	return nil
}
