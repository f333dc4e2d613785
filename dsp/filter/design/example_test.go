package design_test

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-iir/dsp/filter/design"
)

func ExampleLowPass() {
	c, err := design.LowPass(48000, 1000, 0.7071067811865476)
	if err != nil {
		panic(err)
	}

	fmt.Printf("|H(fc)| = %.4f\n", cmplx.Abs(c.Response(1000.0/48000)))
	// Output: |H(fc)| = 0.7071
}

func ExampleBandShelf() {
	c, err := design.BandShelf(44100, 2000, 6, 1)
	if err != nil {
		panic(err)
	}

	fmt.Printf("gain at center: %.2f dB\n", 20*math.Log10(cmplx.Abs(c.Response(2000.0/44100))))
	// Output: gain at center: 6.00 dB
}
