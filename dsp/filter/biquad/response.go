package biquad

import (
	"math"
	"math/cmplx"
)

// Response evaluates H(e^jw) of the stage at a normalized frequency
// (cycles per sample, 0.5 = Nyquist).
func (c *Coefficients) Response(normalizedFreq float64) complex128 {
	w := 2 * math.Pi * normalizedFreq
	czn1 := cmplx.Rect(1, -w)
	czn2 := cmplx.Rect(1, -2*w)

	num := complex(c.B0, 0) + complex(c.B1, 0)*czn1 + complex(c.B2, 0)*czn2
	den := complex(c.A0, 0) + complex(c.A1, 0)*czn1 + complex(c.A2, 0)*czn2

	return num / den
}

// MagnitudeSquared returns |H|^2 of a normalized stage using a closed-form
// expression that avoids complex exponentials.
func (c *Coefficients) MagnitudeSquared(normalizedFreq float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*normalizedFreq)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// Response evaluates the product of the active stage responses at a
// normalized frequency.
func (c *Cascade) Response(normalizedFreq float64) complex128 {
	w := 2 * math.Pi * normalizedFreq
	czn1 := cmplx.Rect(1, -w)
	czn2 := cmplx.Rect(1, -2*w)

	ch := complex(1, 0)
	cbot := complex(1, 0)

	for i := range c.numStages {
		s := &c.stages[i]

		cb := complex(1, 0)
		ct := complex(s.B0/s.A0, 0)
		ct += complex(s.B1/s.A0, 0) * czn1
		ct += complex(s.B2/s.A0, 0) * czn2
		cb += complex(s.A1/s.A0, 0) * czn1
		cb += complex(s.A2/s.A0, 0) * czn2
		ch *= ct
		cbot *= cb
	}

	return ch / cbot
}

// MagnitudeDB returns the cascade magnitude in dB at freqHz.
func (c *Cascade) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freqHz/sampleRate)))
}

// Phase returns the cascade phase in radians at freqHz.
func (c *Cascade) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz / sampleRate))
}

// ImpulseResponse returns n samples of the cascade impulse response using
// fresh transposed Direct Form II memory.
func (c *Cascade) ImpulseResponse(n int) []float64 {
	if n <= 0 {
		return nil
	}

	st := NewState(TransposedDirectFormII, c.numStages)
	stages := c.Stages()

	ir := make([]float64, n)
	ir[0] = st.Process(1, stages)

	for i := 1; i < n; i++ {
		ir[i] = st.Process(0, stages)
	}

	return ir
}
