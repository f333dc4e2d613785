package pz

import (
	"math"
	"math/cmplx"
)

const (
	// DoublePi is 2π.
	DoublePi = 2 * math.Pi
	// HalfPi is π/2.
	HalfPi = math.Pi / 2
	// Ln10 is the natural logarithm of 10.
	Ln10 = math.Ln10
)

// Infinity returns the sentinel used for a zero at infinity. Analog
// all-pole sections carry this zero; transforms map it onto the unit
// circle (z = -1 for low-pass, z = +1 for high-pass).
func Infinity() complex128 {
	return complex(math.Inf(1), 0)
}

// IsInfinity reports whether c is the infinity sentinel (or any complex
// infinity).
func IsInfinity(c complex128) bool {
	return cmplx.IsInf(c)
}

// AddMul returns c + v·c1.
func AddMul(c complex128, v float64, c1 complex128) complex128 {
	return c + complex(v, 0)*c1
}

// DBToLinear converts decibels to a linear amplitude ratio.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts a linear amplitude ratio to decibels.
func LinearToDB(v float64) float64 {
	return 20 * math.Log10(v)
}
