package pz

import "math/cmplx"

// ComplexPair holds two poles or two zeros of one second-order factor.
// For a conjugate pair Second is the conjugate of First.
type ComplexPair struct {
	First, Second complex128
}

// ConjugatePair returns c and its conjugate.
func ConjugatePair(c complex128) ComplexPair {
	return ComplexPair{First: c, Second: cmplx.Conj(c)}
}

// IsConjugate reports whether Second is exactly the conjugate of First.
func (p ComplexPair) IsConjugate() bool {
	return p.Second == cmplx.Conj(p.First)
}

// IsReal reports whether both members lie on the real axis.
func (p ComplexPair) IsReal() bool {
	return imag(p.First) == 0 && imag(p.Second) == 0
}

// IsMatchedPair reports whether the pair forms a real-coefficient quadratic:
// either a conjugate pair or two real values.
func (p ComplexPair) IsMatchedPair() bool {
	if imag(p.First) != 0 {
		return p.IsConjugate()
	}

	return imag(p.Second) == 0
}

// PoleZeroPair is one stage worth of poles and zeros. A single pole entry
// (the odd-order tail) stores its pole and zero in First and leaves Second
// unused.
type PoleZeroPair struct {
	Poles  ComplexPair
	Zeros  ComplexPair
	Single bool
}

// IsSinglePole reports whether the pair describes a first-order section.
func (p PoleZeroPair) IsSinglePole() bool {
	return p.Single
}
