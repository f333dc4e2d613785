// Package ellipticmath implements the Jacobi elliptic functions and the
// degree equation needed to place elliptic (Cauer) filter zeros and poles.
//
// Functions evaluate through descending Landen transformations of the
// modulus k. Arguments u are normalized to the quarter period K(k), so
// CD(0, k) = 1 and CD(1, k) = 0.
package ellipticmath

import (
	"math"
	"math/cmplx"
)

const (
	// landenTol is the modulus below which the Landen sequence stops.
	landenTol = 2.220446049250313e-16

	// nomeThreshold switches Degree to the nome series for very selective
	// designs where the complementary modulus underflows.
	nomeThreshold = 1e-6

	nomeTerms = 7
)

// Landen returns the sequence of descending Landen moduli of k, stopping
// once the modulus falls below tol. The limits k = 0 and k = 1 return [k].
func Landen(k, tol float64) []float64 {
	if k == 0 || k == 1 {
		return []float64{k}
	}

	var v []float64

	for k > tol {
		t := k / (1 + math.Sqrt((1-k)*(1+k)))
		k = t * t
		v = append(v, k)
	}

	return v
}

// K returns the complete elliptic integral of the first kind K(k) and its
// complement K'(k) = K(sqrt(1-k²)).
func K(k float64) (float64, float64) {
	kmax := math.Sqrt(1 - nomeThreshold*nomeThreshold)

	var kk, kp float64

	switch {
	case k == 1:
		kk = math.Inf(1)
	case k > kmax:
		kc := math.Sqrt((1 - k) * (1 + k))
		l := -math.Log(kc / 4)
		kk = l + (l-1)*kc*kc/4
	default:
		kk = landenK(Landen(k, landenTol))
	}

	switch {
	case k == 0:
		kp = math.Inf(1)
	case k < nomeThreshold:
		l := -math.Log(k / 4)
		kp = l + (l-1)*k*k/4
	default:
		kc := math.Sqrt((1 - k) * (1 + k))
		kp = landenK(Landen(kc, landenTol))
	}

	return kk, kp
}

func landenK(v []float64) float64 {
	prod := 1.0
	for _, x := range v {
		prod *= 1 + x
	}

	return prod * math.Pi / 2
}

// CD evaluates the Jacobi cd function at u·K(k).
func CD(u, k float64) float64 {
	v := Landen(k, landenTol)
	w := math.Cos(u * math.Pi / 2)

	for i := len(v) - 1; i >= 0; i-- {
		w = (1 + v[i]) * w / (1 + v[i]*w*w)
	}

	return w
}

// SN evaluates the Jacobi sn function at u·K(k).
func SN(u, k float64) float64 {
	v := Landen(k, landenTol)
	w := math.Sin(u * math.Pi / 2)

	for i := len(v) - 1; i >= 0; i-- {
		w = (1 + v[i]) * w / (1 + v[i]*w*w)
	}

	return w
}

// Modulus is an elliptic modulus k together with its complement
// k' = sqrt(1-k²) and the descending Landen sequence of k. A Modulus built
// from a small k' keeps full precision where k itself rounds to 1.
type Modulus struct {
	K  float64
	Kp float64

	landen []float64
}

// NewModulus builds a Modulus from k.
func NewModulus(k float64) Modulus {
	return Modulus{
		K:      k,
		Kp:     math.Sqrt((1 - k) * (1 + k)),
		landen: Landen(k, landenTol),
	}
}

// NewComplementModulus builds a Modulus from its complement k'.
func NewComplementModulus(kp float64) Modulus {
	return Modulus{
		K:      math.Sqrt((1 - kp) * (1 + kp)),
		Kp:     kp,
		landen: landenComplement(kp, landenTol),
	}
}

// CD evaluates cd at a complex argument u·K(k).
func (m Modulus) CD(u complex128) complex128 {
	return ascend(cmplx.Cos(u*math.Pi/2), m.landen)
}

// SN evaluates sn at a complex argument u·K(k).
func (m Modulus) SN(u complex128) complex128 {
	return ascend(cmplx.Sin(u*math.Pi/2), m.landen)
}

// ASN inverts SN on the principal branch: SN(ASN(w)) = w.
func (m Modulus) ASN(w complex128) complex128 {
	prev := m.K

	for _, v := range m.landen {
		w = w / (1 + cmplx.Sqrt(1-w*w*complex(prev*prev, 0))) * complex(2/(1+v), 0)
		prev = v
	}

	return 2 * cmplx.Asin(w) / math.Pi
}

// landenComplement returns the same sequence as Landen(sqrt(1-kp²), tol)
// computed from the complementary modulus: v = (1-k')/(1+k'), and the next
// complement is 2·sqrt(k')/(1+k').
func landenComplement(kp, tol float64) []float64 {
	if kp == 0 || kp == 1 {
		return []float64{math.Sqrt((1 - kp) * (1 + kp))}
	}

	var v []float64

	for {
		vn := (1 - kp) / (1 + kp)
		v = append(v, vn)

		if vn <= tol {
			return v
		}

		kp = 2 * math.Sqrt(kp) / (1 + kp)
	}
}

// ascend applies the ascending Landen recursion from the smallest modulus
// back up to k.
func ascend(w complex128, v []float64) complex128 {
	for i := len(v) - 1; i >= 0; i-- {
		vi := complex(v[i], 0)
		w = (1 + vi) * w / (1 + vi*w*w)
	}

	return w
}

// Degree solves the degree equation N·K'(k)/K(k) = K'(k1)/K(k1) for the
// modulus k of an order-n elliptic design with discrimination k1. The
// result is built from k', so highly selective or over-specified designs
// keep the precision that 1-k would lose.
func Degree(n int, k1 float64) Modulus {
	if k1 < nomeThreshold {
		return NewModulus(degreeNome(1/float64(n), k1))
	}

	m1 := NewComplementModulus(k1)

	prod := 1.0
	for i := 1; i <= n/2; i++ {
		prod *= real(m1.SN(complex(float64(2*i-1)/float64(n), 0)))
	}

	return NewComplementModulus(math.Pow(m1.K, float64(n)) * math.Pow(prod, 4))
}

// degreeNome maps k1 through the nome q(k1)^n and back to a modulus using
// the theta-function series.
func degreeNome(n, k1 float64) float64 {
	kk, kp := K(k1)
	q := math.Exp(-math.Pi * kp / kk)
	q1 := math.Pow(q, n)

	var s1, s2 float64

	sq, pow, gap := q1, q1, q1
	q1sq := q1 * q1

	for range nomeTerms {
		s2 += sq
		s1 += sq * pow
		gap *= q1sq
		sq *= gap
		pow *= q1
	}

	r := (1 + s1) / (1 + 2*s2)

	return 4 * math.Sqrt(q1) * r * r
}
