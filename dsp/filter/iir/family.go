package iir

import (
	"fmt"
	"slices"
)

// Family selects the design method.
type Family int

const (
	Butterworth Family = iota
	ChebyshevI
	ChebyshevII
	Elliptic
	Bessel
	Legendre
	RBJ
)

var familyNames = [...]string{
	Butterworth: "Butterworth",
	ChebyshevI:  "ChebyshevI",
	ChebyshevII: "ChebyshevII",
	Elliptic:    "Elliptic",
	Bessel:      "Bessel",
	Legendre:    "Legendre",
	RBJ:         "RBJ",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}

	return familyNames[f]
}

// Kind selects the response shape.
type Kind int

const (
	LowPass Kind = iota
	HighPass
	BandPass
	BandStop
	LowShelf
	HighShelf
	BandShelf
	// BandPassPeak is the RBJ band-pass with a 0 dB peak. The RBJ BandPass
	// has constant skirt gain instead.
	BandPassPeak
	AllPass
)

var kindNames = [...]string{
	LowPass:      "LowPass",
	HighPass:     "HighPass",
	BandPass:     "BandPass",
	BandStop:     "BandStop",
	LowShelf:     "LowShelf",
	HighShelf:    "HighShelf",
	BandShelf:    "BandShelf",
	BandPassPeak: "BandPassPeak",
	AllPass:      "AllPass",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// isBand reports whether the kind doubles the prototype order through a
// band transform.
func (k Kind) isBand() bool {
	return k == BandPass || k == BandStop || k == BandShelf
}

func (k Kind) isShelf() bool {
	return k == LowShelf || k == HighShelf || k == BandShelf
}

var (
	allPoleKinds = []Kind{LowPass, HighPass, BandPass, BandStop, LowShelf, HighShelf, BandShelf}
	passKinds    = []Kind{LowPass, HighPass, BandPass, BandStop}
)

var supportedKinds = map[Family][]Kind{
	Butterworth: allPoleKinds,
	ChebyshevI:  allPoleKinds,
	ChebyshevII: allPoleKinds,
	Bessel:      allPoleKinds,
	Elliptic:    passKinds,
	Legendre:    passKinds,
	RBJ: {
		LowPass, HighPass, BandPass, BandPassPeak, BandStop,
		LowShelf, HighShelf, BandShelf, AllPass,
	},
}

// Supports reports whether the family can design kind k.
func (f Family) Supports(k Kind) bool {
	return slices.Contains(supportedKinds[f], k)
}

// Kinds returns the kinds the family supports.
func (f Family) Kinds() []Kind {
	return slices.Clone(supportedKinds[f])
}
