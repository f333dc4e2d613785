package iir

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-iir/internal/testutil"
)

func BenchmarkProcess(b *testing.B) {
	for _, order := range []int{2, 4, 8} {
		b.Run(fmt.Sprintf("order=%d", order), func(b *testing.B) {
			f, err := New(Butterworth, LowPass)
			if err != nil {
				b.Fatal(err)
			}

			p := baseParams
			p.Order = order

			if err := f.Design(p); err != nil {
				b.Fatal(err)
			}

			x := 0.0

			b.ReportAllocs()

			for b.Loop() {
				x = f.Process(x + 1e-3)
			}
		})
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	f, err := New(Elliptic, BandPass)
	if err != nil {
		b.Fatal(err)
	}

	if err := f.Design(baseParams); err != nil {
		b.Fatal(err)
	}

	buf := testutil.DeterministicNoise(1, 1, 1024)

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()

	for b.Loop() {
		f.ProcessBlock(buf)
	}
}

func BenchmarkDesign(b *testing.B) {
	for _, family := range []Family{Butterworth, Elliptic, Legendre} {
		b.Run(family.String(), func(b *testing.B) {
			f, err := New(family, LowPass)
			if err != nil {
				b.Fatal(err)
			}

			p := baseParams
			i := 0

			for b.Loop() {
				p.Frequency = 1000 + float64(i%2)*500
				i++

				if err := f.Design(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
