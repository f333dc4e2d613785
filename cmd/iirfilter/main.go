// Command iirfilter runs a WAV file through an IIR filter, one filter
// instance per channel.
//
// Usage:
//
//	iirfilter [flags] input.wav output.wav
//
// Examples:
//
//	iirfilter -family butterworth -kind highpass -freq 80 in.wav out.wav
//	iirfilter -family rbj -kind lowshelf -freq 200 -gain 4 -width 1 in.wav out.wav
//	iirfilter -family elliptic -kind bandstop -order 3 -freq 50 -width 10 hum.wav clean.wav
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-iir/dsp/filter/iir"
)

const minRequiredArgs = 2

var families = map[string]iir.Family{
	"butterworth": iir.Butterworth,
	"chebyshev1":  iir.ChebyshevI,
	"chebyshev2":  iir.ChebyshevII,
	"elliptic":    iir.Elliptic,
	"bessel":      iir.Bessel,
	"legendre":    iir.Legendre,
	"rbj":         iir.RBJ,
}

var kinds = map[string]iir.Kind{
	"lowpass":      iir.LowPass,
	"highpass":     iir.HighPass,
	"bandpass":     iir.BandPass,
	"bandstop":     iir.BandStop,
	"lowshelf":     iir.LowShelf,
	"highshelf":    iir.HighShelf,
	"bandshelf":    iir.BandShelf,
	"bandpasspeak": iir.BandPassPeak,
	"allpass":      iir.AllPass,
}

func main() {
	log.SetFlags(0)

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var p iir.Params

	familyName := flag.String("family", "butterworth", "design family")
	kindName := flag.String("kind", "lowpass", "response kind")
	flag.IntVar(&p.Order, "order", 4, "prototype order (ignored for rbj)")
	flag.Float64Var(&p.Frequency, "freq", 1000, "cutoff or center frequency in Hz")
	flag.Float64Var(&p.Width, "width", 0, "band width in Hz (rbj: Q, shelf slope or octaves)")
	flag.Float64Var(&p.GainDB, "gain", 0, "shelf gain in dB")
	flag.Float64Var(&p.RippleDB, "ripple", 1, "passband ripple in dB")
	flag.Float64Var(&p.StopbandDB, "stop", 60, "stopband attenuation in dB")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()

		return fmt.Errorf("insufficient arguments")
	}

	family, ok := families[strings.ToLower(*familyName)]
	if !ok {
		return fmt.Errorf("unknown family %q", *familyName)
	}

	kind, ok := kinds[strings.ToLower(*kindName)]
	if !ok {
		return fmt.Errorf("unknown kind %q", *kindName)
	}

	if p.Width == 0 {
		p.Width = defaultWidth(family, kind, p.Frequency)
	}

	inputPath, outputPath := args[0], args[1]

	if *verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Filter: %v %v, order %d, %g Hz", family, kind, p.Order, p.Frequency)
	}

	start := time.Now()

	stats, err := filterWAV(inputPath, outputPath, family, kind, p, *verbose)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Printf("Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d stage(s)\n", stats.sampleRate, stats.channels, stats.bitDepth, stats.stages)
	fmt.Printf("  %d frames, %d clipped samples\n", stats.frames, stats.clipped)
	fmt.Printf("  Duration: %.2fs\n", elapsed.Seconds())

	return nil
}

func defaultWidth(family iir.Family, kind iir.Kind, freq float64) float64 {
	if family != iir.RBJ {
		return freq / 2
	}

	switch kind {
	case iir.LowShelf, iir.HighShelf, iir.BandShelf:
		return 1
	default:
		return 0.7071067811865476
	}
}
