// Command iirinfo designs an IIR filter and prints its stages, poles and
// zeros and a magnitude/phase table.
//
// Usage:
//
//	iirinfo [flags] family kind
//
// Examples:
//
//	iirinfo butterworth lowpass
//	iirinfo -order 6 -freq 1000 -ripple 1 chebyshev1 highpass
//	iirinfo -order 4 -freq 2000 -width 500 -ripple 0.5 -stop 60 elliptic bandpass
//	iirinfo -gain 6 -width 1 rbj bandshelf
//	iirinfo -verify butterworth lowpass
//	iirinfo -list
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-iir/dsp/filter/iir"
	"github.com/cwbudde/algo-iir/dsp/filter/pz"
	"github.com/cwbudde/algo-iir/measure/freqresp"
)

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
	var p iir.Params

	flag.IntVar(&p.Order, "order", 4, "prototype order (ignored for rbj)")
	flag.Float64Var(&p.SampleRate, "rate", 48000, "sample rate in Hz")
	flag.Float64Var(&p.Frequency, "freq", 1000, "cutoff or center frequency in Hz")
	flag.Float64Var(&p.Width, "width", 0, "band width in Hz (rbj: Q, shelf slope or octaves)")
	flag.Float64Var(&p.GainDB, "gain", 0, "shelf gain in dB")
	flag.Float64Var(&p.RippleDB, "ripple", 1, "passband ripple in dB")
	flag.Float64Var(&p.StopbandDB, "stop", 60, "stopband attenuation in dB")
	points := flag.Int("points", 16, "rows in the response table")
	verify := flag.Bool("verify", false, "compare the impulse response spectrum with the analytic response")
	list := flag.Bool("list", false, "list families and their kinds")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: iirinfo [flags] family kind\n\n")
		fmt.Fprintf(os.Stderr, "Designs an IIR filter and prints its structure and response.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  iirinfo butterworth lowpass\n")
		fmt.Fprintf(os.Stderr, "  iirinfo -order 4 -freq 2000 -width 500 elliptic bandpass\n")
		fmt.Fprintf(os.Stderr, "  iirinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	family, kind, err := parse(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if p.Width == 0 {
		p.Width = defaultWidth(family, kind, p.Frequency)
	}

	f, err := iir.New(family, kind, iir.WithMaxOrder(max(p.Order, iir.DefaultMaxOrder)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := f.Design(p); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	printStages(f)
	printPoleZeros(f)
	printResponse(f, *points)

	if *verify {
		printVerification(f)
	}
}

func parse(familyName, kindName string) (iir.Family, iir.Kind, error) {
	family, ok := families[strings.ToLower(familyName)]
	if !ok {
		return 0, 0, fmt.Errorf("unknown family %q (use -list to see available)", familyName)
	}

	kind, ok := kinds[strings.ToLower(kindName)]
	if !ok {
		return 0, 0, fmt.Errorf("unknown kind %q (use -list to see available)", kindName)
	}

	if !family.Supports(kind) {
		return 0, 0, fmt.Errorf("%v does not support %v", family, kind)
	}

	return family, kind, nil
}

// defaultWidth picks a usable Width when the flag is left unset.
func defaultWidth(family iir.Family, kind iir.Kind, freq float64) float64 {
	if family != iir.RBJ {
		return freq / 2
	}

	switch kind {
	case iir.LowShelf, iir.HighShelf, iir.BandShelf:
		return 1
	default:
		return math.Sqrt2 / 2
	}
}

func printList() {
	for _, name := range []string{"butterworth", "chebyshev1", "chebyshev2", "elliptic", "bessel", "legendre", "rbj"} {
		var supported []string

		for _, k := range families[name].Kinds() {
			supported = append(supported, strings.ToLower(k.String()))
		}

		fmt.Printf("%-12s %s\n", name, strings.Join(supported, " "))
	}
}

func printStages(f *iir.Filter) {
	p := f.Params()
	fmt.Printf("%v %v, %d stage(s) at %g Hz\n\n", f.Family(), f.Kind(), f.NumStages(), p.SampleRate)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Stage\tb0\tb1\tb2\ta1\ta2\n")
	fmt.Fprintf(tw, "-----\t--\t--\t--\t--\t--\n")

	for i, c := range f.Stages() {
		fmt.Fprintf(tw, "%d\t% .9f\t% .9f\t% .9f\t% .9f\t% .9f\n", i, c.B0, c.B1, c.B2, c.A1, c.A2)
	}

	flush(tw)
}

func printPoleZeros(f *iir.Filter) {
	fmt.Println()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Pair\tPole\t|Pole|\tZero\n")
	fmt.Fprintf(tw, "----\t----\t------\t----\n")

	for i, pair := range f.PoleZeros() {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%s\n", i, formatComplex(pair.Poles.First), cmplx.Abs(pair.Poles.First), formatComplex(pair.Zeros.First))

		if !pair.Single {
			fmt.Fprintf(tw, "\t%s\t%.6f\t%s\n", formatComplex(pair.Poles.Second), cmplx.Abs(pair.Poles.Second), formatComplex(pair.Zeros.Second))
		}
	}

	flush(tw)
}

func printResponse(f *iir.Filter, points int) {
	fmt.Println()

	sr := f.Params().SampleRate
	lo := math.Log(10.0)
	hi := math.Log(sr / 2)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Freq [Hz]\tGain [dB]\tPhase [deg]\tDelay [smp]\n")
	fmt.Fprintf(tw, "---------\t---------\t-----------\t-----------\n")

	for i := range points {
		t := float64(i) / float64(max(points-1, 1))
		hz := math.Exp(lo + t*(hi-lo))
		h := f.Response(hz / sr)
		delay := freqresp.GroupDelay(f.Response, hz/sr)

		fmt.Fprintf(tw, "%.1f\t%.3f\t%.2f\t%.3f\n", hz, 20*math.Log10(cmplx.Abs(h)), cmplx.Phase(h)*180/math.Pi, delay)
	}

	flush(tw)
}

func printVerification(f *iir.Filter) {
	const fftSize = 16384

	ir, err := freqresp.ImpulseResponse(f, fftSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	cmp, err := freqresp.CompareAnalytic(ir, fftSize, -120, f.Response)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}

	fmt.Printf("\nimpulse vs analytic: max %.2e dB, rms %.2e dB (worst at %.1f Hz)\n",
		cmp.MaxErrorDB, cmp.RMSErrorDB, float64(cmp.WorstBin)*f.Params().SampleRate/fftSize)
}

func formatComplex(c complex128) string {
	if pz.IsInfinity(c) {
		return "inf"
	}

	return fmt.Sprintf("% .6f%+.6fi", real(c), imag(c))
}

func flush(tw *tabwriter.Writer) {
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
