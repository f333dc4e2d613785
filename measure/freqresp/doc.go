// Package freqresp measures the frequency response of a filter from the
// outside and compares it with the analytic response.
//
// Two excitations are supported. [ImpulseResponse] feeds a unit impulse
// and [Spectrum] transforms the captured response. [LogSweep] drives the
// filter with an exponential sine sweep, divides the output spectrum by the
// dry sweep spectrum inside the swept band and deconvolves the output into
// a band-limited impulse response:
//
//	s := &freqresp.LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 48000}
//	m, _ := s.Measure(filter, 4096)
//	for i, f := range m.Frequencies {
//	    fmt.Println(f, m.MagnitudeDB(i))
//	}
package freqresp
