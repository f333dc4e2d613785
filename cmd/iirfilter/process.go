package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-iir/dsp/filter/iir"
)

// bufferSize is the number of frames read per chunk.
const bufferSize = 16384

type filterStats struct {
	sampleRate int
	channels   int
	bitDepth   int
	stages     int
	frames     int64
	clipped    int64
}

// channelFilters holds one designed filter per channel and the scratch
// buffer used to deinterleave a chunk.
type channelFilters struct {
	filters []*iir.Filter
	scratch []float64
	maxVal  float64
	clipped int64
}

func newChannelFilters(channels, bitDepth int, family iir.Family, kind iir.Kind, p iir.Params) (*channelFilters, error) {
	if bitDepth < 8 || bitDepth > 32 {
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	maxOrder := max(p.Order, iir.DefaultMaxOrder)

	cf := &channelFilters{
		filters: make([]*iir.Filter, channels),
		scratch: make([]float64, bufferSize),
		maxVal:  math.Exp2(float64(bitDepth-1)) - 1,
	}

	for ch := range channels {
		f, err := iir.New(family, kind, iir.WithMaxOrder(maxOrder))
		if err != nil {
			return nil, err
		}

		if err := f.Design(p); err != nil {
			return nil, fmt.Errorf("failed to design filter for channel %d: %w", ch, err)
		}

		cf.filters[ch] = f
	}

	return cf, nil
}

// process filters interleaved integer samples in place.
func (cf *channelFilters) process(data []int) {
	channels := len(cf.filters)
	frames := len(data) / channels
	buf := cf.scratch[:frames]
	inv := 1 / cf.maxVal

	for ch, f := range cf.filters {
		for i := range frames {
			buf[i] = float64(data[i*channels+ch]) * inv
		}

		f.ProcessBlock(buf)

		for i, v := range buf {
			data[i*channels+ch] = cf.quantize(v)
		}
	}
}

func (cf *channelFilters) quantize(v float64) int {
	s := math.Round(v * cf.maxVal)

	switch {
	case s > cf.maxVal:
		cf.clipped++
		return int(cf.maxVal)
	case s < -cf.maxVal-1:
		cf.clipped++
		return int(-cf.maxVal - 1)
	default:
		return int(s)
	}
}

func filterWAV(inputPath, outputPath string, family iir.Family, kind iir.Kind, p iir.Params, verbose bool) (*filterStats, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	decoder := wav.NewDecoder(in)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", inputPath)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	p.SampleRate = float64(format.SampleRate)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	cf, err := newChannelFilters(format.NumChannels, bitDepth, family, kind, p)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, format.SampleRate, bitDepth, format.NumChannels, 1)

	stats := &filterStats{
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
		stages:     cf.filters[0].NumStages(),
	}

	if err := stream(decoder, encoder, cf, format, stats); err != nil {
		return nil, err
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize output: %w", err)
	}

	stats.clipped = cf.clipped

	if verbose && stats.clipped > 0 {
		log.Printf("Warning: %d samples clipped", stats.clipped)
	}

	return stats, nil
}

type pcmReader interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

type pcmWriter interface {
	Write(buf *audio.IntBuffer) error
}

func stream(r pcmReader, w pcmWriter, cf *channelFilters, format *audio.Format, stats *filterStats) error {
	channels := len(cf.filters)
	buf := &audio.IntBuffer{
		Data:   make([]int, bufferSize*channels),
		Format: format,
	}

	for {
		n, err := r.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read audio data: %w", err)
		}

		if n == 0 {
			return nil
		}

		// Drop a trailing partial frame.
		n -= n % channels
		chunk := buf.Data[:n]
		cf.process(chunk)

		out := &audio.IntBuffer{Data: chunk, Format: format, SourceBitDepth: buf.SourceBitDepth}
		if err := w.Write(out); err != nil {
			return fmt.Errorf("failed to write audio data: %w", err)
		}

		stats.frames += int64(n / channels)
	}
}
