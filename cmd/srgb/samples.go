package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wippyai/linear-srgb/transfer"
)

// readSamplesFile reads raw little-endian float32 samples.
func readSamplesFile(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}
	return decodeSamples(data)
}

func decodeSamples(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("sample data is %d bytes, not a multiple of 4", len(data))
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples, nil
}

// ramp returns n pixels going linearly from 0 to 1. Alpha, if present, is 1.
func ramp(n, channels int) []float32 {
	samples := make([]float32, 0, n*channels)
	for i := 0; i < n; i++ {
		var v float32
		if n > 1 {
			v = float32(i) / float32(n-1)
		}
		for c := 0; c < channels; c++ {
			if c == 3 {
				samples = append(samples, 1)
				continue
			}
			samples = append(samples, v)
		}
	}
	return samples
}

// parseSamples parses a comma or space separated list of floats.
func parseSamples(s string) ([]float32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	samples := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("parse sample %q: %w", f, err)
		}
		samples = append(samples, float32(v))
	}
	return samples, nil
}

// adjust applies level normalization, white balance and exposure in place,
// in that order. A zero white level means the default of 1.
func adjust(samples []float32, opts options) error {
	white := opts.white
	if white == 0 {
		white = 1
	}
	if opts.black != 0 || white != 1 {
		if err := transfer.Normalize(samples, float32(opts.black), float32(white)); err != nil {
			return fmt.Errorf("levels: %w", err)
		}
	}
	if opts.wb != "" {
		gains, err := parseGains(opts.wb)
		if err != nil {
			return err
		}
		if err := transfer.WhiteBalance(samples, opts.channels, gains[0], gains[1], gains[2]); err != nil {
			return fmt.Errorf("white balance: %w", err)
		}
	}
	transfer.Expose(samples, opts.exposure)
	return nil
}

// parseGains parses "r,g,b" white balance gains.
func parseGains(s string) ([3]float32, error) {
	var gains [3]float32
	vals, err := parseSamples(s)
	if err != nil {
		return gains, fmt.Errorf("white balance: %w", err)
	}
	if len(vals) != 3 {
		return gains, fmt.Errorf("white balance wants 3 gains, got %d", len(vals))
	}
	copy(gains[:], vals)
	return gains, nil
}
