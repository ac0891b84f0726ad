package transfer

import (
	"errors"
	"math"
	"testing"

	srgberrors "github.com/wippyai/linear-srgb/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		black, white float32
		in, want     []float32
	}{
		{"identity", 0, 1, []float32{0, 0.25, 1}, []float32{0, 0.25, 1}},
		{"sensor levels", 512, 16384, []float32{512, 8448, 16384}, []float32{0, 0.5, 1}},
		{"clamps", 0.25, 0.75, []float32{0, 0.5, 1}, []float32{0, 0.5, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := append([]float32(nil), tt.in...)
			if err := Normalize(samples, tt.black, tt.white); err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			for i := range tt.want {
				if samples[i] != tt.want[i] {
					t.Errorf("samples[%d] = %v, want %v", i, samples[i], tt.want[i])
				}
			}
		})
	}
}

func TestNormalize_NaN(t *testing.T) {
	samples := []float32{float32(math.NaN())}
	if err := Normalize(samples, 0, 2); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if EncodeByte(samples[0]) != 0 {
		t.Errorf("normalized NaN encodes to %d, want 0", EncodeByte(samples[0]))
	}
}

func TestNormalize_InvalidLevels(t *testing.T) {
	samples := []float32{0.5}
	for _, lv := range [][2]float32{{1, 1}, {1, 0}} {
		err := Normalize(samples, lv[0], lv[1])
		if !errors.Is(err, &srgberrors.Error{Phase: srgberrors.PhaseConvert, Kind: srgberrors.KindInvalidInput}) {
			t.Errorf("Normalize(black=%v, white=%v) error = %v, want invalid_input", lv[0], lv[1], err)
		}
	}
	if samples[0] != 0.5 {
		t.Errorf("invalid levels modified samples: %v", samples)
	}
}

func TestWhiteBalance(t *testing.T) {
	rgb := []float32{0.25, 0.5, 0.25, 0.5, 0.5, 0.5}
	if err := WhiteBalance(rgb, 3, 2, 1, 0.5); err != nil {
		t.Fatalf("WhiteBalance: %v", err)
	}
	want := []float32{0.5, 0.5, 0.125, 1, 0.5, 0.25}
	for i := range want {
		if rgb[i] != want[i] {
			t.Errorf("rgb[%d] = %v, want %v", i, rgb[i], want[i])
		}
	}

	rgba := []float32{0.25, 0.25, 0.25, 0.75}
	if err := WhiteBalance(rgba, 4, 4, 1, 1); err != nil {
		t.Fatalf("WhiteBalance(rgba): %v", err)
	}
	if rgba[0] != 1 || rgba[3] != 0.75 {
		t.Errorf("rgba = %v, want red clamped to 1 and alpha kept", rgba)
	}
}

func TestWhiteBalance_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		samples  []float32
		channels int
	}{
		{"gray", []float32{0.5, 0.5}, 1},
		{"partial pixel", []float32{0.5, 0.5, 0.5, 0.5}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WhiteBalance(tt.samples, tt.channels, 1, 1, 1)
			if !errors.Is(err, &srgberrors.Error{Phase: srgberrors.PhaseConvert, Kind: srgberrors.KindInvalidInput}) {
				t.Errorf("WhiteBalance error = %v, want invalid_input", err)
			}
		})
	}
}
