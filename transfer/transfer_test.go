package transfer

import (
	"errors"
	"math"
	"testing"

	srgberrors "github.com/wippyai/linear-srgb/errors"
)

func TestEncodeByte(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want uint8
	}{
		{"zero", 0, 0},
		{"one", 1, 255},
		{"linear segment", 0.001, 3},
		{"linear segment upper", 0.002, 7},
		{"threshold", 0.0031308, 10},
		{"power segment low", 0.01, 25},
		{"tenth", 0.1, 89},
		{"fifth", 0.2, 124},
		{"half", 0.5, 188},
		{"bright", 0.9, 243},
		{"negative clamps", -1, 0},
		{"above one clamps", 2, 255},
		{"positive infinity", float32(math.Inf(1)), 255},
		{"negative infinity", float32(math.Inf(-1)), 0},
		{"nan", float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeByte(tt.in); got != tt.want {
				t.Errorf("EncodeByte(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncode_LinearSegment(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := float32(i) * linearThreshold / 100
		got := EncodeByte(v)
		want := uint8(math.Round(float64(12.92 * v * 255)))
		if got != want {
			t.Fatalf("EncodeByte(%v) = %d, want %d", v, got, want)
		}
	}
}

func TestEncode_PowerSegment(t *testing.T) {
	for i := 1; i <= 1000; i++ {
		v := linearThreshold + float64(i)*(1-linearThreshold)/1000
		s := 1.055*math.Pow(v, 1/2.4) - 0.055
		want := math.Round(math.Min(math.Max(s, 0), 1) * 255)
		got := float64(EncodeByte(float32(v)))
		// float32 and float64 evaluation may disagree at exact half steps
		if math.Abs(got-want) > 1 {
			t.Fatalf("EncodeByte(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestEncode_Monotonic(t *testing.T) {
	prev := EncodeByte(0)
	for i := 1; i <= 1<<14; i++ {
		v := float32(i) / (1 << 14)
		cur := EncodeByte(v)
		if cur < prev {
			t.Fatalf("EncodeByte(%v) = %d < %d at previous step", v, cur, prev)
		}
		prev = cur
	}
}

func TestEncode_ContinuousAtThreshold(t *testing.T) {
	linear := Encode(linearThreshold)
	power := gammaScale*float32(math.Pow(linearThreshold, 1/gamma)) - gammaOffset
	if d := math.Abs(float64(linear-power)) * 255; d > 1 {
		t.Errorf("branches differ by %v units at threshold", d)
	}
}

func TestConvert(t *testing.T) {
	in := []float32{0, 0.0031308, 0.5, 1}
	out := make([]uint8, len(in))
	if err := Convert(in, out); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	want := []uint8{0, 10, 188, 255}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %d, want %d", i, out[i], want[i])
		}
	}
}

func TestConvert_Empty(t *testing.T) {
	if err := Convert(nil, nil); err != nil {
		t.Fatalf("Convert(nil, nil): %v", err)
	}
	out := []uint8{}
	ConvertUnchecked(nil, out)
}

func TestConvert_LengthMismatch(t *testing.T) {
	out := []uint8{7, 7, 7}
	err := Convert([]float32{1, 1, 1, 1}, out)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, &srgberrors.Error{Phase: srgberrors.PhaseConvert, Kind: srgberrors.KindLengthMismatch}) {
		t.Errorf("unexpected error: %v", err)
	}
	for i, b := range out {
		if b != 7 {
			t.Errorf("out[%d] = %d, should be untouched", i, b)
		}
	}
}

func TestConvertUnchecked_ShortOutputPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short output")
		}
	}()
	ConvertUnchecked([]float32{0.1, 0.2}, make([]uint8, 1))
}

func TestConvertUnchecked_LongerOutput(t *testing.T) {
	out := []uint8{9, 9, 9}
	ConvertUnchecked([]float32{1}, out)
	if out[0] != 255 || out[1] != 9 || out[2] != 9 {
		t.Errorf("out = %v, want [255 9 9]", out)
	}
}

func TestDecodeByte_RoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := uint8(i)
		if got := EncodeByte(DecodeByte(b)); got != b {
			t.Errorf("EncodeByte(DecodeByte(%d)) = %d", b, got)
		}
	}
}

func TestDecodeByte_Endpoints(t *testing.T) {
	if DecodeByte(0) != 0 {
		t.Errorf("DecodeByte(0) = %v, want 0", DecodeByte(0))
	}
	if d := math.Abs(float64(DecodeByte(255)) - 1); d > 1e-6 {
		t.Errorf("DecodeByte(255) = %v, want 1", DecodeByte(255))
	}
}

func TestDecodeBytes(t *testing.T) {
	in := []uint8{0, 128, 255}
	out := make([]float32, 3)
	if err := DecodeBytes(in, out); err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}
	// sRGB 128 is roughly 21.6% linear light
	if out[1] < 0.21 || out[1] > 0.22 {
		t.Errorf("DecodeBytes(128) = %v, want ~0.216", out[1])
	}
	if err := DecodeBytes(in, out[:2]); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestExpose(t *testing.T) {
	samples := []float32{0.125, 0.25, 1}
	Expose(samples, 1)
	want := []float32{0.25, 0.5, 2}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}

	Expose(samples, -2)
	want = []float32{0.0625, 0.125, 0.5}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("samples[%d] = %v, want %v", i, samples[i], want[i])
		}
	}
}

func BenchmarkConvert(b *testing.B) {
	in := make([]float32, 4096)
	for i := range in {
		in[i] = float32(i) / float32(len(in))
	}
	out := make([]uint8, len(in))
	b.SetBytes(int64(len(in) * 4))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ConvertUnchecked(in, out)
	}
}
