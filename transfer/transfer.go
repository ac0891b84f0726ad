package transfer

import (
	"math"

	"github.com/wippyai/linear-srgb/errors"
)

const (
	linearThreshold = 0.0031308
	linearScale     = 12.92
	gammaScale      = 1.055
	gammaOffset     = 0.055
	gamma           = 2.4

	// decodeThreshold is linearThreshold mapped through the linear segment.
	decodeThreshold = 0.04045
)

// Encode applies the sRGB OETF to a linear-light value. The result is not
// clamped.
func Encode(v float32) float32 {
	if v <= linearThreshold {
		return linearScale * v
	}
	return gammaScale*float32(math.Pow(float64(v), 1/gamma)) - gammaOffset
}

// Decode applies the inverse curve, mapping an encoded value in [0, 1] back
// to linear light.
func Decode(s float32) float32 {
	if s <= decodeThreshold {
		return s / linearScale
	}
	return float32(math.Pow(float64((s+gammaOffset)/gammaScale), gamma))
}

// Quantize clamps an encoded value to [0, 1] and scales it to a byte,
// rounding half away from zero. NaN quantizes to 0.
func Quantize(s float32) uint8 {
	if !(s > 0) {
		return 0
	}
	if s >= 1 {
		return 255
	}
	return uint8(math.Round(float64(s * 255)))
}

// EncodeByte encodes a single linear-light value to an 8-bit sRGB sample.
func EncodeByte(v float32) uint8 {
	return Quantize(Encode(v))
}

// ConvertUnchecked writes EncodeByte(in[i]) to out[i] for every input
// sample. out must hold at least len(in) bytes; a shorter out panics midway
// through the conversion.
func ConvertUnchecked(in []float32, out []uint8) {
	for i, v := range in {
		out[i] = EncodeByte(v)
	}
}

// Convert is the checked form of ConvertUnchecked. Both slices must have the
// same length; nothing is written otherwise.
func Convert(in []float32, out []uint8) error {
	if len(in) != len(out) {
		return errors.LengthMismatch(errors.PhaseConvert, len(in), len(out))
	}
	ConvertUnchecked(in, out)
	return nil
}

// DecodeBytes maps 8-bit sRGB samples to linear light. Both slices must have
// the same length.
func DecodeBytes(in []uint8, out []float32) error {
	if len(in) != len(out) {
		return errors.LengthMismatch(errors.PhaseConvert, len(in), len(out))
	}
	for i, b := range in {
		out[i] = DecodeByte(b)
	}
	return nil
}

// Expose scales linear samples in place by 2^stops. Positive stops brighten.
func Expose(samples []float32, stops float64) {
	if stops == 0 {
		return
	}
	scale := float32(math.Exp2(stops))
	for i := range samples {
		samples[i] *= scale
	}
}
