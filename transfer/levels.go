package transfer

import (
	"github.com/wippyai/linear-srgb/errors"
)

// Normalize maps linear samples from [black, white] onto [0, 1] in place,
// clamping anything outside that range. Sensor data with a black pedestal
// and a clipping point goes through here before encoding.
func Normalize(samples []float32, black, white float32) error {
	if !(white > black) {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(white).
			Detail("white level %g must be above black level %g", white, black).
			Build()
	}
	span := white - black
	for i, v := range samples {
		samples[i] = clamp01((v - black) / span)
	}
	return nil
}

// WhiteBalance scales the R, G and B channels of interleaved pixels by the
// given gains and clamps the result to [0, 1]. Alpha, the fourth channel of
// RGBA data, is left alone.
func WhiteBalance(samples []float32, channels int, r, g, b float32) error {
	if channels != 3 && channels != 4 {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(channels).
			Detail("white balance needs 3 or 4 channels, got %d", channels).
			Build()
	}
	if len(samples)%channels != 0 {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Value(len(samples)).
			Detail("%d samples do not form whole %d-channel pixels", len(samples), channels).
			Build()
	}
	for i := 0; i < len(samples); i += channels {
		samples[i] = clamp01(samples[i] * r)
		samples[i+1] = clamp01(samples[i+1] * g)
		samples[i+2] = clamp01(samples[i+2] * b)
	}
	return nil
}

// clamp01 leaves NaN untouched; Quantize maps it to 0.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
