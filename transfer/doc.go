// Package transfer implements the sRGB transfer functions used to move
// color samples between linear light and 8-bit gamma-encoded values.
//
// Encoding follows the piecewise sRGB OETF:
//
//	v <= 0.0031308:  s = 12.92 * v
//	otherwise:       s = 1.055 * v^(1/2.4) - 0.055
//
// The encoded value is clamped to [0, 1], scaled by 255 and rounded half away
// from zero. Inputs are not clamped before encoding, so negative values and
// values above one simply saturate. NaN encodes to 0.
//
// # Checked and unchecked conversion
//
// ConvertUnchecked trusts the caller's lengths and is the routine used at the
// raw memory boundary. Convert validates that both slices have the same
// length before delegating:
//
//	out := make([]uint8, len(samples))
//	if err := transfer.Convert(samples, out); err != nil {
//		return err
//	}
package transfer
