package transfer

// decodeLUT maps every sRGB byte to its linear value.
var decodeLUT [256]float32

func init() {
	for i := range decodeLUT {
		decodeLUT[i] = Decode(float32(i) / 255)
	}
}

// DecodeByte converts an 8-bit sRGB sample to linear light using a
// precomputed table.
func DecodeByte(b uint8) float32 {
	return decodeLUT[b]
}
