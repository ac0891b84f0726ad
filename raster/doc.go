// Package raster turns encoded sRGB bytes into images and writes them.
//
// Pixels are interleaved with 1, 3 or 4 channels per pixel. Gray and RGB
// pixels are opaque; the fourth channel is straight alpha.
//
// # Formats
//
//	raw   - bytes as given
//	png   - image/png
//	bmp   - golang.org/x/image/bmp
//	tiff  - golang.org/x/image/tiff, deflate compressed
package raster
