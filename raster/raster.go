package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/wippyai/linear-srgb/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatRaw, FormatPNG, FormatBMP, FormatTIFF}
}

// ParseFormat parses a format name, case-insensitively. "tif" is accepted
// for tiff.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatRaw, FormatPNG, FormatBMP, FormatTIFF:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	}
	return "", errors.Unsupported(errors.PhaseOutput, "format "+s)
}

// NewImage wraps pix as an image width pixels wide. pix must hold a whole
// number of rows.
func NewImage(pix []byte, width, channels int) (image.Image, error) {
	if width <= 0 {
		return nil, errors.InvalidInput(errors.PhaseOutput, "width must be positive")
	}
	switch channels {
	case 1, 3, 4:
	default:
		return nil, errors.New(errors.PhaseOutput, errors.KindUnsupported).
			Value(channels).
			Detail("%d channels per pixel", channels).
			Build()
	}

	stride := width * channels
	if len(pix) == 0 || len(pix)%stride != 0 {
		return nil, errors.New(errors.PhaseOutput, errors.KindInvalidData).
			Value(len(pix)).
			Detail("%d bytes is not a whole number of %d-byte rows", len(pix), stride).
			Build()
	}
	rect := image.Rect(0, 0, width, len(pix)/stride)

	switch channels {
	case 1:
		img := image.NewGray(rect)
		copy(img.Pix, pix)
		return img, nil
	case 3:
		img := image.NewRGBA(rect)
		for i, j := 0, 0; i < len(pix); i, j = i+3, j+4 {
			img.Pix[j] = pix[i]
			img.Pix[j+1] = pix[i+1]
			img.Pix[j+2] = pix[i+2]
			img.Pix[j+3] = 0xff
		}
		return img, nil
	default:
		img := image.NewNRGBA(rect)
		copy(img.Pix, pix)
		return img, nil
	}
}

// Scale enlarges img by an integer factor with nearest-neighbor sampling,
// keeping every source pixel a sharp block.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Write encodes img to w. FormatRaw writes the pixels in their channel
// layout without a header.
func Write(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatRaw:
		_, err = w.Write(rawPixels(img))
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Unsupported(errors.PhaseOutput, "format "+string(format))
	}
	if err != nil {
		return errors.Wrap(errors.PhaseOutput, errors.KindInvalidData, err, "encode "+string(format))
	}
	return nil
}

func rawPixels(img image.Image) []byte {
	switch m := img.(type) {
	case *image.Gray:
		return m.Pix
	case *image.NRGBA:
		return m.Pix
	case *image.RGBA:
		out := make([]byte, 0, len(m.Pix)/4*3)
		for i := 0; i < len(m.Pix); i += 4 {
			out = append(out, m.Pix[i], m.Pix[i+1], m.Pix[i+2])
		}
		return out
	}
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out = append(out, c.R, c.G, c.B, c.A)
		}
	}
	return out
}
