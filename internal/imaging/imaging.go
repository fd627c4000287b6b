// Package imaging encodes rendered RGBA buffers into common image formats.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"mime"
	"sort"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const jpegQuality = 90

type encoderFunc func(buf *bytes.Buffer, img image.Image) error

var encoders = map[string]encoderFunc{
	"png": func(buf *bytes.Buffer, img image.Image) error {
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(buf, img)
	},
	"jpg": func(buf *bytes.Buffer, img image.Image) error {
		// JPEG has no alpha channel; transparent cells flatten to the
		// zero color.
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality})
	},
	"bmp": func(buf *bytes.Buffer, img image.Image) error {
		return bmp.Encode(buf, img)
	},
	"tif": func(buf *bytes.Buffer, img image.Image) error {
		return tiff.Encode(buf, img, &tiff.Options{Compression: tiff.Deflate})
	},
}

// Encode serializes img in the named format ("png", "jpg", "bmp" or "tif").
func Encode(img image.Image, format string) ([]byte, error) {
	enc, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Supported reports whether an encoder exists for the named format.
func Supported(format string) bool {
	_, ok := encoders[format]
	return ok
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ContentType returns the MIME type for a supported format.
func ContentType(format string) string {
	switch format {
	case "jpg":
		return "image/jpeg"
	case "tif":
		return "image/tiff"
	default:
		return mime.TypeByExtension("." + format)
	}
}
