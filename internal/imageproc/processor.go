// Package imageproc holds the pure image transformations of the
// ingestion pipeline: decoding, thumbnail generation, alpha
// normalization for JPEG targets, and format encoding. All functions
// treat their image.Image arguments as immutable values.
package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

const jpegQuality = 85

// Decode reads and decodes an image from r.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Supported reports whether the file extension names a format the
// pipeline can store. Matches the upload types the gallery accepts.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// Thumbnail returns a copy of img bounded by maxWidth, preserving
// aspect ratio. The height becomes round(maxWidth/width * height).
// Images already within the bound are never enlarged; the input is
// never mutated.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if w <= maxWidth {
		return imaging.Clone(img)
	}
	scale := float64(maxWidth) / float64(w)
	newH := int(math.Round(scale * float64(h)))
	if newH < 1 {
		newH = 1
	}
	return imaging.Resize(img, maxWidth, newH, imaging.Lanczos)
}

// Normalize prepares img for storage under the given file extension.
// JPEG cannot carry an alpha channel, so for .jpg/.jpeg targets any
// transparency is flattened to an opaque copy: the alpha channel is
// dropped outright rather than composited against a background, which
// is lossy but acceptable for photo uploads. Other formats pass
// through unchanged.
func Normalize(img image.Image, ext string) image.Image {
	if !isJPEG(ext) {
		return img
	}
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		return img
	}
	flat := imaging.Clone(img)
	for i := 3; i < len(flat.Pix); i += 4 {
		flat.Pix[i] = 0xFF
	}
	return flat
}

// Encode encodes img into the format named by the file extension.
func Encode(img image.Image, ext string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, err
		}
	case ".png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case ".gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", ext)
	}
	return buf.Bytes(), nil
}

func isJPEG(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
