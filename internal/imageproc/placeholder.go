package imageproc

import (
	"fmt"
	"image"

	"github.com/buckket/go-blurhash"
)

// Placeholder component counts. 4x4 gives a hash compact enough to
// inline in every listing row while still capturing coarse
// color/luminance blocks.
const (
	placeholderXComponents = 4
	placeholderYComponents = 4
)

// Placeholder encodes a blurhash placeholder string from img.
// Deterministic: identical pixel content always yields the same hash.
// Callers pass the thumbnail, not the original; hashing full-resolution
// pixels buys nothing for a blurred placeholder.
func Placeholder(img image.Image) (string, error) {
	hash, err := blurhash.Encode(placeholderXComponents, placeholderYComponents, img)
	if err != nil {
		return "", fmt.Errorf("encoding placeholder: %w", err)
	}
	return hash, nil
}
