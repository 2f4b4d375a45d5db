// Package storage persists original images and their thumbnails to
// disk and derives their collision-resistant file names.
package storage

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Storage defines blob persistence for an image and its thumbnail.
// The same derived name addresses both files, correlating them by
// filename.
type Storage interface {
	// StoreOriginal writes the full-resolution image bytes.
	StoreOriginal(name string, data []byte) error

	// StoreThumbnail writes the thumbnail bytes.
	StoreThumbnail(name string, data []byte) error

	// Remove deletes the original and the thumbnail. It is idempotent:
	// files already missing are not an error.
	Remove(name string) error

	// OriginalURI returns the app-root-relative URI of the original.
	OriginalURI(name string) string

	// ThumbnailURI returns the app-root-relative URI of the thumbnail.
	ThumbnailURI(name string) string
}

// NewName derives a storage name for an uploaded file:
// 32 random hex characters (128 bits) prefixed to the original
// filename. Collisions are negligible by construction, and keeping the
// original basename and extension makes files recognisable to an
// operator. The caller guarantees filename contains no path
// separators.
func NewName(filename string) string {
	u := uuid.New()
	return hex.EncodeToString(u[:]) + "_" + filename
}
