package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

const (
	imgFolder       = "img"
	thumbnailFolder = "thumbnail"
	uriPrefix       = "static"
)

// Compile-time check that FileSystem implements Storage.
var _ Storage = (*FileSystem)(nil)

// FileSystem implements Storage on the local filesystem. Originals
// live at <root>/img/<name>, thumbnails at <root>/img/thumbnail/<name>,
// where root is the application's static directory.
type FileSystem struct {
	root string
}

// NewFileSystem creates a FileSystem rooted at the static directory.
func NewFileSystem(root string) *FileSystem {
	return &FileSystem{root: root}
}

func (s *FileSystem) originalPath(name string) string {
	return filepath.Join(s.root, imgFolder, name)
}

func (s *FileSystem) thumbnailPath(name string) string {
	return filepath.Join(s.root, imgFolder, thumbnailFolder, name)
}

// OriginalURI returns the original's URI relative to the app root,
// e.g. "static/img/<name>".
func (s *FileSystem) OriginalURI(name string) string {
	return path.Join(uriPrefix, imgFolder, name)
}

// ThumbnailURI returns the thumbnail's URI relative to the app root,
// e.g. "static/img/thumbnail/<name>".
func (s *FileSystem) ThumbnailURI(name string) string {
	return path.Join(uriPrefix, imgFolder, thumbnailFolder, name)
}

// StoreOriginal writes the original image bytes.
func (s *FileSystem) StoreOriginal(name string, data []byte) error {
	return writeFile(s.originalPath(name), data)
}

// StoreThumbnail writes the thumbnail bytes.
func (s *FileSystem) StoreThumbnail(name string, data []byte) error {
	return writeFile(s.thumbnailPath(name), data)
}

// Remove deletes both files for name. Missing files are ignored so the
// operation stays idempotent.
func (s *FileSystem) Remove(name string) error {
	var firstErr error
	for _, p := range []string{s.originalPath(name), s.thumbnailPath(name)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("removing %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// writeFile writes data atomically: to a temp file in the target
// directory, then renamed into place, so readers never observe a
// partial file.
func writeFile(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	tmpPath = ""
	return nil
}
