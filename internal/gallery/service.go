// Package gallery implements the image ingestion pipeline and the
// edit/delete/list operations around the images table.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/leca/fw-gallery/internal/database"
	"github.com/leca/fw-gallery/internal/imageproc"
	"github.com/leca/fw-gallery/internal/model"
	"github.com/leca/fw-gallery/internal/storage"
)

// Service coordinates validation, image transformation, file writes
// and the metadata commit as one logical unit, and owns rollback when
// any step fails partway.
type Service struct {
	db         database.Database
	store      storage.Storage
	thumbWidth int
	validate   *validator.Validate
}

// NewService creates a gallery service. thumbWidth bounds generated
// thumbnails.
func NewService(db database.Database, store storage.Storage, thumbWidth int) *Service {
	return &Service{
		db:         db,
		store:      store,
		thumbWidth: thumbWidth,
		validate:   validator.New(),
	}
}

// UploadInput carries one upload request.
type UploadInput struct {
	File        io.Reader
	Filename    string
	Title       string `validate:"required,min=1,max=100"`
	Position    string
	Time        string
	Description string
}

// EditInput carries the mutable text fields of an existing image.
type EditInput struct {
	Title       string `validate:"required,min=1,max=100"`
	Position    string
	Time        string
	Description string
}

// Ingest runs the ingestion pipeline: validate, decode, derive the
// storage name, thumbnail, normalize color mode, encode the blurhash
// placeholder, write both files, then commit the metadata row.
//
// Failures before the first file write leave no side effects. If the
// original write fails after the thumbnail was written, the thumbnail
// is removed. If the database commit fails, both files are removed. No
// orphaned files survive a failed ingestion.
func (s *Service) Ingest(ctx context.Context, in UploadInput) (*model.Image, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.File == nil {
		return nil, fmt.Errorf("%w: no file uploaded", ErrInvalidImage)
	}

	// Fast-path duplicate check for a friendly error. The UNIQUE
	// constraint on images.title remains the authoritative guard; a
	// concurrent upload racing past this check is caught at commit.
	if _, err := s.db.GetImageByTitle(ctx, in.Title); err == nil {
		return nil, ErrDuplicateTitle
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("checking title: %w", err)
	}

	name := storage.NewName(in.Filename)
	ext := filepath.Ext(name)
	if !imageproc.Supported(ext) {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidImage, ext)
	}

	src, err := imageproc.Decode(in.File)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	width := src.Bounds().Dx()
	height := src.Bounds().Dy()

	log.Debug().Str("name", name).Msg("generating thumbnail")
	thumb := imageproc.Thumbnail(src, s.thumbWidth)

	// Both files share the derived name, so one extension governs the
	// color-mode normalization of both.
	src = imageproc.Normalize(src, ext)
	thumb = imageproc.Normalize(thumb, ext)

	hash, err := imageproc.Placeholder(thumb)
	if err != nil {
		return nil, fmt.Errorf("encoding placeholder: %w", err)
	}

	// Encode both payloads before touching the filesystem so encoding
	// failures stay side-effect free.
	thumbData, err := imageproc.Encode(thumb, ext)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	origData, err := imageproc.Encode(src, ext)
	if err != nil {
		return nil, fmt.Errorf("encoding original: %w", err)
	}

	log.Debug().Str("name", name).Msg("saving files")
	if err := s.store.StoreThumbnail(name, thumbData); err != nil {
		return nil, fmt.Errorf("storing thumbnail: %w", err)
	}
	if err := s.store.StoreOriginal(name, origData); err != nil {
		s.cleanupFiles(name)
		return nil, fmt.Errorf("storing original: %w", err)
	}

	now := time.Now().UTC()
	img := &model.Image{
		URI:          s.store.OriginalURI(name),
		ThumbnailURI: s.store.ThumbnailURI(name),
		Title:        in.Title,
		Position:     in.Position,
		Time:         in.Time,
		Description:  in.Description,
		Blurhash:     hash,
		Width:        width,
		Height:       height,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	log.Debug().Str("title", in.Title).Msg("saving image record")
	if err := s.db.CreateImage(ctx, img); err != nil {
		s.cleanupFiles(name)
		if errors.Is(err, database.ErrDuplicateTitle) {
			return nil, ErrDuplicateTitle
		}
		return nil, fmt.Errorf("saving image record: %w", err)
	}

	log.Info().Int64("id", img.ID).Str("title", img.Title).Msg("image ingested")
	return img, nil
}

// Update changes title/position/time/description of an existing
// image. It never touches files, hash or dimensions.
func (s *Service) Update(ctx context.Context, id int64, in EditInput) (*model.Image, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	img, err := s.db.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading image: %w", err)
	}

	// Duplicate check excludes the image's own row.
	if other, err := s.db.GetImageByTitle(ctx, in.Title); err == nil {
		if other.ID != id {
			return nil, ErrDuplicateTitle
		}
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("checking title: %w", err)
	}

	img.Title = in.Title
	img.Position = in.Position
	img.Time = in.Time
	img.Description = in.Description
	img.UpdatedAt = time.Now().UTC()

	if err := s.db.UpdateImage(ctx, img); err != nil {
		switch {
		case errors.Is(err, database.ErrDuplicateTitle):
			return nil, ErrDuplicateTitle
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating image: %w", err)
	}
	return img, nil
}

// Delete removes the database row, then best-effort removes both
// backing files. Files already missing are not an error, so deletion
// stays idempotent with respect to the filesystem.
func (s *Service) Delete(ctx context.Context, id int64) error {
	img, err := s.db.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("loading image: %w", err)
	}

	if err := s.db.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting image record: %w", err)
	}

	name := filepath.Base(img.URI)
	if err := s.store.Remove(name); err != nil {
		log.Warn().Err(err).Str("name", name).Msg("failed to remove image files")
	}
	log.Info().Int64("id", id).Msg("image deleted")
	return nil
}

// List returns one page of images ordered by last update, oldest
// first, plus the total count.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]*model.Image, int, error) {
	return s.db.ListImages(ctx, page, pageSize)
}

// Search returns one page of images whose title, description, position
// or time contains keyword, most recently updated first. An empty
// keyword matches everything.
func (s *Service) Search(ctx context.Context, keyword string, page, pageSize int) ([]*model.Image, int, error) {
	return s.db.SearchImages(ctx, keyword, page, pageSize)
}

func (s *Service) cleanupFiles(name string) {
	if err := s.store.Remove(name); err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to clean up files after aborted ingestion")
	}
}
