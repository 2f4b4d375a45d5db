// Package database defines the persistence interface for the gallery
// and its SQLite implementation.
package database

import (
	"context"
	"errors"

	"github.com/leca/fw-gallery/internal/model"
)

// Sentinel errors returned by implementations.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTitle is returned when an insert or update violates
	// the unique title constraint. The constraint, not the caller-side
	// pre-check, is the authoritative uniqueness guard.
	ErrDuplicateTitle = errors.New("duplicate image title")
)

// Database is the persistence interface consumed by the gallery
// service and the auth middleware.
type Database interface {
	// Images
	CreateImage(ctx context.Context, img *model.Image) error
	GetImage(ctx context.Context, id int64) (*model.Image, error)
	GetImageByTitle(ctx context.Context, title string) (*model.Image, error)
	ListImages(ctx context.Context, page, perPage int) ([]*model.Image, int, error)
	SearchImages(ctx context.Context, keyword string, page, perPage int) ([]*model.Image, int, error)
	UpdateImage(ctx context.Context, img *model.Image) error
	DeleteImage(ctx context.Context, id int64) error

	// Accounts
	GetAccount(ctx context.Context, username string) (*model.Account, error)
	SetAccount(ctx context.Context, acc *model.Account) error
	HasAccount(ctx context.Context) (bool, error)

	Close() error
}
