package handler

import (
	"github.com/leca/fw-gallery/internal/config"
	"github.com/leca/fw-gallery/internal/gallery"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Gallery *gallery.Service
	Config  *config.Config
}

// Listing pagination defaults.
const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100
)
