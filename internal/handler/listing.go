package handler

import (
	"net/http"

	"github.com/leca/fw-gallery/internal/api"
	"github.com/leca/fw-gallery/internal/model"
)

// Listing is the payload of the public read-only listing endpoint.
type Listing struct {
	Images []*model.Image `json:"images"`
	Pages  int            `json:"pages"`
	Total  int            `json:"total"`
}

func newListing(images []*model.Image, total, pageSize int) Listing {
	// Non-nil slice keeps the JSON an array, never null.
	if images == nil {
		images = []*model.Image{}
	}
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	return Listing{Images: images, Pages: pages, Total: total}
}

// ListImages handles GET /images -- the public paginated listing,
// oldest update first.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)

	images, total, err := h.Gallery.List(r.Context(), page, pageSize)
	if err != nil {
		api.Internal(w)
		return
	}

	api.WriteJSON(w, http.StatusOK, newListing(images, total, pageSize))
}
