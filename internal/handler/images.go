package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leca/fw-gallery/internal/api"
	"github.com/leca/fw-gallery/internal/gallery"
)

// UploadImage handles POST /manager/images -- multipart upload of one
// image plus its text fields.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// MaxBytesReader enforces the upload cap; ParseMultipartForm's
	// argument only tunes the memory/disk spill threshold.
	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.Config.MaxUploadBytes); err != nil {
		api.BadRequest(w, "invalid multipart form: "+err.Error())
		return
	}

	hdr, ok := singleFile(r)
	if !ok {
		api.BadRequest(w, "expected exactly one file field")
		return
	}
	file, err := hdr.Open()
	if err != nil {
		api.BadRequest(w, "opening uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	img, err := h.Gallery.Ingest(r.Context(), gallery.UploadInput{
		File: file,
		// Base strips any path the client smuggled into the filename.
		Filename:    filepath.Base(hdr.Filename),
		Title:       r.FormValue("title"),
		Position:    r.FormValue("position"),
		Time:        r.FormValue("time"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.writeGalleryError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, api.Success(img.ID))
}

// UpdateImage handles PUT /manager/images/{image_id} -- text fields
// only, never the files.
func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "image_id"), 10, 64)
	if err != nil {
		api.InvalidImage(w, "Target image does not exist.")
		return
	}

	if err := r.ParseForm(); err != nil {
		api.BadRequest(w, "invalid form: "+err.Error())
		return
	}

	_, err = h.Gallery.Update(r.Context(), id, gallery.EditInput{
		Title:       r.FormValue("title"),
		Position:    r.FormValue("position"),
		Time:        r.FormValue("time"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.writeGalleryError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.Success(nil))
}

// DeleteImage handles DELETE /manager/images/{image_id}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "image_id"), 10, 64)
	if err != nil {
		api.InvalidImage(w, "Target image does not exist.")
		return
	}

	if err := h.Gallery.Delete(r.Context(), id); err != nil {
		h.writeGalleryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ManagerListImages handles GET /manager/images -- keyword-filtered
// paginated listing for the admin UI.
func (h *Handler) ManagerListImages(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	keyword := r.URL.Query().Get("keyword")

	images, total, err := h.Gallery.Search(r.Context(), keyword, page, pageSize)
	if err != nil {
		api.Internal(w)
		return
	}

	api.WriteJSON(w, http.StatusOK, api.Success(newListing(images, total, pageSize)))
}

// writeGalleryError maps the gallery error taxonomy onto envelope
// responses.
func (h *Handler) writeGalleryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrDuplicateTitle):
		api.RepeatTitle(w)
	case errors.Is(err, gallery.ErrNotFound):
		api.InvalidImage(w, "Target image does not exist.")
	case errors.Is(err, gallery.ErrInvalidImage):
		api.InvalidImage(w, "Uploaded file is not a valid image.")
	case errors.Is(err, gallery.ErrInvalidInput):
		api.BadRequest(w, "Title is required and must be 100 characters or fewer.")
	default:
		api.Internal(w)
	}
}

// singleFile returns the upload's one file header. The upload contract
// is exactly one file field, whatever its name.
func singleFile(r *http.Request) (*multipart.FileHeader, bool) {
	if r.MultipartForm == nil {
		return nil, false
	}
	var hdr *multipart.FileHeader
	count := 0
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			hdr = fh
			count++
		}
	}
	if count != 1 {
		return nil, false
	}
	return hdr, true
}

func pagination(r *http.Request) (page, pageSize int) {
	page = defaultPage
	pageSize = defaultPageSize
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			page = p
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if ps, err := strconv.Atoi(v); err == nil && ps > 0 {
			if ps > maxPageSize {
				ps = maxPageSize
			}
			pageSize = ps
		}
	}
	return page, pageSize
}
