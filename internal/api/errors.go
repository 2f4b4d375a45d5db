package api

import "net/http"

// RepeatTitle reports a duplicate-title conflict. The condition is
// recoverable user input, so the status stays 200 and only the
// envelope carries the error.
func RepeatTitle(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, Error(CodeRepeatTitle, "Image with same title exists."))
}

// InvalidImage reports a missing or undecodable image, or a missing
// edit/delete target. Recoverable, status 200.
func InvalidImage(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusOK, Error(CodeInvalidImage, msg))
}

// BadRequest writes a 400 error envelope.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, Error(CodeBadRequest, msg))
}

// Unauthorized writes a 401 error envelope with a basic-auth challenge.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="fw-gallery"`)
	WriteJSON(w, http.StatusUnauthorized, Error(CodeNotAuthorized, "Not authorized"))
}

// NotFound writes a 404 error envelope.
func NotFound(w http.ResponseWriter) {
	WriteJSON(w, http.StatusNotFound, Error(CodeNotFound, "404 not found"))
}

// Internal writes a 500 error envelope.
func Internal(w http.ResponseWriter) {
	WriteJSON(w, http.StatusInternalServerError, Error(CodeInternal, "An error occurred"))
}
