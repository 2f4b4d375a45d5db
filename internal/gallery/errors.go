package gallery

import "errors"

// Error taxonomy surfaced to handlers. Validation-class errors
// (ErrDuplicateTitle, ErrInvalidImage, ErrInvalidInput, ErrNotFound)
// are detected before any mutation and carry no side effects;
// mid-pipeline storage or persistence failures are returned wrapped
// after the orchestrator has reversed its partial writes.
var (
	// ErrDuplicateTitle means another image already uses the title.
	ErrDuplicateTitle = errors.New("image with same title exists")

	// ErrInvalidImage means the upload is missing or not a decodable
	// image in a supported format.
	ErrInvalidImage = errors.New("invalid image")

	// ErrInvalidInput means a text field failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means the edit/delete target does not exist.
	ErrNotFound = errors.New("image not found")
)
