package types

import "errors"

// Failure taxonomy for the query pipeline. Callers wrap these with
// fmt.Errorf("...: %w", ...) and classify with errors.Is.
var (
	// ErrDownload covers network failures, non-2xx responses and
	// size-limit violations while fetching a document.
	ErrDownload = errors.New("document download failed")

	// ErrExtraction means the payload could not be turned into text at all.
	ErrExtraction = errors.New("text extraction failed")

	// ErrValidation means the extracted text is too short to chunk.
	ErrValidation = errors.New("document validation failed")

	// ErrBackend covers embedding, index and generation failures.
	ErrBackend = errors.New("backend call failed")
)
