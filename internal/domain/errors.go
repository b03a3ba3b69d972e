package domain

import "errors"

var (
	// ErrInvalidInput signals missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrReadmeNotFound signals that no README exists on the default branches.
	ErrReadmeNotFound = errors.New("readme not found")
	// ErrProjectNotFound signals a missing project record.
	ErrProjectNotFound = errors.New("project not found")
	// ErrEmbeddingProvider signals an embedding provider failure.
	ErrEmbeddingProvider = errors.New("embedding provider error")
	// ErrExtractionFailed signals an LLM extraction failure.
	ErrExtractionFailed = errors.New("extraction failed")
	// ErrNotificationFailed signals a review notification failure.
	ErrNotificationFailed = errors.New("notification failed")
	// ErrStoreUnavailable signals a document store or search index failure.
	ErrStoreUnavailable = errors.New("store unavailable")
)
