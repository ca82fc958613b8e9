package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLoad signals an unreadable or missing corpus source. Fatal at startup.
	ErrLoad = errors.New("corpus load failed")
	// ErrIndexBuild signals a failed chunk index construction. Fatal at startup.
	ErrIndexBuild = errors.New("index build failed")
	// ErrRetrieval signals a failed query embedding or similarity search.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration signals a failed, timed out or empty completion.
	ErrGeneration = errors.New("generation failed")
	// ErrEmptyAnswer signals a completion that contained only whitespace.
	ErrEmptyAnswer = errors.New("empty answer")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals a completion provider failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)

// LoadError wraps ErrLoad with the corpus path that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLoad.Error(), e.Path, e.Err)
}

// Unwrap exposes both ErrLoad and the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// NewLoadError creates a load error for path.
func NewLoadError(path string, err error) error {
	return &LoadError{Path: path, Err: err}
}
