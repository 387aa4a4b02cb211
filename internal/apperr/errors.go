// Package apperr defines sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrNotLoaded   = errors.New("docs not loaded")
	ErrUnknownKind = errors.New("unknown object kind")
)
