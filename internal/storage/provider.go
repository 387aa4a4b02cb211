// Package storage reads the read-only docs artifacts from a directory or an
// HTTP(S) base URL.
package storage

import (
	"context"
	"strings"
	"time"
)

// MaxArtifactSize caps a single artifact read.
const MaxArtifactSize = 8 << 20

// Provider is the interface for reading artifacts by name.
type Provider interface {
	// Read returns the bytes of the artifact at name (slash separated,
	// relative to the source root).
	Read(ctx context.Context, name string) ([]byte, error)
	// Location describes the source root for logs and messages.
	Location() string
}

// New returns an HTTP provider for http(s) locations and a directory provider
// otherwise. timeout applies to each HTTP request; zero means none.
func New(location string, timeout time.Duration) (Provider, error) {
	if IsURL(location) {
		return NewHTTP(location, timeout)
	}
	return NewFS(location)
}

// IsURL reports whether location names an HTTP(S) source.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
