package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FS implements Provider backed by a local directory.
type FS struct {
	root string // absolute path to the docs directory
}

// NewFS creates a provider rooted at the given directory, which must exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Location returns the absolute root directory.
func (f *FS) Location() string { return f.root }

// safePath resolves a relative name against the root and rejects any result
// that escapes it.
func (f *FS) safePath(name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", name)
	}
	abs := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path escapes root: %s", name)
	}
	return abs, nil
}

// Read returns the bytes of a file under the root.
func (f *FS) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxArtifactSize+1))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	if len(data) > MaxArtifactSize {
		return nil, fmt.Errorf("storage: %s exceeds %d bytes", name, MaxArtifactSize)
	}
	return data, nil
}
