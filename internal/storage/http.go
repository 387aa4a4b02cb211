package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("HTTP %d", e.Code) }

// HTTP implements Provider by fetching artifacts relative to a base URL.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// NewHTTP creates a provider for the given base URL.
func NewHTTP(baseURL string, timeout time.Duration) (*HTTP, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("storage: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("storage: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTP{base: u, client: &http.Client{Timeout: timeout}}, nil
}

// Location returns the base URL.
func (h *HTTP) Location() string { return h.base.String() }

// Read fetches base/name. Responses outside 2xx yield a *StatusError.
func (h *HTTP) Read(ctx context.Context, name string) ([]byte, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "..") {
		return nil, fmt.Errorf("storage: invalid artifact name: %q", name)
	}
	target := h.base.JoinPath(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("storage: fetch %s: %w", name, &StatusError{Code: resp.StatusCode})
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxArtifactSize+1))
	if err != nil {
		return nil, fmt.Errorf("storage: fetch %s: %w", name, err)
	}
	if len(data) > MaxArtifactSize {
		return nil, errors.New("storage: " + name + " exceeds size limit")
	}
	return data, nil
}
