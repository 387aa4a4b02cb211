package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/checksum"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/storage"
)

// Load fetches the descriptor and every metaschema concurrently. Any failure
// aborts the whole load; no partial site is returned.
func Load(ctx context.Context, p storage.Provider) (*Site, error) {
	kinds := descriptor.Kinds()
	raw := make([][]byte, len(kinds)+1)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := p.Read(gCtx, DescriptorFile)
		if err != nil {
			return err
		}
		raw[0] = data
		return nil
	})
	for i, k := range kinds {
		g.Go(func() error {
			data, err := p.Read(gCtx, SchemaPath(k))
			if err != nil {
				return err
			}
			raw[i+1] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("docs: load: %w", err)
	}

	d, err := descriptor.Parse(raw[0])
	if err != nil {
		return nil, fmt.Errorf("docs: %s: %w", DescriptorFile, err)
	}
	var generic any
	if err := json.Unmarshal(raw[0], &generic); err != nil {
		return nil, fmt.Errorf("docs: %s: %w", DescriptorFile, err)
	}

	site := &Site{
		Descriptor: d,
		Raw:        generic,
		Schemas:    make(map[descriptor.Kind]any, len(kinds)),
		Checksum:   checksum.SumAll(raw...),
		Source:     p.Location(),
		LoadedAt:   time.Now(),
	}
	for i, k := range kinds {
		var schema any
		if err := json.Unmarshal(raw[i+1], &schema); err != nil {
			return nil, fmt.Errorf("docs: %s: %w", SchemaPath(k), err)
		}
		site.Schemas[k] = schema
	}
	return site, nil
}

// Holder owns the current site. It starts empty, is populated after a
// successful load and afterwards only ever swaps whole sites.
type Holder struct {
	mu   sync.RWMutex
	site *Site
	err  error
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set publishes a freshly loaded site and clears any recorded load error.
func (h *Holder) Set(site *Site) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.site = site
	h.err = nil
}

// Fail records a load error. A previously loaded site stays current.
func (h *Holder) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.site == nil {
		h.err = err
	}
}

// Current returns the loaded site. Before the first successful load it
// returns the recorded load error, or apperr.ErrNotLoaded.
func (h *Holder) Current() (*Site, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.site != nil {
		return h.site, nil
	}
	if h.err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrNotLoaded, h.err)
	}
	return nil, apperr.ErrNotLoaded
}
