package docs_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/storage"
	"github.com/open-sspm/sspmdocs/internal/testutil"
)

func TestLoadFromDirectory(t *testing.T) {
	site := testutil.Site(t)

	if site.Descriptor.Version.SpecVersion != "0.4.1" {
		t.Errorf("spec version = %q", site.Descriptor.Version.SpecVersion)
	}
	for _, k := range descriptor.Kinds() {
		if site.Schema(k) == nil {
			t.Errorf("schema %s not loaded", k)
		}
	}
	if site.Checksum == "" {
		t.Error("checksum not set")
	}
	if _, ok := site.Raw.(map[string]any); !ok {
		t.Errorf("raw descriptor = %T", site.Raw)
	}
}

func TestLoadFromHTTP(t *testing.T) {
	dir := testutil.WriteSource(t)
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	p, err := storage.NewHTTP(srv.URL, 0)
	if err != nil {
		t.Fatal(err)
	}
	site, err := docs.Load(context.Background(), p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(site.Descriptor.Rulesets) != 2 {
		t.Errorf("rulesets = %d", len(site.Descriptor.Rulesets))
	}
}

func TestLoadFailsWithoutPartialSite(t *testing.T) {
	dir := testutil.WriteSource(t)
	if err := os.Remove(filepath.Join(dir, docs.SchemaPath(descriptor.KindProfile))); err != nil {
		t.Fatal(err)
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	site, err := docs.Load(context.Background(), store)
	if err == nil {
		t.Fatal("expected error")
	}
	if site != nil {
		t.Error("partial site returned")
	}
	if !strings.Contains(err.Error(), "opensspm.profile.schema.json") {
		t.Errorf("error = %v", err)
	}
}

func TestLoadHTTPStatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p, err := storage.NewHTTP(srv.URL, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, err = docs.Load(context.Background(), p)
	var se *storage.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound {
		t.Errorf("err = %v", err)
	}
}

func TestLoadMalformedDescriptor(t *testing.T) {
	dir := testutil.WriteSource(t)
	testutil.WriteFile(t, dir, docs.DescriptorFile, `{"rulesets": {}}`)
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := docs.Load(context.Background(), store); err == nil {
		t.Error("expected decode error")
	}
}

func TestHolderLifecycle(t *testing.T) {
	h := docs.NewHolder()
	if _, err := h.Current(); !errors.Is(err, apperr.ErrNotLoaded) {
		t.Fatalf("empty holder err = %v", err)
	}

	loadErr := errors.New("HTTP 500")
	h.Fail(loadErr)
	_, err := h.Current()
	if !errors.Is(err, apperr.ErrNotLoaded) || !errors.Is(err, loadErr) {
		t.Fatalf("failed holder err = %v", err)
	}

	site := testutil.Site(t)
	h.Set(site)
	got, err := h.Current()
	if err != nil || got != site {
		t.Fatalf("Current() = %v, %v", got, err)
	}

	// A later failure keeps serving the loaded site.
	h.Fail(loadErr)
	if got, err := h.Current(); err != nil || got != site {
		t.Errorf("after Fail: %v, %v", got, err)
	}
}
