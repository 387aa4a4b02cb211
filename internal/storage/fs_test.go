package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempSource(t *testing.T) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, s
}

func TestFSRead(t *testing.T) {
	dir, s := tempSource(t)
	if err := os.MkdirAll(filepath.Join(dir, "metaschema"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metaschema", "a.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := s.Read(context.Background(), "metaschema/a.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("content = %q", got)
	}
}

func TestFSReadMissing(t *testing.T) {
	_, s := tempSource(t)
	_, err := s.Read(context.Background(), "descriptor.v1.json")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestFSPathTraversal(t *testing.T) {
	_, s := tempSource(t)
	for _, name := range []string{"../etc/passwd", "a/../../b.json", "/etc/passwd", ""} {
		if _, err := s.Read(context.Background(), name); err == nil {
			t.Errorf("Read(%q) should fail", name)
		}
	}
}

func TestFSReadTooLarge(t *testing.T) {
	dir, s := tempSource(t)
	big := make([]byte, MaxArtifactSize+1)
	if err := os.WriteFile(filepath.Join(dir, "big.json"), big, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Read(context.Background(), "big.json"); err == nil {
		t.Error("expected size error")
	}
}

func TestNewFSRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFS(f); err == nil {
		t.Error("expected error for non-directory root")
	}
}

func TestNewPicksProvider(t *testing.T) {
	p, err := New("https://docs.example.com/spec", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*HTTP); !ok {
		t.Errorf("New(url) = %T", p)
	}
	p, err = New(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*FS); !ok {
		t.Errorf("New(dir) = %T", p)
	}
}
