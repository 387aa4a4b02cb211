package internal

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/open-sspm/sspmdocs/internal/schemadoc"
	"github.com/open-sspm/sspmdocs/internal/testutil"
)

func TestWriteFieldTable(t *testing.T) {
	rows := []schemadoc.Row{
		{Field: "items", Type: "array<object>", Required: true},
		{Field: "items[]", Type: "object", Description: "Array item.", Depth: 1},
		{Field: "items[].id", Type: "string", Details: "minLength=1", Depth: 2},
	}
	var buf bytes.Buffer
	if err := writeFieldTable(&buf, rows); err != nil {
		t.Fatalf("writeFieldTable: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "FIELD") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "items ") || !strings.Contains(lines[1], "required") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[3], "    items[].id") || !strings.Contains(lines[3], "minLength=1") {
		t.Errorf("row 3 = %q", lines[3])
	}
	if !strings.Contains(lines[1], "—") {
		t.Errorf("missing values should render as a dash: %q", lines[1])
	}
}

func TestPrintFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Source.Location = testutil.WriteSource(t)
	cfg.Index.DSN = "file:print_fields?mode=memory&cache=shared"

	var out, logs bytes.Buffer
	err := PrintFields(context.Background(), &out, "ruleset", "", WithConfig(cfg), WithLogOutput(&logs))
	if err != nil {
		t.Fatalf("PrintFields: %v", err)
	}
	for _, want := range []string{"ruleset.rules[]", "ruleset.rules[].severity", "pattern=^[a-z0-9_.]+$"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintFields_UnknownKind(t *testing.T) {
	err := PrintFields(context.Background(), &bytes.Buffer{}, "widget", "", WithConfig(NewDefaultConfig()))
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("err = %v", err)
	}
}

func TestPrintFields_LoadFailure(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Source.Location = t.TempDir()
	cfg.Index.DSN = "file:print_fields_fail?mode=memory&cache=shared"

	var logs bytes.Buffer
	err := PrintFields(context.Background(), &bytes.Buffer{}, "profile", "", WithConfig(cfg), WithLogOutput(&logs))
	if err == nil {
		t.Fatal("expected an error when the source is empty")
	}
}
