package schemadoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const rulesetSchema = `{
	"title": "Ruleset",
	"required": ["kind", "rules"],
	"properties": {
		"tags": {"type": "array", "items": {"type": "string"}, "uniqueItems": true},
		"scope": {"$ref": "#/$defs/scope"},
		"rules": {"type": "array", "description": "Rules.", "items": {"$ref": "#/$defs/rule"}},
		"kind": {"const": "opensspm.ruleset", "description": "Kind."}
	},
	"$defs": {
		"rule": {
			"type": "object",
			"required": ["key"],
			"additionalProperties": false,
			"properties": {
				"severity": {"type": "string", "enum": ["high", "low"], "default": "low"},
				"key": {"type": "string", "pattern": "^[a-z]+$", "minLength": 1}
			}
		},
		"scope": {
			"type": "object",
			"description": "Scope.",
			"properties": {"kind": {"type": ["string", "null"], "format": "slug"}}
		}
	}
}`

func TestFlattenDocument(t *testing.T) {
	root := mustDecode(t, rulesetSchema)

	want := []Row{
		{Field: "kind", Type: "const", Required: true, Description: "Kind.", Details: `const="opensspm.ruleset"`},
		{Field: "rules", Type: "array<object>", Required: true, Description: "Rules."},
		{Field: "rules[]", Type: "object", Description: "Array item.", Details: "additionalProperties=false", Depth: 1},
		{Field: "rules[].key", Type: "string", Required: true, Details: "pattern=^[a-z]+$ · minLength=1", Depth: 2},
		{Field: "rules[].severity", Type: "string", Details: `enum="high", "low" · default="low"`, Depth: 2},
		{Field: "scope", Type: "object", Description: "Scope."},
		{Field: "scope.kind", Type: "string | null", Details: "format=slug", Depth: 1},
		{Field: "tags", Type: "array<string>", Details: "uniqueItems=true"},
	}

	got := FlattenDocument(root)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlattenDocument mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenIsIdempotent(t *testing.T) {
	root := mustDecode(t, rulesetSchema)
	first := FlattenDocument(root)
	second := FlattenDocument(root)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestFlattenArrayOfScalars(t *testing.T) {
	node := mustDecode(t, `{"type": "array", "items": {"type": "string"}}`)
	got := Flatten(node, node, "tags", false, 0, NewChain())
	want := []Row{{Field: "tags", Type: "array<string>"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenSortsProperties(t *testing.T) {
	root := mustDecode(t, `{"properties": {
		"zeta": {"type": "string"},
		"alpha": {"type": "object", "properties": {"y": {}, "b": {}}},
		"mid": {"type": "number"}
	}}`)

	var fields []string
	for _, r := range FlattenDocument(root) {
		fields = append(fields, r.Field)
	}
	want := []string{"alpha", "alpha.b", "alpha.y", "mid", "zeta"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenSelfReferenceTerminates(t *testing.T) {
	root := mustDecode(t, `{
		"defs": {"node": {"$ref": "#/defs/node"}},
		"properties": {"n": {"$ref": "#/defs/node"}}
	}`)
	got := FlattenDocument(root)
	want := []Row{{Field: "n", Type: "unknown"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenMissingReference(t *testing.T) {
	root := mustDecode(t, `{"properties": {"m": {"$ref": "#/defs/missing", "description": "Dangling."}}}`)
	got := FlattenDocument(root)
	want := []Row{{Field: "m", Type: "unknown", Description: "Dangling."}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenRecursiveObject(t *testing.T) {
	root := mustDecode(t, `{
		"$defs": {
			"tree": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"children": {"type": "array", "items": {"$ref": "#/$defs/tree"}}
				}
			}
		},
		"properties": {"root": {"$ref": "#/$defs/tree"}}
	}`)

	want := []Row{
		{Field: "root", Type: "object"},
		{Field: "root.children", Type: "array<object>", Depth: 1},
		{Field: "root.name", Type: "string", Depth: 1},
	}
	if diff := cmp.Diff(want, FlattenDocument(root)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenRecursiveArrayItems(t *testing.T) {
	// The item schema refers back to itself through a nested array; the
	// walk must stop once the item ref repeats on the chain.
	root := mustDecode(t, `{
		"$defs": {
			"list": {"type": "array", "items": {"$ref": "#/$defs/entry"}},
			"entry": {
				"type": "object",
				"properties": {"nested": {"type": "array", "items": {"$ref": "#/$defs/entry"}}}
			}
		},
		"properties": {"entries": {"$ref": "#/$defs/list"}}
	}`)

	want := []Row{
		{Field: "entries", Type: "array<object>"},
		{Field: "entries[]", Type: "object", Description: "Array item.", Depth: 1},
		{Field: "entries[].nested", Type: "array<object>", Depth: 2},
	}
	if diff := cmp.Diff(want, FlattenDocument(root)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenSiblingsHaveIndependentChains(t *testing.T) {
	root := mustDecode(t, `{
		"$defs": {
			"target": {
				"type": "object",
				"properties": {
					"self": {"$ref": "#/$defs/target"},
					"name": {"type": "string"}
				}
			}
		},
		"properties": {
			"a": {"$ref": "#/$defs/target"},
			"b": {"$ref": "#/$defs/target"}
		}
	}`)

	want := []Row{
		{Field: "a", Type: "object"},
		{Field: "a.name", Type: "string", Depth: 1},
		{Field: "a.self", Type: "unknown", Depth: 1},
		{Field: "b", Type: "object"},
		{Field: "b.name", Type: "string", Depth: 1},
		{Field: "b.self", Type: "unknown", Depth: 1},
	}
	if diff := cmp.Diff(want, FlattenDocument(root)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenDoesNotModifyCallerChain(t *testing.T) {
	root := mustDecode(t, `{"$defs": {"s": {"type": "string"}}}`)
	chain := NewChain()
	Flatten(map[string]any{"$ref": "#/$defs/s"}, root, "f", false, 0, chain)
	if chain.Len() != 0 {
		t.Errorf("caller chain grew to %d", chain.Len())
	}
}

func TestFlattenArrayItemDescription(t *testing.T) {
	root := mustDecode(t, `{"properties": {"owners": {
		"type": "array",
		"items": {"type": "object", "description": "An owner.", "required": ["id"], "properties": {"id": {"type": "string"}}}
	}}}`)

	want := []Row{
		{Field: "owners", Type: "array<object>"},
		{Field: "owners[]", Type: "object", Description: "An owner.", Depth: 1},
		{Field: "owners[].id", Type: "string", Required: true, Depth: 2},
	}
	if diff := cmp.Diff(want, FlattenDocument(root)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestFlattenRowCount(t *testing.T) {
	root := mustDecode(t, rulesetSchema)
	// 4 root properties, 2 rule fields, 1 scope field and the synthetic rules[] row.
	if got := len(FlattenDocument(root)); got != 8 {
		t.Errorf("rows = %d, want 8", got)
	}
}

func TestFilterRows(t *testing.T) {
	rows := FlattenDocument(mustDecode(t, rulesetSchema))

	got := FilterRows(rows, "SLUG")
	if len(got) != 1 || got[0].Field != "scope.kind" {
		t.Errorf("FilterRows(SLUG) = %+v", got)
	}
	if len(FilterRows(rows, "")) != len(rows) {
		t.Error("empty query should keep every row")
	}
}
