package schemadoc

import "testing"

func TestInferType(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{"const wins over type", `{"const": "x", "type": "string"}`, "const"},
		{"null const still const", `{"const": null}`, "const"},
		{"type list", `{"type": ["string", "null"]}`, "string | null"},
		{"type string", `{"type": "integer"}`, "integer"},
		{"properties imply object", `{"properties": {"a": {}}}`, "object"},
		{"items imply array", `{"items": {"type": "string"}}`, "array"},
		{"empty schema", `{}`, "unknown"},
		{"boolean schema", `true`, "unknown"},
		{"unresolved ref", `{"$ref": "#/nowhere"}`, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(mustDecode(t, tt.node)); got != tt.want {
				t.Errorf("InferType(%s) = %q, want %q", tt.node, got, tt.want)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	tests := []struct {
		name string
		node string
		want string
	}{
		{"none", `{"type": "string"}`, ""},
		{"const", `{"const": "opensspm.ruleset"}`, `const="opensspm.ruleset"`},
		{"enum literals", `{"enum": ["a", 1, true, null]}`, `enum="a", 1, true, null`},
		{"empty enum omitted", `{"enum": []}`, ""},
		{"default object", `{"default": {"b": 1}}`, `default={"b":1}`},
		{"html is not escaped", `{"default": "<a&b>"}`, `default="<a&b>"`},
		{"format and pattern", `{"format": "date", "pattern": "^\\d+$"}`, `format=date · pattern=^\d+$`},
		{"empty pattern omitted", `{"pattern": ""}`, ""},
		{"minimum zero kept", `{"minimum": 0}`, "min=0"},
		{"fractional minimum", `{"minimum": 0.5}`, "min=0.5"},
		{"minLength", `{"minLength": 3}`, "minLength=3"},
		{"uniqueItems false omitted", `{"uniqueItems": false}`, ""},
		{"additionalProperties true omitted", `{"additionalProperties": true}`, ""},
		{
			"fixed facet order",
			`{"additionalProperties": false, "uniqueItems": true, "minLength": 1, "minimum": 2,
			  "pattern": "p", "format": "f", "default": 3, "enum": [3, 4], "const": 3}`,
			"const=3 · enum=3, 4 · default=3 · format=f · pattern=p · min=2 · minLength=1 · uniqueItems=true · additionalProperties=false",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Details(mustDecode(t, tt.node)); got != tt.want {
				t.Errorf("Details(%s)\n got  %q\n want %q", tt.node, got, tt.want)
			}
		})
	}
}

func TestDetailsNonObject(t *testing.T) {
	if got := Details("string"); got != "" {
		t.Errorf("got %q", got)
	}
}
