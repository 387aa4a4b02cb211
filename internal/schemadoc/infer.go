package schemadoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type labels produced by InferType besides the schema's own type names.
const (
	TypeConst   = "const"
	TypeObject  = "object"
	TypeArray   = "array"
	TypeUnknown = "unknown"
)

// DetailSeparator joins the facets returned by Details.
const DetailSeparator = " · "

// InferType returns the display type of a schema node. A const wins over any
// declared type; a type list is joined with " | "; untyped nodes fall back to
// object (has properties), array (has items) or unknown.
func InferType(node any) string {
	obj, ok := node.(map[string]any)
	if !ok {
		return TypeUnknown
	}
	if _, ok := obj["const"]; ok {
		return TypeConst
	}
	switch t := obj["type"].(type) {
	case []any:
		names := make([]string, len(t))
		for i, v := range t {
			if v != nil {
				names[i] = text(v)
			}
		}
		return strings.Join(names, " | ")
	case string:
		return t
	}
	if truthy(obj["properties"]) {
		return TypeObject
	}
	if truthy(obj["items"]) {
		return TypeArray
	}
	return TypeUnknown
}

// Details summarises the constraint facets of a schema node in a fixed order:
// const, enum, default, format, pattern, minimum, minLength, uniqueItems and
// additionalProperties=false. Absent facets are skipped.
func Details(node any) string {
	obj, ok := node.(map[string]any)
	if !ok {
		return ""
	}

	var parts []string
	if v, ok := obj["const"]; ok {
		parts = append(parts, "const="+literal(v))
	}
	if enum, ok := obj["enum"].([]any); ok && len(enum) > 0 {
		lits := make([]string, len(enum))
		for i, v := range enum {
			lits[i] = literal(v)
		}
		parts = append(parts, "enum="+strings.Join(lits, ", "))
	}
	if v, ok := obj["default"]; ok {
		parts = append(parts, "default="+literal(v))
	}
	if v := obj["format"]; truthy(v) {
		parts = append(parts, "format="+text(v))
	}
	if v := obj["pattern"]; truthy(v) {
		parts = append(parts, "pattern="+text(v))
	}
	if v, ok := obj["minimum"]; ok {
		parts = append(parts, "min="+text(v))
	}
	if v, ok := obj["minLength"]; ok {
		parts = append(parts, "minLength="+text(v))
	}
	if truthy(obj["uniqueItems"]) {
		parts = append(parts, "uniqueItems=true")
	}
	if v, ok := obj["additionalProperties"].(bool); ok && !v {
		parts = append(parts, "additionalProperties=false")
	}
	return strings.Join(parts, DetailSeparator)
}

func description(obj map[string]any) (string, bool) {
	s, ok := obj["description"].(string)
	return s, ok
}

// literal encodes v as compact JSON without HTML escaping.
func literal(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// text renders a scalar the way it reads in a label.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return number(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	default:
		return literal(v)
	}
}

func number(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// truthy mirrors the loose presence checks schema authors rely on: false,
// zero, "" and null count as absent, while any object or array counts as
// present.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case int:
		return t != 0
	default:
		return true
	}
}
