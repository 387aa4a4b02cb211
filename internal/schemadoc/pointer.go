// Package schemadoc turns JSON Schema documents into ordered field tables.
//
// Schema nodes are the generic values produced by encoding/json
// (map[string]any, []any, string, float64, bool, nil). Nothing in this
// package mutates a schema; every call allocates its own rows.
package schemadoc

import (
	"strconv"
	"strings"
)

// Resolve follows a document-local JSON pointer such as "#/$defs/node" from
// doc. "" and "#" resolve to doc itself. It reports false when the pointer does
// not start with "#/" or when any segment is absent.
func Resolve(doc any, pointer string) (any, bool) {
	if pointer == "" || pointer == "#" {
		return doc, true
	}
	if !strings.HasPrefix(pointer, "#/") {
		return nil, false
	}

	cur := doc
	for _, raw := range strings.Split(pointer[2:], "/") {
		seg := unescapeSegment(raw)
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

func unescapeSegment(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}
