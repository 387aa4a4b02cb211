package schemadoc

import "sort"

// ArrayItemDescription is used for the synthetic "<field>[]" row when the
// item schema has no description of its own.
const ArrayItemDescription = "Array item."

// Row is one line of a flattened field table. Rows are returned in rendering
// order: depth first, properties sorted by name.
type Row struct {
	Field       string `json:"field"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Depth       int    `json:"depth"`
}

// Flatten walks node (a schema fragment inside root) and returns a row for it
// followed by rows for every field reachable from it. path is the field name
// of node and depth its indentation level. chain holds refs already followed
// on the way to node; it is copied, never modified.
func Flatten(node, root any, path string, required bool, depth int, chain Chain) []Row {
	f := &flattener{root: root}
	f.walk(node, path, required, depth, chain.Clone())
	return f.rows
}

// FlattenDocument flattens every top-level property of root, in name order, at
// depth zero. Required flags come from root's own "required" list.
func FlattenDocument(root any) []Row {
	obj, ok := root.(map[string]any)
	if !ok {
		return nil
	}
	props, ok := obj["properties"].(map[string]any)
	if !ok {
		return nil
	}
	f := &flattener{root: root}
	f.walkProperties(props, requiredSet(obj), "", 0, NewChain())
	return f.rows
}

type flattener struct {
	root any
	rows []Row
}

// walk owns chain: callers pass a copy.
func (f *flattener) walk(node any, path string, required bool, depth int, chain Chain) {
	s := Deref(node, f.root, &chain)
	typ := InferType(s)
	obj, _ := s.(map[string]any)
	desc, _ := description(obj)

	label := typ
	if typ == TypeArray && truthy(obj["items"]) {
		fresh := NewChain()
		label = "array<" + InferType(Deref(obj["items"], f.root, &fresh)) + ">"
	}
	f.rows = append(f.rows, Row{
		Field:       path,
		Type:        label,
		Required:    required,
		Description: desc,
		Details:     Details(s),
		Depth:       depth,
	})

	switch {
	case typ == TypeObject:
		if props, ok := obj["properties"].(map[string]any); ok {
			f.walkProperties(props, requiredSet(obj), path+".", depth+1, chain)
		}
	case typ == TypeArray && truthy(obj["items"]):
		itemChain := chain.Clone()
		item := Deref(obj["items"], f.root, &itemChain)
		itemObj, _ := item.(map[string]any)
		props, ok := itemObj["properties"].(map[string]any)
		if InferType(item) != TypeObject || !ok {
			return
		}

		itemPath := path + "[]"
		itemDesc, ok := description(itemObj)
		if !ok {
			itemDesc = ArrayItemDescription
		}
		f.rows = append(f.rows, Row{
			Field:       itemPath,
			Type:        TypeObject,
			Description: itemDesc,
			Details:     Details(item),
			Depth:       depth + 1,
		})
		f.walkProperties(props, requiredSet(itemObj), itemPath+".", depth+2, itemChain)
	}
}

func (f *flattener) walkProperties(props map[string]any, required map[string]bool, prefix string, depth int, chain Chain) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		f.walk(props[name], prefix+name, required[name], depth, chain.Clone())
	}
}

func requiredSet(obj map[string]any) map[string]bool {
	list, _ := obj["required"].([]any)
	out := make(map[string]bool, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out[s] = true
		}
	}
	return out
}
