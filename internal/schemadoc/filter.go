package schemadoc

import "strings"

// Matches reports whether any field contains query, ignoring case. An empty
// query matches everything.
func Matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterRows keeps the rows whose field, type, description or details match
// query. Row order is preserved.
func FilterRows(rows []Row, query string) []Row {
	if query == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if Matches(query, r.Field, r.Type, r.Description, r.Details) {
			out = append(out, r)
		}
	}
	return out
}
