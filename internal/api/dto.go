package api

import (
	"github.com/open-sspm/sspmdocs/internal/index"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// SchemaInfo describes one metaschema slot.
type SchemaInfo struct {
	Kind   string `json:"kind" example:"opensspm.ruleset" validate:"required"`
	Short  string `json:"short" example:"ruleset" validate:"required"`
	Title  string `json:"title" example:"Ruleset" validate:"required"`
	Loaded bool   `json:"loaded"`
}

// SchemaListResponse wraps the metaschema listing.
type SchemaListResponse struct {
	Schemas []SchemaInfo `json:"schemas" validate:"required"`
}

// FieldsResponse wraps a flattened field table.
type FieldsResponse struct {
	Rows  []schemadoc.Row `json:"rows" validate:"required"`
	Total int             `json:"total" example:"12"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}
