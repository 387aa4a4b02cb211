// Package docservice builds the list and detail views of the docs site from
// the currently loaded artifacts. Field tables are flattened on every call.
package docservice

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// Service coordinates view building over the loaded site.
type Service struct {
	holder *docs.Holder
}

// NewService creates a new docs service.
func NewService(holder *docs.Holder) *Service {
	return &Service{holder: holder}
}

// Site returns the current site or the load error.
func (s *Service) Site() (*docs.Site, error) {
	return s.holder.Current()
}

func (s *Service) descriptor() (*descriptor.Descriptor, error) {
	site, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	return site.Descriptor, nil
}

// SchemaFields flattens the metaschema of kind and filters the rows by query.
func (s *Service) SchemaFields(kind descriptor.Kind, query string) ([]schemadoc.Row, error) {
	site, err := s.holder.Current()
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, apperr.ErrUnknownKind
	}
	schema := site.Schema(kind)
	if schema == nil {
		return nil, fmt.Errorf("%w: metaschema %s", apperr.ErrNotFound, kind)
	}
	return schemadoc.FilterRows(schemadoc.FlattenDocument(schema), query), nil
}

// DatasetFields flattens the row schema of the dataset "key@version".
func (s *Service) DatasetFields(ref, query string) ([]schemadoc.Row, error) {
	d, err := s.descriptor()
	if err != nil {
		return nil, err
	}
	c, ok := d.DatasetByRef(ref)
	if !ok {
		return nil, fmt.Errorf("%w: dataset %s", apperr.ErrNotFound, ref)
	}
	return schemadoc.FilterRows(schemadoc.FlattenDocument(c.Object.Dataset.RowSchema()), query), nil
}

// SeverityClass maps a rule severity to its CSS class.
func SeverityClass(sev string) string {
	switch sev {
	case "critical":
		return "sev-critical"
	case "high":
		return "sev-high"
	case "medium":
		return "sev-medium"
	case "low":
		return "sev-low"
	default:
		return "sev-info"
	}
}

// prettyJSON indents v with two spaces without HTML escaping.
func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// prettyRaw indents raw JSON, keeping the document's key order.
func prettyRaw(raw []byte) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
