package index

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docs"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// Entry kinds.
const (
	KindRuleset      = "ruleset"
	KindRule         = "rule"
	KindDataset      = "dataset"
	KindConnector    = "connector"
	KindProfile      = "profile"
	KindEnum         = "enum"
	KindField        = "field"
	KindDatasetField = "dataset_field"
)

// Entry is one searchable item of the site.
type Entry struct {
	Kind  string
	Key   string
	Title string
	Body  string
	Href  string
}

// SearchResult represents one search hit.
type SearchResult struct {
	Kind    string `json:"kind"`
	Key     string `json:"key"`
	Title   string `json:"title"`
	Href    string `json:"href"`
	Snippet string `json:"snippet"`
}

// Entries lists everything in site that the index holds.
func Entries(site *docs.Site) []Entry {
	d := site.Descriptor
	var out []Entry

	for _, c := range d.Rulesets {
		rs := c.Object.Ruleset
		href := "/ruleset/" + url.PathEscape(rs.Key)
		var src string
		if rs.Source != nil {
			src = rs.Source.Name
		}
		out = append(out, Entry{
			Kind:  KindRuleset,
			Key:   rs.Key,
			Title: orKey(rs.Name, rs.Key),
			Body:  join(rs.Description, rs.Scope.Kind, rs.Scope.ConnectorKind, src),
			Href:  href,
		})
		for _, r := range rs.Rules {
			var check string
			if r.Check != nil {
				check = r.Check.Type
			}
			out = append(out, Entry{
				Kind:  KindRule,
				Key:   r.Key,
				Title: orKey(r.Title, r.Key),
				Body:  join(r.Summary, r.Description, r.Severity, check),
				Href:  href + "?q=" + url.QueryEscape(r.Key),
			})
		}
	}

	for _, c := range d.DatasetContracts {
		ds := c.Object.Dataset
		ref := ds.Ref().String()
		href := "/dataset/" + url.PathEscape(ref)
		out = append(out, Entry{
			Kind:  KindDataset,
			Key:   ref,
			Title: ref,
			Body:  join(ds.Description, ds.PrimaryKey),
			Href:  href,
		})
		out = appendRows(out, KindDatasetField, ref, href, schemadoc.FlattenDocument(ds.RowSchema()))
	}

	for _, c := range d.Connectors {
		co := c.Object.Connector
		provides := make([]string, 0, len(co.Provides))
		for _, p := range co.Provides {
			provides = append(provides, p.String())
		}
		out = append(out, Entry{
			Kind:  KindConnector,
			Key:   co.Kind,
			Title: orKey(co.Name, co.Kind),
			Body:  strings.Join(provides, " "),
			Href:  "/connector/" + url.PathEscape(co.Kind),
		})
	}

	for _, c := range d.Profiles {
		p := c.Object.Profile
		keys := make([]string, 0, len(p.Rulesets))
		for _, r := range p.Rulesets {
			keys = append(keys, r.Key)
		}
		out = append(out, Entry{
			Kind:  KindProfile,
			Key:   p.Key,
			Title: orKey(p.Name, p.Key),
			Body:  join(p.Description, strings.Join(keys, " ")),
			Href:  "/profile/" + url.PathEscape(p.Key),
		})
	}

	for name, values := range d.Dictionary.Object.Dictionary.Enums {
		out = append(out, Entry{
			Kind:  KindEnum,
			Key:   name,
			Title: name,
			Body:  strings.Join(values, " "),
			Href:  "/dictionary",
		})
	}

	for _, k := range descriptor.Kinds() {
		schema := site.Schema(k)
		if schema == nil {
			continue
		}
		href := "/schema/" + k.Short()
		out = appendRows(out, KindField, k.Short(), href, schemadoc.FlattenDocument(schema))
	}
	return out
}

func appendRows(out []Entry, kind, owner, href string, rows []schemadoc.Row) []Entry {
	for _, r := range rows {
		out = append(out, Entry{
			Kind:  kind,
			Key:   fmt.Sprintf("%s#%s", owner, r.Field),
			Title: r.Field,
			Body:  join(owner, r.Type, r.Description, r.Details),
			Href:  href + "?q=" + url.QueryEscape(r.Field),
		})
	}
	return out
}

func orKey(title, key string) string {
	if title == "" {
		return key
	}
	return title
}

func join(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
