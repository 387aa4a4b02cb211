package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

// fieldRow is a field table row ready for display.
type fieldRow struct {
	Indent      string
	Field       string
	Type        string
	Required    bool
	Description string
	Details     string
}

func fieldRows(rows []schemadoc.Row) []fieldRow {
	out := make([]fieldRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, fieldRow{
			Indent:      strings.Repeat("&nbsp;", r.Depth*4),
			Field:       r.Field,
			Type:        r.Type,
			Required:    r.Required,
			Description: r.Description,
			Details:     r.Details,
		})
	}
	return out
}

func query(r *http.Request) string {
	return r.URL.Query().Get("q")
}

// pathParam returns the decoded route parameter. chi matches on the raw path,
// so escaped keys arrive still escaped.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	v := view{name: "overview"}
	ov, err := h.svc.Overview()
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "overview.html", "Overview", pongo2.Context{"overview": ov})
}

func (h *Handler) rulesets(w http.ResponseWriter, r *http.Request) {
	v := view{name: "rulesets"}
	items, err := h.svc.Rulesets(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "rulesets.html", "Rulesets", pongo2.Context{"items": items})
}

func (h *Handler) ruleset(w http.ResponseWriter, r *http.Request) {
	key := pathParam(r, "key")
	v := view{name: "ruleset", rest: key}
	rd, err := h.svc.Ruleset(key, query(r))
	if err != nil {
		h.fail(w, r, v, err, "Ruleset", key)
		return
	}
	rs := rd.Ruleset
	source := map[string]string{}
	if rs.Source != nil {
		source = map[string]string{"name": rs.Source.Name, "version": rs.Source.Version, "date": rs.Source.Date}
	}
	h.render(w, r, http.StatusOK, v, "ruleset.html", "Ruleset "+rs.Key, pongo2.Context{
		"detail":      rd,
		"rs":          rs,
		"source":      source,
		"description": renderMarkdown(rs.Description),
		"total":       len(rs.Rules),
	})
}

func (h *Handler) datasets(w http.ResponseWriter, r *http.Request) {
	v := view{name: "datasets"}
	items, err := h.svc.Datasets(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "datasets.html", "Dataset Contracts", pongo2.Context{"items": items})
}

func (h *Handler) dataset(w http.ResponseWriter, r *http.Request) {
	ref := pathParam(r, "key")
	v := view{name: "dataset", rest: ref}
	dd, err := h.svc.Dataset(ref, query(r))
	if err != nil {
		h.fail(w, r, v, err, "Dataset", ref)
		return
	}
	h.render(w, r, http.StatusOK, v, "dataset.html", "Dataset "+dd.Ref, pongo2.Context{
		"detail": dd,
		"ds":     dd.Dataset,
		"rows":   fieldRows(dd.Rows),
	})
}

func (h *Handler) connectors(w http.ResponseWriter, r *http.Request) {
	v := view{name: "connectors"}
	items, err := h.svc.Connectors(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "connectors.html", "Connectors", pongo2.Context{"items": items})
}

func (h *Handler) connector(w http.ResponseWriter, r *http.Request) {
	kind := pathParam(r, "kind")
	v := view{name: "connector", rest: kind}
	cd, err := h.svc.Connector(kind)
	if err != nil {
		h.fail(w, r, v, err, "Connector", kind)
		return
	}
	h.render(w, r, http.StatusOK, v, "connector.html", "Connector "+cd.Connector.Kind, pongo2.Context{
		"detail": cd,
		"co":     cd.Connector,
	})
}

func (h *Handler) profiles(w http.ResponseWriter, r *http.Request) {
	v := view{name: "profiles"}
	items, err := h.svc.Profiles(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "profiles.html", "Profiles", pongo2.Context{"items": items})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	key := pathParam(r, "key")
	v := view{name: "profile", rest: key}
	pd, err := h.svc.Profile(key)
	if err != nil {
		h.fail(w, r, v, err, "Profile", key)
		return
	}
	h.render(w, r, http.StatusOK, v, "profile.html", "Profile "+pd.Profile.Key, pongo2.Context{
		"detail":      pd,
		"p":           pd.Profile,
		"description": renderMarkdown(pd.Profile.Description),
	})
}

func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	raw := pathParam(r, "kind")
	v := view{name: "schema", rest: raw}

	kind, ok := descriptor.ParseKind(raw)
	if !ok {
		if _, err := h.svc.Site(); err != nil {
			h.fail(w, r, v, err, "", "")
			return
		}
		h.schemaNotLoaded(w, r, v, raw)
		return
	}
	sd, err := h.svc.Schema(kind, query(r))
	if err != nil {
		if errors.Is(err, apperr.ErrUnknownKind) {
			h.schemaNotLoaded(w, r, v, raw)
			return
		}
		h.fail(w, r, v, err, "", "")
		return
	}
	if !sd.Loaded {
		h.schemaNotLoaded(w, r, v, kind.String())
		return
	}
	h.render(w, r, http.StatusOK, v, "schema.html", "Schema "+kind.String(), pongo2.Context{
		"schema": sd,
		"kind":   kind.String(),
		"rows":   fieldRows(sd.Rows),
	})
}

func (h *Handler) schemaNotLoaded(w http.ResponseWriter, r *http.Request, v view, kind string) {
	h.render(w, r, http.StatusNotFound, v, "notfound.html", "Schema not loaded", pongo2.Context{
		"heading": "Schema not loaded",
		"detail":  "Missing metaschema for " + kind,
	})
}

func (h *Handler) dictionary(w http.ResponseWriter, r *http.Request) {
	v := view{name: "dictionary"}
	dv, err := h.svc.Dictionary()
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "dictionary.html", "Dictionary", pongo2.Context{"dict": dv})
}

func (h *Handler) requirements(w http.ResponseWriter, r *http.Request) {
	v := view{name: "requirements"}
	items, err := h.svc.Requirements(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "requirements.html", "Requirements Index", pongo2.Context{"items": items})
}

func (h *Handler) artifacts(w http.ResponseWriter, r *http.Request) {
	v := view{name: "artifacts"}
	items, err := h.svc.Artifacts(query(r))
	if err != nil {
		h.fail(w, r, v, err, "", "")
		return
	}
	h.render(w, r, http.StatusOK, v, "artifacts.html", "Artifacts Index", pongo2.Context{"items": items})
}
