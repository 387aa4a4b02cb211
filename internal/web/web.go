// Package web serves the server-rendered docs pages.
package web

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/go-chi/chi/v5"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/docservice"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static/*
var embeddedStatic embed.FS

var pages = []string{
	"overview.html",
	"rulesets.html",
	"ruleset.html",
	"datasets.html",
	"dataset.html",
	"connectors.html",
	"connector.html",
	"profiles.html",
	"profile.html",
	"schema.html",
	"dictionary.html",
	"requirements.html",
	"artifacts.html",
	"notfound.html",
	"status.html",
}

// Handler renders docs pages from the service.
type Handler struct {
	svc       *docservice.Service
	live      bool
	templates map[string]*pongo2.Template
}

// Option configures a Handler.
type Option func(*Handler)

// WithLiveReload makes pages reload when the site is swapped.
func WithLiveReload(on bool) Option {
	return func(h *Handler) {
		h.live = on
	}
}

// NewHandler parses every page template up front.
func NewHandler(svc *docservice.Service, opts ...Option) (*Handler, error) {
	h := &Handler{svc: svc, templates: make(map[string]*pongo2.Template, len(pages))}
	for _, opt := range opts {
		opt(h)
	}

	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("web: templates: %w", err)
	}
	set := pongo2.NewSet("sspmdocs", pongo2.NewFSLoader(sub))
	for _, name := range pages {
		tpl, err := set.FromFile(name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		h.templates[name] = tpl
	}
	return h, nil
}

// Routes returns the page router. It is meant to be mounted at "/".
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	static, _ := fs.Sub(embeddedStatic, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/overview", http.StatusFound)
	})
	r.Get("/overview", h.overview)
	r.Get("/rulesets", h.rulesets)
	r.Get("/ruleset/{key}", h.ruleset)
	r.Get("/datasets", h.datasets)
	r.Get("/dataset/{key}", h.dataset)
	r.Get("/connectors", h.connectors)
	r.Get("/connector/{kind}", h.connector)
	r.Get("/profiles", h.profiles)
	r.Get("/profile/{key}", h.profile)
	r.Get("/schema/{kind}", h.schema)
	r.Get("/dictionary", h.dictionary)
	r.Get("/requirements", h.requirements)
	r.Get("/artifacts", h.artifacts)

	r.NotFound(h.unknownView)
	return r
}

// view identifies the current page for navigation.
type view struct {
	name string
	rest string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, v view, name, title string, data pongo2.Context) {
	ctx := pongo2.Context{
		"title":   title,
		"nav":     navItems(activeHref(v.name, v.rest)),
		"query":   r.URL.Query().Get("q"),
		"path":    r.URL.Path,
		"live":    h.live,
		"version": "v?",
	}
	if site, err := h.svc.Site(); err == nil {
		ctx["version"] = "v" + orQuestion(site.Descriptor.Version.SpecVersion)
	}
	for k, val := range data {
		ctx[k] = val
	}

	out, err := h.templates[name].Execute(ctx)
	if err != nil {
		slog.Error("render page failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

// fail renders the page matching err. what names the looked-up object for
// not-found pages ("Ruleset").
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, v view, err error, what, key string) {
	switch {
	case errors.Is(err, apperr.ErrNotLoaded):
		h.render(w, r, http.StatusServiceUnavailable, v, "status.html", "Error", pongo2.Context{
			"status": "Failed to load docs data: " + loadError(err),
		})
	case errors.Is(err, apperr.ErrNotFound):
		h.render(w, r, http.StatusNotFound, v, "notfound.html", what+" not found", pongo2.Context{
			"heading": what + " not found",
			"detail":  key,
		})
	default:
		slog.Error("build view failed", slog.String("view", v.name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) unknownView(w http.ResponseWriter, r *http.Request) {
	name, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	h.render(w, r, http.StatusNotFound, view{name: name}, "notfound.html", "Not found", pongo2.Context{
		"heading": "Not found",
		"detail":  "Unknown view: " + name,
	})
}

// loadError strips the not-loaded prefix so the banner shows the cause.
func loadError(err error) string {
	msg := err.Error()
	if cause, ok := strings.CutPrefix(msg, apperr.ErrNotLoaded.Error()+": "); ok {
		return cause
	}
	return msg
}

func orQuestion(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
