package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/open-sspm/sspmdocs/internal/apperr"
	"github.com/open-sspm/sspmdocs/internal/descriptor"
	"github.com/open-sspm/sspmdocs/internal/docservice"
	"github.com/open-sspm/sspmdocs/internal/index"
	"github.com/open-sspm/sspmdocs/internal/schemadoc"
)

const maxSearchLimit = 100

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
	idx index.DocIndex
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service, idx index.DocIndex) *Handler {
	return &Handler{svc: svc, idx: idx}
}

// writeError maps service errors to status codes.
func writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotLoaded):
		writeJSON(w, http.StatusServiceUnavailable, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrUnknownKind):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// datasetRef decodes the {key} parameter; clients may send "@" as %40.
func datasetRef(r *http.Request) string {
	raw := chi.URLParam(r, "key")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func kindParam(r *http.Request) (descriptor.Kind, error) {
	k, ok := descriptor.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		return 0, apperr.ErrUnknownKind
	}
	return k, nil
}

// GetDescriptor handles GET /api/descriptor.
//
//	@Summary		Get the compiled descriptor
//	@Tags			descriptor
//	@Produce		json
//	@Success		200	{object}	object
//	@Failure		503	{object}	errResponse
//	@Router			/descriptor [get]
func (h *Handler) GetDescriptor(w http.ResponseWriter, r *http.Request) {
	site, err := h.svc.Site()
	if err != nil {
		writeError(w, "get descriptor", err)
		return
	}
	writeJSON(w, http.StatusOK, site.Raw)
}

// ListSchemas handles GET /api/schemas.
//
//	@Summary		List metaschemas and whether each is loaded
//	@Tags			schemas
//	@Produce		json
//	@Success		200	{object}	SchemaListResponse
//	@Failure		503	{object}	errResponse
//	@Router			/schemas [get]
func (h *Handler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	site, err := h.svc.Site()
	if err != nil {
		writeError(w, "list schemas", err)
		return
	}
	resp := SchemaListResponse{Schemas: make([]SchemaInfo, 0, len(descriptor.Kinds()))}
	for _, k := range descriptor.Kinds() {
		resp.Schemas = append(resp.Schemas, SchemaInfo{
			Kind:   k.String(),
			Short:  k.Short(),
			Title:  k.Title(),
			Loaded: site.Schema(k) != nil,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSchema handles GET /api/schemas/{kind}.
//
//	@Summary		Get one metaschema
//	@Tags			schemas
//	@Produce		json
//	@Param			kind	path		string	true	"Kind (wire or short name)"
//	@Success		200		{object}	object
//	@Failure		404		{object}	errResponse
//	@Router			/schemas/{kind} [get]
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, "get schema", err)
		return
	}
	site, err := h.svc.Site()
	if err != nil {
		writeError(w, "get schema", err)
		return
	}
	schema := site.Schema(kind)
	if schema == nil {
		writeJSON(w, http.StatusNotFound, errorBody("schema not loaded"))
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// SchemaFields handles GET /api/schemas/{kind}/fields.
//
//	@Summary		Flattened field table of a metaschema
//	@Tags			schemas
//	@Produce		json
//	@Param			kind	path		string	true	"Kind (wire or short name)"
//	@Param			q		query		string	false	"Field filter"
//	@Success		200		{object}	FieldsResponse
//	@Failure		404		{object}	errResponse
//	@Router			/schemas/{kind}/fields [get]
func (h *Handler) SchemaFields(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		writeError(w, "schema fields", err)
		return
	}
	rows, err := h.svc.SchemaFields(kind, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "schema fields", err)
		return
	}
	writeJSON(w, http.StatusOK, fieldsResponse(rows))
}

// DatasetFields handles GET /api/datasets/{key}/fields.
//
//	@Summary		Flattened row schema of a dataset contract
//	@Tags			datasets
//	@Produce		json
//	@Param			key	path		string	true	"Dataset reference (key@version)"
//	@Param			q	query		string	false	"Field filter"
//	@Success		200	{object}	FieldsResponse
//	@Failure		404	{object}	errResponse
//	@Router			/datasets/{key}/fields [get]
func (h *Handler) DatasetFields(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.DatasetFields(datasetRef(r), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "dataset fields", err)
		return
	}
	writeJSON(w, http.StatusOK, fieldsResponse(rows))
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search over the docs site
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter q is required"))
		return
	}
	if _, err := h.svc.Site(); err != nil {
		writeError(w, "search", err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := h.idx.Search(q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	if results == nil {
		results = []SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func fieldsResponse(rows []schemadoc.Row) FieldsResponse {
	if rows == nil {
		rows = []schemadoc.Row{}
	}
	return FieldsResponse{Rows: rows, Total: len(rows)}
}
