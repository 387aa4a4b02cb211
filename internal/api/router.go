package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/open-sspm/sspmdocs/internal/docservice"
	"github.com/open-sspm/sspmdocs/internal/index"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *docservice.Service, idx index.DocIndex, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, idx)

	r := chi.NewRouter()

	r.Get("/descriptor", h.GetDescriptor)

	r.Get("/schemas", h.ListSchemas)
	r.Get("/schemas/{kind}", h.GetSchema)
	r.Get("/schemas/{kind}/fields", h.SchemaFields)

	r.Get("/datasets/{key}/fields", h.DatasetFields)

	r.Get("/search", h.Search)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
