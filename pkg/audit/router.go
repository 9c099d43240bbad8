package audit

import (
	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
)

// Router creates a chi.Router for the audit API. When authorizer is non-nil,
// endpoints require audit:list and audit:get permissions.
func Router(store *Store, authorizer identity.Authorizer) chi.Router {
	r := chi.NewRouter()

	listHandler := ListEventsHandler(store)
	getHandler := GetEventHandler(store)

	if authorizer != nil {
		r.Get("/events", identity.RequirePermission(authorizer, identity.ResourceAudit, identity.VerbList)(listHandler).ServeHTTP)
		r.Get("/events/{eventId}", identity.RequirePermission(authorizer, identity.ResourceAudit, identity.VerbGet)(getHandler).ServeHTTP)
	} else {
		r.Get("/events", listHandler)
		r.Get("/events/{eventId}", getHandler)
	}

	return r
}
