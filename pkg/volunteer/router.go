package volunteer

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
)

// NewRouter creates a chi router with the volunteer intake routes. Submission
// is open to anonymous callers; review transitions require the approve
// permission. Pass a nil authorizer to disable the checks.
func NewRouter(store *Store, authorizer identity.Authorizer) chi.Router {
	r := chi.NewRouter()

	guard := func(verb string, h http.HandlerFunc) http.HandlerFunc {
		if authorizer == nil {
			return h
		}
		return identity.RequirePermission(authorizer, identity.ResourceVolunteers, verb)(h).ServeHTTP
	}

	r.Post("/", guard(identity.VerbCreate, submitHandler(store)))
	r.Get("/", guard(identity.VerbList, listHandler(store)))
	r.Get("/{id}", guard(identity.VerbGet, getHandler(store)))
	r.Post("/{id}/review", guard(identity.VerbApprove, reviewHandler(store)))

	return r
}
