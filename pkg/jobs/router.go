package jobs

import (
	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
)

// Router creates a chi.Router for the stock scan job API. When authorizer is
// non-nil, endpoints require the matching jobs permissions.
func Router(store *JobStore, authorizer identity.Authorizer) chi.Router {
	r := chi.NewRouter()

	enqueueHandler := EnqueueScanHandler(store)
	listHandler := ListJobsHandler(store)
	getHandler := GetJobHandler(store)
	cancelHandler := CancelJobHandler(store)

	if authorizer != nil {
		r.Post("/scans", identity.RequirePermission(authorizer, identity.ResourceJobs, identity.VerbCreate)(enqueueHandler).ServeHTTP)
		r.Get("/scans", identity.RequirePermission(authorizer, identity.ResourceJobs, identity.VerbList)(listHandler).ServeHTTP)
		r.Get("/scans/{jobId}", identity.RequirePermission(authorizer, identity.ResourceJobs, identity.VerbGet)(getHandler).ServeHTTP)
		r.Post("/scans/{jobId}/cancel", identity.RequirePermission(authorizer, identity.ResourceJobs, identity.VerbUpdate)(cancelHandler).ServeHTTP)
	} else {
		r.Post("/scans", enqueueHandler)
		r.Get("/scans", listHandler)
		r.Get("/scans/{jobId}", getHandler)
		r.Post("/scans/{jobId}/cancel", cancelHandler)
	}

	return r
}
