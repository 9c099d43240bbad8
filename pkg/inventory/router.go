package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
)

// NewRouter creates a chi router with the inventory API routes. When
// authorizer is non-nil every route is gated by a permission check; pass nil
// to disable authorization, as the tests do.
func NewRouter(
	svc *Service,
	resources *ResourceStore,
	ledger *LedgerStore,
	requests *RequestStore,
	authorizer identity.Authorizer,
) chi.Router {
	r := chi.NewRouter()

	guard := func(resource, verb string, h http.HandlerFunc) http.HandlerFunc {
		if authorizer == nil {
			return h
		}
		return identity.RequirePermission(authorizer, resource, verb)(h).ServeHTTP
	}

	r.Route("/resources", func(r chi.Router) {
		r.Post("/", guard(identity.ResourceResources, identity.VerbCreate, createResourceHandler(resources)))
		r.Get("/", guard(identity.ResourceResources, identity.VerbList, listResourcesHandler(resources)))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", guard(identity.ResourceResources, identity.VerbGet, getResourceHandler(resources)))
			r.Delete("/", guard(identity.ResourceResources, identity.VerbDelete, deactivateResourceHandler(resources)))
			r.Get("/history", guard(identity.ResourceLedger, identity.VerbList, resourceHistoryHandler(ledger)))

			r.Post("/usage", guard(identity.ResourceLedger, identity.VerbCreate, logUsageHandler(svc)))
			r.Post("/damage", guard(identity.ResourceLedger, identity.VerbCreate, reportDamageHandler(svc)))

			r.Get("/tags", guard(identity.ResourceTags, identity.VerbList, listTagsHandler(svc)))
			r.Post("/tags", guard(identity.ResourceTags, identity.VerbCreate, addTagHandler(svc)))
			r.Delete("/tags/{name}", guard(identity.ResourceTags, identity.VerbDelete, removeTagHandler(svc)))
		})
	})

	r.Route("/requests", func(r chi.Router) {
		r.Post("/", guard(identity.ResourceRequests, identity.VerbCreate, submitRequestHandler(svc)))
		r.Get("/", guard(identity.ResourceRequests, identity.VerbList, listRequestsHandler(requests)))
		r.Get("/{id}", guard(identity.ResourceRequests, identity.VerbGet, getRequestHandler(requests)))
		r.Post("/{id}/actions/{action}", guard(identity.ResourceRequests, identity.VerbApprove, requestActionHandler(svc)))
	})

	r.Route("/ledger", func(r chi.Router) {
		r.Get("/", guard(identity.ResourceLedger, identity.VerbList, listLedgerHandler(ledger)))
		r.Get("/{id}", guard(identity.ResourceLedger, identity.VerbGet, getLedgerEntryHandler(ledger)))
	})

	return r
}
