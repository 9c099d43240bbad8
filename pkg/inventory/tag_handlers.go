package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/station"
)

// listTagsHandler returns a handler that lists the tags on a resource.
func listTagsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := svc.ListTags(r.Context(), station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, TagList{Tags: tags})
	}
}

// addTagHandler returns a handler that attaches a tag to a resource.
func addTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.AddTag(r.Context(), TagInput{
			Station:    station.FromContext(r.Context()),
			ResourceID: chi.URLParam(r, "id"),
			Actor:      identity.UserFromContext(r.Context()),
			Name:       req.Name,
			Category:   req.Category,
			Color:      req.Color,
			Notes:      req.Notes,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// removeTagHandler returns a handler that detaches a tag from a resource.
// The tag name arrives in the path, so the canonical form is recovered
// before lookup.
func removeTagHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.RemoveTag(
			r.Context(),
			station.FromContext(r.Context()),
			chi.URLParam(r, "id"),
			identity.UserFromContext(r.Context()),
			chi.URLParam(r, "name"),
		)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
