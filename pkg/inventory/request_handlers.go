package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/station"
)

// requestActions maps workflow action names to target statuses.
var requestActions = map[string]RequestStatus{
	"approve":  StatusApproved,
	"reject":   StatusRejected,
	"start":    StatusInProgress,
	"complete": StatusCompleted,
	"cancel":   StatusCancelled,
}

// submitRequestHandler returns a handler that files a supply or repair request.
func submitRequestHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequestBody
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.SubmitRequest(r.Context(), RequestInput{
			Station:       station.FromContext(r.Context()),
			ResourceID:    req.ResourceID,
			Actor:         identity.UserFromContext(r.Context()),
			Category:      req.Category,
			Quantity:      req.Quantity,
			Justification: req.Justification,
			Priority:      req.Priority,
			EstimatedCost: req.EstimatedCost,
			NeededBy:      req.NeededBy,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// listRequestsHandler returns a handler that lists maintenance requests.
func listRequestsHandler(store *RequestStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := RequestListFilter{
			ResourceID:  q.Get("resourceId"),
			Category:    RequestCategory(q.Get("category")),
			Status:      RequestStatus(q.Get("status")),
			Priority:    Priority(q.Get("priority")),
			RequestedBy: q.Get("requestedBy"),
		}

		requests, nextToken, err := store.List(station.FromContext(r.Context()), filter, pageSize(r), q.Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, RequestList{
			Requests:      requests,
			NextPageToken: nextToken,
		})
	}
}

// getRequestHandler returns a handler that retrieves one maintenance request,
// including the workflow transitions currently allowed from its status.
func getRequestHandler(store *RequestStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := store.Get(station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if req == nil {
			writeError(w, http.StatusNotFound, "maintenance request not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"request":            req,
			"allowedTransitions": AllowedRequestTransitions(req.Status),
		})
	}
}

// requestActionHandler returns a handler that dispatches workflow actions:
// POST /requests/{id}/actions/{action} with action one of approve, reject,
// start, complete, cancel.
func requestActionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := chi.URLParam(r, "action")
		to, ok := requestActions[action]
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action: %s", action))
			return
		}

		var body RequestActionBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := body.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.TransitionRequest(
			r.Context(),
			station.FromContext(r.Context()),
			chi.URLParam(r, "id"),
			identity.UserFromContext(r.Context()),
			to,
			TransitionOptions{
				Note:              body.Note,
				RestoredCondition: body.RestoredCondition,
				ReceivedQuantity:  body.ReceivedQuantity,
				ActualCost:        body.ActualCost,
				LaborHours:        body.LaborHours,
			},
		)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}
