package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/station"
)

// createResourceHandler returns a handler that registers a new resource.
func createResourceHandler(store *ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateResourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		res := &Resource{
			Station:          station.FromContext(r.Context()),
			Name:             req.Name,
			ResourceType:     req.ResourceType,
			Category:         req.Category,
			Quantity:         req.Quantity,
			Unit:             req.Unit,
			MinStockLevel:    req.MinStockLevel,
			ReorderQuantity:  req.ReorderQuantity,
			MaintenanceNotes: req.Notes,
		}
		if req.AvailableQuantity != nil {
			res.AvailableQuantity = *req.AvailableQuantity
		}
		if err := store.Create(res); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, res)
	}
}

// listResourcesHandler returns a handler that lists resources with optional
// type/category/condition/active/lowStock filters.
func listResourcesHandler(store *ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ResourceListFilter{
			ResourceType: q.Get("type"),
			Category:     q.Get("category"),
			Condition:    Condition(q.Get("condition")),
			ActiveOnly:   q.Get("active") == "true",
			LowStockOnly: q.Get("lowStock") == "true",
		}

		resources, nextToken, err := store.List(station.FromContext(r.Context()), filter, pageSize(r), q.Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, ResourceList{
			Resources:     resources,
			NextPageToken: nextToken,
		})
	}
}

// getResourceHandler returns a handler that retrieves one resource.
func getResourceHandler(store *ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.Get(station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if res == nil {
			writeError(w, http.StatusNotFound, "resource not found")
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// deactivateResourceHandler returns a handler that soft-deletes a resource.
func deactivateResourceHandler(store *ResourceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := store.Deactivate(station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	}
}

// resourceHistoryHandler returns a handler that lists the service ledger for
// one resource.
func resourceHistoryHandler(ledger *LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := LedgerListFilter{
			ResourceID: chi.URLParam(r, "id"),
			EventType:  r.URL.Query().Get("eventType"),
		}
		entries, nextToken, total, err := ledger.List(station.FromContext(r.Context()), filter, pageSize(r), r.URL.Query().Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, LedgerList{
			Entries:       entries,
			NextPageToken: nextToken,
			TotalSize:     total,
		})
	}
}

// listLedgerHandler returns a handler that lists ledger entries for the
// whole station, with optional filters on resource, event type, actor, and
// incident.
func listLedgerHandler(ledger *LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := LedgerListFilter{
			ResourceID: q.Get("resourceId"),
			EventType:  q.Get("eventType"),
			Actor:      q.Get("actor"),
			IncidentID: q.Get("incidentId"),
		}
		entries, nextToken, total, err := ledger.List(station.FromContext(r.Context()), filter, pageSize(r), q.Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, LedgerList{
			Entries:       entries,
			NextPageToken: nextToken,
			TotalSize:     total,
		})
	}
}

// getLedgerEntryHandler returns a handler that fetches one ledger entry.
func getLedgerEntryHandler(ledger *LedgerStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := ledger.Get(station.FromContext(r.Context()), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if entry == nil {
			writeError(w, http.StatusNotFound, "ledger entry not found")
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

// logUsageHandler returns a handler for the usage-logging transition.
func logUsageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UsageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.LogUsage(r.Context(), UsageInput{
			Station:     station.FromContext(r.Context()),
			ResourceID:  chi.URLParam(r, "id"),
			Actor:       identity.UserFromContext(r.Context()),
			Quantity:    req.QuantityUsed,
			Category:    req.Category,
			IncidentID:  req.IncidentID,
			ApparatusID: req.ApparatusID,
			Notes:       req.Notes,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// reportDamageHandler returns a handler for the damage-report transition.
func reportDamageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DamageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.ReportDamage(r.Context(), DamageInput{
			Station:          station.FromContext(r.Context()),
			ResourceID:       chi.URLParam(r, "id"),
			Actor:            identity.UserFromContext(r.Context()),
			Category:         req.Category,
			Severity:         req.Severity,
			AffectedQuantity: req.AffectedQuantity,
			Description:      req.Description,
			EstimatedCost:    req.EstimatedCost,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, result)
	}
}

// pageSize parses the pageSize query parameter, defaulting to 20.
func pageSize(r *http.Request) int {
	if ps := r.URL.Query().Get("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 {
			return v
		}
	}
	return 20
}

// writeDomainError maps a domain error to an HTTP response. Structured errors
// carry their code in the body so clients can branch without parsing messages.
func writeDomainError(w http.ResponseWriter, err error) {
	var te *TransitionError
	if errors.As(err, &te) {
		writeJSON(w, http.StatusBadRequest, te)
		return
	}

	status := http.StatusInternalServerError
	var oe *OpError
	if errors.As(err, &oe) {
		switch oe {
		case ErrResourceNotFound, ErrTagNotFound, ErrRequestNotFound:
			status = http.StatusNotFound
		case ErrInsufficientQuantity, ErrDuplicateTag, ErrResourceInactive:
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"code": oe.Code, "error": err.Error()})
		return
	}

	writeError(w, status, err.Error())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
