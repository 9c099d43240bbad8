package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rescueops/stationstock/pkg/station"
)

// ListEventsHandler handles listing audit events.
// Query params: actor, resourceType, action, outcome, pageSize, pageToken.
func ListEventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := ListFilter{
			Station:      station.FromContext(r.Context()),
			Actor:        q.Get("actor"),
			ResourceType: q.Get("resourceType"),
			Action:       q.Get("action"),
			Outcome:      q.Get("outcome"),
		}

		pageSize := 20
		if ps := q.Get("pageSize"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				pageSize = v
			}
		}

		events, nextToken, total, err := store.List(filter, pageSize, q.Get("pageToken"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list audit events: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"events":        events,
			"nextPageToken": nextToken,
			"totalSize":     total,
		})
	}
}

// GetEventHandler handles fetching a single audit event.
func GetEventHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := chi.URLParam(r, "eventId")
		if eventID == "" {
			writeError(w, http.StatusBadRequest, "missing event ID")
			return
		}

		event, err := store.GetByID(eventID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get audit event: %v", err))
			return
		}
		if event == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("audit event %q not found", eventID))
			return
		}

		writeJSON(w, http.StatusOK, event)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
