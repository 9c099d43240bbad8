package jobs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rescueops/stationstock/pkg/identity"
	"github.com/rescueops/stationstock/pkg/station"
)

// enqueueScanRequest is the optional body for POST /scans.
type enqueueScanRequest struct {
	IdempotencyKey string `json:"idempotencyKey"`
}

// EnqueueScanHandler handles POST /scans. It queues a low stock scan for the
// request's station; a worker picks it up asynchronously.
func EnqueueScanHandler(store *JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body enqueueScanRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
				return
			}
		}

		job := &StockScanJob{
			ID:             uuid.New().String(),
			Station:        station.FromContext(r.Context()),
			RequestedBy:    identity.UserFromContext(r.Context()),
			RequestedAt:    time.Now(),
			State:          JobStateQueued,
			IdempotencyKey: body.IdempotencyKey,
		}

		queued, err := store.Enqueue(job)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to enqueue scan: %v", err))
			return
		}

		status := http.StatusAccepted
		if queued.ID != job.ID {
			// An idempotency key matched an existing non-terminal job.
			status = http.StatusOK
		}
		writeJSON(w, status, jobToResponse(queued))
	}
}

// GetJobHandler handles GET /scans/{jobId}.
func GetJobHandler(store *JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")
		if jobID == "" {
			writeError(w, http.StatusBadRequest, "missing job ID")
			return
		}

		job, err := store.Get(jobID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get job: %v", err))
			return
		}
		if job == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("job %q not found", jobID))
			return
		}

		writeJSON(w, http.StatusOK, jobToResponse(job))
	}
}

// ListJobsHandler handles GET /scans.
// Query params: state, requestedBy, pageSize, pageToken. The station comes
// from the request context.
func ListJobsHandler(store *JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := JobListFilter{
			Station:     station.FromContext(r.Context()),
			State:       r.URL.Query().Get("state"),
			RequestedBy: r.URL.Query().Get("requestedBy"),
		}

		pageSize := 20
		if ps := r.URL.Query().Get("pageSize"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				pageSize = v
			}
		}
		pageToken := r.URL.Query().Get("pageToken")

		records, nextToken, total, err := store.List(filter, pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list jobs: %v", err))
			return
		}

		jobs := make([]jobResponse, len(records))
		for i := range records {
			jobs[i] = jobToResponse(&records[i])
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"jobs":          jobs,
			"nextPageToken": nextToken,
			"totalSize":     total,
		})
	}
}

// CancelJobHandler handles POST /scans/{jobId}/cancel.
func CancelJobHandler(store *JobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := chi.URLParam(r, "jobId")
		if jobID == "" {
			writeError(w, http.StatusBadRequest, "missing job ID")
			return
		}

		if err := store.Cancel(jobID); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to cancel job: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status": "canceled",
			"jobId":  jobID,
		})
	}
}

// jobResponse is the API response for a stock scan job.
type jobResponse struct {
	ID               string `json:"id"`
	Station          string `json:"station"`
	RequestedBy      string `json:"requestedBy"`
	RequestedAt      string `json:"requestedAt"`
	State            string `json:"state"`
	Message          string `json:"message,omitempty"`
	StartedAt        string `json:"startedAt,omitempty"`
	FinishedAt       string `json:"finishedAt,omitempty"`
	AttemptCount     int    `json:"attemptCount"`
	LastError        string `json:"lastError,omitempty"`
	ResourcesScanned int    `json:"resourcesScanned,omitempty"`
	RequestsFiled    int    `json:"requestsFiled,omitempty"`
	DurationMs       int64  `json:"durationMs,omitempty"`
}

func jobToResponse(job *StockScanJob) jobResponse {
	resp := jobResponse{
		ID:               job.ID,
		Station:          job.Station,
		RequestedBy:      job.RequestedBy,
		RequestedAt:      job.RequestedAt.Format(time.RFC3339),
		State:            string(job.State),
		Message:          job.Message,
		AttemptCount:     job.AttemptCount,
		LastError:        job.LastError,
		ResourcesScanned: job.ResourcesScanned,
		RequestsFiled:    job.RequestsFiled,
		DurationMs:       job.DurationMs,
	}
	if job.StartedAt != nil {
		resp.StartedAt = job.StartedAt.Format(time.RFC3339)
	}
	if job.FinishedAt != nil {
		resp.FinishedAt = job.FinishedAt.Format(time.RFC3339)
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
