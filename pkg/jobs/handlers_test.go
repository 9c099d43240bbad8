package jobs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueops/stationstock/pkg/identity"
)

func setupJobsAPI(t *testing.T, authorizer identity.Authorizer) (http.Handler, *JobStore) {
	t.Helper()
	store := NewJobStore(newTestDB(t))

	r := chi.NewRouter()
	r.Use(identity.Middleware())
	r.Mount("/", Router(store, authorizer))
	return r, store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEnqueueScanEndpoint(t *testing.T) {
	api, store := setupJobsAPI(t, nil)

	rec := doJSON(t, api, http.MethodPost, "/scans", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "default", resp.Station)
	assert.Equal(t, "anonymous", resp.RequestedBy)
	assert.Equal(t, string(JobStateQueued), resp.State)

	job, err := store.Get(resp.ID)
	require.NoError(t, err)
	require.NotNil(t, job)
}

func TestEnqueueScanIdempotencyKey(t *testing.T) {
	api, _ := setupJobsAPI(t, nil)

	body := map[string]string{"idempotencyKey": "nightly"}
	first := doJSON(t, api, http.MethodPost, "/scans", body)
	require.Equal(t, http.StatusAccepted, first.Code)

	second := doJSON(t, api, http.MethodPost, "/scans", body)
	require.Equal(t, http.StatusOK, second.Code)

	var a, b jobResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
	assert.Equal(t, a.ID, b.ID)
}

func TestGetScanEndpoint(t *testing.T) {
	api, store := setupJobsAPI(t, nil)
	job := enqueueTestJob(t, store, "")

	rec := doJSON(t, api, http.MethodGet, "/scans/"+job.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp jobResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, job.ID, resp.ID)

	rec = doJSON(t, api, http.MethodGet, "/scans/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListScansEndpoint(t *testing.T) {
	api, store := setupJobsAPI(t, nil)

	// Jobs are enqueued to station-1; the request resolves to "default".
	enqueueTestJob(t, store, "")
	_, err := store.Enqueue(&StockScanJob{ID: "default-job", RequestedBy: "chief"})
	require.NoError(t, err)

	rec := doJSON(t, api, http.MethodGet, "/scans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Jobs      []jobResponse `json:"jobs"`
		TotalSize int           `json:"totalSize"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalSize)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "default-job", resp.Jobs[0].ID)
}

func TestCancelScanEndpoint(t *testing.T) {
	api, store := setupJobsAPI(t, nil)
	job := enqueueTestJob(t, store, "")

	rec := doJSON(t, api, http.MethodPost, "/scans/"+job.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStateCanceled, got.State)

	// A second cancel is rejected; the job is no longer queued.
	rec = doJSON(t, api, http.MethodPost, "/scans/"+job.ID+"/cancel", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJobsRouterPolicy(t *testing.T) {
	api, store := setupJobsAPI(t, identity.RolePolicy{})
	enqueueTestJob(t, store, "")

	// Reads stay open.
	rec := doJSON(t, api, http.MethodGet, "/scans", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Anonymous actors cannot enqueue scans.
	rec = doJSON(t, api, http.MethodPost, "/scans", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Officers can.
	req := httptest.NewRequest(http.MethodPost, "/scans", nil)
	req.Header.Set("X-Remote-User", "capt.reyes")
	req.Header.Set("X-Remote-Role", "officer")
	recorder := httptest.NewRecorder()
	api.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusAccepted, recorder.Code)
}
