package cache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rescueops/stationstock/pkg/station"
)

func countingHandler(hits *atomic.Int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func getWithStation(t *testing.T, h http.Handler, path, stationID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req = req.WithContext(station.WithStation(req.Context(), stationID))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareCachesGET(t *testing.T) {
	var hits atomic.Int64
	c := NewLRUCache(10, time.Minute)
	h := Middleware(c)(countingHandler(&hits))

	first := getWithStation(t, h, "/resources", "station-1")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := getWithStation(t, h, "/resources", "station-1")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(1), hits.Load())
}

func TestMiddlewareKeysByStation(t *testing.T) {
	var hits atomic.Int64
	c := NewLRUCache(10, time.Minute)
	h := Middleware(c)(countingHandler(&hits))

	getWithStation(t, h, "/resources", "station-1")
	rec := getWithStation(t, h, "/resources", "station-2")

	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, int64(2), hits.Load())
}

func TestMiddlewareSkipsNonGET(t *testing.T) {
	var hits atomic.Int64
	c := NewLRUCache(10, time.Minute)
	h := Middleware(c)(countingHandler(&hits))

	req := httptest.NewRequest(http.MethodPost, "/resources", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Zero(t, c.Size())
}

func TestMiddlewareSkipsErrorResponses(t *testing.T) {
	c := NewLRUCache(10, time.Minute)
	h := Middleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	getWithStation(t, h, "/resources", "station-1")
	assert.Zero(t, c.Size())
}
