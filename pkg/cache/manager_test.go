package cache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rescueops/stationstock/pkg/station"
)

func TestNewManagerDisabled(t *testing.T) {
	assert.Nil(t, NewManager(nil))
	assert.Nil(t, NewManager(&CacheConfig{Enabled: false}))

	// A nil manager is inert but usable.
	var m *Manager
	m.InvalidateStation("station-1")
	m.InvalidateAll()
	require.NotNil(t, m.ResourceMiddleware())
	require.NotNil(t, m.InvalidationMiddleware())
}

func TestManagerInvalidateStation(t *testing.T) {
	m := NewManager(&CacheConfig{Enabled: true, ResourceTTL: time.Minute, LedgerTTL: time.Minute, MaxSize: 10})

	m.resources.Set("station-1:/resources", []byte("a"))
	m.ledger.Set("station-1:/ledger", []byte("b"))
	m.resources.Set("station-2:/resources", []byte("c"))

	m.InvalidateStation("station-1")
	assert.Equal(t, 1, m.resources.Size())
	assert.Zero(t, m.ledger.Size())
	_, ok := m.resources.Get("station-2:/resources")
	assert.True(t, ok)
}

func TestInvalidationMiddleware(t *testing.T) {
	m := NewManager(&CacheConfig{Enabled: true, ResourceTTL: time.Minute, LedgerTTL: time.Minute, MaxSize: 10})
	m.resources.Set("station-1:/resources", []byte("a"))

	var hits atomic.Int64
	h := m.InvalidationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/resources", nil)
	req = req.WithContext(station.WithStation(req.Context(), "station-1"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, int64(1), hits.Load())
	assert.Zero(t, m.resources.Size())
}

func TestInvalidationMiddlewareKeepsCacheOnFailure(t *testing.T) {
	m := NewManager(&CacheConfig{Enabled: true, ResourceTTL: time.Minute, LedgerTTL: time.Minute, MaxSize: 10})
	m.resources.Set("station-1:/resources", []byte("a"))

	h := m.InvalidationMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/resources", nil)
	req = req.WithContext(station.WithStation(req.Context(), "station-1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, m.resources.Size())
}
