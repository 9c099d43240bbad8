package cache

import (
	"net/http"

	"github.com/rescueops/stationstock/pkg/station"
)

// Manager holds separate cache instances for resource reads and ledger
// history, each with its own TTL. Resource pages turn over on every mutation;
// ledger pages are append-only and can live longer.
type Manager struct {
	resources *LRUCache
	ledger    *LRUCache
}

// NewManager creates a Manager from the given configuration.
// If cfg is nil or disabled, it returns nil; a nil Manager is safe to use and
// caches nothing.
func NewManager(cfg *CacheConfig) *Manager {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	return &Manager{
		resources: NewLRUCache(cfg.MaxSize, cfg.ResourceTTL),
		ledger:    NewLRUCache(cfg.MaxSize, cfg.LedgerTTL),
	}
}

// InvalidateStation drops every cached page belonging to one station, in both
// caches. Called after any inventory mutation for that station.
func (m *Manager) InvalidateStation(stationID string) {
	if m == nil {
		return
	}
	m.resources.InvalidatePrefix(stationID + ":")
	m.ledger.InvalidatePrefix(stationID + ":")
}

// InvalidateAll clears both caches entirely.
func (m *Manager) InvalidateAll() {
	if m == nil {
		return
	}
	m.resources.InvalidateAll()
	m.ledger.InvalidateAll()
}

// ResourceMiddleware caches GET responses for resource and request endpoints.
// A nil Manager returns a pass-through middleware.
func (m *Manager) ResourceMiddleware() func(http.Handler) http.Handler {
	if m == nil {
		return passthrough
	}
	return Middleware(m.resources)
}

// LedgerMiddleware caches GET responses for ledger history endpoints.
func (m *Manager) LedgerMiddleware() func(http.Handler) http.Handler {
	if m == nil {
		return passthrough
	}
	return Middleware(m.ledger)
}

// InvalidationMiddleware drops the station's cached pages after any mutating
// request that succeeds. Mounted around the writable routers so handlers do
// not need to know about the cache.
func (m *Manager) InvalidationMiddleware() func(http.Handler) http.Handler {
	if m == nil {
		return passthrough
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			crw := &cacheResponseWriter{ResponseWriter: w}
			next.ServeHTTP(crw, r)

			if crw.statusCode >= 200 && crw.statusCode < 300 {
				m.InvalidateStation(station.FromContext(r.Context()))
			}
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }
