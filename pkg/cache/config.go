package cache

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheConfig holds configuration for the read-side caching layer.
type CacheConfig struct {
	// Enabled controls whether caching is active. When false, no middleware
	// is applied and all requests pass through uncached.
	Enabled bool

	// ResourceTTL is the TTL for resource and request listing endpoints.
	// These change on every mutation, so the TTL is short.
	ResourceTTL time.Duration

	// LedgerTTL is the TTL for ledger history endpoints. The ledger is
	// append-only, so stale pages only miss the newest entries.
	LedgerTTL time.Duration

	// MaxSize is the maximum number of entries per cache instance.
	MaxSize int
}

// DefaultCacheConfig returns a CacheConfig with sensible defaults.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Enabled:     true,
		ResourceTTL: 15 * time.Second,
		LedgerTTL:   60 * time.Second,
		MaxSize:     1000,
	}
}

// CacheConfigFromEnv reads cache configuration from environment variables,
// falling back to defaults for any unset variable.
//
// Environment variables:
//   - STATIONSTOCK_CACHE_ENABLED: "true" or "false" (default: "true")
//   - STATIONSTOCK_CACHE_RESOURCE_TTL: duration in seconds (default: 15)
//   - STATIONSTOCK_CACHE_LEDGER_TTL: duration in seconds (default: 60)
//   - STATIONSTOCK_CACHE_MAX_SIZE: max entries per cache (default: 1000)
func CacheConfigFromEnv() *CacheConfig {
	cfg := DefaultCacheConfig()

	if v := os.Getenv("STATIONSTOCK_CACHE_ENABLED"); v != "" {
		cfg.Enabled = strings.EqualFold(v, "true") || v == "1"
	}

	if v := os.Getenv("STATIONSTOCK_CACHE_RESOURCE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ResourceTTL = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("STATIONSTOCK_CACHE_LEDGER_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.LedgerTTL = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("STATIONSTOCK_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxSize = n
		}
	}

	return cfg
}
