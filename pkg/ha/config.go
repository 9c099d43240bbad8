// Package ha provides the coordination primitive for running the server with
// multiple replicas: a migration lock that serializes schema changes. Other
// singleton work (scan workers, audit retention) is already serialized at the
// database level by conditional claims.
package ha

import (
	"os"
	"strings"
)

// HAConfig holds configuration for multi-replica coordination.
type HAConfig struct {
	// MigrationLockEnabled controls whether database migration locking
	// is used to prevent concurrent schema changes.
	MigrationLockEnabled bool

	// Identity names this instance in lock rows. Defaults to the hostname.
	Identity string
}

// DefaultHAConfig returns an HAConfig with sensible defaults.
func DefaultHAConfig() *HAConfig {
	return &HAConfig{
		MigrationLockEnabled: true,
		Identity:             defaultIdentity(),
	}
}

// HAConfigFromEnv reads HA configuration from environment variables,
// falling back to defaults for any unset variable.
//
// Environment variables:
//   - STATIONSTOCK_MIGRATION_LOCK_ENABLED: "true" or "false" (default: "true")
//   - STATIONSTOCK_INSTANCE_ID: instance identity (default: hostname)
func HAConfigFromEnv() *HAConfig {
	cfg := DefaultHAConfig()

	if v := os.Getenv("STATIONSTOCK_MIGRATION_LOCK_ENABLED"); v != "" {
		cfg.MigrationLockEnabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("STATIONSTOCK_INSTANCE_ID"); v != "" {
		cfg.Identity = v
	}

	return cfg
}

func defaultIdentity() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
