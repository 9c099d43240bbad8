package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
	stationID string
	asUser    string
	asRole    string
)

var rootCmd = &cobra.Command{
	Use:   "stockctl",
	Short: "CLI for the station inventory server",
	Long: `stockctl manages fire station inventory through the stationstock API:
resources and their stock levels, usage and damage reporting, supply and
repair requests, tags, volunteer applications and low stock scan jobs.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOrDefault("STATIONSTOCK_SERVER", "http://localhost:8080"), "Server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&stationID, "station", "", "Station id (default: from STATIONSTOCK_STATION env)")
	rootCmd.PersistentFlags().StringVar(&asUser, "as-user", envOrDefault("STATIONSTOCK_USER", ""), "Acting user, sent as X-Remote-User")
	rootCmd.PersistentFlags().StringVar(&asRole, "as-role", envOrDefault("STATIONSTOCK_ROLE", ""), "Acting role, sent as X-Remote-Role")

	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(scansCmd)
	rootCmd.AddCommand(volunteersCmd)
	rootCmd.AddCommand(healthCmd)
}

// resolvedStation returns the effective station id.
// Priority: --station flag > STATIONSTOCK_STATION env var > server default.
func resolvedStation() string {
	if stationID != "" {
		return stationID
	}
	return os.Getenv("STATIONSTOCK_STATION")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
