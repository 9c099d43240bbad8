package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server liveness and readiness",
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	client := newClient()

	live, err := client.getText("/livez")
	if err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}

	// A readiness failure is not fatal; the server may still be starting.
	ready, err := client.getText("/readyz")
	if err != nil {
		ready = err.Error()
	}

	if outputFmt != "table" {
		return printStructured(map[string]string{
			"liveness":  live,
			"readiness": ready,
		})
	}

	printTable([]string{"Check", "Status"}, [][]string{
		{"Liveness", live},
		{"Readiness", ready},
	})
	return nil
}
