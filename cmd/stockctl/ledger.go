package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rescueops/stationstock/pkg/inventory"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Browse the station's service ledger",
}

var (
	ledgerResource string
	ledgerEvent    string
	ledgerActor    string
	ledgerIncident string
	ledgerPageSize int
)

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries, newest page first",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if ledgerResource != "" {
			q.Set("resourceId", ledgerResource)
		}
		if ledgerEvent != "" {
			q.Set("eventType", ledgerEvent)
		}
		if ledgerActor != "" {
			q.Set("actor", ledgerActor)
		}
		if ledgerIncident != "" {
			q.Set("incidentId", ledgerIncident)
		}
		if ledgerPageSize > 0 {
			q.Set("pageSize", strconv.Itoa(ledgerPageSize))
		}

		var list inventory.LedgerList
		if err := newClient().getJSON("/api/v1/ledger?"+q.Encode(), &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Entries))
		for _, e := range list.Entries {
			rows = append(rows, []string{
				e.ID,
				e.CreatedAt.Format("2006-01-02 15:04"),
				e.ResourceID,
				e.EventType,
				e.Actor,
				strconv.Itoa(e.Quantity),
			})
		}
		printTable([]string{"id", "time", "resource", "event", "actor", "qty"}, rows)
		return nil
	},
}

var ledgerGetCmd = &cobra.Command{
	Use:   "get <entry-id>",
	Short: "Show one ledger entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entry inventory.LedgerEntry
		if err := newClient().getJSON("/api/v1/ledger/"+args[0], &entry); err != nil {
			return err
		}
		if outputFmt == "table" {
			outputFmt = "yaml"
		}
		return printStructured(entry)
	},
}

func init() {
	ledgerListCmd.Flags().StringVar(&ledgerResource, "resource", "", "Filter by resource id")
	ledgerListCmd.Flags().StringVar(&ledgerEvent, "event", "", "Filter by event type")
	ledgerListCmd.Flags().StringVar(&ledgerActor, "actor", "", "Filter by actor")
	ledgerListCmd.Flags().StringVar(&ledgerIncident, "incident", "", "Filter by incident id")
	ledgerListCmd.Flags().IntVar(&ledgerPageSize, "page-size", 0, "Page size")

	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerGetCmd)
}
