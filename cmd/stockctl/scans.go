package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var scansCmd = &cobra.Command{
	Use:   "scans",
	Short: "Manage low stock scan jobs",
}

var (
	scanIdempotencyKey string
	scanState          string
)

// scanJob mirrors the job API response.
type scanJob struct {
	ID               string `json:"id"`
	Station          string `json:"station"`
	RequestedBy      string `json:"requestedBy"`
	RequestedAt      string `json:"requestedAt"`
	State            string `json:"state"`
	Message          string `json:"message,omitempty"`
	AttemptCount     int    `json:"attemptCount"`
	LastError        string `json:"lastError,omitempty"`
	ResourcesScanned int    `json:"resourcesScanned,omitempty"`
	RequestsFiled    int    `json:"requestsFiled,omitempty"`
}

var scansRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Queue a low stock scan for the station",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]string{}
		if scanIdempotencyKey != "" {
			body["idempotencyKey"] = scanIdempotencyKey
		}

		var job scanJob
		if err := newClient().postJSON("/api/v1/jobs/scans", body, &job); err != nil {
			return err
		}
		fmt.Printf("scan %s is %s\n", job.ID, job.State)
		return nil
	},
}

var scansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scan jobs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if scanState != "" {
			q.Set("state", scanState)
		}

		var resp struct {
			Jobs      []scanJob `json:"jobs"`
			TotalSize int       `json:"totalSize"`
		}
		if err := newClient().getJSON("/api/v1/jobs/scans?"+q.Encode(), &resp); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(resp)
		}

		rows := make([][]string, 0, len(resp.Jobs))
		for _, job := range resp.Jobs {
			rows = append(rows, []string{
				job.ID,
				job.State,
				job.RequestedBy,
				job.RequestedAt,
				truncate(job.Message, 50),
			})
		}
		printTable([]string{"id", "state", "requested by", "requested at", "message"}, rows)
		return nil
	},
}

var scansGetCmd = &cobra.Command{
	Use:   "get <job-id>",
	Short: "Show one scan job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var job scanJob
		if err := newClient().getJSON("/api/v1/jobs/scans/"+args[0], &job); err != nil {
			return err
		}
		if outputFmt == "table" {
			outputFmt = "yaml"
		}
		return printStructured(job)
	},
}

var scansCancelCmd = &cobra.Command{
	Use:   "cancel <job-id>",
	Short: "Cancel a queued scan job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().postJSON("/api/v1/jobs/scans/"+args[0]+"/cancel", nil, nil); err != nil {
			return err
		}
		fmt.Println("canceled scan", args[0])
		return nil
	},
}

func init() {
	scansRunCmd.Flags().StringVar(&scanIdempotencyKey, "idempotency-key", "", "Reuse an existing queued scan with the same key")
	scansListCmd.Flags().StringVar(&scanState, "state", "", "Filter by state")

	scansCmd.AddCommand(scansRunCmd)
	scansCmd.AddCommand(scansListCmd)
	scansCmd.AddCommand(scansGetCmd)
	scansCmd.AddCommand(scansCancelCmd)
}
