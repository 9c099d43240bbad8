package main

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/rescueops/stationstock/pkg/inventory"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Manage supply and repair requests",
}

var (
	reqStatus   string
	reqCategory string
	reqResource string

	submitBody inventory.SubmitRequestBody
	actionBody inventory.RequestActionBody
)

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if reqStatus != "" {
			q.Set("status", reqStatus)
		}
		if reqCategory != "" {
			q.Set("category", reqCategory)
		}
		if reqResource != "" {
			q.Set("resourceId", reqResource)
		}

		var list inventory.RequestList
		if err := newClient().getJSON("/api/v1/requests?"+q.Encode(), &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Requests))
		for _, req := range list.Requests {
			rows = append(rows, []string{
				req.ID,
				string(req.Category),
				string(req.Status),
				string(req.Priority),
				req.RequestedBy,
				truncate(req.Description, 40),
			})
		}
		printTable([]string{"id", "category", "status", "priority", "requested by", "description"}, rows)
		return nil
	},
}

var requestsGetCmd = &cobra.Command{
	Use:   "get <request-id>",
	Short: "Show one request and its allowed transitions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Request            inventory.MaintenanceRequest `json:"request"`
			AllowedTransitions []inventory.RequestStatus    `json:"allowedTransitions"`
		}
		if err := newClient().getJSON("/api/v1/requests/"+args[0], &resp); err != nil {
			return err
		}
		if outputFmt == "table" {
			outputFmt = "yaml"
		}
		return printStructured(resp)
	},
}

var requestsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "File a supply or repair request",
	RunE: func(cmd *cobra.Command, args []string) error {
		var result inventory.OperationResult
		if err := newClient().postJSON("/api/v1/requests", submitBody, &result); err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var requestsActionCmd = &cobra.Command{
	Use:       "action <request-id> <action>",
	Short:     "Move a request through its workflow",
	Long:      "Actions: approve, reject, start, complete, cancel.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"approve", "reject", "start", "complete", "cancel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp json.RawMessage
		path := "/api/v1/requests/" + args[0] + "/actions/" + args[1]
		if err := newClient().postJSON(path, actionBody, &resp); err != nil {
			return err
		}
		fmt.Printf("request %s: %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	requestsListCmd.Flags().StringVar(&reqStatus, "status", "", "Filter by status")
	requestsListCmd.Flags().StringVar(&reqCategory, "category", "", "Filter by category")
	requestsListCmd.Flags().StringVar(&reqResource, "resource", "", "Filter by resource id")

	requestsSubmitCmd.Flags().StringVar(&submitBody.ResourceID, "resource", "", "Resource id (required)")
	requestsSubmitCmd.Flags().StringVar((*string)(&submitBody.Category), "category", "", "Request category: supply or repair (required)")
	requestsSubmitCmd.Flags().IntVar(&submitBody.Quantity, "quantity", 0, "Quantity (required for supply requests)")
	requestsSubmitCmd.Flags().StringVar(&submitBody.Justification, "justification", "", "Why the request is needed")
	requestsSubmitCmd.Flags().StringVar((*string)(&submitBody.Priority), "priority", "", "Priority: low, medium, high, critical")
	requestsSubmitCmd.Flags().Float64Var(&submitBody.EstimatedCost, "cost", 0, "Estimated cost")
	_ = requestsSubmitCmd.MarkFlagRequired("resource")
	_ = requestsSubmitCmd.MarkFlagRequired("category")

	requestsActionCmd.Flags().StringVar(&actionBody.Note, "note", "", "Resolution note")
	requestsActionCmd.Flags().StringVar((*string)(&actionBody.RestoredCondition), "restored-condition", "", "Condition after a completed repair")
	requestsActionCmd.Flags().IntVar(&actionBody.ReceivedQuantity, "received", 0, "Quantity received on a completed supply request")
	requestsActionCmd.Flags().Float64Var(&actionBody.ActualCost, "actual-cost", 0, "Actual cost")
	requestsActionCmd.Flags().Float64Var(&actionBody.LaborHours, "labor-hours", 0, "Labor hours spent")

	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsGetCmd)
	requestsCmd.AddCommand(requestsSubmitCmd)
	requestsCmd.AddCommand(requestsActionCmd)
}
