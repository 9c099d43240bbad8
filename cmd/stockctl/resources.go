package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rescueops/stationstock/pkg/inventory"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Manage inventory resources",
}

var (
	listType      string
	listCategory  string
	listCondition string
	listLowStock  bool
	listPageSize  int

	createBody inventory.CreateResourceRequest

	useBody    inventory.UsageRequest
	damageBody inventory.DamageRequest

	tagName     string
	tagCategory string
)

var resourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if listType != "" {
			q.Set("type", listType)
		}
		if listCategory != "" {
			q.Set("category", listCategory)
		}
		if listCondition != "" {
			q.Set("condition", listCondition)
		}
		if listLowStock {
			q.Set("lowStock", "true")
		}
		if listPageSize > 0 {
			q.Set("pageSize", strconv.Itoa(listPageSize))
		}

		var list inventory.ResourceList
		if err := newClient().getJSON("/api/v1/resources?"+q.Encode(), &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Resources))
		for _, r := range list.Resources {
			rows = append(rows, []string{
				r.ID,
				truncate(r.Name, 30),
				r.ResourceType,
				fmt.Sprintf("%d/%d %s", r.AvailableQuantity, r.Quantity, r.Unit),
				string(r.Condition),
				strconv.FormatBool(r.Active),
			})
		}
		printTable([]string{"id", "name", "type", "stock", "condition", "active"}, rows)
		if list.NextPageToken != "" {
			fmt.Println("next page token:", list.NextPageToken)
		}
		return nil
	},
}

var resourcesGetCmd = &cobra.Command{
	Use:   "get <resource-id>",
	Short: "Show one resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var res inventory.Resource
		if err := newClient().getJSON("/api/v1/resources/"+args[0], &res); err != nil {
			return err
		}
		if outputFmt == "table" {
			outputFmt = "yaml"
		}
		return printStructured(res)
	},
}

var resourcesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		var res inventory.Resource
		if err := newClient().postJSON("/api/v1/resources", createBody, &res); err != nil {
			return err
		}
		fmt.Println("created resource", res.ID)
		return nil
	},
}

var resourcesDeactivateCmd = &cobra.Command{
	Use:   "deactivate <resource-id>",
	Short: "Retire a resource from active inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().delete("/api/v1/resources/" + args[0]); err != nil {
			return err
		}
		fmt.Println("deactivated resource", args[0])
		return nil
	},
}

var resourcesHistoryCmd = &cobra.Command{
	Use:   "history <resource-id>",
	Short: "Show the service ledger of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var list inventory.LedgerList
		if err := newClient().getJSON("/api/v1/resources/"+args[0]+"/history", &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Entries))
		for _, e := range list.Entries {
			rows = append(rows, []string{
				e.CreatedAt.Format("2006-01-02 15:04"),
				e.EventType,
				e.Actor,
				strconv.Itoa(e.Quantity),
				truncate(e.Notes, 40),
			})
		}
		printTable([]string{"time", "event", "actor", "qty", "notes"}, rows)
		return nil
	},
}

var resourcesUseCmd = &cobra.Command{
	Use:   "use <resource-id>",
	Short: "Log usage of a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result inventory.OperationResult
		if err := newClient().postJSON("/api/v1/resources/"+args[0]+"/usage", useBody, &result); err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var resourcesDamageCmd = &cobra.Command{
	Use:   "damage <resource-id>",
	Short: "Report damage to a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var result inventory.OperationResult
		if err := newClient().postJSON("/api/v1/resources/"+args[0]+"/damage", damageBody, &result); err != nil {
			return err
		}
		fmt.Println(result.Message)
		if result.RequestID != "" {
			fmt.Println("repair request:", result.RequestID)
		}
		return nil
	},
}

var resourcesTagsCmd = &cobra.Command{
	Use:   "tags <resource-id>",
	Short: "List the tags on a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var list inventory.TagList
		if err := newClient().getJSON("/api/v1/resources/"+args[0]+"/tags", &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Tags))
		for _, tag := range list.Tags {
			rows = append(rows, []string{tag.Name, tag.Category, tag.CreatedBy})
		}
		printTable([]string{"name", "category", "created by"}, rows)
		return nil
	},
}

var resourcesTagAddCmd = &cobra.Command{
	Use:   "tag <resource-id>",
	Short: "Add a tag to a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := inventory.AddTagRequest{Name: tagName, Category: tagCategory}
		if err := newClient().postJSON("/api/v1/resources/"+args[0]+"/tags", body, nil); err != nil {
			return err
		}
		fmt.Printf("tagged resource %s with %q\n", args[0], tagName)
		return nil
	},
}

var resourcesUntagCmd = &cobra.Command{
	Use:   "untag <resource-id> <tag-name>",
	Short: "Remove a tag from a resource",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().delete("/api/v1/resources/" + args[0] + "/tags/" + url.PathEscape(args[1])); err != nil {
			return err
		}
		fmt.Printf("removed tag %q from resource %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	resourcesListCmd.Flags().StringVar(&listType, "type", "", "Filter by resource type")
	resourcesListCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	resourcesListCmd.Flags().StringVar(&listCondition, "condition", "", "Filter by condition")
	resourcesListCmd.Flags().BoolVar(&listLowStock, "low-stock", false, "Only resources at or below their minimum stock level")
	resourcesListCmd.Flags().IntVar(&listPageSize, "page-size", 0, "Page size")

	resourcesCreateCmd.Flags().StringVar(&createBody.Name, "name", "", "Resource name (required)")
	resourcesCreateCmd.Flags().StringVar(&createBody.ResourceType, "type", "", "Resource type")
	resourcesCreateCmd.Flags().StringVar(&createBody.Category, "category", "", "Category")
	resourcesCreateCmd.Flags().IntVar(&createBody.Quantity, "quantity", 0, "Total quantity (required)")
	resourcesCreateCmd.Flags().StringVar(&createBody.Unit, "unit", "", "Unit of measure")
	resourcesCreateCmd.Flags().IntVar(&createBody.MinStockLevel, "min-stock", 0, "Minimum stock level")
	resourcesCreateCmd.Flags().IntVar(&createBody.ReorderQuantity, "reorder", 0, "Reorder quantity")
	resourcesCreateCmd.Flags().StringVar(&createBody.Notes, "notes", "", "Maintenance notes")
	_ = resourcesCreateCmd.MarkFlagRequired("name")
	_ = resourcesCreateCmd.MarkFlagRequired("quantity")

	resourcesUseCmd.Flags().IntVar(&useBody.QuantityUsed, "quantity", 0, "Units used (required)")
	resourcesUseCmd.Flags().StringVar(&useBody.Category, "category", "", "Usage category (required)")
	resourcesUseCmd.Flags().StringVar(&useBody.IncidentID, "incident", "", "Incident id")
	resourcesUseCmd.Flags().StringVar(&useBody.ApparatusID, "apparatus", "", "Apparatus id")
	resourcesUseCmd.Flags().StringVar(&useBody.Notes, "notes", "", "Free-form notes")
	_ = resourcesUseCmd.MarkFlagRequired("quantity")
	_ = resourcesUseCmd.MarkFlagRequired("category")

	resourcesDamageCmd.Flags().StringVar((*string)(&damageBody.Severity), "severity", "", "Damage severity: minor, moderate, severe, total_loss (required)")
	resourcesDamageCmd.Flags().IntVar(&damageBody.AffectedQuantity, "affected", 0, "Affected quantity (required)")
	resourcesDamageCmd.Flags().StringVar(&damageBody.Description, "description", "", "What happened")
	resourcesDamageCmd.Flags().StringVar(&damageBody.Category, "category", "", "Damage category")
	resourcesDamageCmd.Flags().Float64Var(&damageBody.EstimatedCost, "cost", 0, "Estimated repair cost")
	_ = resourcesDamageCmd.MarkFlagRequired("severity")
	_ = resourcesDamageCmd.MarkFlagRequired("affected")

	resourcesTagAddCmd.Flags().StringVar(&tagName, "name", "", "Tag name (required)")
	resourcesTagAddCmd.Flags().StringVar(&tagCategory, "tag-category", "", "Tag category")
	_ = resourcesTagAddCmd.MarkFlagRequired("name")

	resourcesCmd.AddCommand(resourcesListCmd)
	resourcesCmd.AddCommand(resourcesGetCmd)
	resourcesCmd.AddCommand(resourcesCreateCmd)
	resourcesCmd.AddCommand(resourcesDeactivateCmd)
	resourcesCmd.AddCommand(resourcesHistoryCmd)
	resourcesCmd.AddCommand(resourcesUseCmd)
	resourcesCmd.AddCommand(resourcesDamageCmd)
	resourcesCmd.AddCommand(resourcesTagsCmd)
	resourcesCmd.AddCommand(resourcesTagAddCmd)
	resourcesCmd.AddCommand(resourcesUntagCmd)
}
