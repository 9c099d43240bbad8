package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rescueops/stationstock/pkg/volunteer"
)

var volunteersCmd = &cobra.Command{
	Use:     "volunteers",
	Aliases: []string{"vol"},
	Short:   "Manage volunteer applications",
}

var (
	volStatus   string
	volPageSize int

	volSubmit volunteer.SubmitApplicationRequest

	volReviewStatus string
	volReviewNote   string
)

var volunteersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List volunteer applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if volStatus != "" {
			q.Set("status", volStatus)
		}
		if volPageSize > 0 {
			q.Set("pageSize", strconv.Itoa(volPageSize))
		}

		var list volunteer.ApplicationList
		if err := newClient().getJSON("/api/v1/volunteers?"+q.Encode(), &list); err != nil {
			return err
		}

		if outputFmt != "table" {
			return printStructured(list)
		}

		rows := make([][]string, 0, len(list.Applications))
		for _, a := range list.Applications {
			rows = append(rows, []string{
				a.ID,
				truncate(a.FirstName+" "+a.LastName, 30),
				string(a.Status),
				a.Phone,
				a.SubmittedAt.Format("2006-01-02"),
				a.ReviewedBy,
			})
		}
		printTable([]string{"ID", "Name", "Status", "Phone", "Submitted", "Reviewed By"}, rows)
		return nil
	},
}

var volunteersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a volunteer application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var app volunteer.Application
		if err := newClient().getJSON("/api/v1/volunteers/"+url.PathEscape(args[0]), &app); err != nil {
			return err
		}
		if outputFmt == "table" {
			return printYAML(app)
		}
		return printStructured(app)
	},
}

var volunteersSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a volunteer application",
	RunE: func(cmd *cobra.Command, args []string) error {
		var app volunteer.Application
		if err := newClient().postJSON("/api/v1/volunteers", volSubmit, &app); err != nil {
			return err
		}
		fmt.Printf("Application %s submitted (%s)\n", app.ID, app.Status)
		return nil
	},
}

var volunteersReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Record a review decision on an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := volunteer.ReviewRequest{
			Status: volunteer.ApplicationStatus(volReviewStatus),
			Note:   volReviewNote,
		}

		var app volunteer.Application
		path := "/api/v1/volunteers/" + url.PathEscape(args[0]) + "/review"
		if err := newClient().postJSON(path, body, &app); err != nil {
			return err
		}
		fmt.Printf("Application %s is now %s\n", app.ID, app.Status)
		return nil
	},
}

func init() {
	volunteersListCmd.Flags().StringVar(&volStatus, "status", "", "Filter by review status")
	volunteersListCmd.Flags().IntVar(&volPageSize, "page-size", 0, "Page size")

	f := volunteersSubmitCmd.Flags()
	f.StringVar(&volSubmit.FirstName, "first-name", "", "First name")
	f.StringVar(&volSubmit.LastName, "last-name", "", "Last name")
	f.StringVar(&volSubmit.Phone, "phone", "", "Phone number")
	f.StringVar(&volSubmit.Email, "email", "", "Email address")
	f.StringVar(&volSubmit.Address, "address", "", "Street address")
	f.StringVar(&volSubmit.City, "city", "", "City")
	f.StringVar(&volSubmit.PostalCode, "postal-code", "", "Postal code")
	f.StringVar(&volSubmit.Occupation, "occupation", "", "Occupation")
	f.StringVar(&volSubmit.DriverLicense, "driver-license", "", "Driver license class")
	f.StringVar(&volSubmit.Languages, "languages", "", "Spoken languages")
	f.StringVar(&volSubmit.SpecialSkills, "skills", "", "Special skills")
	f.StringVar(&volSubmit.Certifications, "certifications", "", "Held certifications")
	f.BoolVar(&volSubmit.CertCPR, "cert-cpr", false, "Holds a CPR certification")
	f.BoolVar(&volSubmit.CertEMT, "cert-emt", false, "Holds an EMT certification")
	f.BoolVar(&volSubmit.CertHazmat, "cert-hazmat", false, "Holds a hazmat certification")
	f.BoolVar(&volSubmit.AvailableWeekdays, "weekdays", false, "Available on weekdays")
	f.BoolVar(&volSubmit.AvailableWeekends, "weekends", false, "Available on weekends")
	f.BoolVar(&volSubmit.AvailableOvernight, "overnight", false, "Available overnight")
	f.IntVar(&volSubmit.HoursPerWeek, "hours", 0, "Hours available per week")
	f.StringVar(&volSubmit.EmergencyName, "emergency-name", "", "Emergency contact name")
	f.StringVar(&volSubmit.EmergencyPhone, "emergency-phone", "", "Emergency contact phone")
	f.StringVar(&volSubmit.Motivation, "motivation", "", "Motivation statement")
	_ = volunteersSubmitCmd.MarkFlagRequired("first-name")
	_ = volunteersSubmitCmd.MarkFlagRequired("last-name")
	_ = volunteersSubmitCmd.MarkFlagRequired("phone")
	_ = volunteersSubmitCmd.MarkFlagRequired("email")

	volunteersReviewCmd.Flags().StringVar(&volReviewStatus, "status", "", "New status (under_review, accepted, rejected)")
	volunteersReviewCmd.Flags().StringVar(&volReviewNote, "note", "", "Review note")
	_ = volunteersReviewCmd.MarkFlagRequired("status")

	volunteersCmd.AddCommand(volunteersListCmd, volunteersGetCmd, volunteersSubmitCmd, volunteersReviewCmd)
}
