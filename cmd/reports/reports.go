package reports

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/tastectl/cli/internal/app"
	"github.com/tastectl/cli/internal/format"
	"github.com/tastectl/cli/internal/gateway"
	"github.com/tastectl/cli/internal/models"
	"github.com/tastectl/cli/internal/utils"
)

// ReportsCmd represents the reports command
var ReportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Sampling report commands",
	Long: `Sampling report commands for the tastectl CLI.

This command group submits sampling reports after trying a product
and lists the reports you have submitted.`,
}

// submitCmd submits a sampling report
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a sampling report",
	Long:  "Submit a rating and writeup for a task you sampled",
	RunE:  runSubmit,
}

// listCmd lists the current user's reports
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sampling reports",
	Long:  "List the sampling reports submitted by the current user",
	RunE:  runList,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	taskID, _ := cmd.Flags().GetInt64("task")
	rating, _ := cmd.Flags().GetInt("rating")
	content, _ := cmd.Flags().GetString("content")

	if taskID <= 0 {
		return fmt.Errorf("a valid --task id is required")
	}
	if err := utils.ValidateRating(rating); err != nil {
		return err
	}
	if err := utils.ValidateRequired(content, "content"); err != nil {
		return err
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.RequireLogin(); err != nil {
		return err
	}

	var report models.Report
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodPost,
		Path:   "/api/reports",
		Body: models.Report{
			TaskID:  taskID,
			Rating:  rating,
			Content: content,
		},
		ShowLoading: true,
		LoadingText: "Submitting report...",
	}, &report)
	if err != nil {
		return fmt.Errorf("failed to submit report: %w", err)
	}

	format.PrintSuccess("✓ Report %d submitted", report.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.RequireLogin(); err != nil {
		return err
	}

	var reports []models.Report
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/reports/mine",
	}, &reports)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		fmt.Fprintln(format.Out, "No reports found")
		return nil
	}
	return format.Print(reports)
}

func init() {
	submitCmd.Flags().Int64P("task", "t", 0, "Task ID the report belongs to")
	submitCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	submitCmd.Flags().StringP("content", "c", "", "Report text")
	submitCmd.MarkFlagRequired("task")
	submitCmd.MarkFlagRequired("rating")
	submitCmd.MarkFlagRequired("content")

	ReportsCmd.AddCommand(submitCmd)
	ReportsCmd.AddCommand(listCmd)
}
