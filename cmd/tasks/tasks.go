package tasks

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tastectl/cli/internal/app"
	"github.com/tastectl/cli/internal/format"
	"github.com/tastectl/cli/internal/gateway"
	"github.com/tastectl/cli/internal/models"
)

// TasksCmd represents the tasks command
var TasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Sampling task commands",
	Long: `Sampling task commands for the tastectl CLI.

This command group lists open sampling campaigns, shows task
details, and applies for a sampling spot.`,
}

// listCmd lists sampling tasks
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sampling tasks",
	Long:  "List sampling tasks, optionally filtered by keyword or status",
	RunE:  runList,
}

// showCmd shows a single task
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show task details",
	Long:  "Display detailed information about a sampling task",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

// applyCmd applies for a sampling spot
var applyCmd = &cobra.Command{
	Use:   "apply <id>",
	Short: "Apply for a sampling task",
	Long:  "Apply for a spot on an open sampling task",
	Args:  cobra.ExactArgs(1),
	RunE:  runApply,
}

func runList(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	keyword, _ := cmd.Flags().GetString("keyword")
	status, _ := cmd.Flags().GetString("status")

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	if keyword != "" {
		query.Set("keyword", keyword)
	}
	if status != "" {
		query.Set("status", status)
	}

	var result models.TaskPage
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodGet,
		Path:   "/api/tasks",
		Query:  query,
	}, &result)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(result.List) == 0 {
		fmt.Fprintln(format.Out, "No tasks found")
		return nil
	}
	if err := format.Print(result.List); err != nil {
		return err
	}
	fmt.Fprintf(format.Out, "Page %d, %d total\n", result.Page, result.Total)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	var task models.Task
	err = a.Gateway.DoJSON(gateway.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/api/tasks/%d", id),
	}, &task)
	if err != nil {
		return fmt.Errorf("failed to fetch task: %w", err)
	}

	return format.Print(task)
}

func runApply(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid task id %q", args[0])
	}

	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.RequireLogin(); err != nil {
		return err
	}

	err = a.Gateway.DoJSON(gateway.Request{
		Method:      http.MethodPost,
		Path:        fmt.Sprintf("/api/tasks/%d/apply", id),
		ShowLoading: true,
		LoadingText: "Applying...",
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to apply: %w", err)
	}

	format.PrintSuccess("✓ Applied for task %d", id)
	return nil
}

func init() {
	listCmd.Flags().Int("page", 1, "Page number")
	listCmd.Flags().Int("page-size", 20, "Results per page")
	listCmd.Flags().StringP("keyword", "k", "", "Filter by keyword")
	listCmd.Flags().StringP("status", "s", "", "Filter by status (open, closed)")

	TasksCmd.AddCommand(listCmd)
	TasksCmd.AddCommand(showCmd)
	TasksCmd.AddCommand(applyCmd)
}
