package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tastectl/cli/internal/app"
	appConfig "github.com/tastectl/cli/internal/config"
	"github.com/tastectl/cli/internal/format"
	"github.com/tastectl/cli/internal/theme"
	"github.com/tastectl/cli/internal/utils"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "CLI configuration commands",
	Long: `CLI configuration commands for the tastectl CLI.

This command group shows the active configuration, updates the
server URL, and switches the application theme.`,
}

// showCmd shows the active configuration
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the active configuration values",
	RunE:  runShow,
}

// setServerCmd updates the server URL
var setServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "Set the server URL",
	Long:  "Point the CLI at a different API server",
	Args:  cobra.ExactArgs(1),
	RunE:  runSetServer,
}

// themeCmd gets or sets the application theme
var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Get or set the application theme",
	Long:  "Show the active theme, or switch between light and dark",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	return format.Print(map[string]interface{}{
		"server_url":     a.Config.Server.URL,
		"server_timeout": a.Config.Server.Timeout,
		"output_format":  a.Config.Format.Default,
		"colors":         a.Config.Format.Colors,
		"theme":          string(a.Theme.Current()),
	})
}

func runSetServer(cmd *cobra.Command, args []string) error {
	if err := utils.ValidateURL(args[0]); err != nil {
		return err
	}

	cfg := appConfig.Get()
	cfg.Server.URL = args[0]
	if err := appConfig.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	format.PrintSuccess("✓ Server set to %s", args[0])
	return nil
}

func runTheme(cmd *cobra.Command, args []string) error {
	a, err := app.New()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		fmt.Fprintln(format.Out, string(a.Theme.Current()))
		return nil
	}

	t := theme.Theme(args[0])
	if err := a.Theme.Set(t); err != nil {
		return err
	}

	format.PrintSuccess("✓ Theme set to %s", t)
	return nil
}

func init() {
	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(setServerCmd)
	ConfigCmd.AddCommand(themeCmd)
}
