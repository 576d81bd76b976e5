package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tastectl/cli/cmd/auth"
	configCmd "github.com/tastectl/cli/cmd/config"
	"github.com/tastectl/cli/cmd/raw"
	"github.com/tastectl/cli/cmd/reports"
	"github.com/tastectl/cli/cmd/tasks"
	appConfig "github.com/tastectl/cli/internal/config"
)

var (
	cfgFile string
	debug   bool
	output  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tastectl",
	Short: "tastectl - Command-line client for the food-sampling platform",
	Long: `tastectl provides command-line access to the food-sampling
assistant platform.

All requests go through a single gateway that attaches the session
token, interprets the standard response envelope, and classifies
failures, so each command only deals with its own payload.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize configuration
		if err := appConfig.Initialize(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		// Set debug mode
		if debug {
			appConfig.SetDebug(true)
		}

		// Set output format
		if output != "" {
			appConfig.SetOutputFormat(output)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tastectl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json, yaml, text)")

	// Add subcommands
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(tasks.TasksCmd)
	rootCmd.AddCommand(reports.ReportsCmd)
	rootCmd.AddCommand(configCmd.ConfigCmd)
	rootCmd.AddCommand(raw.RawCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A local .env can override server settings during development.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".tastectl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tastectl")
	}

	// Environment variables
	viper.SetEnvPrefix("TASTECTL")
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && debug {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
