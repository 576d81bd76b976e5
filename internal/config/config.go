package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Format FormatConfig `yaml:"format"`
}

// ServerConfig contains server connection settings
type ServerConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// FormatConfig contains output formatting settings
type FormatConfig struct {
	Default    string `yaml:"default"`
	Colors     bool   `yaml:"colors"`
	Timestamps bool   `yaml:"timestamps"`
}

var (
	globalConfig *Config
	debug        bool
	outputFormat string
)

// Initialize loads the configuration from file
func Initialize(configFile string) error {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tastectl")
	}

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create default config
			if err := createDefaultConfig(); err != nil {
				return fmt.Errorf("could not create default config: %w", err)
			}
		} else {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}

	// Unmarshal config
	globalConfig = &Config{}
	if err := viper.Unmarshal(globalConfig); err != nil {
		return fmt.Errorf("could not unmarshal config: %w", err)
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.url", "http://localhost:8080")
	viper.SetDefault("server.timeout", "30s")
	viper.SetDefault("format.default", "table")
	viper.SetDefault("format.colors", true)
	viper.SetDefault("format.timestamps", true)
}

// createDefaultConfig creates a default configuration file
func createDefaultConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".tastectl.yaml")

	defaultConfig := Config{
		Server: ServerConfig{
			URL:     "http://localhost:8080",
			Timeout: "30s",
		},
		Format: FormatConfig{
			Default:    "table",
			Colors:     true,
			Timestamps: true,
		},
	}

	data, err := yaml.Marshal(defaultConfig)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		globalConfig = &Config{}
	}
	return globalConfig
}

// Save saves the current configuration to file
func Save() error {
	if globalConfig == nil {
		return fmt.Errorf("no configuration to save")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".tastectl.yaml")

	data, err := yaml.Marshal(globalConfig)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// SetDebug sets the debug mode
func SetDebug(enabled bool) {
	debug = enabled
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	return debug
}

// SetOutputFormat sets the output format
func SetOutputFormat(format string) {
	outputFormat = format
}

// GetOutputFormat returns the current output format
func GetOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	if globalConfig != nil {
		return globalConfig.Format.Default
	}
	return "table"
}
