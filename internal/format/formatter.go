package format

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/tastectl/cli/internal/config"
)

// Out is where formatted command output goes. Tests swap it.
var Out io.Writer = os.Stdout

// Formatter interface for different output formats
type Formatter interface {
	Format(data interface{}) error
}

// GetFormatter returns a formatter based on the specified format
func GetFormatter(format string) (Formatter, error) {
	cfg := config.Get()
	useColors := cfg.Format.Colors

	switch format {
	case "table":
		return NewTableFormatter(useColors), nil
	case "json":
		return NewJSONFormatter(true), nil
	case "json-compact":
		return NewJSONFormatter(false), nil
	case "yaml":
		return NewYAMLFormatter(), nil
	case "text":
		return NewTextFormatter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Print formats and prints data using the configured output format
func Print(data interface{}) error {
	format := config.GetOutputFormat()
	formatter, err := GetFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format(data)
}

// PrintSuccess prints a success message
func PrintSuccess(message string, args ...interface{}) {
	if config.Get().Format.Colors {
		fmt.Fprintln(Out, color.GreenString(message, args...))
	} else {
		fmt.Fprintf(Out, message+"\n", args...)
	}
}

// PrintError prints an error message
func PrintError(message string, args ...interface{}) {
	if config.Get().Format.Colors {
		fmt.Fprintln(os.Stderr, color.RedString(message, args...))
	} else {
		fmt.Fprintf(os.Stderr, "Error: "+message+"\n", args...)
	}
}

// PrintWarning prints a warning message
func PrintWarning(message string, args ...interface{}) {
	if config.Get().Format.Colors {
		fmt.Fprintln(os.Stderr, color.YellowString(message, args...))
	} else {
		fmt.Fprintf(os.Stderr, "Warning: "+message+"\n", args...)
	}
}

// PrintDebug prints a debug message if debug mode is enabled
func PrintDebug(message string, args ...interface{}) {
	if !config.IsDebug() {
		return
	}
	if config.Get().Format.Colors {
		fmt.Fprintln(os.Stderr, color.CyanString("[DEBUG] "+message, args...))
	} else {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+message+"\n", args...)
	}
}
