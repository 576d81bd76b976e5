package format

import (
	"encoding/json"
	"fmt"
)

// JSONFormatter handles JSON output formatting
type JSONFormatter struct {
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(pretty bool) *JSONFormatter {
	return &JSONFormatter{
		pretty: pretty,
	}
}

// Format formats data as JSON
func (f *JSONFormatter) Format(data interface{}) error {
	enc := json.NewEncoder(Out)
	if f.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}
