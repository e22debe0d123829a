// Package output provides output formatting utilities for the hirn-login CLI tool.
package output

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Format represents an output format.
type Format string

const (
	// FormatText represents plain human-readable output.
	FormatText Format = "text"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
)

// Texter is implemented by results that have a plain text rendering.
type Texter interface {
	Text() string
}

// FormatData formats data according to the specified format.
// Returns the formatted output as a string, always terminated by a newline.
func FormatData(data any, format Format) (string, error) {
	switch format {
	case FormatText:
		return formatText(data)
	case FormatYAML:
		return formatYAML(data)
	case FormatJSON:
		return formatJSON(data)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatText(data any) (string, error) {
	t, ok := data.(Texter)
	if !ok {
		return "", fmt.Errorf("no text rendering for %T", data)
	}
	return t.Text() + "\n", nil
}

// formatYAML formats data as YAML.
func formatYAML(data any) (string, error) {
	bytes, err := yaml.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to format as YAML: %w", err)
	}
	return string(bytes), nil
}

// formatJSON formats data as indented JSON.
func formatJSON(data any) (string, error) {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format as JSON: %w", err)
	}
	return string(bytes) + "\n", nil
}

// ParseFormat parses a format string into a Format value.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid output format '%s': must be 'text', 'yaml' or 'json'", s)
	}
}
