// Package formatter renders rows of named values as a table, CSV or JSON.
package formatter

import (
	"fmt"
)

// Field is one named value in an output row.
type Field struct {
	Name  string
	Value string
}

// Formatter is the interface for all output formatters.
type Formatter interface {
	// Format converts rows to a formatted string representation
	Format(rows [][]Field, headers []string) string
}

// FormatOptions contains options for formatting output.
type FormatOptions struct {
	// Format specifies the output format (table, csv, json)
	Format string

	// Colorize highlights verdict columns (table format only)
	Colorize bool

	// Pretty indents JSON output
	Pretty bool
}

// Formats lists the supported output format names.
var Formats = []string{"table", "csv", "json"}

// Format formats rows using the formatter named in options. When headers is
// empty the field names of the first row are used.
func Format(rows [][]Field, headers []string, options FormatOptions) (string, error) {
	if len(headers) == 0 && len(rows) > 0 {
		headers = make([]string, len(rows[0]))
		for i, field := range rows[0] {
			headers[i] = field.Name
		}
	}

	f, err := GetFormatter(options)
	if err != nil {
		return "", fmt.Errorf("failed to get formatter: %w", err)
	}
	return f.Format(rows, headers), nil
}

// GetFormatter returns a formatter for the format named in options.
func GetFormatter(options FormatOptions) (Formatter, error) {
	switch options.Format {
	case "table", "":
		return &TableFormatter{Colorize: options.Colorize}, nil
	case "csv":
		return &CSVFormatter{}, nil
	case "json":
		return &JSONFormatter{Pretty: options.Pretty}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", options.Format)
	}
}

// values returns the value of each header's field in row, or "" when the row
// has no field of that name.
func values(row []Field, headers []string) []string {
	out := make([]string, len(headers))
	for i, header := range headers {
		for _, field := range row {
			if field.Name == header {
				out[i] = field.Value
				break
			}
		}
	}
	return out
}
