package formatter

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats rows as CSV.
type CSVFormatter struct {
	// Delimiter is the character used to separate fields
	Delimiter rune
}

// Format converts the rows to CSV format.
func (f CSVFormatter) Format(rows [][]Field, headers []string) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	if f.Delimiter != 0 {
		writer.Comma = f.Delimiter
	}

	if err := writer.Write(headers); err != nil {
		return "Error: failed to write CSV headers"
	}

	for _, row := range rows {
		if err := writer.Write(values(row, headers)); err != nil {
			continue
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "Error: failed to write CSV data"
	}
	return sb.String()
}
