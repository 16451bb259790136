package formatter

import (
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// Verdict column names and values highlighted when colorizing.
const (
	VerdictColumn = "valid"
	VerdictPass   = "true"
	VerdictFail   = "false"
)

var (
	passColor = color.New(color.FgGreen).SprintFunc()
	failColor = color.New(color.FgRed).SprintFunc()
)

// TableFormatter formats rows as an ASCII table.
type TableFormatter struct {
	// MaxWidth limits the width of each column (0 for the tablewriter default)
	MaxWidth int
	// Colorize determines if verdict values should be colorized
	Colorize bool
}

// Format converts the rows into a formatted table string.
func (f TableFormatter) Format(rows [][]Field, headers []string) string {
	if len(rows) == 0 {
		return "No results found"
	}

	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	if f.MaxWidth > 0 {
		table.SetColWidth(f.MaxWidth)
		table.SetAutoWrapText(true)
	}

	verdictIndex := -1
	for i, header := range headers {
		if strings.EqualFold(header, VerdictColumn) {
			verdictIndex = i
			break
		}
	}

	for _, row := range rows {
		cells := values(row, headers)
		if f.Colorize && verdictIndex >= 0 {
			switch cells[verdictIndex] {
			case VerdictPass:
				cells[verdictIndex] = passColor(cells[verdictIndex])
			case VerdictFail:
				cells[verdictIndex] = failColor(cells[verdictIndex])
			}
		}
		table.Append(cells)
	}

	table.Render()
	return sb.String()
}
