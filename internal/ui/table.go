// Package ui renders tables, styled identifiers, and compact durations for
// terminal output.
package ui

import (
	"strings"
	"unicode/utf8"
)

const tableCellMaxWidth = 50
const tableCellEllipsis = "..."

// TableBuilder collects rows and renders a formatted table.
type TableBuilder struct {
	headers []string
	rows    [][]string
}

// NewTableBuilder returns a builder with preallocated rows.
func NewTableBuilder(headers []string, capacity int) *TableBuilder {
	return &TableBuilder{headers: headers, rows: make([][]string, 0, capacity)}
}

// AddRow appends a row to the table.
func (builder *TableBuilder) AddRow(row []string) {
	builder.rows = append(builder.rows, row)
}

// String renders the table output.
func (builder *TableBuilder) String() string {
	return FormatTable(builder.headers, builder.rows)
}

// FormatTable renders headers and rows as an aligned table. Column widths are
// computed on visible characters, so styled cells align correctly.
func FormatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	normalizedRows := make([][]string, 0, len(rows)+1)

	normalize := func(row []string) []string {
		normalized := make([]string, len(row))
		for i, cell := range row {
			normalized[i] = normalizeTableCell(cell)
			if i < len(widths) {
				if width := displayWidth(normalized[i]); width > widths[i] {
					widths[i] = width
				}
			}
		}
		return normalized
	}

	normalizedRows = append(normalizedRows, normalize(headers))
	for _, row := range rows {
		normalizedRows = append(normalizedRows, normalize(row))
	}

	var builder strings.Builder
	for _, row := range normalizedRows {
		for i, cell := range row {
			builder.WriteString(cell)
			if i == len(row)-1 {
				builder.WriteByte('\n')
				continue
			}
			padding := widths[i] - displayWidth(cell)
			builder.WriteString(strings.Repeat(" ", padding+2))
		}
	}

	return builder.String()
}

// TruncateTableCell limits cell width, appending an ellipsis when truncated.
func TruncateTableCell(value string) string {
	value = normalizeTableCell(value)
	if utf8.RuneCountInString(value) <= tableCellMaxWidth {
		return value
	}

	max := tableCellMaxWidth - len(tableCellEllipsis)
	return string([]rune(value)[:max]) + tableCellEllipsis
}

func displayWidth(value string) int {
	return utf8.RuneCountInString(stripANSICodes(value))
}

func normalizeTableCell(value string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(value)
}

func stripANSICodes(input string) string {
	var builder strings.Builder
	inEscape := false
	for i := 0; i < len(input); i++ {
		char := input[i]
		if inEscape {
			if char == 'm' {
				inEscape = false
			}
			continue
		}
		if char == '\x1b' {
			inEscape = true
			continue
		}
		builder.WriteByte(char)
	}
	return builder.String()
}
