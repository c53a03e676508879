package report

import "strings"

// formulaPrefixes are leading characters a spreadsheet may treat as the
// start of a formula or a command.
const formulaPrefixes = "=+-@|%\t\r\n"

// EscapeCSVCell protects against CSV formula injection by prefixing cells
// that start with a dangerous character with a single quote. Oracle text
// such as "+1: Draw a card." or "-3: ..." hits this regularly.
func EscapeCSVCell(value string) string {
	if value == "" {
		return value
	}
	if strings.IndexByte(formulaPrefixes, value[0]) >= 0 {
		return "'" + value
	}
	return value
}

// EscapeCSVRow escapes all cells in a row
func EscapeCSVRow(row []string) []string {
	escaped := make([]string, len(row))
	for i, cell := range row {
		escaped[i] = EscapeCSVCell(cell)
	}
	return escaped
}
