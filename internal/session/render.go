package session

import (
	"fmt"
	"io"
	"strings"
)

// renderTable writes a result set as an aligned text table, truncated to
// maxRows (0 means no limit).
func renderTable(w io.Writer, columns []string, rows [][]interface{}, maxRows int) {
	if len(columns) == 0 {
		return
	}

	truncated := false
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}

	cells := make([][]string, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for r, row := range rows {
		cells[r] = make([]string, len(columns))
		for c := range columns {
			var text string
			if c < len(row) {
				text = formatCell(row[c])
			}
			cells[r][c] = text
			if len(text) > widths[c] {
				widths[c] = len(text)
			}
		}
	}

	writeRow := func(values []string) {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v + strings.Repeat(" ", widths[i]-len(v))
		}
		fmt.Fprintln(w, "| "+strings.Join(parts, " | ")+" |")
	}

	separator := make([]string, len(columns))
	for i := range separator {
		separator[i] = strings.Repeat("-", widths[i])
	}

	writeRow(columns)
	writeRow(separator)
	for _, row := range cells {
		writeRow(row)
	}
	if truncated {
		fmt.Fprintf(w, "(showing first %d rows)\n", maxRows)
	}
}

func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
