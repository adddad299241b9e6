package converter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nconklindev/rankconv/internal/types"
)

// LoadTable reads sheet with its first non-empty row as headers. Rows whose
// cells are all empty are skipped wherever they appear. Blank header cells,
// and columns that only appear in data rows, are labelled "Unnamed: <index>".
func LoadTable(wb Workbook, sheet string) (*types.FileData, error) {
	rows, err := wb.Rows(sheet)
	if err != nil {
		return nil, err
	}

	rows, lines := skipEmptyRows(rows)
	if len(rows) == 0 {
		return &types.FileData{}, nil
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	return &types.FileData{
		Headers: headerLabels(rows[0], width),
		Rows:    rows[1:],
		Lines:   lines[1:],
	}, nil
}

// RepairHeader promotes the first data row to headers when the real headers
// were pushed down one row by a banner: the first cell of the first data row
// reads "name" and no header is literally "Name". It reports whether the
// table was changed. It never looks past the first data row.
func RepairHeader(data *types.FileData) bool {
	if len(data.Rows) == 0 {
		return false
	}

	if foldKey(data.Cell(0, 0)) != FieldName || slices.Contains(data.Headers, "Name") {
		return false
	}

	width := len(data.Headers)
	for _, row := range data.Rows {
		width = max(width, len(row))
	}

	data.Headers = headerLabels(data.Rows[0], width)
	data.Rows = data.Rows[1:]
	if len(data.Lines) > 0 {
		data.Lines = data.Lines[1:]
	}
	return true
}

func headerLabels(row []string, width int) []string {
	headers := make([]string, width)
	for i := range headers {
		var label string
		if i < len(row) {
			label = row[i]
		}
		if strings.TrimSpace(label) == "" {
			label = fmt.Sprintf("Unnamed: %d", i)
		}
		headers[i] = label
	}
	return headers
}

// skipEmptyRows drops rows with no non-empty cell and returns the 1-based
// sheet row of each row kept. A cell holding only spaces is not empty.
func skipEmptyRows(rows [][]string) ([][]string, []int) {
	kept := make([][]string, 0, len(rows))
	lines := make([]int, 0, len(rows))
	for i, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		kept = append(kept, row)
		lines = append(lines, i+1)
	}
	return kept, lines
}

func isEmptyRow(row []string) bool {
	return !slices.ContainsFunc(row, func(cell string) bool { return cell != "" })
}
