package google

import (
	"fmt"

	"spese/internal/core"
	"spese/internal/storage"
)

// parseValues converts a values matrix (as returned by Sheets API) into
// records. The first row holds the column names.
//
// The API omits trailing empty cells, so data rows are padded to the header
// width. Cells are kept verbatim; only headers are trimmed by DecodeRows.
func parseValues(values [][]interface{}) ([]core.Record, error) {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = toStrings(row)
	}
	if len(rows) > 0 {
		width := len(rows[0])
		for i := 1; i < len(rows); i++ {
			rows[i] = pad(rows[i], width)
		}
	}
	return storage.DecodeRows(rows)
}

// toValues renders records as the values matrix written to the tab.
func toValues(records []core.Record) [][]interface{} {
	rows := storage.EncodeRows(records)
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return values
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	return append(row, make([]string, width-len(row))...)
}
