package storage

import (
	"fmt"
	"strings"

	"spese/internal/core"
)

// DecodeRows converts a header row followed by data rows into records.
//
// Columns are located by header name, case-insensitively, so their order may
// vary and unknown columns are ignored. A missing column, a short row or an
// unparseable amount is reported as core.ErrDataCorruption together with the
// 1-based row number. Blank rows are skipped.
func DecodeRows(rows [][]string) ([]core.Record, error) {
	if len(rows) == 0 {
		return []core.Record{}, nil
	}

	headers := parseHeaders(rows[0])
	cols := make(map[string]int, len(Columns))
	var missing []string
	for _, name := range Columns {
		idx := indexOf(headers, name)
		if idx == -1 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: header missing %s; got headers=%v", core.ErrDataCorruption, strings.Join(missing, ","), headers)
	}

	records := make([]core.Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, header is row 1
		if isBlank(row) {
			continue
		}
		for _, name := range Columns {
			if cols[name] >= len(row) {
				return nil, fmt.Errorf("%w: row %d: missing %s field", core.ErrDataCorruption, rowNum, name)
			}
		}
		amount, err := core.DecodeAmount(row[cols["Amount"]])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", core.ErrDataCorruption, rowNum, err)
		}
		records = append(records, core.Record{
			Amount:   amount,
			Category: row[cols["Category"]],
			Date:     row[cols["Date"]],
			Payment:  row[cols["Payment"]],
		})
	}
	return records, nil
}

// EncodeRows renders records as a header row followed by one row per record,
// in Columns order.
func EncodeRows(records []core.Record) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), Columns...))
	for _, r := range records {
		rows = append(rows, []string{core.FormatAmount(r.Amount), r.Category, r.Date, r.Payment})
	}
	return rows
}

func parseHeaders(row []string) []string {
	headers := make([]string, len(row))
	for i, h := range row {
		// A UTF-8 byte order mark may precede the first header
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return headers
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(v, target) {
			return i
		}
	}
	return -1
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
