package sheets

import (
	"strings"

	"sheetpulse/pkg/contracts/domain"
)

// NormalizeTable turns a parsed cell table into a Dataset. The first record
// becomes the header set with each cell trimmed; every later record is kept
// unless all its cells are blank after trimming, and each kept row is padded
// or truncated to the header length. Row order and the first-occurrence
// order of header names are preserved. An empty table yields an empty
// Dataset.
func NormalizeTable(records [][]string) domain.Dataset {
	if len(records) == 0 {
		return domain.Dataset{}
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows [][]string
	for _, record := range records[1:] {
		if allBlank(record) {
			continue
		}
		row := make([]string, len(headers))
		copy(row, record)
		rows = append(rows, row)
	}
	return domain.Dataset{Headers: headers, Rows: rows}
}

func allBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
