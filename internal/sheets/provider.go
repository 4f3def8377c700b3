// Package sheets provides the tabular data sources the dashboard can
// load non-conformance rows from: a Google Sheets worksheet (the
// production source) and a local Excel workbook (offline fallback).
// Both emit the same header-keyed row shape; the pipeline never sees
// the transport.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"ncdash/pkg/contracts/domain"
)

// RowProvider fetches the raw worksheet rows. The first source row is
// the header; providers return one map per data row keyed by header.
type RowProvider interface {
	FetchRows(ctx context.Context) ([]domain.Row, error)
}

// rowsFromValues converts a raw value grid (header row first) into
// header-keyed rows. Cells are coerced to strings so numeric or blank
// source cells compare stably downstream. Rows shorter than the header
// are padded with empty values; an empty grid yields no rows.
func rowsFromValues(values [][]interface{}) []domain.Row {
	if len(values) == 0 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = strings.TrimSpace(cellString(cell))
	}

	rows := make([]domain.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		row := make(domain.Row, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(line) {
				row[header] = cellString(line[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
