package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"ncdash/pkg/contracts/domain"
)

// Workbook reads non-conformance rows from a local Excel file. It
// serves as an offline stand-in for the Sheets source: exported form
// responses keep the same header row and column layout.
type Workbook struct {
	path   string
	sheet  string
	logger *slog.Logger
}

// NewWorkbook creates a workbook provider for the given file and sheet
// name. An empty sheet name selects the first sheet in the file.
func NewWorkbook(path, sheet string, logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{
		path:   path,
		sheet:  sheet,
		logger: logger.With(slog.String("component", "workbook_provider")),
	}
}

// FetchRows opens the workbook and returns header-keyed rows from the
// configured sheet.
func (w *Workbook) FetchRows(ctx context.Context) ([]domain.Row, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("workbook: failed to open %s: %w", w.path, err)
	}
	defer f.Close()

	sheet := w.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("workbook: failed to read sheet %q: %w", sheet, err)
	}

	values := make([][]interface{}, len(raw))
	for i, line := range raw {
		cells := make([]interface{}, len(line))
		for j, cell := range line {
			cells[j] = cell
		}
		values[i] = cells
	}

	rows := rowsFromValues(values)
	w.logger.InfoContext(ctx, "workbook loaded",
		slog.String("path", w.path),
		slog.String("sheet", sheet),
		slog.Int("rows", len(rows)))
	return rows, nil
}
