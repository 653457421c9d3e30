// Package workbook ingests local Excel workbooks into the same normalized
// datasets the sheet fetcher produces, so saved exports can be analyzed
// without a network round trip.
package workbook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"sheetpulse/internal/sheets"
	"sheetpulse/pkg/contracts/domain"
)

// Fetcher serves worksheets out of one local workbook file. It satisfies the
// same fetch contract as the network paths, so the service layer can swap it
// in without knowing the data never left the machine.
type Fetcher struct {
	path   string
	logger *slog.Logger
}

// NewFetcher creates a fetcher bound to the workbook at path.
func NewFetcher(path string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		path:   path,
		logger: logger.With(slog.String("component", "workbook_fetcher")),
	}
}

// Fetch reads the worksheet named in the request from the bound workbook.
// An empty name selects the first worksheet; the spreadsheet ID and gid are
// ignored because the file on disk is already the spreadsheet.
func (f *Fetcher) Fetch(ctx context.Context, req sheets.Request) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	ds, err := LoadFile(f.path, req.SheetName)
	if err != nil {
		f.logger.ErrorContext(ctx, "workbook read failed",
			slog.String("path", f.path),
			slog.String("sheet", req.SheetName),
			slog.String("error", err.Error()))
		return domain.Dataset{}, err
	}
	return ds, nil
}

// LoadFile opens an .xlsx workbook and returns the named worksheet as a
// normalized dataset. An empty sheetName selects the first worksheet.
func LoadFile(path, sheetName string) (domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return domain.Dataset{}, fmt.Errorf("workbook has no worksheets")
		}
		sheetName = list[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}

	ds := sheets.NormalizeTable(rows)
	slog.Debug("workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("columns", len(ds.Headers)),
		slog.Int("rows", len(ds.Rows)))
	return ds, nil
}
