package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// SheetName is the worksheet the XLSX writer fills.
const SheetName = "Mizan"

// XLSXWriter writes ledger entries to an Excel workbook. Amounts are stored
// as text so "3.168,81" is never reinterpreted by Excel.
type XLSXWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the workbook to path.
func (w *XLSXWriter) WriteToFile(path string, data *models.ParsedData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, data)
}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, data *models.ParsedData) error {
	f, err := w.build(data)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

func (w *XLSXWriter) build(data *models.ParsedData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	row := 1
	writeRow := func(values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		if err := f.SetSheetRow(SheetName, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		row++
		return nil
	}

	if w.IncludeHeader {
		for _, meta := range metadataRows(data) {
			if err := writeRow(meta); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := writeRow(Columns); err != nil {
		f.Close()
		return nil, err
	}
	for _, entry := range data.LedgerEntries {
		if err := writeRow(entryRow(entry)); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}
