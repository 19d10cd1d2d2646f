package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// Columns is the column header shared by the CSV and XLSX writers.
var Columns = []string{"Hesap Kodu", "Açıklama", "Borç", "Alacak", "Bakiye Borç", "Bakiye Alacak"}

// CSVWriter writes ledger entries to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes ledger entries to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, data *models.ParsedData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, data)
}

// Write writes ledger entries in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, data *models.ParsedData) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		for _, meta := range metadataRows(data) {
			if err := writer.Write(meta); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range data.LedgerEntries {
		if err := writer.Write(entryRow(entry)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// metadataRows returns the "# Label, value" rows for document fields that were found.
func metadataRows(data *models.ParsedData) [][]string {
	var rows [][]string
	if data.DateRange != "" {
		rows = append(rows, []string{"# Date Range", data.DateRange})
	}
	if data.CustomerName != "" {
		rows = append(rows, []string{"# Customer", data.CustomerName})
	}
	if data.PageNumber != "" {
		rows = append(rows, []string{"# Page", data.PageNumber})
	}
	return rows
}

// entryRow renders an entry; absent amount columns become empty cells.
func entryRow(e models.LedgerEntry) []string {
	return []string{
		e.AccountCode,
		e.Description,
		models.Deref(e.Debit),
		models.Deref(e.Credit),
		models.Deref(e.BalanceDebit),
		models.Deref(e.BalanceCredit),
	}
}
