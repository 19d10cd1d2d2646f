package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

const entrySeparator = "---------------"

// TextWriter prints the document fields followed by one labelled block per entry.
type TextWriter struct{}

// WriteToFile writes the text rendering to path.
func (w *TextWriter) WriteToFile(path string, data *models.ParsedData) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, data)
}

// Write renders data as plain text.
func (w *TextWriter) Write(out io.Writer, data *models.ParsedData) error {
	_, err := fmt.Fprintf(out, "DateRange: %s\nCustomerName: %s\nPageCount: %s\n\nParsed Ledger Entries:\n",
		data.DateRange, data.CustomerName, data.PageCount())
	if err != nil {
		return fmt.Errorf("failed to write text header: %w", err)
	}

	for _, entry := range data.LedgerEntries {
		if _, err := fmt.Fprintf(out, "%s\n%s\n", entry, entrySeparator); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}
	return nil
}
