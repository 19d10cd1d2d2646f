package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// Writer renders parsed trial balance data.
type Writer interface {
	Write(out io.Writer, data *models.ParsedData) error
	WriteToFile(path string, data *models.ParsedData) error
}

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatText = "text"
)

// New returns the writer for format together with its file extension.
func New(format string, includeHeader bool) (Writer, string, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return &CSVWriter{IncludeHeader: includeHeader}, ".csv", nil
	case FormatXLSX, "excel":
		return &XLSXWriter{IncludeHeader: includeHeader}, ".xlsx", nil
	case FormatText, "txt":
		return &TextWriter{}, ".txt", nil
	default:
		return nil, "", fmt.Errorf("unsupported output format %q (use csv, xlsx or text)", format)
	}
}
