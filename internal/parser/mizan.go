package parser

import (
	"strings"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// TrialBalanceParser handles Turkish trial balance ("mizan") reports.
//
// The ledger table typically has this layout:
//
//	HESAP KODU | AÇIKLAMA | BORÇ | ALACAK | BAK. BORÇ | BAK. ALACAK
//
// Example line: "120 01 02 ALICILAR 3.168,81 0,00 3.168,81 0,00"
//
// A parser is immutable after New and safe for concurrent use.
type TrialBalanceParser struct {
	markers    Markers
	classifier *LineClassifier
}

// FormatName returns the report format name.
func (p *TrialBalanceParser) FormatName() string {
	return "Mizan (trial balance)"
}

// Markers returns the marker strings this parser was built with.
func (p *TrialBalanceParser) Markers() Markers {
	return p.markers
}

// ClassifyLine runs the line classifier on already tokenized input.
func (p *TrialBalanceParser) ClassifyLine(tokens []string) (models.LedgerEntry, bool) {
	return p.classifier.Classify(tokens)
}

// Parse extracts the document fields and ledger entries from the text of
// a whole report. It never fails: fields that cannot be found stay empty.
func (p *TrialBalanceParser) Parse(content string) *models.ParsedData {
	data := &models.ParsedData{
		LedgerEntries: []models.LedgerEntry{},
	}

	lines := splitLines(content)

	data.DateRange = extractDateRange(content)
	data.CustomerName = extractCustomerName(lines, data.DateRange)
	data.PageNumber = extractPageNumber(lines, p.markers.PageCaption)

	headerIndex := p.findHeader(lines)
	if headerIndex < 0 {
		return data
	}
	data.DebugLines = append(data.DebugLines, models.DebugLine{
		LineNum:      headerIndex + 1,
		Text:         lines[headerIndex],
		Result:       models.LineHeader,
		NumericStart: -1,
	})

	for i := headerIndex + 1; i < len(lines); i++ {
		dl := models.DebugLine{
			LineNum:      i + 1,
			Text:         lines[i],
			Result:       models.LineSkipped,
			NumericStart: -1,
		}

		line := strings.TrimSpace(lines[i])
		if reason := p.furniture(line); reason != "" {
			dl.Reason = reason
			data.DebugLines = append(data.DebugLines, dl)
			continue
		}

		tokens := splitFields(line)
		dl.Tokens = len(tokens)

		entry, start, reason := p.classifier.classify(tokens)
		dl.NumericStart = start
		if reason != "" {
			dl.Reason = reason
			data.DebugLines = append(data.DebugLines, dl)
			continue
		}

		dl.Result = models.LineParsed
		data.DebugLines = append(data.DebugLines, dl)
		data.LedgerEntries = append(data.LedgerEntries, entry)
	}

	return data
}

// findHeader returns the index of the first line carrying all three column
// header markers, or -1.
func (p *TrialBalanceParser) findHeader(lines []string) int {
	for i, line := range lines {
		if containsAll(line, p.markers.AccountCode, p.markers.Description, p.markers.Debit) {
			return i
		}
	}
	return -1
}

// furniture reports why a trimmed line is not a data row, or "" if it may be one.
// Captions and totals repeat on every page of the table.
func (p *TrialBalanceParser) furniture(line string) string {
	switch {
	case line == "":
		return "blank"
	case strings.Contains(line, p.markers.ReportCaption):
		return "caption"
	case strings.Contains(line, p.markers.PageCaption):
		return "page-caption"
	case strings.HasPrefix(line, p.markers.GrandTotal):
		return "grand-total"
	}
	return ""
}
