package models

import (
	"fmt"
	"strings"
)

// LedgerEntry represents a single row of the trial balance table.
// Amount columns are kept exactly as printed ("3.168,81"); a nil pointer
// means the column was missing on that row.
type LedgerEntry struct {
	AccountCode   string  `json:"accountCode"`
	Description   string  `json:"description"`
	Debit         *string `json:"debit"`
	Credit        *string `json:"credit"`
	BalanceDebit  *string `json:"balanceDebit"`
	BalanceCredit *string `json:"balanceCredit"`
}

// String renders the entry as the field-labelled block used in text output.
func (e LedgerEntry) String() string {
	return fmt.Sprintf("HESAP KODU: %s\nAÇIKLAMA: %s\nBORÇ: %s\nALACAK: %s\nBAK. BORÇ: %s\nBAK. ALACAK: %s",
		e.AccountCode,
		e.Description,
		Deref(e.Debit),
		Deref(e.Credit),
		Deref(e.BalanceDebit),
		Deref(e.BalanceCredit),
	)
}

// Deref returns the amount or "" when the column is absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// DebugLine captures what the parser did with each input line.
type DebugLine struct {
	LineNum      int    `json:"lineNum"`
	Text         string `json:"text"`
	Result       string `json:"result"`           // "header", "parsed", "skipped"
	Reason       string `json:"reason,omitempty"` // why a line was skipped
	Tokens       int    `json:"tokens,omitempty"`
	NumericStart int    `json:"numericStart"`
}

// Debug line results.
const (
	LineHeader  = "header"
	LineParsed  = "parsed"
	LineSkipped = "skipped"
)

// ParsedData holds the document-level fields and the ledger rows of one
// trial balance. Document fields are empty when their heuristic did not match.
type ParsedData struct {
	DateRange     string        `json:"dateRange,omitempty"`
	CustomerName  string        `json:"customerName,omitempty"`
	PageNumber    string        `json:"pageNumber,omitempty"` // "N/M"
	LedgerEntries []LedgerEntry `json:"ledgerEntries"`
	DebugLines    []DebugLine   `json:"debugLines,omitempty"`
}

// PageCount returns M from a "N/M" page number, or "" if there is none.
func (d *ParsedData) PageCount() string {
	_, count, ok := strings.Cut(d.PageNumber, "/")
	if !ok {
		return ""
	}
	return count
}
