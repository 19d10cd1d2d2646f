package parser

import (
	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// Parser defines the interface for report parsers.
type Parser interface {
	// Parse takes the full extracted text of a report and returns structured data.
	Parse(content string) *models.ParsedData
	// FormatName returns the human-readable report format name.
	FormatName() string
}

// Markers are the literal labels the parser looks for. Matching is case
// and diacritic sensitive.
type Markers struct {
	AccountCode   string `yaml:"account_code"`
	Description   string `yaml:"description"`
	Debit         string `yaml:"debit"`
	PageCaption   string `yaml:"page_caption"`
	GrandTotal    string `yaml:"grand_total"`
	ReportCaption string `yaml:"report_caption"`
}

// DefaultMarkers returns the labels printed by Turkish accounting packages.
func DefaultMarkers() Markers {
	return Markers{
		AccountCode:   "HESAP KODU",
		Description:   "AÇIKLAMA",
		Debit:         "BORÇ",
		PageCaption:   "Sayfa No",
		GrandTotal:    "GENEL TOPLAM",
		ReportCaption: "Tarihleri Arası Mizan",
	}
}

// WithDefaults fills any empty marker from DefaultMarkers. An empty marker
// would otherwise match every line.
func (m Markers) WithDefaults() Markers {
	def := DefaultMarkers()
	if m.AccountCode == "" {
		m.AccountCode = def.AccountCode
	}
	if m.Description == "" {
		m.Description = def.Description
	}
	if m.Debit == "" {
		m.Debit = def.Debit
	}
	if m.PageCaption == "" {
		m.PageCaption = def.PageCaption
	}
	if m.GrandTotal == "" {
		m.GrandTotal = def.GrandTotal
	}
	if m.ReportCaption == "" {
		m.ReportCaption = def.ReportCaption
	}
	return m
}

// New returns a trial balance parser using the given markers.
func New(markers Markers) *TrialBalanceParser {
	return &TrialBalanceParser{
		markers:    markers.WithDefaults(),
		classifier: NewLineClassifier(),
	}
}

var defaultParser = New(DefaultMarkers())

// Parse parses content with the default markers.
func Parse(content string) *models.ParsedData {
	return defaultParser.Parse(content)
}

// Detect reports whether the text contains a ledger table header line.
func (p *TrialBalanceParser) Detect(content string) bool {
	return p.findHeader(splitLines(content)) >= 0
}
