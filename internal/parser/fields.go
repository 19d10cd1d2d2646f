package parser

import (
	"strings"
)

// extractDateRange returns the first "DD.MM.YYYY - DD.MM.YYYY" in the text.
func extractDateRange(content string) string {
	return strings.TrimSpace(dateRangePattern.FindString(content))
}

// extractCustomerName returns the first non-blank line after the line that
// carries the date range. The trial balance prints the company name there.
func extractCustomerName(lines []string, dateRange string) string {
	if dateRange == "" {
		return ""
	}
	for i, line := range lines {
		if !strings.Contains(line, dateRange) {
			continue
		}
		for _, next := range lines[i+1:] {
			if name := strings.TrimSpace(next); name != "" {
				return name
			}
		}
		return ""
	}
	return ""
}

// extractPageNumber finds the first line with the page caption and returns
// its "N/M" counter with the spacing removed.
func extractPageNumber(lines []string, caption string) string {
	for _, line := range lines {
		if !strings.Contains(line, caption) {
			continue
		}
		m := pageNumberPattern.FindString(line)
		if m == "" {
			return ""
		}
		return strings.Join(strings.Fields(m), "")
	}
	return ""
}
