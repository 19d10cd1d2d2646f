package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// amountExpr matches Turkish-formatted amounts: 1-3 digits, optional ".ddd"
// thousands groups, then a comma and the decimal part (e.g. "3.168,81", "81,5").
const amountExpr = `^\d{1,3}(?:\.\d{3})*,\d+$`

var (
	// DD.MM.YYYY - DD.MM.YYYY (e.g., 01.01.2023 - 31.12.2023)
	dateRangePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}\s*-\s*\d{2}\.\d{2}\.\d{4}`)
	// N / M page counter (e.g., "3 / 10")
	pageNumberPattern = regexp.MustCompile(`\d+\s*/\s*\d+`)
)

// splitLines breaks extracted text on \r and \n, dropping empty fragments.
// Whitespace-only lines are kept; callers decide whether they matter.
func splitLines(content string) []string {
	return strings.FieldsFunc(content, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
}

// splitFields splits a table line into whitespace-separated tokens.
func splitFields(line string) []string {
	return strings.Fields(line)
}

// isAllDigits reports whether every rune of s is a decimal digit.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func containsAll(line string, needles ...string) bool {
	for _, needle := range needles {
		if !strings.Contains(line, needle) {
			return false
		}
	}
	return true
}
