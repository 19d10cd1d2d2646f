package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

// minTableTokens is the shortest line that can hold an account code plus
// a plausible set of amount columns.
const minTableTokens = 5

// Year bounds used to tell a date fragment at the start of a description
// apart from a third numeric account-code segment.
const (
	minYear = 1900
	maxYear = 2100
)

// Reasons a candidate line produced no entry.
const (
	reasonTooFewTokens = "too-few-tokens"
	reasonNoAmount     = "no-amount"
)

// LineClassifier splits a tokenized table line into account code,
// description and up to four amount columns.
//
// The tokens before the first amount (the numeric anchor) form the head;
// the anchor and everything after it form the tail.
type LineClassifier struct {
	amount *regexp.Regexp
}

// NewLineClassifier compiles the amount pattern once for the classifier's lifetime.
func NewLineClassifier() *LineClassifier {
	return &LineClassifier{amount: regexp.MustCompile(amountExpr)}
}

// IsAmount reports whether tok looks like a formatted amount ("12.345,67").
func (c *LineClassifier) IsAmount(tok string) bool {
	return c.amount.MatchString(tok)
}

// NumericStart returns the index of the first amount token, or -1.
func (c *LineClassifier) NumericStart(tokens []string) int {
	for i, tok := range tokens {
		if c.IsAmount(tok) {
			return i
		}
	}
	return -1
}

// Classify builds a ledger entry from tokens. It returns false when the
// line is too short or carries no amount at all.
func (c *LineClassifier) Classify(tokens []string) (models.LedgerEntry, bool) {
	entry, _, reason := c.classify(tokens)
	return entry, reason == ""
}

func (c *LineClassifier) classify(tokens []string) (models.LedgerEntry, int, string) {
	if len(tokens) < minTableTokens {
		return models.LedgerEntry{}, -1, reasonTooFewTokens
	}
	start := c.NumericStart(tokens)
	if start < 0 {
		return models.LedgerEntry{}, -1, reasonNoAmount
	}

	head := tokens[:start]
	code, desc := splitHead(classifyHead(head), head)

	entry := models.LedgerEntry{
		AccountCode: code,
		Description: desc,
	}
	entry.Debit, entry.Credit, entry.BalanceDebit, entry.BalanceCredit = splitTail(tokens[start:])
	return entry, start, ""
}

// headShape names the layout of the tokens preceding the numeric anchor.
type headShape int

const (
	headEmpty           headShape = iota // no tokens before the first amount
	headSingle                           // code only
	headCodeSubYear                      // code, numeric sub-code, description starting with a year
	headCodeSubSub                       // code and two numeric sub-codes
	headCodeSub                          // code and one numeric sub-code
	headCodeDescription                  // code followed by text
)

func (s headShape) String() string {
	switch s {
	case headEmpty:
		return "empty"
	case headSingle:
		return "single"
	case headCodeSubYear:
		return "code-sub-year"
	case headCodeSubSub:
		return "code-sub-sub"
	case headCodeSub:
		return "code-sub"
	case headCodeDescription:
		return "code-description"
	default:
		return "unknown"
	}
}

// classifyHead picks the head layout. Checks run in priority order; a
// 4-digit token in [1900, 2100] after a numeric sub-code is read as a year.
func classifyHead(head []string) headShape {
	switch {
	case len(head) == 0:
		return headEmpty
	case len(head) == 1:
		return headSingle
	case !isAllDigits(head[1]):
		return headCodeDescription
	case len(head) >= 3 && looksLikeYear(head[2]):
		return headCodeSubYear
	case len(head) >= 3 && isAllDigits(head[2]):
		return headCodeSubSub
	default:
		return headCodeSub
	}
}

// splitHead returns the account code and description for a head of the given shape.
func splitHead(shape headShape, head []string) (code, desc string) {
	switch shape {
	case headSingle:
		return head[0], ""
	case headCodeSubYear, headCodeSub:
		return joinTokens(head[:2]), joinTokens(head[2:])
	case headCodeSubSub:
		return joinTokens(head[:3]), joinTokens(head[3:])
	case headCodeDescription:
		return head[0], joinTokens(head[1:])
	default:
		return "", ""
	}
}

// splitTail assigns amount tokens to debit, credit, balance-debit and
// balance-credit in that order. Missing trailing columns stay nil; tokens
// beyond the fourth are folded into balance-credit.
func splitTail(tail []string) (debit, credit, balDebit, balCredit *string) {
	debit = tokenAt(tail, 0)
	credit = tokenAt(tail, 1)
	balDebit = tokenAt(tail, 2)
	if len(tail) > 3 {
		s := joinTokens(tail[3:])
		balCredit = &s
	}
	return debit, credit, balDebit, balCredit
}

func tokenAt(tokens []string, i int) *string {
	if i >= len(tokens) {
		return nil
	}
	s := tokens[i]
	return &s
}

func looksLikeYear(tok string) bool {
	if utf8.RuneCountInString(tok) != 4 || !isAllDigits(tok) {
		return false
	}
	year, err := strconv.Atoi(tok)
	if err != nil {
		return false
	}
	return year >= minYear && year <= maxYear
}

func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}
