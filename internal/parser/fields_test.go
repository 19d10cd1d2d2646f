package parser

import (
	"testing"
)

func TestExtractDateRange(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"01.01.2023 - 31.12.2023 Tarihleri Arası Mizan", "01.01.2023 - 31.12.2023"},
		{"Dönem: 01.01.2024-30.06.2024", "01.01.2024-30.06.2024"},
		{"01.01.2023   -   31.12.2023", "01.01.2023   -   31.12.2023"},
		{"first 01.01.2022 - 31.12.2022 then 01.01.2023 - 31.12.2023", "01.01.2022 - 31.12.2022"},
		{"01/01/2023 - 31/12/2023", ""},
		{"01.01.2023 31.12.2023", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractDateRange(tt.input); got != tt.expected {
				t.Errorf("extractDateRange(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtractCustomerName(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		dateRange string
		expected  string
	}{
		{
			name:      "next line",
			lines:     []string{"01.01.2023 - 31.12.2023", "ACME LTD", "HESAP KODU"},
			dateRange: "01.01.2023 - 31.12.2023",
			expected:  "ACME LTD",
		},
		{
			name:      "skips whitespace lines and trims",
			lines:     []string{"01.01.2023 - 31.12.2023 Mizan", "   ", "\t", "  ACME LTD  "},
			dateRange: "01.01.2023 - 31.12.2023",
			expected:  "ACME LTD",
		},
		{
			name:      "date range on last line",
			lines:     []string{"header", "01.01.2023 - 31.12.2023"},
			dateRange: "01.01.2023 - 31.12.2023",
			expected:  "",
		},
		{
			name:      "only blank lines follow",
			lines:     []string{"01.01.2023 - 31.12.2023", "  "},
			dateRange: "01.01.2023 - 31.12.2023",
			expected:  "",
		},
		{
			name:      "no date range",
			lines:     []string{"ACME LTD"},
			dateRange: "",
			expected:  "",
		},
		{
			name:      "date range not on a single line",
			lines:     []string{"01.01.2023 -", "31.12.2023", "ACME LTD"},
			dateRange: "01.01.2023 -\n31.12.2023",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractCustomerName(tt.lines, tt.dateRange); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractPageNumber(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected string
	}{
		{"spaced", []string{"Sayfa No : 3 / 10"}, "3/10"},
		{"compact", []string{"Sayfa No: 1/4"}, "1/4"},
		{"first caption wins", []string{"x", "Sayfa No 2 / 9", "Sayfa No 3 / 9"}, "2/9"},
		{"caption without counter", []string{"Sayfa No", "Sayfa No 3 / 9"}, ""},
		{"counter without caption", []string{"Page 3 / 9"}, ""},
		{"no lines", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractPageNumber(tt.lines, "Sayfa No"); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines("a\r\nb\n\n  \rc")
	want := []string{"a", "b", "  ", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"01", true},
		{"2023", true},
		{"1a", false},
		{"1.0", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := isAllDigits(tt.input); got != tt.expected {
				t.Errorf("isAllDigits(%q): got %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
