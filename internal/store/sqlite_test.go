package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/insightdelivered/trial-balance-converter/internal/models"
)

func ptr(s string) *string {
	return &s
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "mizan.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	data := &models.ParsedData{
		DateRange:    "01.01.2023 - 31.12.2023",
		CustomerName: "ACME LTD",
		PageNumber:   "3/10",
		LedgerEntries: []models.LedgerEntry{
			{AccountCode: "100", Description: "KASA", Debit: ptr("3.168,81"), Credit: ptr("0,00"), BalanceDebit: ptr("3.168,81"), BalanceCredit: ptr("0,00")},
			{AccountCode: "102 01", Description: "2023 KASA HESABI", Debit: ptr("1.000,00"), Credit: ptr("500,00"), BalanceDebit: ptr("500,00")},
			{AccountCode: "", Description: "", Debit: ptr("1,00"), Credit: ptr("")},
		},
	}

	id, err := s.Save(ctx, "mizan.pdf", data)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if id == "" {
		t.Fatal("expected a document ID")
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Source != "mizan.pdf" {
		t.Errorf("source: got %q, want %q", doc.Source, "mizan.pdf")
	}
	if doc.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if !reflect.DeepEqual(doc.Data.LedgerEntries, data.LedgerEntries) {
		t.Errorf("entries differ after round trip:\ngot  %+v\nwant %+v", doc.Data.LedgerEntries, data.LedgerEntries)
	}
	if doc.Data.PageCount() != "10" {
		t.Errorf("page count: got %q, want %q", doc.Data.PageCount(), "10")
	}
}

func TestStore_AbsentAndEmptyStayDistinct(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, "", &models.ParsedData{
		LedgerEntries: []models.LedgerEntry{{AccountCode: "100", Credit: ptr("")}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	doc, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	e := doc.Data.LedgerEntries[0]
	if e.Debit != nil {
		t.Errorf("absent debit came back as %q", *e.Debit)
	}
	if e.Credit == nil || *e.Credit != "" {
		t.Error("empty credit should come back as an empty string, not absent")
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_List(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	s.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	first, err := s.Save(ctx, "a.pdf", &models.ParsedData{CustomerName: "A", LedgerEntries: []models.LedgerEntry{{AccountCode: "100"}}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := s.Save(ctx, "b.pdf", &models.ParsedData{CustomerName: "B"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	summaries, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(summaries))
	}
	if summaries[0].ID != second || summaries[1].ID != first {
		t.Errorf("expected newest first, got %s then %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[1].EntryCount != 1 || summaries[0].EntryCount != 0 {
		t.Errorf("entry counts: got %d and %d", summaries[0].EntryCount, summaries[1].EntryCount)
	}

	limited, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected limit to apply, got %d", len(limited))
	}
}

func TestStore_ListSubSecondOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	times := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 100_000_000, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 510_000_000, time.UTC),
	}
	calls := 0
	s.now = func() time.Time {
		now := times[calls]
		calls++
		return now
	}

	var ids []string
	for _, source := range []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"} {
		id, err := s.Save(ctx, source, &models.ParsedData{})
		if err != nil {
			t.Fatalf("save %s: %v", source, err)
		}
		ids = append(ids, id)
	}

	summaries, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != len(ids) {
		t.Fatalf("expected %d documents, got %d", len(ids), len(summaries))
	}
	for i, sum := range summaries {
		want := ids[len(ids)-1-i]
		if sum.ID != want {
			t.Errorf("position %d: got %s (%s), want %s", i, sum.Source, sum.CreatedAt.Format(time.RFC3339Nano), want)
		}
		if !sum.CreatedAt.Equal(times[len(times)-1-i]) {
			t.Errorf("position %d: created_at got %v, want %v", i, sum.CreatedAt, times[len(times)-1-i])
		}
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-1, 50},
		{0, 50},
		{1, 1},
		{500, 500},
		{501, 500},
		{1_000_000, 500},
	}

	for _, tt := range tests {
		if got := clampLimit(tt.input); got != tt.expected {
			t.Errorf("clampLimit(%d): got %d, want %d", tt.input, got, tt.expected)
		}
	}
}
