package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func validRecord(name string, d int, sheet string) *Record {
	return &Record{
		Name:      name,
		Amount:    decimal.NewFromInt(50),
		Date:      day(d),
		Verified:  VerifiedNo,
		SheetName: sheet,
	}
}

func TestMemoryStore_Insert(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r := validRecord("Bob", 10, "June")
	if err := s.Insert(ctx, r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if r.ID == 0 {
		t.Error("Insert() did not assign an ID")
	}
	if r.ImportedAt.IsZero() {
		t.Error("Insert() did not stamp ImportedAt")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestRecord_Normalize(t *testing.T) {
	r := &Record{Name: "  Bob  "}
	r.Normalize()
	if r.Name != "Bob" {
		t.Errorf("Name = %q, want trimmed %q", r.Name, "Bob")
	}
	if r.Verified != VerifiedNo {
		t.Errorf("Verified = %q, want default %q", r.Verified, VerifiedNo)
	}
}

func TestInsert_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"blank name", func(r *Record) { r.Name = "   " }},
		{"negative amount", func(r *Record) { r.Amount = decimal.NewFromInt(-1) }},
		{"zero date", func(r *Record) { r.Date = time.Time{} }},
		{"bad verified value", func(r *Record) { r.Verified = "Maybe" }},
		{"empty sheet name", func(r *Record) { r.SheetName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			r := validRecord("Bob", 10, "June")
			tt.mutate(r)

			err := s.Insert(context.Background(), r)
			if err == nil {
				t.Fatal("Insert() expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Insert() error = %v, want ErrInvalid", err)
			}
			if s.Len() != 0 {
				t.Errorf("Len() = %d after failed insert, want 0", s.Len())
			}
		})
	}
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		if err := s.Insert(ctx, validRecord("Bob", i, "June")); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Insert(ctx, validRecord("Alice", 20, "July")); err != nil {
		t.Fatal(err)
	}

	// Unfiltered, default paging
	res, err := s.List(ctx, ListParams{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(res.Records) != 10 {
		t.Errorf("page 1 records = %d, want 10", len(res.Records))
	}
	if res.TotalPages != 2 {
		t.Errorf("totalPages = %d, want 2", res.TotalPages)
	}
	if res.CurrentPage != 1 {
		t.Errorf("currentPage = %d, want 1", res.CurrentPage)
	}

	// Sorted by date descending across sheets
	if !res.Records[0].Date.Equal(day(20)) {
		t.Errorf("first record date = %v, want %v", res.Records[0].Date, day(20))
	}

	// Sheet filter is exact match
	res, err = s.List(ctx, ListParams{SheetName: "July"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "Alice" {
		t.Errorf("filtered records = %v, want one Alice record", res.Records)
	}
	if res.TotalPages != 1 {
		t.Errorf("filtered totalPages = %d, want 1", res.TotalPages)
	}

	// Page past the end is empty, not an error
	res, err = s.List(ctx, ListParams{Page: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 0 {
		t.Errorf("page 5 records = %d, want 0", len(res.Records))
	}
}

func TestMemoryStore_ListEmpty(t *testing.T) {
	s := NewMemoryStore()

	res, err := s.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.TotalPages != 0 {
		t.Errorf("totalPages = %d, want 0 for empty store", res.TotalPages)
	}
	if len(res.Records) != 0 {
		t.Errorf("records = %d, want 0", len(res.Records))
	}
}
