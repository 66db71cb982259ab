package ingest

import (
	"testing"

	"LedgerCast/internal/model"
)

func TestNormalize_BasicRow(t *testing.T) {
	n := NewNormalizer(nil, nil)
	rec, ok := n.Normalize(RawRow{Date: "2024-03-15", Category: "Groceries", Amount: "-42.50"})
	if !ok {
		t.Fatal("expected row to normalize")
	}
	if rec.Category != "groceries" {
		t.Errorf("expected folded category, got %q", rec.Category)
	}
	if rec.Amount.String() != "-42.5" {
		t.Errorf("expected -42.5, got %s", rec.Amount)
	}
	if rec.Month().String() != "2024-03" {
		t.Errorf("expected month 2024-03, got %s", rec.Month())
	}
}

func TestNormalize_SkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
	}{
		{"bad date", RawRow{Date: "not-a-date", Category: "rent", Amount: "100"}},
		{"bad amount", RawRow{Date: "2024-01-02", Category: "rent", Amount: "one hundred"}},
		{"empty category", RawRow{Date: "2024-01-02", Category: "   ", Amount: "100"}},
		{"empty date", RawRow{Date: "", Category: "rent", Amount: "100"}},
	}
	n := NewNormalizer(nil, nil)
	for _, tt := range tests {
		if _, ok := n.Normalize(tt.row); ok {
			t.Errorf("%s: expected row to be rejected", tt.name)
		}
	}
	if n.Skipped() != len(tests) {
		t.Errorf("expected %d skipped, got %d", len(tests), n.Skipped())
	}
}

func TestNormalize_SynonymMapping(t *testing.T) {
	n := NewNormalizer(map[string]string{"Supermarket": "Groceries"}, nil)
	rec, ok := n.Normalize(RawRow{Date: "2024-01-02", Category: "  SUPERMARKET ", Amount: "10"})
	if !ok {
		t.Fatal("expected row to normalize")
	}
	if rec.Category != "groceries" {
		t.Errorf("expected synonym to map to groceries, got %q", rec.Category)
	}
}

func TestNormalize_SignCoercion(t *testing.T) {
	types := map[string]model.CategoryType{
		"rent":   model.CategoryExpense,
		"salary": model.CategoryIncome,
	}
	n := NewNormalizer(nil, types)

	tests := []struct {
		category string
		amount   string
		want     string
	}{
		{"rent", "1000", "-1000"},    // expense coerced negative
		{"rent", "-1000", "-1000"},   // already negative stays
		{"salary", "-2500", "2500"},  // income coerced positive
		{"salary", "2500", "2500"},   //
		{"unknown", "-77", "-77"},    // no lookup entry: pass through
		{"unknown", "77", "77"},      //
	}
	for _, tt := range tests {
		rec, ok := n.Normalize(RawRow{Date: "2024-01-02", Category: tt.category, Amount: tt.amount})
		if !ok {
			t.Fatalf("%s/%s: expected row to normalize", tt.category, tt.amount)
		}
		if rec.Amount.String() != tt.want {
			t.Errorf("%s/%s: expected %s, got %s", tt.category, tt.amount, tt.want, rec.Amount)
		}
	}
}

func TestParseAmount_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1,234.56", "1234.56"},
		{"$99.90", "99.9"},
		{"-$12.50", "-12.5"},
		{"(123.45)", "-123.45"},
		{" 7 ", "7"},
	}
	for _, tt := range tests {
		d, err := parseAmount(tt.in)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.want, d)
		}
	}
}

func TestFoldLabel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  Food  Delivery ", "food delivery"},
		{"RENT", "rent"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := foldLabel(tt.in); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource("does/not/exist.csv", CSVColumns{})
	if _, err := src.Rows(); err == nil {
		t.Error("expected error for missing file")
	}
}
