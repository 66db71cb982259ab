package model

import (
	"testing"
	"time"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Year != 2024 || m.Mon != time.March {
		t.Errorf("expected 2024-03, got %v", m)
	}
	if m.String() != "2024-03" {
		t.Errorf("round trip: got %q", m.String())
	}

	if _, err := ParseMonth("03/2024"); err == nil {
		t.Error("expected error for wrong format")
	}
}

func TestMonthArithmetic(t *testing.T) {
	tests := []struct {
		start string
		add   int
		want  string
	}{
		{"2024-01", 1, "2024-02"},
		{"2024-12", 1, "2025-01"},
		{"2024-06", -7, "2023-11"},
		{"2024-06", 0, "2024-06"},
		{"2023-11", 14, "2025-01"},
	}
	for _, tt := range tests {
		start, _ := ParseMonth(tt.start)
		got := start.Add(tt.add)
		if got.String() != tt.want {
			t.Errorf("%s + %d: expected %s, got %s", tt.start, tt.add, tt.want, got)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	a, _ := ParseMonth("2023-11")
	b, _ := ParseMonth("2024-02")
	if got := MonthsBetween(a, b); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := MonthsBetween(b, a); got != -3 {
		t.Errorf("expected -3, got %d", got)
	}
	if got := MonthsBetween(a, a); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestMonthOrdering(t *testing.T) {
	a, _ := ParseMonth("2024-01")
	b, _ := ParseMonth("2024-02")
	if !a.Before(b) || b.Before(a) {
		t.Error("2024-01 should be before 2024-02")
	}
	if !b.After(a) || a.After(b) {
		t.Error("2024-02 should be after 2024-01")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a month is neither before nor after itself")
	}
}

func TestMonthOf(t *testing.T) {
	got := MonthOf(time.Date(2024, time.July, 31, 23, 59, 0, 0, time.UTC))
	if got.String() != "2024-07" {
		t.Errorf("expected 2024-07, got %s", got)
	}
}
