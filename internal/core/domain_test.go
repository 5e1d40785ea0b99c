package core

import (
	"errors"
	"testing"
)

func TestDateYearMonth(t *testing.T) {
	cases := []struct {
		date  string
		year  string
		month string
		ok    bool
	}{
		{"2024-01-05", "2024", "01", true},
		{"2023-12-31", "2023", "12", true},
		{"2024-01-05T10:30:00Z", "2024", "01", true},
		{"garbage", "", "", false},
		{"2024-13-01", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		y, ok := DateYear(tc.date)
		if ok != tc.ok || y != tc.year {
			t.Fatalf("DateYear(%q) = %q, %v; want %q, %v", tc.date, y, ok, tc.year, tc.ok)
		}
		m, ok := DateMonth(tc.date)
		if ok != tc.ok || m != tc.month {
			t.Fatalf("DateMonth(%q) = %q, %v; want %q, %v", tc.date, m, ok, tc.month, tc.ok)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if c, err := ParseCategory(" Food "); err != nil || c != Food {
		t.Fatalf("expected Food, got %q (err=%v)", c, err)
	}
	if _, err := ParseCategory("Groceries"); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
	if _, err := ParseCategory(""); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory for empty, got %v", err)
	}
}

func TestExpenseDraftValidate(t *testing.T) {
	good := ExpenseDraft{Title: "  Lunch  ", Amount: "12.50", Date: "2024-01-05", Category: "Food"}
	exp, err := good.Validate()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if exp.Title != "Lunch" {
		t.Fatalf("expected title trimmed, got %q", exp.Title)
	}
	if exp.Amount.Cents != 1250 {
		t.Fatalf("expected 1250 cents, got %d", exp.Amount.Cents)
	}
	if exp.Category != Food {
		t.Fatalf("expected Food, got %q", exp.Category)
	}

	cases := []struct {
		name  string
		draft ExpenseDraft
		want  error
	}{
		{"empty title", ExpenseDraft{Title: "", Amount: "1", Date: "2024-01-05", Category: "Food"}, ErrMissingTitle},
		{"whitespace title", ExpenseDraft{Title: "   ", Amount: "1", Date: "2024-01-05", Category: "Food"}, ErrMissingTitle},
		{"non-numeric amount", ExpenseDraft{Title: "a", Amount: "abc", Date: "2024-01-05", Category: "Food"}, ErrInvalidAmount},
		{"zero amount", ExpenseDraft{Title: "a", Amount: "0", Date: "2024-01-05", Category: "Food"}, ErrInvalidAmount},
		{"negative amount", ExpenseDraft{Title: "a", Amount: "-5", Date: "2024-01-05", Category: "Food"}, ErrInvalidAmount},
		{"missing date", ExpenseDraft{Title: "a", Amount: "1", Date: "", Category: "Food"}, ErrMissingDate},
		{"malformed date", ExpenseDraft{Title: "a", Amount: "1", Date: "January 5", Category: "Food"}, ErrMissingDate},
		{"missing category", ExpenseDraft{Title: "a", Amount: "1", Date: "2024-01-05", Category: ""}, ErrInvalidCategory},
		{"unknown category", ExpenseDraft{Title: "a", Amount: "1", Date: "2024-01-05", Category: "Pets"}, ErrInvalidCategory},
	}
	for _, tc := range cases {
		if _, err := tc.draft.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestExpenseDraftValidateOrder(t *testing.T) {
	// Several fields invalid at once: the first failing check wins.
	draft := ExpenseDraft{Title: "", Amount: "abc", Date: "", Category: "Pets"}
	if _, err := draft.Validate(); !errors.Is(err, ErrMissingTitle) {
		t.Fatalf("expected title error first, got %v", err)
	}
	draft.Title = "a"
	if _, err := draft.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected amount error second, got %v", err)
	}
	draft.Amount = "1"
	if _, err := draft.Validate(); !errors.Is(err, ErrMissingDate) {
		t.Fatalf("expected date error third, got %v", err)
	}
	draft.Date = "2024-01-05"
	if _, err := draft.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected category error last, got %v", err)
	}
}

func TestIncomeDraftValidate(t *testing.T) {
	good := IncomeDraft{Source: " Salary ", Amount: "1000", Date: "2024-02-01"}
	inc, err := good.Validate()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if inc.Source != "Salary" || inc.Amount.Cents != 100000 {
		t.Fatalf("unexpected normalized income: %+v", inc)
	}

	if _, err := (IncomeDraft{Source: " ", Amount: "1", Date: "2024-02-01"}).Validate(); !errors.Is(err, ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
	if _, err := (IncomeDraft{Source: "a", Amount: "x", Date: "2024-02-01"}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := (IncomeDraft{Source: "a", Amount: "1", Date: ""}).Validate(); !errors.Is(err, ErrMissingDate) {
		t.Fatalf("expected ErrMissingDate, got %v", err)
	}
}

func TestTruncateDate(t *testing.T) {
	if got := TruncateDate("2024-01-05T10:30:00Z"); got != "2024-01-05" {
		t.Fatalf("expected truncated date, got %q", got)
	}
	if got := TruncateDate("2024-01-05"); got != "2024-01-05" {
		t.Fatalf("expected unchanged date, got %q", got)
	}
}
