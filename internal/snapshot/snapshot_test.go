package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"bilans/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "snapshot.db"), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReplaceAndLoadExpenses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := []core.Expense{
		{ID: 1, Title: "groceries", Amount: core.Money{Cents: 12345}, Date: "2024-01-05", Category: core.Food},
		{ID: 2, Title: "bus", Amount: core.Money{Cents: 5000}, Date: "2024-02-01", Category: core.Transport},
	}
	if err := s.ReplaceExpenses(ctx, first); err != nil {
		t.Fatalf("ReplaceExpenses: %v", err)
	}

	got, err := s.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Title != "bus" {
		t.Fatalf("unexpected order, first row %+v", got[0])
	}
	if got[1].Amount.Cents != 12345 || got[1].Category != core.Food {
		t.Fatalf("unexpected row %+v", got[1])
	}

	// Replace is wholesale, not additive.
	second := []core.Expense{
		{ID: 3, Title: "pharmacy", Amount: core.Money{Cents: 700}, Date: "2024-03-01", Category: core.Health},
	}
	if err := s.ReplaceExpenses(ctx, second); err != nil {
		t.Fatalf("ReplaceExpenses: %v", err)
	}
	got, err = s.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only the new collection, got %+v", got)
	}
}

func TestReplaceAndLoadIncomes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceIncomes(ctx, []core.Income{
		{ID: 1, Source: "salary", Amount: core.Money{Cents: 90000}, Date: "2024-01-10"},
	}); err != nil {
		t.Fatalf("ReplaceIncomes: %v", err)
	}

	got, err := s.LoadIncomes(ctx)
	if err != nil {
		t.Fatalf("LoadIncomes: %v", err)
	}
	if len(got) != 1 || got[0].Source != "salary" || got[0].Amount.Cents != 90000 {
		t.Fatalf("unexpected incomes %+v", got)
	}
}

func TestLoadEmptySnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expenses, err := s.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(expenses) != 0 {
		t.Fatalf("expected empty snapshot, got %d rows", len(expenses))
	}
	incomes, err := s.LoadIncomes(ctx)
	if err != nil {
		t.Fatalf("LoadIncomes: %v", err)
	}
	if len(incomes) != 0 {
		t.Fatalf("expected empty snapshot, got %d rows", len(incomes))
	}
}

func TestReplaceEmptyClearsTable(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceExpenses(ctx, []core.Expense{
		{ID: 1, Title: "groceries", Amount: core.Money{Cents: 1000}, Date: "2024-01-05", Category: core.Food},
	}); err != nil {
		t.Fatalf("ReplaceExpenses: %v", err)
	}
	if err := s.ReplaceExpenses(ctx, nil); err != nil {
		t.Fatalf("ReplaceExpenses(nil): %v", err)
	}
	got, err := s.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected cleared snapshot, got %d rows", len(got))
	}
}
