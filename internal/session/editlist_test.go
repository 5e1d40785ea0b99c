package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"bilans/internal/core"
	"bilans/internal/stats"
)

func seededList(t *testing.T, store *fakeStore) (*Dashboard, *ExpenseEditList) {
	t.Helper()
	d := NewDashboard(store, nil, nil, nil)
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	return d, NewExpenseEditList(d, nil)
}

func TestEditSeedsDraftFromRow(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(5, "groceries", 12345, "2024-01-05T00:00:00Z", core.Food))
	_, l := seededList(t, store)

	if err := l.Edit(5); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	draft := l.Draft()
	if draft.Title != "groceries" || draft.Amount != "123.45" {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if draft.Date != "2024-01-05" {
		t.Fatalf("date not truncated for editing: %q", draft.Date)
	}
	if draft.Category != "Food" {
		t.Fatalf("unexpected category %q", draft.Category)
	}
}

func TestEditUnknownRow(t *testing.T) {
	store := newFakeStore()
	_, l := seededList(t, store)
	if err := l.Edit(99); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound, got %v", err)
	}
}

func TestSecondEditRejected(t *testing.T) {
	store := newFakeStore()
	store.seed(
		expense(1, "groceries", 10000, "2024-01-05", core.Food),
		expense(2, "bus", 5000, "2024-01-06", core.Transport),
	)
	_, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.Edit(2); !errors.Is(err, ErrAlreadyEdited) {
		t.Fatalf("expected ErrAlreadyEdited, got %v", err)
	}
	// Re-entering the same row is a no-op, not an error.
	if err := l.Edit(1); err != nil {
		t.Fatalf("re-edit of same row: %v", err)
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(1, "groceries", 10000, "2024-01-05", core.Food))
	d, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.SetDraft(ExpenseDraftFields{Title: "changed", Amount: "1", Date: "2024-01-05", Category: "Food"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	l.Cancel()

	if l.Editing() != 0 {
		t.Fatal("cancel must leave edit mode")
	}
	if got := d.Expenses()[0].Title; got != "groceries" {
		t.Fatalf("cancel must not change the row, got %q", got)
	}
}

func TestSaveInvalidDraftStaysEditing(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(1, "groceries", 10000, "2024-01-05", core.Food))
	_, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.SetDraft(ExpenseDraftFields{Title: "   ", Amount: "10", Date: "2024-01-05", Category: "Food"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	listCallsBefore := store.listExpenseCalls

	if err := l.Save(context.Background()); !errors.Is(err, core.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
	if l.Editing() != 1 {
		t.Fatal("row must stay in edit mode after validation failure")
	}
	if l.Draft().Title != "   " {
		t.Fatal("draft must be preserved for correction")
	}
	if store.listExpenseCalls != listCallsBefore {
		t.Fatal("validation failure must not reach the store")
	}
}

func TestSaveCommitsAndExitsEditMode(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(1, "groceries", 10000, "2024-01-05", core.Food))
	d, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.SetDraft(ExpenseDraftFields{Title: "market", Amount: "150,50", Date: "2024-01-07", Category: "Food"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	if err := l.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if l.Editing() != 0 {
		t.Fatal("save must leave edit mode")
	}
	row := d.Expenses()[0]
	if row.Title != "market" || row.Amount.Cents != 15050 || row.Date != "2024-01-07" {
		t.Fatalf("unexpected row after save %+v", row)
	}
}

func TestSaveCommitFailureKeepsEditSession(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(1, "groceries", 10000, "2024-01-05", core.Food))
	_, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.SetDraft(ExpenseDraftFields{Title: "market", Amount: "10", Date: "2024-01-05", Category: "Food"}); err != nil {
		t.Fatalf("SetDraft: %v", err)
	}
	store.failUpdate = true
	if err := l.Save(context.Background()); err == nil {
		t.Fatal("expected commit error")
	}
	if l.Editing() != 1 || l.Draft().Title != "market" {
		t.Fatal("failed commit must preserve the edit session")
	}
}

func TestDeleteWhileEditingCancelsFirst(t *testing.T) {
	store := newFakeStore()
	store.seed(expense(1, "groceries", 10000, "2024-01-05", core.Food))
	d, l := seededList(t, store)

	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := l.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if l.Editing() != 0 {
		t.Fatal("deleting the edited row must cancel the edit")
	}
	if len(d.Expenses()) != 0 {
		t.Fatal("row not removed")
	}
}

func TestDeleteClampsPage(t *testing.T) {
	store := newFakeStore()
	for i := 1; i <= 11; i++ {
		store.seed(expense(int64(i), fmt.Sprintf("row %d", i), 1000, "2024-01-05", core.Food))
	}
	_, l := seededList(t, store)

	all, page := l.Rows()
	if len(all) != 11 || len(page) != 10 {
		t.Fatalf("unexpected initial view: %d total, %d on page", len(all), len(page))
	}
	l.Pager().Next(len(all))
	if l.Pager().Page() != 2 {
		t.Fatalf("expected page 2, got %d", l.Pager().Page())
	}

	// Removing the sole row of page 2 must pull the view back to page 1.
	if err := l.Delete(context.Background(), 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if l.Pager().Page() != 1 {
		t.Fatalf("expected clamp to page 1, got %d", l.Pager().Page())
	}
	_, page = l.Rows()
	if len(page) != 10 {
		t.Fatalf("expected full page after clamp, got %d rows", len(page))
	}
}

func TestCategoryScopeNarrowsRows(t *testing.T) {
	store := newFakeStore()
	store.seed(
		expense(1, "groceries", 10000, "2024-01-05", core.Food),
		expense(2, "bus", 5000, "2024-01-06", core.Transport),
		expense(3, "market", 3000, "2024-01-07", core.Food),
	)
	_, l := seededList(t, store)

	l.SetCategoryScope(core.Food)
	all, _ := l.Rows()
	if len(all) != 2 {
		t.Fatalf("expected 2 Food rows, got %d", len(all))
	}
	for _, e := range all {
		if e.Category != core.Food {
			t.Fatalf("foreign category in scoped rows: %+v", e)
		}
	}

	// The empty scope shows everything again.
	l.SetCategoryScope("")
	if all, _ := l.Rows(); len(all) != 3 {
		t.Fatalf("expected all rows after clearing scope, got %d", len(all))
	}
}

func TestSearchQueryNarrowsByTitle(t *testing.T) {
	store := newFakeStore()
	store.seed(
		expense(1, "Weekly Groceries", 10000, "2024-01-05", core.Food),
		expense(2, "bus ticket", 5000, "2024-01-06", core.Transport),
		expense(3, "groceries again", 3000, "2024-01-07", core.Food),
	)
	_, l := seededList(t, store)

	// Case-insensitive substring match, like typing in a search box.
	l.SetSearchQuery("GROC")
	all, _ := l.Rows()
	if len(all) != 2 {
		t.Fatalf("expected 2 matching rows, got %d", len(all))
	}
	for _, e := range all {
		if e.ID == 2 {
			t.Fatalf("non-matching row in results: %+v", e)
		}
	}

	l.SetSearchQuery("")
	if all, _ := l.Rows(); len(all) != 3 {
		t.Fatalf("expected all rows after clearing query, got %d", len(all))
	}
}

func TestScopesCombineWithFilterAndEachOther(t *testing.T) {
	store := newFakeStore()
	store.seed(
		expense(1, "groceries", 10000, "2024-01-05", core.Food),
		expense(2, "groceries", 5000, "2023-06-01", core.Food),
		expense(3, "grocery run", 3000, "2024-01-07", core.Transport),
	)
	d, l := seededList(t, store)
	if err := d.SetFilter(context.Background(), stats.Filter{Year: "2024", Month: stats.All}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}

	l.SetCategoryScope(core.Food)
	l.SetSearchQuery("groc")
	all, _ := l.Rows()
	if len(all) != 1 || all[0].ID != 1 {
		t.Fatalf("expected only the 2024 Food grocery row, got %+v", all)
	}
}

func TestNarrowingResetsPage(t *testing.T) {
	store := newFakeStore()
	for i := 1; i <= 11; i++ {
		store.seed(expense(int64(i), fmt.Sprintf("row %d", i), 1000, "2024-01-05", core.Food))
	}
	_, l := seededList(t, store)

	all, _ := l.Rows()
	l.Pager().Next(len(all))
	if l.Pager().Page() != 2 {
		t.Fatalf("expected page 2, got %d", l.Pager().Page())
	}

	l.SetSearchQuery("row 1")
	if l.Pager().Page() != 1 {
		t.Fatalf("narrowing must reset to page 1, got %d", l.Pager().Page())
	}
	all, _ = l.Rows()
	// "row 1", "row 10", "row 11"
	if len(all) != 3 {
		t.Fatalf("expected 3 matching rows, got %d", len(all))
	}
}

func TestEditRowOutsideScopeRejected(t *testing.T) {
	store := newFakeStore()
	store.seed(
		expense(1, "groceries", 10000, "2024-01-05", core.Food),
		expense(2, "bus", 5000, "2024-01-06", core.Transport),
	)
	_, l := seededList(t, store)

	l.SetCategoryScope(core.Food)
	if err := l.Edit(2); !errors.Is(err, ErrRowNotFound) {
		t.Fatalf("expected ErrRowNotFound for row hidden by scope, got %v", err)
	}
	if err := l.Edit(1); err != nil {
		t.Fatalf("Edit within scope: %v", err)
	}
}

func TestIncomeListPaginationAndDelete(t *testing.T) {
	store := newFakeStore()
	for i := 1; i <= 11; i++ {
		store.incomes = append(store.incomes, core.Income{
			ID: int64(i), Source: "salary", Amount: core.Money{Cents: 1000}, Date: "2024-01-05",
		})
	}
	store.nextID = 12
	d := NewDashboard(store, nil, nil, nil)
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	l := NewIncomeList(d)

	all, page := l.Rows()
	if len(all) != 11 || len(page) != 10 {
		t.Fatalf("unexpected income view: %d total, %d on page", len(all), len(page))
	}
	l.Pager().Next(len(all))
	if err := l.Delete(context.Background(), 11); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if l.Pager().Page() != 1 {
		t.Fatalf("expected clamp to page 1, got %d", l.Pager().Page())
	}
}
