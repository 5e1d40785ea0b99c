// Package memory is an in-memory ledger used in tests and when no
// Google credentials are configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bilans/internal/core"
	"bilans/internal/mirror"
)

type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	incomes  []core.Income
}

var _ mirror.LedgerWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendExpense stores the record and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return fmt.Sprintf("mem:expenses:%d", len(s.expenses)), nil
}

// AppendIncome stores the record and returns a synthetic row reference.
func (s *Store) AppendIncome(_ context.Context, in core.Income) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, in)
	return fmt.Sprintf("mem:incomes:%d", len(s.incomes)), nil
}

// Expenses returns a copy of the appended expense rows.
func (s *Store) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...)
}

// Incomes returns a copy of the appended income rows.
func (s *Store) Incomes() []core.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Income(nil), s.incomes...)
}
