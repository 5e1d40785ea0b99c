package session

import (
	"context"

	"bilans/internal/core"
	"bilans/internal/stats"
)

// RecordStore is the outbound port to the remote record store. The
// store owns every record and assigns all identifiers; the session only
// ever replaces its local view wholesale from what the store returns.
type RecordStore interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id int64, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error

	ListIncomes(ctx context.Context) ([]core.Income, error)
	CreateIncome(ctx context.Context, in core.Income) (core.Income, error)
	DeleteIncome(ctx context.Context, id int64) error

	IncomeTotals(ctx context.Context, filter stats.Filter) (stats.IncomeTotals, error)
}

// ChangePublisher receives a notification after every committed
// mutation. Implementations must tolerate being nil-checked away.
type ChangePublisher interface {
	PublishRecordChange(ctx context.Context, change RecordChange) error
}

// SnapshotStore persists the last successfully fetched collections so a
// dashboard can still render when the remote store is unreachable.
type SnapshotStore interface {
	ReplaceExpenses(ctx context.Context, expenses []core.Expense) error
	ReplaceIncomes(ctx context.Context, incomes []core.Income) error
	LoadExpenses(ctx context.Context) ([]core.Expense, error)
	LoadIncomes(ctx context.Context) ([]core.Income, error)
}

// RecordChange operation and kind values.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"

	KindExpense = "expense"
	KindIncome  = "income"
)

// RecordChange describes one committed mutation. The full record rides
// along for create/update so downstream consumers never need to query
// the store; deletes carry only the id.
type RecordChange struct {
	Op      string        `json:"op"`   // create, update, delete
	Kind    string        `json:"kind"` // expense, income
	ID      int64         `json:"id"`
	Expense *core.Expense `json:"expense,omitempty"`
	Income  *core.Income  `json:"income,omitempty"`
}
