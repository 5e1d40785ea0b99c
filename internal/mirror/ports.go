// Package mirror appends committed records to an external ledger. The
// mirror is write-only and append-only; it never feeds data back into
// the tracker.
package mirror

import (
	"context"

	"bilans/internal/core"
)

// LedgerWriter is the outbound port to a ledger backend.
type LedgerWriter interface {
	AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	AppendIncome(ctx context.Context, in core.Income) (rowRef string, err error)
}
