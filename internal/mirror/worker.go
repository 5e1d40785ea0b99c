package mirror

import (
	"context"
	"errors"
	"fmt"

	"bilans/internal/log"
	"bilans/internal/session"
)

// Worker turns record change messages into ledger appends. Deletes are
// skipped: an append-only ledger keeps the full history, so a removed
// record simply stops appearing in future appends.
type Worker struct {
	writer LedgerWriter
	logger *log.Logger
}

func NewWorker(writer LedgerWriter, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Worker{writer: writer, logger: logger.WithComponent(log.ComponentMirror)}
}

// HandleRecordChange appends the record carried by the message. An
// error requeues the message, so appends must stay safe to retry.
func (w *Worker) HandleRecordChange(ctx context.Context, change session.RecordChange) error {
	if change.Op == session.OpDelete {
		w.logger.InfoContext(ctx, "Skipping delete, ledger is append-only",
			log.FieldRecordID, change.ID,
			log.FieldOperation, change.Op)
		return nil
	}

	switch change.Kind {
	case session.KindExpense:
		if change.Expense == nil {
			return errors.New("expense change without record")
		}
		ref, err := w.writer.AppendExpense(ctx, *change.Expense)
		if err != nil {
			return fmt.Errorf("append expense %d: %w", change.ID, err)
		}
		w.logger.InfoContext(ctx, "Expense mirrored",
			log.FieldRecordID, change.ID,
			log.FieldOperation, change.Op,
			"row_ref", ref)
	case session.KindIncome:
		if change.Income == nil {
			return errors.New("income change without record")
		}
		ref, err := w.writer.AppendIncome(ctx, *change.Income)
		if err != nil {
			return fmt.Errorf("append income %d: %w", change.ID, err)
		}
		w.logger.InfoContext(ctx, "Income mirrored",
			log.FieldRecordID, change.ID,
			log.FieldOperation, change.Op,
			"row_ref", ref)
	default:
		return fmt.Errorf("unknown record kind %q", change.Kind)
	}
	return nil
}
