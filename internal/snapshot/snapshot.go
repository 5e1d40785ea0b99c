// Package snapshot persists the last successfully fetched record
// collections in a local SQLite database. The remote store stays the
// single source of truth; the snapshot only lets the dashboard render
// last-known figures when the store is unreachable.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bilans/internal/core"
	"bilans/internal/log"
	"bilans/internal/session"
)

// Store is a SQLite-backed session.SnapshotStore. Each Replace call
// rewrites a whole table in one transaction, mirroring the wholesale
// refetch that produced the data.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ session.SnapshotStore = (*Store)(nil)

func New(dbPath string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Store{db: db, logger: logger.WithComponent(log.ComponentSnapshot)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ReplaceExpenses rewrites the expense table with the given collection.
func (s *Store) ReplaceExpenses(ctx context.Context, expenses []core.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	for _, e := range expenses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, title, amount_cents, date, category) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Amount.Cents, e.Date, string(e.Category))
		if err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expenses: %w", err)
	}

	s.logger.DebugContext(ctx, "Expense snapshot replaced", log.FieldCount, len(expenses))
	return nil
}

// ReplaceIncomes rewrites the income table with the given collection.
func (s *Store) ReplaceIncomes(ctx context.Context, incomes []core.Income) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM incomes`); err != nil {
		return fmt.Errorf("clear incomes: %w", err)
	}
	for _, in := range incomes {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (id, source, amount_cents, date) VALUES (?, ?, ?, ?)`,
			in.ID, in.Source, in.Amount.Cents, in.Date)
		if err != nil {
			return fmt.Errorf("insert income %d: %w", in.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit incomes: %w", err)
	}

	s.logger.DebugContext(ctx, "Income snapshot replaced", log.FieldCount, len(incomes))
	return nil
}

// LoadExpenses returns the persisted expense collection.
func (s *Store) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, date, category FROM expenses ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var category string
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount.Cents, &e.Date, &category); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = core.Category(category)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

// LoadIncomes returns the persisted income collection.
func (s *Store) LoadIncomes(ctx context.Context) ([]core.Income, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, amount_cents, date FROM incomes ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var incomes []core.Income
	for rows.Next() {
		var in core.Income
		if err := rows.Scan(&in.ID, &in.Source, &in.Amount.Cents, &in.Date); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		incomes = append(incomes, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incomes: %w", err)
	}
	return incomes, nil
}
