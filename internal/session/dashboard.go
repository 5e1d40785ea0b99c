// Package session holds the process-local UI state of the tracker: the
// active filter, the fetched record collections, the inline edit
// session and pagination. All consistency with the remote store follows
// one discipline: commit, then refetch wholesale. Local state is never
// patched optimistically.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bilans/internal/cache"
	"bilans/internal/core"
	"bilans/internal/log"
	"bilans/internal/stats"
)

// ErrRowBusy is returned when a row already has a mutation in flight.
// A row's controls are the serialization boundary, not a global lock.
var ErrRowBusy = errors.New("row has a pending operation")

const (
	defaultStatsCacheSize = 64
	defaultStatsCacheTTL  = 5 * time.Minute
)

// Dashboard coordinates the record collections, the active filter and
// every mutation against the remote store.
type Dashboard struct {
	store     RecordStore
	publisher ChangePublisher
	snapshots SnapshotStore
	logger    *log.Logger

	statsCache *cache.LRU[stats.IncomeTotals]

	mu       sync.Mutex
	filter   stats.Filter
	expenses []core.Expense
	incomes  []core.Income
	years    []string
	income   stats.IncomeTotals
	pending  map[int64]struct{}
	fetchSeq uint64
}

// NewDashboard wires a dashboard to its collaborators. publisher and
// snapshots may be nil; the corresponding side effects are skipped.
func NewDashboard(store RecordStore, publisher ChangePublisher, snapshots SnapshotStore, logger *log.Logger) *Dashboard {
	return NewDashboardWithCache(store, publisher, snapshots, logger, defaultStatsCacheSize, defaultStatsCacheTTL)
}

// NewDashboardWithCache wires a dashboard with an explicitly sized
// income-totals cache. Non-positive values fall back to defaults.
func NewDashboardWithCache(store RecordStore, publisher ChangePublisher, snapshots SnapshotStore, logger *log.Logger, cacheSize int, cacheTTL time.Duration) *Dashboard {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if cacheSize <= 0 {
		cacheSize = defaultStatsCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultStatsCacheTTL
	}
	return &Dashboard{
		store:      store,
		publisher:  publisher,
		snapshots:  snapshots,
		logger:     logger.WithComponent(log.ComponentSession),
		statsCache: cache.NewLRU[stats.IncomeTotals](cacheSize, cacheTTL),
		filter:     stats.Everything(),
		pending:    map[int64]struct{}{},
	}
}

// Filter returns the active year/month scope.
func (d *Dashboard) Filter() stats.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Years returns the selectable years, derived from the full unfiltered
// collection at the last refresh.
func (d *Dashboard) Years() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.years...)
}

// Expenses returns a copy of the full fetched expense collection.
func (d *Dashboard) Expenses() []core.Expense {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]core.Expense(nil), d.expenses...)
}

// FilteredExpenses returns the expenses visible under the active filter.
func (d *Dashboard) FilteredExpenses() []core.Expense {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []core.Expense
	for _, e := range d.expenses {
		if d.filter.Matches(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Incomes returns a copy of the fetched income collection.
func (d *Dashboard) Incomes() []core.Income {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]core.Income(nil), d.incomes...)
}

// Summary aggregates the current state. Pure with respect to the
// fetched collections; calling it never triggers I/O.
func (d *Dashboard) Summary() stats.Summary {
	d.mu.Lock()
	expenses := append([]core.Expense(nil), d.expenses...)
	filter := d.filter
	income := d.income
	d.mu.Unlock()
	return stats.Compute(expenses, filter, income)
}

// SetFilter changes the active scope and refetches the server-side
// income totals for it. The expense collection is already local, so a
// filter change costs exactly one aggregate request (or none on a cache
// hit within the TTL).
func (d *Dashboard) SetFilter(ctx context.Context, filter stats.Filter) error {
	d.mu.Lock()
	previous := d.filter
	d.filter = filter
	seq := d.nextFetchLocked()
	d.mu.Unlock()

	totals, err := d.incomeTotals(ctx, filter)
	if err != nil {
		// Failed fetch: restore the previous scope so the summary never
		// pairs one filter's expenses with another filter's totals.
		d.mu.Lock()
		if d.fetchCurrentLocked(seq) {
			d.filter = previous
		}
		d.mu.Unlock()
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fetchCurrentLocked(seq) {
		d.logger.DebugContext(ctx, "Discarding stale income totals", log.FieldFilter, filter.String())
		return nil
	}
	d.income = totals
	return nil
}

// Refresh refetches the authoritative collections and the income totals
// for the active filter, replacing local state wholesale. A response is
// applied only if no newer fetch has been issued since (stale-response
// guard).
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.mu.Lock()
	filter := d.filter
	seq := d.nextFetchLocked()
	d.mu.Unlock()

	var (
		expenses []core.Expense
		incomes  []core.Income
		totals   stats.IncomeTotals
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = d.store.ListExpenses(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = d.store.ListIncomes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = d.incomeTotals(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	d.mu.Lock()
	if !d.fetchCurrentLocked(seq) {
		d.mu.Unlock()
		d.logger.DebugContext(ctx, "Discarding stale refresh", log.FieldFilter, filter.String())
		return nil
	}
	d.expenses = expenses
	d.incomes = incomes
	d.years = stats.DeriveYears(expenses)
	d.income = totals
	d.mu.Unlock()

	d.logger.DebugContext(ctx, "Collections refreshed",
		log.FieldFilter, filter.String(),
		log.FieldCount, len(expenses))

	d.saveSnapshot(ctx, expenses, incomes)
	return nil
}

// RestoreSnapshot loads the last persisted collections. Used when the
// remote store is unreachable at startup; figures rendered from a
// snapshot are last-known, not authoritative.
func (d *Dashboard) RestoreSnapshot(ctx context.Context) error {
	if d.snapshots == nil {
		return errors.New("no snapshot store configured")
	}
	expenses, err := d.snapshots.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load expense snapshot: %w", err)
	}
	incomes, err := d.snapshots.LoadIncomes(ctx)
	if err != nil {
		return fmt.Errorf("load income snapshot: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.expenses = expenses
	d.incomes = incomes
	d.years = stats.DeriveYears(expenses)
	return nil
}

// CreateExpense validates the draft, commits it and refreshes. A
// validation failure never reaches the network; a transport failure
// leaves local state untouched so the user can correct and retry.
func (d *Dashboard) CreateExpense(ctx context.Context, draft core.ExpenseDraft) error {
	record, err := draft.Validate()
	if err != nil {
		return err
	}
	// Creation has no row yet, so it never contends with pending rows.
	created, err := d.store.CreateExpense(ctx, record)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "Expense created",
		log.FieldRecordID, created.ID,
		log.FieldAmount, created.Amount.Cents,
		log.FieldCategory, string(created.Category))
	d.publishChange(ctx, RecordChange{Op: OpCreate, Kind: KindExpense, ID: created.ID, Expense: &created})
	return d.commitRefresh(ctx)
}

// UpdateExpense commits an already-validated record over the row with
// the given id, then refreshes.
func (d *Dashboard) UpdateExpense(ctx context.Context, id int64, record core.Expense) error {
	if !d.acquireRow(id) {
		return ErrRowBusy
	}
	defer d.releaseRow(id)

	updated, err := d.store.UpdateExpense(ctx, id, record)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "Expense updated",
		log.FieldRecordID, id,
		log.FieldAmount, updated.Amount.Cents)
	d.publishChange(ctx, RecordChange{Op: OpUpdate, Kind: KindExpense, ID: id, Expense: &updated})
	return d.commitRefresh(ctx)
}

// DeleteExpense removes the row with the given id, then refreshes. A
// failed delete is reported and leaves the row in place.
func (d *Dashboard) DeleteExpense(ctx context.Context, id int64) error {
	if !d.acquireRow(id) {
		return ErrRowBusy
	}
	defer d.releaseRow(id)

	if err := d.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "Expense deleted", log.FieldRecordID, id)
	d.publishChange(ctx, RecordChange{Op: OpDelete, Kind: KindExpense, ID: id})
	return d.commitRefresh(ctx)
}

// CreateIncome validates and commits a new income record, then refreshes.
func (d *Dashboard) CreateIncome(ctx context.Context, draft core.IncomeDraft) error {
	record, err := draft.Validate()
	if err != nil {
		return err
	}
	created, err := d.store.CreateIncome(ctx, record)
	if err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "Income created",
		log.FieldRecordID, created.ID,
		log.FieldAmount, created.Amount.Cents)
	d.publishChange(ctx, RecordChange{Op: OpCreate, Kind: KindIncome, ID: created.ID, Income: &created})
	return d.commitRefresh(ctx)
}

// DeleteIncome removes an income record, then refreshes.
func (d *Dashboard) DeleteIncome(ctx context.Context, id int64) error {
	if !d.acquireRow(id) {
		return ErrRowBusy
	}
	defer d.releaseRow(id)

	if err := d.store.DeleteIncome(ctx, id); err != nil {
		return err
	}
	d.logger.InfoContext(ctx, "Income deleted", log.FieldRecordID, id)
	d.publishChange(ctx, RecordChange{Op: OpDelete, Kind: KindIncome, ID: id})
	return d.commitRefresh(ctx)
}

// commitRefresh runs the mandatory post-commit refresh. Cached income
// totals are dropped first so the refetch sees the committed write.
func (d *Dashboard) commitRefresh(ctx context.Context) error {
	d.statsCache.Clear()
	return d.Refresh(ctx)
}

func (d *Dashboard) incomeTotals(ctx context.Context, filter stats.Filter) (stats.IncomeTotals, error) {
	key := filter.String()
	if totals, ok := d.statsCache.Get(key); ok {
		return totals, nil
	}
	totals, err := d.store.IncomeTotals(ctx, filter)
	if err != nil {
		return stats.IncomeTotals{}, err
	}
	d.statsCache.Set(key, totals)
	return totals, nil
}

func (d *Dashboard) publishChange(ctx context.Context, change RecordChange) {
	if d.publisher == nil {
		return
	}
	// A failed publish never fails the mutation; the store commit is done.
	if err := d.publisher.PublishRecordChange(ctx, change); err != nil {
		d.logger.ErrorContext(ctx, "Failed to publish record change",
			log.FieldError, err,
			log.FieldOperation, change.Op,
			log.FieldRecordID, change.ID)
	}
}

func (d *Dashboard) saveSnapshot(ctx context.Context, expenses []core.Expense, incomes []core.Income) {
	if d.snapshots == nil {
		return
	}
	if err := d.snapshots.ReplaceExpenses(ctx, expenses); err != nil {
		d.logger.WarnContext(ctx, "Failed to snapshot expenses", log.FieldError, err)
		return
	}
	if err := d.snapshots.ReplaceIncomes(ctx, incomes); err != nil {
		d.logger.WarnContext(ctx, "Failed to snapshot incomes", log.FieldError, err)
	}
}

func (d *Dashboard) acquireRow(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.pending[id]; busy {
		return false
	}
	d.pending[id] = struct{}{}
	return true
}

func (d *Dashboard) releaseRow(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, id)
}

func (d *Dashboard) nextFetchLocked() uint64 {
	d.fetchSeq++
	return d.fetchSeq
}

func (d *Dashboard) fetchCurrentLocked(seq uint64) bool {
	return seq == d.fetchSeq
}
