package session

import (
	"context"
	"errors"
	"strings"

	"bilans/internal/core"
	"bilans/internal/log"
)

// edit list errors.
var (
	ErrNotEditing    = errors.New("no row is being edited")
	ErrAlreadyEdited = errors.New("another row is already being edited")
	ErrRowNotFound   = errors.New("row not found in current view")
)

// ExpenseDraftFields is the raw text of an in-progress inline edit.
// Values stay strings until save so the user can type freely; coercion
// and validation happen only on Save.
type ExpenseDraftFields struct {
	Title    string
	Amount   string
	Date     string
	Category string
}

// ExpenseEditList is the inline edit session over the filtered expense
// rows plus their pagination. At most one row is in edit mode at a
// time; starting an edit on another row is rejected rather than
// silently discarding the first draft.
type ExpenseEditList struct {
	dash   *Dashboard
	pager  *Pager
	logger *log.Logger

	category core.Category
	query    string

	editingID int64
	draft     ExpenseDraftFields
}

// NewExpenseEditList builds the edit session over a dashboard's rows.
func NewExpenseEditList(dash *Dashboard, logger *log.Logger) *ExpenseEditList {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ExpenseEditList{
		dash:   dash,
		pager:  NewPager(),
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// Pager exposes the pagination state for navigation.
func (l *ExpenseEditList) Pager() *Pager { return l.pager }

// SetCategoryScope narrows the list to one category; the empty value
// shows every category. Narrowing resets to the first page.
func (l *ExpenseEditList) SetCategoryScope(category core.Category) {
	l.category = category
	l.pager.Goto(1, 0)
}

// CategoryScope reports the active category scope, empty for all.
func (l *ExpenseEditList) CategoryScope() core.Category { return l.category }

// SetSearchQuery narrows the list to rows whose title contains the
// query, case-insensitive; the empty query shows every row. Narrowing
// resets to the first page.
func (l *ExpenseEditList) SetSearchQuery(query string) {
	l.query = strings.TrimSpace(query)
	l.pager.Goto(1, 0)
}

// SearchQuery reports the active title search, empty for none.
func (l *ExpenseEditList) SearchQuery() string { return l.query }

// Rows returns the rows visible under the year/month filter plus the
// list's category and title scopes, and the window on the current
// page, clamping the page against the collection's current length.
func (l *ExpenseEditList) Rows() (all, page []core.Expense) {
	all = l.visible()
	return all, Slice(l.pager, all)
}

// visible applies the list-level narrowing on top of the dashboard's
// year/month filter. Both scopes are view state only; they never change
// what is fetched or mutated.
func (l *ExpenseEditList) visible() []core.Expense {
	var out []core.Expense
	needle := strings.ToLower(l.query)
	for _, e := range l.dash.FilteredExpenses() {
		if l.category != "" && e.Category != l.category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(e.Title), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Editing reports the id of the row in edit mode, or 0.
func (l *ExpenseEditList) Editing() int64 { return l.editingID }

// Draft returns the raw fields of the in-progress edit.
func (l *ExpenseEditList) Draft() ExpenseDraftFields { return l.draft }

// SetDraft replaces the in-progress fields. Typing never validates.
func (l *ExpenseEditList) SetDraft(fields ExpenseDraftFields) error {
	if l.editingID == 0 {
		return ErrNotEditing
	}
	l.draft = fields
	return nil
}

// Edit puts the row with the given id into edit mode, seeding the
// draft from the row's current values.
func (l *ExpenseEditList) Edit(id int64) error {
	if l.editingID != 0 && l.editingID != id {
		return ErrAlreadyEdited
	}
	row, ok := l.find(id)
	if !ok {
		return ErrRowNotFound
	}
	l.editingID = id
	l.draft = ExpenseDraftFields{
		Title:    row.Title,
		Amount:   row.Amount.Decimal(),
		Date:     core.TruncateDate(row.Date),
		Category: string(row.Category),
	}
	return nil
}

// Cancel discards the draft and returns to viewing. The row keeps the
// values it had before the edit started.
func (l *ExpenseEditList) Cancel() {
	l.editingID = 0
	l.draft = ExpenseDraftFields{}
}

// Save validates the draft and commits it. On validation failure the
// row stays in edit mode with the draft intact and nothing is sent to
// the store. On commit failure the edit session is likewise preserved.
func (l *ExpenseEditList) Save(ctx context.Context) error {
	if l.editingID == 0 {
		return ErrNotEditing
	}
	record, err := core.ExpenseDraft(l.draft).Validate()
	if err != nil {
		return err
	}
	if err := l.dash.UpdateExpense(ctx, l.editingID, record); err != nil {
		return err
	}
	l.Cancel()
	return nil
}

// Delete removes the row with the given id. If that row is being
// edited, the edit is cancelled first so the session never points at a
// removed row.
func (l *ExpenseEditList) Delete(ctx context.Context, id int64) error {
	if l.editingID == id {
		l.logger.Debug("Cancelling edit of row being deleted", log.FieldRecordID, id)
		l.Cancel()
	}
	if err := l.dash.DeleteExpense(ctx, id); err != nil {
		return err
	}
	l.pager.Clamp(len(l.visible()))
	return nil
}

func (l *ExpenseEditList) find(id int64) (core.Expense, bool) {
	for _, e := range l.visible() {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

// IncomeList paginates the income rows. Incomes have no inline edit;
// rows are created and deleted whole.
type IncomeList struct {
	dash  *Dashboard
	pager *Pager
}

// NewIncomeList builds the paginated income view.
func NewIncomeList(dash *Dashboard) *IncomeList {
	return &IncomeList{dash: dash, pager: NewPager()}
}

// Pager exposes the pagination state for navigation.
func (l *IncomeList) Pager() *Pager { return l.pager }

// Rows returns all incomes under the active filter and the current
// page's window.
func (l *IncomeList) Rows() (all, page []core.Income) {
	filter := l.dash.Filter()
	for _, in := range l.dash.Incomes() {
		if filter.Matches(in.Date) {
			all = append(all, in)
		}
	}
	return all, Slice(l.pager, all)
}

// Delete removes an income row and clamps the page afterwards.
func (l *IncomeList) Delete(ctx context.Context, id int64) error {
	if err := l.dash.DeleteIncome(ctx, id); err != nil {
		return err
	}
	_, _ = l.Rows()
	return nil
}
