package core

import "strings"

// ExpenseDraft holds raw form input for an expense before validation.
type ExpenseDraft struct {
	Title    string
	Amount   string
	Date     string
	Category string
}

// IncomeDraft holds raw form input for an income record.
type IncomeDraft struct {
	Source string
	Amount string
	Date   string
}

// Validate checks the draft fields in a fixed order so error reporting
// is deterministic: title, amount, date, category. On success the
// returned record has trimmed text and the amount coerced to Money.
// Validation is pure; it never touches the network.
func (d ExpenseDraft) Validate() (Expense, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return Expense{}, ErrMissingTitle
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Expense{}, ErrInvalidAmount
	}
	date := strings.TrimSpace(d.Date)
	if date == "" {
		return Expense{}, ErrMissingDate
	}
	if !validDate(date) {
		return Expense{}, ErrMissingDate
	}
	category, err := ParseCategory(d.Category)
	if err != nil {
		return Expense{}, ErrInvalidCategory
	}
	return Expense{
		Title:    title,
		Amount:   amount,
		Date:     TruncateDate(date),
		Category: category,
	}, nil
}

// Validate checks source, amount and date in that order.
func (d IncomeDraft) Validate() (Income, error) {
	source := strings.TrimSpace(d.Source)
	if source == "" {
		return Income{}, ErrMissingSource
	}
	amount, err := ParseAmount(d.Amount)
	if err != nil {
		return Income{}, ErrInvalidAmount
	}
	date := strings.TrimSpace(d.Date)
	if date == "" {
		return Income{}, ErrMissingDate
	}
	if !validDate(date) {
		return Income{}, ErrMissingDate
	}
	return Income{
		Source: source,
		Amount: amount,
		Date:   TruncateDate(date),
	}, nil
}
