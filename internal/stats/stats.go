// Package stats derives dashboard figures from a raw record collection
// under an active year/month filter. Everything here is a pure function
// of its inputs; records with malformed dates are silently excluded
// rather than failing the whole computation.
package stats

import (
	"fmt"
	"math"
	"sort"

	"bilans/internal/core"
)

// All is the wildcard value for both filter dimensions.
const All = "all"

// Filter narrows which records contribute to displayed aggregates.
// Year is a four-digit year string or "all"; Month is "01".."12" or "all".
type Filter struct {
	Year  string
	Month string
}

// Everything returns the unfiltered scope.
func Everything() Filter {
	return Filter{Year: All, Month: All}
}

// Matches reports whether a YYYY-MM-DD date falls inside the filter.
// Malformed dates never match.
func (f Filter) Matches(date string) bool {
	year, ok := core.DateYear(date)
	if !ok {
		return false
	}
	month, _ := core.DateMonth(date)
	if f.Year != All && f.Year != "" && year != f.Year {
		return false
	}
	if f.Month != All && f.Month != "" && month != padMonth(f.Month) {
		return false
	}
	return true
}

// padMonth zero-pads single-digit month selections so "1" and "01"
// compare equal against the date's two-digit month.
func padMonth(m string) string {
	if len(m) == 1 {
		return "0" + m
	}
	return m
}

// String renders the filter for cache keys and log fields.
func (f Filter) String() string {
	y, m := f.Year, f.Month
	if y == "" {
		y = All
	}
	if m == "" {
		m = All
	}
	return fmt.Sprintf("%s-%s", y, m)
}

// IncomeTotals is the server-computed income aggregate for a filter.
// The salary split is classified by the remote store; it is never
// recomputed from raw income records.
type IncomeTotals struct {
	TotalIncome       core.Money `json:"totalIncome"`
	TotalSalaryIncome core.Money `json:"totalSalaryIncome"`
}

// CategoryShare is one breakdown entry: the summed value of a category
// and its share of total expenses.
type CategoryShare struct {
	Category   core.Category
	Value      core.Money
	Percentage float64
}

// Summary holds every figure the dashboard displays.
type Summary struct {
	TotalExpenses     core.Money
	TotalIncome       core.Money
	TotalSalaryIncome core.Money
	NetBalance        core.Money
	Breakdown         []CategoryShare
}

// DeriveYears projects date -> year over the full unfiltered collection,
// deduplicates and sorts descending. Years must be derived from the
// whole collection so they stay selectable after filtering narrows the
// visible set.
func DeriveYears(expenses []core.Expense) []string {
	seen := map[string]struct{}{}
	var years []string
	for _, e := range expenses {
		year, ok := core.DateYear(e.Date)
		if !ok {
			continue
		}
		if _, dup := seen[year]; dup {
			continue
		}
		seen[year] = struct{}{}
		years = append(years, year)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}

// Compute aggregates the expense collection under the filter and
// combines it with the already-filtered server-side income totals.
//
// Percentages are computed against total expenses, not the grand total,
// rounded to one decimal. Zero-value categories are omitted from the
// breakdown, so the included values always sum to the expense total.
func Compute(expenses []core.Expense, filter Filter, income IncomeTotals) Summary {
	byCategory := map[core.Category]int64{}
	var totalCents int64
	for _, e := range expenses {
		if !filter.Matches(e.Date) {
			continue
		}
		totalCents += e.Amount.Cents
		byCategory[e.Category] += e.Amount.Cents
	}

	var breakdown []CategoryShare
	for _, cat := range core.Categories {
		cents := byCategory[cat]
		if cents <= 0 {
			continue
		}
		var pct float64
		if totalCents > 0 {
			pct = math.Round(float64(cents)/float64(totalCents)*1000) / 10
		}
		breakdown = append(breakdown, CategoryShare{
			Category:   cat,
			Value:      core.Money{Cents: cents},
			Percentage: pct,
		})
	}

	total := core.Money{Cents: totalCents}
	return Summary{
		TotalExpenses:     total,
		TotalIncome:       income.TotalIncome,
		TotalSalaryIncome: income.TotalSalaryIncome,
		NetBalance:        income.TotalIncome.Sub(total),
		Breakdown:         breakdown,
	}
}
