package core

import (
	"errors"
	"strings"
	"time"
)

// Category is one of the fixed expense classifications.
type Category string

const (
	Food          Category = "Food"
	Transport     Category = "Transport"
	Utilities     Category = "Utilities"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Other         Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{Food, Transport, Utilities, Entertainment, Health, Other}

var (
	ErrMissingTitle    = errors.New("title is required")
	ErrMissingSource   = errors.New("source is required")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrMissingDate     = errors.New("date is required")
	ErrInvalidCategory = errors.New("invalid category")
)

// ParseCategory returns the matching category or ErrInvalidCategory.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

type (
	// Expense is a committed expense record as held by the remote store.
	// ID is assigned by the store and is zero before the first commit.
	Expense struct {
		ID       int64    `json:"id,omitempty"`
		Title    string   `json:"title"`
		Amount   Money    `json:"amount"`
		Date     string   `json:"date"`
		Category Category `json:"category"`
	}

	// Income is a committed income record. The salary/other split is
	// classified server-side and never recomputed here.
	Income struct {
		ID     int64  `json:"id,omitempty"`
		Source string `json:"source"`
		Amount Money  `json:"amount"`
		Date   string `json:"date"`
	}
)

// DateYear returns the year component of a YYYY-MM-DD date string.
// ok is false for malformed dates; callers treat those records as
// excluded, not as errors.
func DateYear(date string) (string, bool) {
	if !validDate(date) {
		return "", false
	}
	return date[:4], true
}

// DateMonth returns the zero-padded month component of a YYYY-MM-DD
// date string.
func DateMonth(date string) (string, bool) {
	if !validDate(date) {
		return "", false
	}
	return date[5:7], true
}

func validDate(date string) bool {
	if len(date) < 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", date[:10])
	return err == nil
}

// TruncateDate reduces a date string to its YYYY-MM-DD prefix. Remote
// stores sometimes return timestamps; edit drafts only carry the day.
func TruncateDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}
