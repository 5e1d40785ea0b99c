// Package core defines the canonical record shapes and validation rules
// shared by every view of the tracker.
//
// This file contains amount parsing and the fixed-point Money type used
// for all sums. Amounts travel over the wire as plain decimal numbers
// (denari), but all arithmetic happens in cents.
package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is a fixed-point amount in cents of a denar.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string to Money with half-up rounding
// on the third decimal place.
//
// It accepts both dot (12.34) and comma (12,34) separators so input is
// locale-independent. Only strictly positive amounts are valid.
//
// Examples:
//   ParseAmount("12.34") -> 1234 cents
//   ParseAmount("12,34") -> 1234 cents
//   ParseAmount("12.345") -> 1234 cents (rounds down)
//   ParseAmount("12.346") -> 1235 cents (rounds up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents}, nil
}

// Denari returns the denar value as a float64 for display purposes.
// Use cents for calculations to avoid floating-point precision issues.
func (m Money) Denari() float64 {
	return float64(m.Cents) / 100.0
}

// Validate rejects non-positive amounts.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Decimal formats the amount as a bare decimal string ("123.45"),
// suitable for seeding editable input fields.
func (m Money) Decimal() string {
	return strconv.FormatFloat(m.Denari(), 'f', 2, 64)
}

// String formats the amount as "123.45 MKD".
func (m Money) String() string {
	neg := m.Cents < 0
	cents := m.Cents
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + twoDigits(cents%100)
	if neg {
		s = "-" + s
	}
	return s + " MKD"
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// MarshalJSON emits the amount as a decimal number, matching the remote
// store's wire shape.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Denari(), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts a decimal number and converts it to cents with
// half-up rounding.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	m.Cents = int64(math.Round(v * 100))
	return nil
}
