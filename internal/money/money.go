// Package money implements a fixed-scale monetary value backed by
// integer minor units (cents). All arithmetic is exact; floating
// point never enters the representation. Decimal conversion happens
// only at the parse/format boundary, via shopspring/decimal.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places carried by every Money value.
const Scale = 2

var (
	// ErrInexactDivision is returned by Div when the amount does not
	// divide evenly. Callers that expect a remainder must use DivRem.
	ErrInexactDivision = errors.New("inexact division")

	// ErrInvalidAmount is returned when parsing input that is not a
	// valid amount at the fixed scale.
	ErrInvalidAmount = errors.New("invalid amount")
)

// Money is an immutable amount in minor units. The zero value is 0.00.
type Money struct {
	units int64
}

// FromUnits builds a Money from a count of minor units (e.g. cents).
func FromUnits(units int64) Money {
	return Money{units: units}
}

// Parse converts a decimal string such as "33.34" into Money.
// Input with more than Scale fractional digits is rejected rather
// than rounded: rounding is a presentation decision, not a parsing one.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// FromDecimal converts an exact decimal into Money, rejecting values
// finer than the fixed scale.
func FromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(Scale)
	if !shifted.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places", ErrInvalidAmount, d.String(), Scale)
	}
	if !shifted.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s overflows minor units", ErrInvalidAmount, d.String())
	}
	return Money{units: shifted.IntPart()}, nil
}

// Units returns the amount in minor units.
func (m Money) Units() int64 { return m.units }

// Decimal returns the exact decimal representation.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -Scale)
}

// String formats the amount with exactly Scale decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

func (m Money) Add(o Money) Money      { return Money{units: m.units + o.units} }
func (m Money) Sub(o Money) Money      { return Money{units: m.units - o.units} }
func (m Money) Neg() Money             { return Money{units: -m.units} }
func (m Money) MulInt(n int64) Money   { return Money{units: m.units * n} }
func (m Money) IsZero() bool           { return m.units == 0 }
func (m Money) IsPositive() bool       { return m.units > 0 }
func (m Money) IsNegative() bool       { return m.units < 0 }
func (m Money) Equal(o Money) bool     { return m.units == o.units }

// Abs returns the magnitude of the amount.
func (m Money) Abs() Money {
	if m.units < 0 {
		return Money{units: -m.units}
	}
	return m
}

// Cmp compares two amounts: -1 if m < o, 0 if equal, +1 if m > o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.units < o.units:
		return -1
	case m.units > o.units:
		return 1
	default:
		return 0
	}
}

// Div divides evenly by n. If the amount does not divide without a
// remainder it fails with ErrInexactDivision instead of losing cents.
func (m Money) Div(n int64) (Money, error) {
	if n == 0 {
		return Money{}, fmt.Errorf("%w: division by zero", ErrInvalidAmount)
	}
	if m.units%n != 0 {
		return Money{}, fmt.Errorf("%w: %s / %d leaves %d minor units", ErrInexactDivision, m, n, m.units%n)
	}
	return Money{units: m.units / n}, nil
}

// DivRem divides by n, returning the truncated per-part amount and
// the leftover minor units that remain unassigned. The caller is
// responsible for allocating the remainder explicitly.
func (m Money) DivRem(n int64) (part Money, rem Money, err error) {
	if n <= 0 {
		return Money{}, Money{}, fmt.Errorf("%w: cannot divide into %d parts", ErrInvalidAmount, n)
	}
	return Money{units: m.units / n}, Money{units: m.units % n}, nil
}

// MarshalJSON encodes the amount as a fixed-scale decimal string,
// e.g. "33.34", so that round-trips are exact.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a decimal string (or bare number) and rejects
// anything finer than the fixed scale.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, data)
	}
	parsed, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
