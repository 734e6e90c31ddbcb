// Package money provides an exact decimal amount used for balances and
// transfer values.
//
// Invariants:
//   - Amounts are never represented as binary floating point.
//   - Arithmetic never rounds; rounding happens only in MulDivRound.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrDivisionByZero is returned by MulDivRound when the divisor is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// Money is an exact decimal amount. The zero value is 0.
type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// New wraps a decimal value.
func New(d decimal.Decimal) Money {
	return Money{d: d}
}

// NewFromInt returns an integral amount.
func NewFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// NewFromFloat converts a float at the boundary (e.g. decoded JSON). The
// shortest decimal representation of the float is used.
func NewFromFloat(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

// Parse parses a decimal string such as "100.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{d: d}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Add returns m + other.
func (m Money) Add(other Money) Money { return Money{d: m.d.Add(other.d)} }

// Sub returns m - other.
func (m Money) Sub(other Money) Money { return Money{d: m.d.Sub(other.d)} }

// Cmp compares m and other and returns -1, 0 or +1.
func (m Money) Cmp(other Money) int { return m.d.Cmp(other.d) }

// Equal reports whether both amounts are numerically equal (1.0 == 1).
func (m Money) Equal(other Money) bool { return m.d.Equal(other.d) }

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool { return m.d.LessThan(other.d) }

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool { return m.d.IsPositive() }

// IsZero reports whether m == 0.
func (m Money) IsZero() bool { return m.d.IsZero() }

// MulDivRound returns m * mul / div rounded half-up (away from zero on a tie)
// to the given number of fractional digits.
func (m Money) MulDivRound(mul, div decimal.Decimal, places int32) (Money, error) {
	if div.IsZero() {
		return Zero, ErrDivisionByZero
	}
	return Money{d: m.d.Mul(mul).DivRound(div, places)}, nil
}

// String returns the amount without trailing exponent, e.g. "100.5".
func (m Money) String() string { return m.d.String() }

// StringFixed returns the amount with exactly places fractional digits.
func (m Money) StringFixed(places int32) string { return m.d.StringFixed(places) }

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	m.d = d
	return nil
}
