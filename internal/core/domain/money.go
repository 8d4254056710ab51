package domain

import (
	"github.com/shopspring/decimal"
)

// Precision identifies the fixed-point scale of a Money value.
type Precision int32

const (
	// AmountPrecision is used for balances, transfer amounts and fees (2 fractional digits).
	AmountPrecision Precision = 2
	// RatePrecision is used for exchange rates and conversion factors (6 fractional digits).
	RatePrecision Precision = 6
)

// Money is a fixed-point decimal value. Every constructor and arithmetic
// operation rounds to the target precision immediately, so no unrounded
// intermediate value ever escapes. Rounding uses decimal.Round, which is
// round-half-away-from-zero; for the non-negative values handled by the
// ledger this is round-half-up.
//
// The zero value is usable as a zero amount but carries precision 0;
// construct values through NewMoney, NewAmount or NewRate.
type Money struct {
	value     decimal.Decimal
	precision Precision
}

// NewMoney builds a Money rounded to the given precision.
func NewMoney(value decimal.Decimal, precision Precision) Money {
	return Money{value: value.Round(int32(precision)), precision: precision}
}

// NewAmount builds a Money at amount precision (2 fractional digits).
func NewAmount(value decimal.Decimal) Money {
	return NewMoney(value, AmountPrecision)
}

// NewRate builds a Money at rate precision (6 fractional digits).
func NewRate(value decimal.Decimal) Money {
	return NewMoney(value, RatePrecision)
}

// ZeroAmount returns a zero Money at amount precision.
func ZeroAmount() Money {
	return NewAmount(decimal.Zero)
}

// Add returns m + other at m's precision.
func (m Money) Add(other Money) Money {
	return NewMoney(m.value.Add(other.value), m.precision)
}

// Sub returns m - other at m's precision.
func (m Money) Sub(other Money) Money {
	return NewMoney(m.value.Sub(other.value), m.precision)
}

// Mul returns m * other rounded to the given target precision.
func (m Money) Mul(other Money, precision Precision) Money {
	return NewMoney(m.value.Mul(other.value), precision)
}

// Div returns m / other rounded to the given target precision.
func (m Money) Div(other Money, precision Precision) Money {
	return NewMoney(m.value.Div(other.value), precision)
}

// Neg returns -m at m's precision.
func (m Money) Neg() Money {
	return Money{value: m.value.Neg(), precision: m.precision}
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.value.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.value.IsNegative()
}

// IsZero reports whether m == 0.
func (m Money) IsZero() bool {
	return m.value.IsZero()
}

// Equal reports whether m and other represent the same numeric value.
func (m Money) Equal(other Money) bool {
	return m.value.Equal(other.value)
}

// Cmp compares m and other numerically: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.value.Cmp(other.value)
}

// Precision returns the fixed-point scale of m.
func (m Money) Precision() Precision {
	return m.precision
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.value
}

// String renders m with exactly its precision's fractional digits, e.g. "49.75" or "0.500000".
func (m Money) String() string {
	return m.value.StringFixed(int32(m.precision))
}

// MarshalJSON renders m as a quoted fixed-point string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}
