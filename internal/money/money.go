// Package money provides the fixed-point monetary value type and the
// currency registry shared by the finance core.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrCurrencyMismatch indicates arithmetic across different currencies.
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money is an exact decimal amount denominated in a single currency.
// Arithmetic never crosses currencies; combining amounts from different
// currencies is a reconciliation concern, not a Money concern.
type Money struct {
	amount       decimal.Decimal
	currencyCode string
}

// New builds a Money value from an exact decimal amount.
func New(amount decimal.Decimal, currencyCode string) Money {
	return Money{amount: amount, currencyCode: currencyCode}
}

// Zero returns the zero amount for the given currency.
func Zero(currencyCode string) Money {
	return Money{amount: decimal.Zero, currencyCode: currencyCode}
}

// Amount exposes the underlying decimal value.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// CurrencyCode returns the denomination of the amount.
func (m Money) CurrencyCode() string {
	return m.currencyCode
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Add returns m + other, failing when the currencies differ.
func (m Money) Add(other Money) (Money, error) {
	if m.currencyCode != other.currencyCode {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currencyCode, other.currencyCode)
	}
	return Money{amount: m.amount.Add(other.amount), currencyCode: m.currencyCode}, nil
}

// Sub returns m - other, failing when the currencies differ.
func (m Money) Sub(other Money) (Money, error) {
	if m.currencyCode != other.currencyCode {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currencyCode, other.currencyCode)
	}
	return Money{amount: m.amount.Sub(other.amount), currencyCode: m.currencyCode}, nil
}

// Cmp orders two amounts of the same currency (-1, 0, 1).
func (m Money) Cmp(other Money) (int, error) {
	if m.currencyCode != other.currencyCode {
		return 0, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currencyCode, other.currencyCode)
	}
	return m.amount.Cmp(other.amount), nil
}

// String renders the raw amount and code. Report-precision rounding is a
// display concern and stays outside the core.
func (m Money) String() string {
	return m.amount.String() + " " + m.currencyCode
}
