// Package fees computes the InstaPay processor commission for cash
// transactions. The tier table mirrors the processor's published schedule.
package fees

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Direction tells whether the transaction pays money out or takes it in.
type Direction string

const (
	DirectionIncome  Direction = "INCOME"
	DirectionExpense Direction = "EXPENSE"
)

// ErrInvalidDirection indicates a direction outside the closed enum.
var ErrInvalidDirection = errors.New("fees: invalid direction")

// Validate rejects values outside the enum.
func (d Direction) Validate() error {
	switch d {
	case DirectionIncome, DirectionExpense:
		return nil
	}
	return ErrInvalidDirection
}

var (
	freeBelow   = decimal.NewFromInt(100)
	flatCeiling = decimal.NewFromInt(500)
	flatFee     = decimal.RequireFromString("0.50")
	stepSize    = decimal.NewFromInt(100)
	stepFee     = decimal.RequireFromString("0.10")
	feeCap      = decimal.NewFromInt(20)
)

// Commission returns the deterministic tiered fee for an amount.
//
// Income-direction transfers carry no commission at all: the agency books any
// real-world inbound fee as a separate expense. This asymmetry is a business
// rule and must not be normalised away.
func Commission(dir Direction, amount decimal.Decimal) decimal.Decimal {
	if dir != DirectionExpense {
		return decimal.Zero
	}
	if amount.LessThan(freeBelow) {
		return decimal.Zero
	}
	if amount.LessThanOrEqual(flatCeiling) {
		return flatFee
	}
	// Each started 100 above 500 adds a full step; the ceiling applies to the
	// quotient before the step fee multiplies in.
	steps := amount.Sub(flatCeiling).Div(stepSize).Ceil()
	fee := flatFee.Add(steps.Mul(stepFee))
	if fee.GreaterThan(feeCap) {
		return feeCap
	}
	return fee
}

// Net returns the amount the payer actually moves plus the commission booked
// alongside it. Expenses carry the commission as an additive cost; income is
// recorded gross with a zero commission.
func Net(dir Direction, amount decimal.Decimal) (net, commission decimal.Decimal) {
	commission = Commission(dir, amount)
	if dir == DirectionExpense {
		return amount.Add(commission), commission
	}
	return amount, commission
}
