// Package statement builds the per-currency income statement from the
// heterogeneous revenue and expense sources of the agency. Each currency's
// figures stand alone; nothing is blended through an exchange rate.
package statement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPeriod indicates a reporting period whose start is after its end.
var ErrInvalidPeriod = errors.New("statement: period start after end")

// Period is the reporting window, inclusive on both ends.
type Period struct {
	From time.Time
	To   time.Time
}

// Invoice is a sales or purchase invoice total as fed to aggregation. An
// empty CurrencyCode falls back to the registry's base currency.
type Invoice struct {
	ID           int64
	Date         time.Time
	Total        decimal.Decimal
	CurrencyCode string
}

// CashTransaction is a cash-box income or expense. OriginalAmount, when set,
// is the amount actually received or paid in CurrencyCode and takes
// precedence over the converted Amount.
type CashTransaction struct {
	ID             int64
	Date           time.Time
	Amount         decimal.Decimal
	OriginalAmount *decimal.Decimal
	CurrencyCode   string
}

// Value returns the figure the aggregation uses for this transaction.
func (t CashTransaction) Value() decimal.Decimal {
	if t.OriginalAmount != nil {
		return *t.OriginalAmount
	}
	return t.Amount
}

// JournalLineRecord is one line of a posted journal entry. Journal lines
// carry no currency column; aggregation attributes them to the configured
// journal currency policy.
type JournalLineRecord struct {
	EntryID     int64
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// CurrencyGroup is one report row: all activity of a single currency in the
// period. Immutable once returned.
type CurrencyGroup struct {
	CurrencyCode   string `json:"currencyCode"`
	CurrencyName   string `json:"currencyName"`
	CurrencySymbol string `json:"currencySymbol"`
	IsBase         bool   `json:"isBase"`

	SalesRevenue    decimal.Decimal `json:"salesRevenue"`
	CashIncome      decimal.Decimal `json:"cashIncome"`
	JournalRevenue  decimal.Decimal `json:"journalRevenue"`
	PurchaseExpense decimal.Decimal `json:"purchaseExpense"`
	CashExpense     decimal.Decimal `json:"cashExpense"`
	JournalExpense  decimal.Decimal `json:"journalExpense"`

	SalesCount          int `json:"salesCount"`
	PurchaseCount       int `json:"purchaseCount"`
	CashIncomeCount     int `json:"cashIncomeCount"`
	CashExpenseCount    int `json:"cashExpenseCount"`
	JournalRevenueCount int `json:"journalRevenueCount"`
	JournalExpenseCount int `json:"journalExpenseCount"`

	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// Report wraps the ordered currency groups with the period and any
// degradation warnings collected while aggregating.
type Report struct {
	Period   Period          `json:"period"`
	Groups   []CurrencyGroup `json:"groups"`
	Warnings []string        `json:"warnings,omitempty"`
}
