package statement

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/safar-erp/safar-erp/internal/ledger"
	"github.com/safar-erp/safar-erp/internal/money"
)

// AggregateInput carries the scoped source collections and the currency
// policy for one report run.
type AggregateInput struct {
	Registry *money.Registry
	// JournalCurrency is the code journal-derived amounts report under.
	// Journal lines have no currency column, so this is a policy, not a
	// lookup; empty means the registry's base currency.
	JournalCurrency  string
	SalesInvoices    []Invoice
	PurchaseInvoices []Invoice
	CashIncomes      []CashTransaction
	CashExpenses     []CashTransaction
	JournalLines     []JournalLineRecord
}

type groupAccumulator struct {
	currency money.Currency

	salesRevenue    decimal.Decimal
	cashIncome      decimal.Decimal
	journalRevenue  decimal.Decimal
	purchaseExpense decimal.Decimal
	cashExpense     decimal.Decimal
	journalExpense  decimal.Decimal

	salesCount          int
	purchaseCount       int
	cashIncomeCount     int
	cashExpenseCount    int
	journalRevenueCount int
	journalExpenseCount int
}

type aggregator struct {
	registry *money.Registry
	groups   map[string]*groupAccumulator
	warnings []string
	warned   map[string]struct{}
}

// Aggregate partitions every source record by currency and accumulates the
// six revenue/expense buckets into one CurrencyGroup per currency seen in
// the period. Groups come back ordered by financial activity, most active
// first; an empty period yields an empty slice. Records whose currency is
// not registered degrade to the base currency with a warning — aggregation
// never drops data.
func Aggregate(in AggregateInput) ([]CurrencyGroup, []string) {
	agg := &aggregator{
		registry: in.Registry,
		groups:   make(map[string]*groupAccumulator),
		warned:   make(map[string]struct{}),
	}

	for _, inv := range in.SalesInvoices {
		g := agg.group(inv.CurrencyCode)
		g.salesRevenue = g.salesRevenue.Add(inv.Total)
		g.salesCount++
	}
	for _, inv := range in.PurchaseInvoices {
		g := agg.group(inv.CurrencyCode)
		g.purchaseExpense = g.purchaseExpense.Add(inv.Total)
		g.purchaseCount++
	}
	for _, tx := range in.CashIncomes {
		g := agg.group(tx.CurrencyCode)
		g.cashIncome = g.cashIncome.Add(tx.Value())
		g.cashIncomeCount++
	}
	for _, tx := range in.CashExpenses {
		g := agg.group(tx.CurrencyCode)
		g.cashExpense = g.cashExpense.Add(tx.Value())
		g.cashExpenseCount++
	}

	journalCode := strings.TrimSpace(in.JournalCurrency)
	for _, line := range in.JournalLines {
		switch {
		case ledger.IsRevenueCode(line.AccountCode):
			// Revenue accounts carry a natural credit balance.
			g := agg.group(journalCode)
			g.journalRevenue = g.journalRevenue.Add(line.Credit.Sub(line.Debit))
			g.journalRevenueCount++
		case ledger.IsExpenseCode(line.AccountCode):
			// Expense accounts carry a natural debit balance.
			g := agg.group(journalCode)
			g.journalExpense = g.journalExpense.Add(line.Debit.Sub(line.Credit))
			g.journalExpenseCount++
		}
	}

	groups := make([]CurrencyGroup, 0, len(agg.groups))
	for _, g := range agg.groups {
		groups = append(groups, g.finish())
	}
	sort.Slice(groups, func(i, j int) bool {
		ai := groups[i].TotalRevenue.Add(groups[i].TotalExpenses)
		aj := groups[j].TotalRevenue.Add(groups[j].TotalExpenses)
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return groups[i].CurrencyCode < groups[j].CurrencyCode
	})
	return groups, agg.warnings
}

// group resolves the accumulator for a currency code, falling back to the
// base currency for unknown or empty codes.
func (a *aggregator) group(code string) *groupAccumulator {
	currency := a.registry.Base()
	if trimmed := strings.TrimSpace(code); trimmed != "" {
		if resolved, ok := a.registry.Resolve(trimmed); ok {
			currency = resolved
		} else if _, seen := a.warned[strings.ToUpper(trimmed)]; !seen {
			a.warned[strings.ToUpper(trimmed)] = struct{}{}
			a.warnings = append(a.warnings, fmt.Sprintf(
				"currency %q is not registered; its amounts are reported under the base currency %s",
				trimmed, currency.Code))
		}
	}
	g, ok := a.groups[currency.Code]
	if !ok {
		g = &groupAccumulator{currency: currency}
		a.groups[currency.Code] = g
	}
	return g
}

func (g *groupAccumulator) finish() CurrencyGroup {
	totalRevenue := g.salesRevenue.Add(g.cashIncome).Add(g.journalRevenue)
	totalExpenses := g.purchaseExpense.Add(g.cashExpense).Add(g.journalExpense)
	return CurrencyGroup{
		CurrencyCode:   g.currency.Code,
		CurrencyName:   g.currency.Name,
		CurrencySymbol: g.currency.Symbol,
		IsBase:         g.currency.IsBase,

		SalesRevenue:    g.salesRevenue,
		CashIncome:      g.cashIncome,
		JournalRevenue:  g.journalRevenue,
		PurchaseExpense: g.purchaseExpense,
		CashExpense:     g.cashExpense,
		JournalExpense:  g.journalExpense,

		SalesCount:          g.salesCount,
		PurchaseCount:       g.purchaseCount,
		CashIncomeCount:     g.cashIncomeCount,
		CashExpenseCount:    g.cashExpenseCount,
		JournalRevenueCount: g.journalRevenueCount,
		JournalExpenseCount: g.journalExpenseCount,

		TotalRevenue:  totalRevenue,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}
}
