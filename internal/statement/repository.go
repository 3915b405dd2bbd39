package statement

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed source-collection repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) SalesInvoices(ctx context.Context, period Period) ([]Invoice, error) {
	return r.invoices(ctx, `SELECT id, date, total, COALESCE(currency_code, '') FROM sales_invoices WHERE date BETWEEN $1 AND $2`, period)
}

func (r *repository) PurchaseInvoices(ctx context.Context, period Period) ([]Invoice, error) {
	return r.invoices(ctx, `SELECT id, date, total, COALESCE(currency_code, '') FROM purchase_invoices WHERE date BETWEEN $1 AND $2`, period)
}

func (r *repository) invoices(ctx context.Context, query string, period Period) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, query, period.From, period.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectInvoices(rows)
}

func collectInvoices(rows pgx.Rows) ([]Invoice, error) {
	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Date, &inv.Total, &inv.CurrencyCode); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *repository) CashIncomes(ctx context.Context, period Period) ([]CashTransaction, error) {
	return r.cashTransactions(ctx, period, "INCOME")
}

func (r *repository) CashExpenses(ctx context.Context, period Period) ([]CashTransaction, error) {
	return r.cashTransactions(ctx, period, "EXPENSE")
}

func (r *repository) cashTransactions(ctx context.Context, period Period, direction string) ([]CashTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT id, date, amount, original_amount, COALESCE(currency_code, '')
FROM cash_transactions WHERE direction=$3 AND date BETWEEN $1 AND $2`, period.From, period.To, direction)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var txs []CashTransaction
	for rows.Next() {
		var tx CashTransaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Amount, &tx.OriginalAmount, &tx.CurrencyCode); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (r *repository) PostedJournalLines(ctx context.Context, period Period) ([]JournalLineRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT l.entry_id, a.code, l.debit, l.credit
FROM journal_lines l
JOIN journal_entries e ON e.id = l.entry_id
JOIN accounts a ON a.id = l.account_id
WHERE e.is_posted AND e.date BETWEEN $1 AND $2`, period.From, period.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lines []JournalLineRecord
	for rows.Next() {
		var line JournalLineRecord
		if err := rows.Scan(&line.EntryID, &line.AccountCode, &line.Debit, &line.Credit); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
