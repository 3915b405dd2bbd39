package statement

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/safar-erp/safar-erp/internal/money"
)

// Repository supplies the scoped source collections for a period.
type Repository interface {
	SalesInvoices(ctx context.Context, period Period) ([]Invoice, error)
	PurchaseInvoices(ctx context.Context, period Period) ([]Invoice, error)
	CashIncomes(ctx context.Context, period Period) ([]CashTransaction, error)
	CashExpenses(ctx context.Context, period Period) ([]CashTransaction, error)
	PostedJournalLines(ctx context.Context, period Period) ([]JournalLineRecord, error)
}

// Service fetches the sources, aggregates them and caches the result.
type Service struct {
	repo       Repository
	currencies money.Repository
	cache      *Cache
	logger     *slog.Logger
	// journalCurrency overrides the journal-line currency policy; empty
	// keeps the registry base.
	journalCurrency string
}

// NewService wires the aggregation service.
func NewService(repo Repository, currencies money.Repository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, currencies: currencies, cache: cache, logger: logger}
}

// WithJournalCurrency pins journal-derived amounts to a specific currency
// code instead of the registry base.
func (s *Service) WithJournalCurrency(code string) *Service {
	s.journalCurrency = strings.ToUpper(strings.TrimSpace(code))
	return s
}

// IncomeStatement returns the per-currency report for the period, serving
// from cache when a fresh copy exists.
func (s *Service) IncomeStatement(ctx context.Context, period Period) (Report, error) {
	if period.From.After(period.To) {
		return Report{}, ErrInvalidPeriod
	}
	key, err := s.cache.BuildKey(ctx, keyIncomeStatement(period)...)
	if err != nil {
		return Report{}, err
	}
	var report Report
	err = s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
		fresh, err := s.build(ctx, period)
		if err != nil {
			return nil, err
		}
		return fresh, nil
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// build fetches all five source collections concurrently and aggregates.
func (s *Service) build(ctx context.Context, period Period) (Report, error) {
	var (
		sales     []Invoice
		purchases []Invoice
		incomes   []CashTransaction
		expenses  []CashTransaction
		lines     []JournalLineRecord
		registry  *money.Registry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sales, err = s.repo.SalesInvoices(gctx, period)
		return err
	})
	g.Go(func() (err error) {
		purchases, err = s.repo.PurchaseInvoices(gctx, period)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = s.repo.CashIncomes(gctx, period)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.repo.CashExpenses(gctx, period)
		return err
	})
	g.Go(func() (err error) {
		lines, err = s.repo.PostedJournalLines(gctx, period)
		return err
	})
	g.Go(func() (err error) {
		registry, err = money.LoadRegistry(gctx, s.currencies)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	groups, warnings := Aggregate(AggregateInput{
		Registry:         registry,
		JournalCurrency:  s.journalCurrency,
		SalesInvoices:    sales,
		PurchaseInvoices: purchases,
		CashIncomes:      incomes,
		CashExpenses:     expenses,
		JournalLines:     lines,
	})
	for _, warning := range warnings {
		if s.logger != nil {
			s.logger.Warn("statement aggregation degraded", slog.String("warning", warning))
		}
	}
	return Report{Period: period, Groups: groups, Warnings: warnings}, nil
}
