package statement

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/safar-erp/safar-erp/internal/money"
	_ "github.com/safar-erp/safar-erp/testing"
)

type stubSources struct {
	calls int
	sales []Invoice
}

func (s *stubSources) SalesInvoices(ctx context.Context, period Period) ([]Invoice, error) {
	s.calls++
	return s.sales, nil
}

func (s *stubSources) PurchaseInvoices(ctx context.Context, period Period) ([]Invoice, error) {
	return nil, nil
}

func (s *stubSources) CashIncomes(ctx context.Context, period Period) ([]CashTransaction, error) {
	return nil, nil
}

func (s *stubSources) CashExpenses(ctx context.Context, period Period) ([]CashTransaction, error) {
	return nil, nil
}

func (s *stubSources) PostedJournalLines(ctx context.Context, period Period) ([]JournalLineRecord, error) {
	return nil, nil
}

type stubCurrencies struct{}

func (stubCurrencies) ListActiveCurrencies(ctx context.Context) ([]money.Currency, error) {
	return []money.Currency{{Code: "EGP", Name: "Egyptian Pound", IsBase: true}}, nil
}

func testPeriod() Period {
	return Period{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestIncomeStatementServesFromCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &stubSources{sales: []Invoice{{ID: 1, Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Total: dec("900")}}}
	svc := NewService(repo, stubCurrencies{}, cache, nil)

	first, err := svc.IncomeStatement(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Len(t, first.Groups, 1)
	require.True(t, first.Groups[0].SalesRevenue.Equal(dec("900")))
	require.Equal(t, 1, repo.calls)

	second, err := svc.IncomeStatement(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Equal(t, first.Groups, second.Groups)
	require.Equal(t, 1, repo.calls, "second call must come from cache")
}

func TestIncomeStatementRecomputesAfterBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewCache(client, time.Minute)

	repo := &stubSources{}
	svc := NewService(repo, stubCurrencies{}, cache, nil)

	_, err := svc.IncomeStatement(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	require.NoError(t, cache.Invalidate(context.Background()))

	_, err = svc.IncomeStatement(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls, "version bump must retire the cached report")
}

func TestIncomeStatementRejectsInvertedPeriod(t *testing.T) {
	svc := NewService(&stubSources{}, stubCurrencies{}, nil, nil)
	period := testPeriod()
	period.From, period.To = period.To, period.From

	_, err := svc.IncomeStatement(context.Background(), period)
	require.Error(t, err)
}

func TestIncomeStatementWithoutCacheClient(t *testing.T) {
	repo := &stubSources{}
	svc := NewService(repo, stubCurrencies{}, nil, nil)

	report, err := svc.IncomeStatement(context.Background(), testPeriod())
	require.NoError(t, err)
	require.Empty(t, report.Groups)
	require.Equal(t, 1, repo.calls)
}
