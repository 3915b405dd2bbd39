package money

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads currency metadata.
type Repository interface {
	ListActiveCurrencies(ctx context.Context) ([]Currency, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the pgx-backed currency repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveCurrencies(ctx context.Context) ([]Currency, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, symbol, is_base FROM currencies WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var currencies []Currency
	for rows.Next() {
		var cur Currency
		if err := rows.Scan(&cur.ID, &cur.Code, &cur.Name, &cur.Symbol, &cur.IsBase); err != nil {
			return nil, err
		}
		currencies = append(currencies, cur)
	}
	return currencies, rows.Err()
}

// LoadRegistry fetches the active currencies and validates them into a Registry.
func LoadRegistry(ctx context.Context, repo Repository) (*Registry, error) {
	currencies, err := repo.ListActiveCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	return NewRegistry(currencies)
}
