package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"stockcheck/internal/models"
)

// Compile-time check to ensure StockRepo implements LikeStore
var _ LikeStore = (*StockRepo)(nil)

type StockRepo struct {
	pool *pgxpool.Pool
}

func NewStockRepo(pool *pgxpool.Pool) *StockRepo {
	return &StockRepo{pool: pool}
}

// registerLikeSQL upserts the row and conditionally appends the liker, all
// in one statement. RETURNING reads the post-image, so the count reflects
// this mutation even under concurrent likes of the same symbol; Postgres
// row-level locking on the conflicting row serializes them.
const registerLikeSQL = `
	INSERT INTO stocks (symbol, likers) VALUES ($1, ARRAY[$2])
	ON CONFLICT (symbol) DO UPDATE
	SET likers = CASE
		WHEN $2 = ANY (stocks.likers) THEN stocks.likers
		ELSE array_append(stocks.likers, $2)
	END
	RETURNING cardinality(likers)`

// countOnlySQL upserts the row without touching the set when no like was
// requested. DO NOTHING would return no row on conflict, so the no-op
// update is deliberate.
const countOnlySQL = `
	INSERT INTO stocks (symbol, likers) VALUES ($1, '{}')
	ON CONFLICT (symbol) DO UPDATE SET likers = stocks.likers
	RETURNING cardinality(likers)`

func (r *StockRepo) RegisterLikeAndCount(ctx context.Context, symbol, liker string) (int, error) {
	var count int
	var err error
	if liker == "" {
		err = r.pool.QueryRow(ctx, countOnlySQL, symbol).Scan(&count)
	} else {
		err = r.pool.QueryRow(ctx, registerLikeSQL, symbol, liker).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("register like for %s: %w", symbol, err)
	}
	return count, nil
}

// Get returns the full record for a symbol, or nil if it was never touched.
func (r *StockRepo) Get(ctx context.Context, symbol string) (*models.StockRecord, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT symbol, likers, created_at FROM stocks WHERE symbol = $1`,
		symbol,
	)

	var rec models.StockRecord
	if err := row.Scan(&rec.Symbol, &rec.Likers, &rec.CreatedAt); err != nil {
		if err.Error() == "no rows in result set" {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *StockRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
