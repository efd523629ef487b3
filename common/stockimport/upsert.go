package stockimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/models"
)

const upsertSQL = `
	INSERT INTO stocks (code, market, name, price, updated_at)
	VALUES ($1, $2, $3, $4, NOW())
	ON CONFLICT (code) DO UPDATE
	SET price = EXCLUDED.price, updated_at = NOW()
	WHERE stocks.price IS DISTINCT FROM EXCLUDED.price
	RETURNING id
`

// Result summarises one import run.
type Result struct {
	Rows int
	// Changed holds the ids of stocks that were inserted or repriced
	Changed []int64
}

// Upsert writes stocks in one transaction. Existing codes only have their
// price updated; rows whose price did not change are left untouched.
func Upsert(ctx context.Context, d *db.DB, stocks []models.Stock) (*Result, error) {
	res := &Result{Rows: len(stocks)}
	if len(stocks) == 0 {
		return res, nil
	}

	err := d.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		changed, err := upsertBatch(ctx, tx, stocks)
		if err != nil {
			return err
		}
		res.Changed = changed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func upsertBatch(ctx context.Context, tx pgx.Tx, stocks []models.Stock) ([]int64, error) {
	batch := &pgx.Batch{}
	for _, s := range stocks {
		batch.Queue(upsertSQL, s.Code, s.Market, s.Name, s.Price)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()

	var changed []int64
	for _, s := range stocks {
		var id int64
		err := br.QueryRow().Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("upsert stock %s: %w", s.Code, err)
		}
		changed = append(changed, id)
	}

	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("close batch: %w", err)
	}
	return changed, nil
}
