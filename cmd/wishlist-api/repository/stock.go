package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/models"
)

// StockRepository reads the stock catalog
type StockRepository struct {
	q db.Querier
}

// NewStockRepository creates a new stock repository
func NewStockRepository(q db.Querier) *StockRepository {
	return &StockRepository{q: q}
}

const stockColumns = `id, code, market, name, price, updated_at`

func scanStock(row pgx.Row) (*models.Stock, error) {
	s := &models.Stock{}
	err := row.Scan(&s.ID, &s.Code, &s.Market, &s.Name, &s.Price, &s.UpdatedAt)
	return s, err
}

// GetByID retrieves a stock by id
func (r *StockRepository) GetByID(ctx context.Context, id int64) (*models.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("stock", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return s, nil
}

// GetByName retrieves the first stock whose name matches exactly
func (r *StockRepository) GetByName(ctx context.Context, name string) (*models.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockColumns+` FROM stocks WHERE name = $1 ORDER BY id LIMIT 1`, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("stock", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return s, nil
}

// List returns a page of the catalog ordered by code
func (r *StockRepository) List(ctx context.Context, limit, offset int) ([]*models.Stock, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+stockColumns+` FROM stocks ORDER BY code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	defer rows.Close()

	stocks := []*models.Stock{}
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}
