package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/db"
)

// WishStockRepository handles database operations for wishlist entries.
// Reads join the stock row so responses carry the last price.
type WishStockRepository struct {
	q db.Querier
}

// NewWishStockRepository creates a new wish stock repository
func NewWishStockRepository(q db.Querier) *WishStockRepository {
	return &WishStockRepository{q: q}
}

const wishStockSelect = `
	SELECT ws.id, ws.wishlist_id, ws.stock_id, ws.purchase_price, ws.holding_num,
	       ws.order_num, ws.created_at, ws.updated_at,
	       s.code, s.name, s.market, s.price
	FROM wish_stocks ws
	JOIN stocks s ON s.id = ws.stock_id
`

func scanWishStock(row pgx.Row) (*models.WishStock, error) {
	ws := &models.WishStock{}
	err := row.Scan(
		&ws.ID, &ws.WishlistID, &ws.StockID, &ws.PurchasePrice, &ws.HoldingNum,
		&ws.OrderNum, &ws.CreatedAt, &ws.UpdatedAt,
		&ws.StockCode, &ws.StockName, &ws.Market, &ws.LastPrice,
	)
	if err != nil {
		return nil, err
	}
	ws.ComputeReturnRate()
	return ws, nil
}

// Create inserts ws at ws.OrderNum and fills in its id and timestamps
func (r *WishStockRepository) Create(ctx context.Context, ws *models.WishStock) error {
	query := `
		INSERT INTO wish_stocks (wishlist_id, stock_id, purchase_price, holding_num, order_num)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		ws.WishlistID,
		ws.StockID,
		ws.PurchasePrice,
		ws.HoldingNum,
		ws.OrderNum,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to add stock to wishlist: %w", db.MapError(err))
	}
	return nil
}

// Get retrieves one entry of wishlistID
func (r *WishStockRepository) Get(ctx context.Context, wishlistID, id int64) (*models.WishStock, error) {
	ws, err := scanWishStock(r.q.QueryRow(ctx, wishStockSelect+` WHERE ws.wishlist_id = $1 AND ws.id = $2`, wishlistID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("wish stock", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wish stock: %w", err)
	}
	return ws, nil
}

// List returns every entry of wishlistID by rank
func (r *WishStockRepository) List(ctx context.Context, wishlistID int64) ([]*models.WishStock, error) {
	rows, err := r.q.Query(ctx, wishStockSelect+` WHERE ws.wishlist_id = $1 ORDER BY ws.order_num`, wishlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wish stocks: %w", err)
	}
	defer rows.Close()

	entries := []*models.WishStock{}
	for rows.Next() {
		ws, err := scanWishStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wish stock: %w", err)
		}
		entries = append(entries, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list wish stocks: %w", err)
	}
	return entries, nil
}

// Update writes purchase_price and holding_num of ws
func (r *WishStockRepository) Update(ctx context.Context, ws *models.WishStock) error {
	query := `
		UPDATE wish_stocks
		SET purchase_price = $3, holding_num = $4, updated_at = NOW()
		WHERE wishlist_id = $1 AND id = $2
	`

	tag, err := r.q.Exec(ctx, query, ws.WishlistID, ws.ID, ws.PurchasePrice, ws.HoldingNum)
	if err != nil {
		return fmt.Errorf("failed to update wish stock: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("wish stock", ws.ID)
	}
	return nil
}
