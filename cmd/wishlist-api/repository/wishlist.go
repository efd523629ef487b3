package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/db"
)

// WishlistRepository handles database operations for wishlists.
// Rank changes go through rank.Reindexer, not through this repository.
type WishlistRepository struct {
	q db.Querier
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(q db.Querier) *WishlistRepository {
	return &WishlistRepository{q: q}
}

const wishlistColumns = `id, user_id, name, description, is_open, order_num, created_at, updated_at`

func scanWishlist(row pgx.Row) (*models.Wishlist, error) {
	w := &models.Wishlist{}
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.IsOpen, &w.OrderNum, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// Create inserts w at w.OrderNum and fills in its id and timestamps
func (r *WishlistRepository) Create(ctx context.Context, w *models.Wishlist) error {
	query := `
		INSERT INTO wishlists (user_id, name, description, is_open, order_num)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		w.UserID,
		w.Name,
		w.Description,
		w.IsOpen,
		w.OrderNum,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wishlist: %w", db.MapError(err))
	}

	return nil
}

// GetByID retrieves a wishlist by id
func (r *WishlistRepository) GetByID(ctx context.Context, id int64) (*models.Wishlist, error) {
	w, err := scanWishlist(r.q.QueryRow(ctx, `SELECT `+wishlistColumns+` FROM wishlists WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("wishlist", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return w, nil
}

// List returns a page of userID's wishlists. q.Sort must already be one of
// the whitelisted column names and q.OrderBy "asc" or "desc".
func (r *WishlistRepository) List(ctx context.Context, userID int64, q models.ListWishlistsQuery) ([]*models.Wishlist, error) {
	direction := "ASC"
	if strings.EqualFold(q.OrderBy, "desc") {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM wishlists
		WHERE user_id = $1
		ORDER BY %s %s, id
		LIMIT $2 OFFSET $3
	`, wishlistColumns, pgx.Identifier{q.Sort}.Sanitize(), direction)

	rows, err := r.q.Query(ctx, query, userID, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlists: %w", err)
	}
	defer rows.Close()

	wishlists := []*models.Wishlist{}
	for rows.Next() {
		w, err := scanWishlist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist: %w", err)
		}
		wishlists = append(wishlists, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list wishlists: %w", err)
	}
	return wishlists, nil
}

// Update writes name, description and is_open of w
func (r *WishlistRepository) Update(ctx context.Context, w *models.Wishlist) error {
	query := `
		UPDATE wishlists
		SET name = $2, description = $3, is_open = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING order_num, updated_at
	`

	err := r.q.QueryRow(ctx, query, w.ID, w.Name, w.Description, w.IsOpen).Scan(&w.OrderNum, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("wishlist", w.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update wishlist: %w", db.MapError(err))
	}
	return nil
}

// Touch bumps updated_at after a reorder
func (r *WishlistRepository) Touch(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE wishlists SET updated_at = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to touch wishlist: %w", err)
	}
	return nil
}
