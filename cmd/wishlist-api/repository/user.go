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

// UserRepository reads accounts. Accounts are created elsewhere.
type UserRepository struct {
	q db.Querier
}

// NewUserRepository creates a new user repository
func NewUserRepository(q db.Querier) *UserRepository {
	return &UserRepository{q: q}
}

const userColumns = `id, username, email, hashed_password, is_active, is_admin, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.IsActive, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

// GetByUsername retrieves a user by the name carried in access tokens
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
