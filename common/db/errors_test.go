package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/wishstock/wishlist/common/apperr"
)

func TestMapError(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name string
		in   error
		want error
	}{
		{name: "no rows", in: fmt.Errorf("get wishlist: %w", pgx.ErrNoRows), want: apperr.ErrNotFound},
		{name: "unique", in: &pgconn.PgError{Code: "23505", ConstraintName: "wishlists_user_name_key"}, want: apperr.ErrDuplicate},
		{name: "rank collision", in: &pgconn.PgError{Code: "23505", ConstraintName: "wishlists_user_order_key"}, want: apperr.ErrConflict},
		{name: "wish stock rank collision", in: &pgconn.PgError{Code: "23505", ConstraintName: "wish_stocks_wishlist_order_key"}, want: apperr.ErrConflict},
		{name: "foreign key", in: &pgconn.PgError{Code: "23503"}, want: apperr.ErrNotFound},
		{name: "check", in: &pgconn.PgError{Code: "23514"}, want: apperr.ErrInvalidInput},
		{name: "serialization", in: &pgconn.PgError{Code: "40001"}, want: apperr.ErrConflict},
		{name: "deadlock", in: &pgconn.PgError{Code: "40P01"}, want: apperr.ErrConflict},
		{name: "already mapped", in: apperr.ErrPermissionDenied, want: apperr.ErrPermissionDenied},
		{name: "unknown", in: plain, want: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, MapError(tt.in), tt.want)
		})
	}

	assert.NoError(t, MapError(nil))
}

func TestMapErrorKeepsConstraintName(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "wish_stocks_wishlist_stock_key"})
	assert.Contains(t, err.Error(), "wish_stocks_wishlist_stock_key")
}

func TestRankCollisionIsNotDuplicate(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "wishlists_user_order_key"})
	assert.NotErrorIs(t, err, apperr.ErrDuplicate)
}
