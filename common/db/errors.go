package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wishstock/wishlist/common/apperr"
)

// SQLSTATE codes the service reacts to
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Unique constraints on a rank column end in this suffix. A violation there
// means two writers ranked the same scope from stale snapshots.
const rankConstraintSuffix = "_order_key"

// MapError translates driver errors into apperr kinds. Errors that already
// carry a kind, and errors it does not recognise, are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && !errors.Is(err, apperr.ErrNotFound) {
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		if strings.HasSuffix(pgErr.ConstraintName, rankConstraintSuffix) {
			return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", apperr.ErrDuplicate, pgErr.ConstraintName)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, pgErr.ConstraintName)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", apperr.ErrInvalidInput, pgErr.ConstraintName)
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.Message)
	}

	return err
}
