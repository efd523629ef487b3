package rank

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/db"
)

// Siblings is the query capability the Reindexer needs over one ranked
// table. Every method is confined to a single scope.
type Siblings interface {
	// Lock serializes writers on scope until the surrounding transaction ends.
	Lock(ctx context.Context, scope int64) error
	Count(ctx context.Context, scope int64) (int, error)
	// RankOf fails with apperr.ErrNotFound when id is not a member of scope.
	RankOf(ctx context.Context, scope, id int64) (int, error)
	// Shift adds delta to every rank in [lo, hi] with one statement.
	Shift(ctx context.Context, scope int64, lo, hi, delta int) (int64, error)
	SetRank(ctx context.Context, scope, id int64, rank int) error
	Delete(ctx context.Context, scope, id int64) error
	// Ranks lists the scope's ranks in ascending order.
	Ranks(ctx context.Context, scope int64) ([]int, error)
}

// PgSiblings runs sibling queries against PostgreSQL. Bind it to a pgx.Tx so
// the lock, the shift and the caller's own writes commit together.
type PgSiblings struct {
	q     db.Querier
	table Table

	countSQL  string
	rankOfSQL string
	shiftSQL  string
	setSQL    string
	deleteSQL string
	ranksSQL  string
}

// NewPgSiblings builds the statements for table once.
func NewPgSiblings(q db.Querier, table Table) *PgSiblings {
	t := pgx.Identifier{table.Name}.Sanitize()
	id := pgx.Identifier{table.IDColumn}.Sanitize()
	scope := pgx.Identifier{table.ScopeColumn}.Sanitize()
	rank := pgx.Identifier{table.RankColumn}.Sanitize()

	return &PgSiblings{
		q:         q,
		table:     table,
		countSQL:  fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, t, scope),
		rankOfSQL: fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`, rank, t, scope, id),
		shiftSQL: fmt.Sprintf(`UPDATE %s SET %s = %s + $4 WHERE %s = $1 AND %s BETWEEN $2 AND $3`,
			t, rank, rank, scope, rank),
		setSQL:    fmt.Sprintf(`UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2`, t, rank, scope, id),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, t, scope, id),
		ranksSQL:  fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`, rank, t, scope, rank),
	}
}

// Lock takes a transaction-scoped advisory lock keyed by table and scope.
func (s *PgSiblings) Lock(ctx context.Context, scope int64) error {
	_, err := s.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1::int4, hashint8($2::int8))`, s.table.LockKey, scope)
	if err != nil {
		return fmt.Errorf("lock %s scope %d: %w", s.table.Name, scope, err)
	}
	return nil
}

func (s *PgSiblings) Count(ctx context.Context, scope int64) (int, error) {
	var n int
	if err := s.q.QueryRow(ctx, s.countSQL, scope).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s in scope %d: %w", s.table.Name, scope, err)
	}
	return n, nil
}

func (s *PgSiblings) RankOf(ctx context.Context, scope, id int64) (int, error) {
	var r int
	err := s.q.QueryRow(ctx, s.rankOfSQL, scope, id).Scan(&r)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.NotFound(s.table.Name, id)
	}
	if err != nil {
		return 0, fmt.Errorf("rank of %s %d: %w", s.table.Name, id, err)
	}
	return r, nil
}

func (s *PgSiblings) Shift(ctx context.Context, scope int64, lo, hi, delta int) (int64, error) {
	tag, err := s.q.Exec(ctx, s.shiftSQL, scope, lo, hi, delta)
	if err != nil {
		return 0, fmt.Errorf("shift %s ranks [%d,%d] by %d: %w", s.table.Name, lo, hi, delta, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PgSiblings) SetRank(ctx context.Context, scope, id int64, rank int) error {
	tag, err := s.q.Exec(ctx, s.setSQL, scope, id, rank)
	if err != nil {
		return fmt.Errorf("set rank of %s %d: %w", s.table.Name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(s.table.Name, id)
	}
	return nil
}

func (s *PgSiblings) Delete(ctx context.Context, scope, id int64) error {
	tag, err := s.q.Exec(ctx, s.deleteSQL, scope, id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", s.table.Name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(s.table.Name, id)
	}
	return nil
}

func (s *PgSiblings) Ranks(ctx context.Context, scope int64) ([]int, error) {
	rows, err := s.q.Query(ctx, s.ranksSQL, scope)
	if err != nil {
		return nil, fmt.Errorf("list %s ranks: %w", s.table.Name, err)
	}
	ranks, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan %s ranks: %w", s.table.Name, err)
	}
	return ranks, nil
}
