package revision

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/common/db"
)

// PgStore reads and writes comment_revisions.
type PgStore struct {
	q db.Querier
}

// NewPgStore binds the store to a pool or a transaction.
func NewPgStore(q db.Querier) *PgStore {
	return &PgStore{q: q}
}

func (s *PgStore) CommentExists(ctx context.Context, commentID int64) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, commentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check comment existence: %w", err)
	}
	return exists, nil
}

func (s *PgStore) Latest(ctx context.Context, commentID int64) (*Revision, error) {
	query := `
		SELECT id, comment_id, version, content, created_at
		FROM comment_revisions
		WHERE comment_id = $1
		ORDER BY version DESC
		LIMIT 1
	`

	rev := &Revision{}
	err := s.q.QueryRow(ctx, query, commentID).Scan(
		&rev.ID,
		&rev.CommentID,
		&rev.Version,
		&rev.Content,
		&rev.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest revision: %w", err)
	}
	return rev, nil
}

func (s *PgStore) Insert(ctx context.Context, rev *Revision) error {
	query := `
		INSERT INTO comment_revisions (id, comment_id, version, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.q.Exec(ctx, query,
		rev.ID,
		rev.CommentID,
		rev.Version,
		rev.Content,
		rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert revision: %w", db.MapError(err))
	}
	return nil
}

func (s *PgStore) List(ctx context.Context, commentID int64) ([]*Revision, error) {
	query := `
		SELECT id, comment_id, version, content, created_at
		FROM comment_revisions
		WHERE comment_id = $1
		ORDER BY created_at DESC, version DESC
	`

	rows, err := s.q.Query(ctx, query, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revs []*Revision
	for rows.Next() {
		rev := &Revision{}
		if err := rows.Scan(&rev.ID, &rev.CommentID, &rev.Version, &rev.Content, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revs = append(revs, rev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating revisions: %w", err)
	}

	return revs, nil
}
