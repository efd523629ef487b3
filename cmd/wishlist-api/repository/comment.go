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

// CommentRepository handles database operations for comments
type CommentRepository struct {
	q db.Querier
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(q db.Querier) *CommentRepository {
	return &CommentRepository{q: q}
}

const commentColumns = `id, user_id, wishlist_id, content, parent_id, is_reply, created_at, updated_at`

func scanComment(row pgx.Row) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.UserID, &c.WishlistID, &c.Content, &c.ParentID, &c.IsReply, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *CommentRepository) list(ctx context.Context, query string, args ...any) ([]*models.Comment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Create inserts c and fills in its id and timestamps
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (user_id, wishlist_id, content, parent_id, is_reply)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		c.UserID,
		c.WishlistID,
		c.Content,
		c.ParentID,
		c.IsReply,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", db.MapError(err))
	}
	return nil
}

// Get retrieves a comment of wishlistID
func (r *CommentRepository) Get(ctx context.Context, wishlistID, id int64) (*models.Comment, error) {
	c, err := scanComment(r.q.QueryRow(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE wishlist_id = $1 AND id = $2`, wishlistID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// List returns a page of every comment on wishlistID, replies included,
// oldest first. Replies whose parent was deleted are listed too.
func (r *CommentRepository) List(ctx context.Context, wishlistID int64, limit, offset int) ([]*models.Comment, error) {
	return r.list(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE wishlist_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, wishlistID, limit, offset)
}

// ListReplies returns the replies to parentID, oldest first
func (r *CommentRepository) ListReplies(ctx context.Context, wishlistID, parentID int64) ([]*models.Comment, error) {
	return r.list(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE wishlist_id = $1 AND parent_id = $2
		ORDER BY created_at, id
	`, wishlistID, parentID)
}

// UpdateContent rewrites the content of c. The row lock it takes is held
// until the transaction ends.
func (r *CommentRepository) UpdateContent(ctx context.Context, c *models.Comment) error {
	query := `
		UPDATE comments SET content = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, c.ID, c.Content).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("comment", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// Delete removes a comment. Its revisions go with it; its replies stay.
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("comment", id)
	}
	return nil
}

// CountReplies counts the replies that point at parentID
func (r *CommentRepository) CountReplies(ctx context.Context, parentID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE parent_id = $1`, parentID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count replies: %w", err)
	}
	return n, nil
}
