// Package revision keeps the append-only edit history of comments.
package revision

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/logger"
)

// Revision is an immutable snapshot of a comment's content.
type Revision struct {
	ID        uuid.UUID `json:"id"`
	CommentID int64     `json:"comment_id"`
	Version   int       `json:"version"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists revisions. Implementations bound to a transaction make the
// revision commit with the comment write that produced it.
type Store interface {
	CommentExists(ctx context.Context, commentID int64) (bool, error)
	// Latest returns nil, nil when the comment has no revisions yet.
	Latest(ctx context.Context, commentID int64) (*Revision, error)
	Insert(ctx context.Context, rev *Revision) error
	// List returns revisions newest first.
	List(ctx context.Context, commentID int64) ([]*Revision, error)
}

// Log appends and reads revisions.
type Log struct {
	log *logger.Logger
	now func() time.Time
}

// NewLog creates a revision log using the wall clock.
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log, now: time.Now}
}

// WithClock replaces the clock. Tests use it to force equal timestamps.
func (l *Log) WithClock(now func() time.Time) *Log {
	return &Log{log: l.log, now: now}
}

// RecordInitial stores the content a comment was created with. It fails with
// apperr.ErrDuplicate if the comment already has history.
func (l *Log) RecordInitial(ctx context.Context, s Store, commentID int64, content string) (*Revision, error) {
	if err := l.requireComment(ctx, s, commentID); err != nil {
		return nil, err
	}

	latest, err := s.Latest(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		return nil, fmt.Errorf("comment %d already has %d revisions: %w", commentID, latest.Version, apperr.ErrDuplicate)
	}

	return l.append(ctx, s, commentID, content, nil)
}

// RecordEdit appends the new content of an edited comment. The caller must
// have updated the comment row in the same transaction first; that row lock
// serializes concurrent edits of one comment.
func (l *Log) RecordEdit(ctx context.Context, s Store, commentID int64, content string) (*Revision, error) {
	latest, err := s.Latest(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, fmt.Errorf("comment %d has no initial revision: %w", commentID, apperr.ErrNotFound)
	}

	return l.append(ctx, s, commentID, content, latest)
}

// FetchHistory returns every revision of a comment, newest first.
func (l *Log) FetchHistory(ctx context.Context, s Store, commentID int64) ([]*Revision, error) {
	if err := l.requireComment(ctx, s, commentID); err != nil {
		return nil, err
	}

	revs, err := s.List(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		l.log.WithContext(ctx).Warn("live comment without history", "comment_id", commentID)
	}
	return revs, nil
}

func (l *Log) requireComment(ctx context.Context, s Store, commentID int64) error {
	ok, err := s.CommentExists(ctx, commentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("comment", commentID)
	}
	return nil
}

// append stamps the next revision. created_at is kept strictly after the
// previous entry even when the clock stalls or steps back; timestamps are
// truncated to the store's microsecond precision.
func (l *Log) append(ctx context.Context, s Store, commentID int64, content string, prev *Revision) (*Revision, error) {
	rev := &Revision{
		ID:        uuid.New(),
		CommentID: commentID,
		Version:   1,
		Content:   content,
		CreatedAt: l.now().UTC().Truncate(time.Microsecond),
	}
	if prev != nil {
		rev.Version = prev.Version + 1
		if !rev.CreatedAt.After(prev.CreatedAt) {
			rev.CreatedAt = prev.CreatedAt.Add(time.Microsecond)
		}
	}

	if err := s.Insert(ctx, rev); err != nil {
		return nil, err
	}

	l.log.WithContext(ctx).Debug("revision recorded",
		"comment_id", commentID,
		"version", rev.Version,
	)
	return rev, nil
}
