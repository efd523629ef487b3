package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/cmd/wishlist-api/repository"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/content"
	"github.com/wishstock/wishlist/common/db"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/revision"
)

// CommentService handles comments and their revision history. A comment
// write and the revision it produces commit together.
type CommentService struct {
	db        *db.DB
	revisions *revision.Log
	renderer  *content.Renderer
	log       *logger.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(database *db.DB, revisions *revision.Log, renderer *content.Renderer, log *logger.Logger) *CommentService {
	return &CommentService{
		db:        database,
		revisions: revisions,
		renderer:  renderer,
		log:       log,
	}
}

// Create adds a top-level comment to a readable wishlist
func (s *CommentService) Create(ctx context.Context, userID, wishlistID int64, req *models.CommentRequest) (*models.CommentView, error) {
	return s.create(ctx, userID, wishlistID, nil, req)
}

// Reply answers a top-level comment. Replies cannot be replied to.
func (s *CommentService) Reply(ctx context.Context, userID, wishlistID, parentID int64, req *models.CommentRequest) (*models.CommentView, error) {
	return s.create(ctx, userID, wishlistID, &parentID, req)
}

func (s *CommentService) create(ctx context.Context, userID, wishlistID int64, parentID *int64, req *models.CommentRequest) (*models.CommentView, error) {
	body, err := s.renderer.Normalize(req.Content)
	if err != nil {
		return nil, err
	}

	var view *models.CommentView
	err = s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := readableWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}

		repo := repository.NewCommentRepository(tx)
		c := &models.Comment{
			UserID:     userID,
			WishlistID: wishlistID,
			Content:    body,
		}

		if parentID != nil {
			parent, err := repo.Get(ctx, wishlistID, *parentID)
			if err != nil {
				return err
			}
			if parent.IsReply {
				return apperr.Invalid("comment %d is a reply and cannot be replied to", parent.ID)
			}
			c.ParentID = parentID
			c.IsReply = true
		}

		if err := repo.Create(ctx, c); err != nil {
			return err
		}

		rev, err := s.revisions.RecordInitial(ctx, revision.NewPgStore(tx), c.ID, c.Content)
		if err != nil {
			return err
		}

		view = s.view(c, []*revision.Revision{rev})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("created comment",
		"comment_id", view.ID,
		"wishlist_id", wishlistID,
		"is_reply", view.IsReply,
	)
	return view, nil
}

// List returns a page of a wishlist's comments, replies included, each with
// its history
func (s *CommentService) List(ctx context.Context, userID, wishlistID int64, limit, offset int) ([]*models.CommentView, error) {
	limit, offset, err := normalizePage(limit, offset)
	if err != nil {
		return nil, err
	}

	var out []*models.CommentView
	err = s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := readableWishlist(ctx, tx, userID, wishlistID); err != nil {
			return err
		}

		comments, err := repository.NewCommentRepository(tx).List(ctx, wishlistID, limit, offset)
		if err != nil {
			return err
		}

		out, err = s.withHistory(ctx, tx, comments)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a comment with its full history
func (s *CommentService) Get(ctx context.Context, userID, wishlistID, id int64) (*models.CommentView, error) {
	if _, err := readableWishlist(ctx, s.db, userID, wishlistID); err != nil {
		return nil, err
	}

	c, err := repository.NewCommentRepository(s.db).Get(ctx, wishlistID, id)
	if err != nil {
		return nil, err
	}

	history, err := s.revisions.FetchHistory(ctx, revision.NewPgStore(s.db), c.ID)
	if err != nil {
		return nil, err
	}
	return s.view(c, history), nil
}

// Replies returns a comment and its direct replies, all with history
func (s *CommentService) Replies(ctx context.Context, userID, wishlistID, parentID int64) (*models.CommentThread, error) {
	parent, err := s.Get(ctx, userID, wishlistID, parentID)
	if err != nil {
		return nil, err
	}

	replies, err := repository.NewCommentRepository(s.db).ListReplies(ctx, wishlistID, parentID)
	if err != nil {
		return nil, err
	}
	views, err := s.withHistory(ctx, s.db, replies)
	if err != nil {
		return nil, err
	}

	return &models.CommentThread{
		Comment: parent,
		Replies: views,
	}, nil
}

// History returns every revision of a comment, newest first
func (s *CommentService) History(ctx context.Context, userID, wishlistID, id int64) ([]*revision.Revision, error) {
	if _, err := readableWishlist(ctx, s.db, userID, wishlistID); err != nil {
		return nil, err
	}
	if _, err := repository.NewCommentRepository(s.db).Get(ctx, wishlistID, id); err != nil {
		return nil, err
	}
	return s.revisions.FetchHistory(ctx, revision.NewPgStore(s.db), id)
}

// Update replaces the content of the user's own comment and records the
// edit. Edits of one comment are serialized by the comment's row lock.
func (s *CommentService) Update(ctx context.Context, userID, wishlistID, id int64, req *models.CommentRequest) (*models.CommentView, error) {
	body, err := s.renderer.Normalize(req.Content)
	if err != nil {
		return nil, err
	}

	var view *models.CommentView
	err = s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		c, err := s.authored(ctx, tx, userID, wishlistID, id)
		if err != nil {
			return err
		}

		c.Content = body
		repo := repository.NewCommentRepository(tx)
		if err := repo.UpdateContent(ctx, c); err != nil {
			return err
		}

		store := revision.NewPgStore(tx)
		if _, err := s.revisions.RecordEdit(ctx, store, c.ID, c.Content); err != nil {
			return err
		}

		history, err := s.revisions.FetchHistory(ctx, store, c.ID)
		if err != nil {
			return err
		}
		view = s.view(c, history)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithContext(ctx).Info("updated comment", "comment_id", id, "revisions", len(view.History))
	return view, nil
}

// Delete removes the user's own comment and its history. Replies to it are
// left in place.
func (s *CommentService) Delete(ctx context.Context, userID, wishlistID, id int64) error {
	return s.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		c, err := s.authored(ctx, tx, userID, wishlistID, id)
		if err != nil {
			return err
		}

		repo := repository.NewCommentRepository(tx)
		if !c.IsReply {
			orphans, err := repo.CountReplies(ctx, c.ID)
			if err != nil {
				return err
			}
			if orphans > 0 {
				s.log.WithContext(ctx).Warn("deleting comment leaves replies without a parent",
					"comment_id", c.ID,
					"replies", orphans,
				)
			}
		}

		return repo.Delete(ctx, c.ID)
	})
}

// authored loads a comment of an existing wishlist and checks that userID
// wrote it.
func (s *CommentService) authored(ctx context.Context, q db.Querier, userID, wishlistID, id int64) (*models.Comment, error) {
	if _, err := repository.NewWishlistRepository(q).GetByID(ctx, wishlistID); err != nil {
		return nil, err
	}

	c, err := repository.NewCommentRepository(q).Get(ctx, wishlistID, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("comment %d is not written by user %d: %w", id, userID, apperr.ErrPermissionDenied)
	}
	return c, nil
}

func (s *CommentService) view(c *models.Comment, history []*revision.Revision) *models.CommentView {
	return &models.CommentView{
		Comment:     c,
		ContentHTML: s.renderer.HTML(c.Content),
		History:     history,
	}
}

func (s *CommentService) withHistory(ctx context.Context, q db.Querier, comments []*models.Comment) ([]*models.CommentView, error) {
	store := revision.NewPgStore(q)
	out := make([]*models.CommentView, 0, len(comments))
	for _, c := range comments {
		history, err := s.revisions.FetchHistory(ctx, store, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, s.view(c, history))
	}
	return out, nil
}
