package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/revision"
)

// CommentService is the comment behaviour the handler needs
type CommentService interface {
	Create(ctx context.Context, userID, wishlistID int64, req *models.CommentRequest) (*models.CommentView, error)
	Reply(ctx context.Context, userID, wishlistID, parentID int64, req *models.CommentRequest) (*models.CommentView, error)
	List(ctx context.Context, userID, wishlistID int64, limit, offset int) ([]*models.CommentView, error)
	Get(ctx context.Context, userID, wishlistID, id int64) (*models.CommentView, error)
	Replies(ctx context.Context, userID, wishlistID, parentID int64) (*models.CommentThread, error)
	History(ctx context.Context, userID, wishlistID, id int64) ([]*revision.Revision, error)
	Update(ctx context.Context, userID, wishlistID, id int64, req *models.CommentRequest) (*models.CommentView, error)
	Delete(ctx context.Context, userID, wishlistID, id int64) error
}

// CommentHandler handles wishlist comments
type CommentHandler struct {
	service CommentService
	log     *logger.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service CommentService, log *logger.Logger) *CommentHandler {
	return &CommentHandler{service: service, log: log}
}

func (h *CommentHandler) ids(c echo.Context) (userID, wishlistID, commentID int64, err error) {
	if userID, err = currentUserID(c); err != nil {
		return
	}
	if wishlistID, err = pathID(c, "id"); err != nil {
		err = toHTTPError(c, h.log, err)
		return
	}
	if c.Param("comment_id") == "" {
		return
	}
	if commentID, err = pathID(c, "comment_id"); err != nil {
		err = toHTTPError(c, h.log, err)
	}
	return
}

// CreateComment comments on a wishlist
// POST /api/v1/wishlists/:id/comments
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, wishlistID, _, err := h.ids(c)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return toHTTPError(c, h.log, err)
	}

	view, err := h.service.Create(c.Request().Context(), userID, wishlistID, &req)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// ListComments lists every comment of a wishlist, replies included
// GET /api/v1/wishlists/:id/comments?limit=20&offset=0
func (h *CommentHandler) ListComments(c echo.Context) error {
	userID, wishlistID, _, err := h.ids(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	views, err := h.service.List(c.Request().Context(), userID, wishlistID, limit, offset)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetComment retrieves a comment with its history
// GET /api/v1/wishlists/:id/comments/:comment_id
func (h *CommentHandler) GetComment(c echo.Context) error {
	userID, wishlistID, commentID, err := h.ids(c)
	if err != nil {
		return err
	}

	view, err := h.service.Get(c.Request().Context(), userID, wishlistID, commentID)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateComment edits the caller's comment
// PUT /api/v1/wishlists/:id/comments/:comment_id
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	userID, wishlistID, commentID, err := h.ids(c)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return toHTTPError(c, h.log, err)
	}

	view, err := h.service.Update(c.Request().Context(), userID, wishlistID, commentID, &req)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, view)
}

// DeleteComment deletes the caller's comment
// DELETE /api/v1/wishlists/:id/comments/:comment_id
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, wishlistID, commentID, err := h.ids(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, wishlistID, commentID); err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateReply replies to a top-level comment
// POST /api/v1/wishlists/:id/comments/:comment_id/replies
func (h *CommentHandler) CreateReply(c echo.Context) error {
	userID, wishlistID, parentID, err := h.ids(c)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := bind(c, &req); err != nil {
		return toHTTPError(c, h.log, err)
	}

	view, err := h.service.Reply(c.Request().Context(), userID, wishlistID, parentID, &req)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// ListReplies returns a comment with its replies
// GET /api/v1/wishlists/:id/comments/:comment_id/replies
func (h *CommentHandler) ListReplies(c echo.Context) error {
	userID, wishlistID, parentID, err := h.ids(c)
	if err != nil {
		return err
	}

	thread, err := h.service.Replies(c.Request().Context(), userID, wishlistID, parentID)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, thread)
}

// GetHistory returns a comment's revisions, newest first
// GET /api/v1/wishlists/:id/comments/:comment_id/history
func (h *CommentHandler) GetHistory(c echo.Context) error {
	userID, wishlistID, commentID, err := h.ids(c)
	if err != nil {
		return err
	}

	history, err := h.service.History(c.Request().Context(), userID, wishlistID, commentID)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, history)
}
