package models

import (
	"time"

	"github.com/wishstock/wishlist/common/revision"
)

// Comment is a note on a wishlist, optionally replying to another comment
// Maps to: comments table
type Comment struct {
	ID         int64  `db:"id" json:"id"`
	UserID     int64  `db:"user_id" json:"user_id"`
	WishlistID int64  `db:"wishlist_id" json:"wishlist_id"`
	Content    string `db:"content" json:"content"`

	// Set for replies; replies are one level deep
	ParentID *int64 `db:"parent_id" json:"parent_id,omitempty"`
	IsReply  bool   `db:"is_reply" json:"is_reply"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CommentView is the API shape of a comment
type CommentView struct {
	*Comment
	ContentHTML string               `json:"content_html"`
	History     []*revision.Revision `json:"history,omitempty"`
}

// CommentThread is a parent comment with its direct replies
type CommentThread struct {
	Comment *CommentView   `json:"comment"`
	Replies []*CommentView `json:"replies"`
}

// CommentRequest is the body for creating, replying to or editing a comment
type CommentRequest struct {
	Content string `json:"content"`
}
