package models

import "time"

// Wishlist is a user's named, ranked collection of stocks
// Maps to: wishlists table
type Wishlist struct {
	ID          int64  `db:"id" json:"id"`
	UserID      int64  `db:"user_id" json:"user_id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`

	// Open wishlists are readable by every authenticated user
	IsOpen bool `db:"is_open" json:"is_open"`

	// Dense zero-based position among the owner's wishlists
	OrderNum int `db:"order_num" json:"order_num"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateWishlistRequest is the body of POST /wishlists
type CreateWishlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
}

// WishlistPatch holds the fields a merge patch may change
type WishlistPatch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsOpen      bool   `json:"is_open"`
}

// ListWishlistsQuery selects and orders a page of the caller's wishlists
type ListWishlistsQuery struct {
	Sort    string
	OrderBy string
	Limit   int
	Offset  int
}
