package service

import (
	"fmt"

	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/apperr"
)

// RequireOwner allows only the owner of w.
func RequireOwner(w *models.Wishlist, userID int64) error {
	if w.UserID != userID {
		return fmt.Errorf("wishlist %d is not owned by user %d: %w", w.ID, userID, apperr.ErrPermissionDenied)
	}
	return nil
}

// RequireOpenOrOwner allows anyone when w is open, otherwise only its owner.
func RequireOpenOrOwner(w *models.Wishlist, userID int64) error {
	if w.IsOpen {
		return nil
	}
	return RequireOwner(w, userID)
}
