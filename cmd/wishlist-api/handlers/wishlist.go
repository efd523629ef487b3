package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/logger"
)

// WishlistService is the wishlist behaviour the handler needs
type WishlistService interface {
	Create(ctx context.Context, userID int64, req *models.CreateWishlistRequest) (*models.Wishlist, error)
	List(ctx context.Context, userID int64, q models.ListWishlistsQuery) ([]*models.Wishlist, error)
	Get(ctx context.Context, userID, id int64) (*models.Wishlist, error)
	Patch(ctx context.Context, userID, id int64, patch []byte) (*models.Wishlist, error)
	Delete(ctx context.Context, userID, id int64) error
	Move(ctx context.Context, userID, id int64, hopeOrder int) (*models.Wishlist, error)
}

// WishlistHandler handles wishlist requests
type WishlistHandler struct {
	service WishlistService
	log     *logger.Logger
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(service WishlistService, log *logger.Logger) *WishlistHandler {
	return &WishlistHandler{service: service, log: log}
}

// CreateWishlist appends a wishlist for the caller
// POST /api/v1/wishlists
func (h *WishlistHandler) CreateWishlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreateWishlistRequest
	if err := bind(c, &req); err != nil {
		return toHTTPError(c, h.log, err)
	}

	w, err := h.service.Create(c.Request().Context(), userID, &req)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, w)
}

// ListWishlists lists the caller's wishlists
// GET /api/v1/wishlists?sort=order_num&order_by=asc&limit=20&offset=0
func (h *WishlistHandler) ListWishlists(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	q := models.ListWishlistsQuery{
		Sort:    c.QueryParam("sort"),
		OrderBy: c.QueryParam("order_by"),
	}
	if q.Limit, err = queryInt(c, "limit", 0); err != nil {
		return toHTTPError(c, h.log, err)
	}
	if q.Offset, err = queryInt(c, "offset", 0); err != nil {
		return toHTTPError(c, h.log, err)
	}

	wishlists, err := h.service.List(c.Request().Context(), userID, q)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, wishlists)
}

// GetWishlist retrieves a wishlist
// GET /api/v1/wishlists/:id
func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	w, err := h.service.Get(c.Request().Context(), userID, id)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, w)
}

// PatchWishlist applies a JSON merge patch
// PATCH /api/v1/wishlists/:id
func (h *WishlistHandler) PatchWishlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	patch, err := readPatch(c)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	w, err := h.service.Patch(c.Request().Context(), userID, id, patch)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, w)
}

// DeleteWishlist removes a wishlist
// DELETE /api/v1/wishlists/:id
func (h *WishlistHandler) DeleteWishlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	if err := h.service.Delete(c.Request().Context(), userID, id); err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoveWishlist changes a wishlist's rank
// PUT /api/v1/wishlists/:id/order?hope_order=0
func (h *WishlistHandler) MoveWishlist(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	hope, err := requiredQueryInt(c, "hope_order")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	w, err := h.service.Move(c.Request().Context(), userID, id, hope)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, w)
}
