package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/cmd/wishlist-api/models"
	"github.com/wishstock/wishlist/common/logger"
)

// WishStockService is the wishlist entry behaviour the handler needs
type WishStockService interface {
	Add(ctx context.Context, userID, wishlistID int64, req *models.AddWishStockRequest) (*models.WishStock, error)
	List(ctx context.Context, userID, wishlistID int64, filter string) ([]*models.WishStock, error)
	Get(ctx context.Context, userID, wishlistID, id int64) (*models.WishStock, error)
	Patch(ctx context.Context, userID, wishlistID, id int64, patch []byte) (*models.WishStock, error)
	Delete(ctx context.Context, userID, wishlistID, id int64) error
	Move(ctx context.Context, userID, wishlistID, id int64, hopeOrder int) (*models.WishStock, error)
}

// WishStockHandler handles the stocks inside a wishlist
type WishStockHandler struct {
	service WishStockService
	log     *logger.Logger
}

// NewWishStockHandler creates a new wish stock handler
func NewWishStockHandler(service WishStockService, log *logger.Logger) *WishStockHandler {
	return &WishStockHandler{service: service, log: log}
}

// ids reads the caller and the :id and :stock_id path parameters
func (h *WishStockHandler) ids(c echo.Context) (userID, wishlistID, id int64, err error) {
	if userID, err = currentUserID(c); err != nil {
		return
	}
	if wishlistID, err = pathID(c, "id"); err != nil {
		err = toHTTPError(c, h.log, err)
		return
	}
	if id, err = pathID(c, "stock_id"); err != nil {
		err = toHTTPError(c, h.log, err)
	}
	return
}

// AddStock appends a stock to a wishlist
// POST /api/v1/wishlists/:id/stocks
func (h *WishStockHandler) AddStock(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	wishlistID, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	var req models.AddWishStockRequest
	if err := bind(c, &req); err != nil {
		return toHTTPError(c, h.log, err)
	}

	ws, err := h.service.Add(c.Request().Context(), userID, wishlistID, &req)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, ws)
}

// ListStocks lists a wishlist's stocks by rank
// GET /api/v1/wishlists/:id/stocks?filter=stock.return_rate > 0.0
func (h *WishStockHandler) ListStocks(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	wishlistID, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	entries, err := h.service.List(c.Request().Context(), userID, wishlistID, c.QueryParam("filter"))
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// GetStock retrieves one wishlist entry
// GET /api/v1/wishlists/:id/stocks/:stock_id
func (h *WishStockHandler) GetStock(c echo.Context) error {
	userID, wishlistID, id, err := h.ids(c)
	if err != nil {
		return err
	}

	ws, err := h.service.Get(c.Request().Context(), userID, wishlistID, id)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ws)
}

// PatchStock applies a JSON merge patch to an entry
// PATCH /api/v1/wishlists/:id/stocks/:stock_id
func (h *WishStockHandler) PatchStock(c echo.Context) error {
	userID, wishlistID, id, err := h.ids(c)
	if err != nil {
		return err
	}
	patch, err := readPatch(c)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	ws, err := h.service.Patch(c.Request().Context(), userID, wishlistID, id, patch)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ws)
}

// DeleteStock removes an entry from a wishlist
// DELETE /api/v1/wishlists/:id/stocks/:stock_id
func (h *WishStockHandler) DeleteStock(c echo.Context) error {
	userID, wishlistID, id, err := h.ids(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, wishlistID, id); err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MoveStock changes an entry's rank
// PUT /api/v1/wishlists/:id/stocks/:stock_id/order?hope_order=0
func (h *WishStockHandler) MoveStock(c echo.Context) error {
	userID, wishlistID, id, err := h.ids(c)
	if err != nil {
		return err
	}
	hope, err := requiredQueryInt(c, "hope_order")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	ws, err := h.service.Move(c.Request().Context(), userID, wishlistID, id, hope)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, ws)
}
