package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/common/logger"
	commonmodels "github.com/wishstock/wishlist/common/models"
)

// StockService is the catalog behaviour the handler needs
type StockService interface {
	Get(ctx context.Context, id int64) (*commonmodels.Stock, error)
	List(ctx context.Context, limit, offset int) ([]*commonmodels.Stock, error)
}

// StockHandler serves the stock catalog
type StockHandler struct {
	service StockService
	log     *logger.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service StockService, log *logger.Logger) *StockHandler {
	return &StockHandler{service: service, log: log}
}

// ListStocks lists the catalog
// GET /api/v1/stocks?limit=20&offset=0
func (h *StockHandler) ListStocks(c echo.Context) error {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	stocks, err := h.service.List(c.Request().Context(), limit, offset)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, stocks)
}

// GetStock retrieves one stock
// GET /api/v1/stocks/:id
func (h *StockHandler) GetStock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return toHTTPError(c, h.log, err)
	}

	stock, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, stock)
}
