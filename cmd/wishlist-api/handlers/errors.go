package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/logger"
)

// toHTTPError maps service errors to HTTP errors. Unknown errors are logged
// and reported as 500 without their detail.
func toHTTPError(c echo.Context, log *logger.Logger, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidRank), errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrPermissionDenied), errors.Is(err, apperr.ErrInactiveUser):
		status = http.StatusForbidden
	case errors.Is(err, apperr.ErrDuplicate), errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		log.WithContext(c.Request().Context()).Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return echo.NewHTTPError(status, "internal server error").SetInternal(err)
	}

	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}
