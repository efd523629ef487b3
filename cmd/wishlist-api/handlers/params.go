package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/cmd/wishlist-api/middleware"
	"github.com/wishstock/wishlist/common/apperr"
)

// maxPatchBytes bounds merge patch bodies
const maxPatchBytes = 64 << 10

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Invalid("%s must be an integer", name)
	}
	return v, nil
}

// requiredQueryInt reads a query parameter that has no default
func requiredQueryInt(c echo.Context, name string) (int, error) {
	if c.QueryParam(name) == "" {
		return 0, apperr.Invalid("%s is required", name)
	}
	return queryInt(c, name, 0)
}

// currentUserID returns the user set by BearerAuth
func currentUserID(c echo.Context) (int64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return id, nil
}

func readPatch(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPatchBytes+1))
	if err != nil {
		return nil, apperr.Invalid("could not read body")
	}
	if len(body) > maxPatchBytes {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, "patch body too large")
	}
	return body, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Invalid("invalid request body")
	}
	return nil
}
