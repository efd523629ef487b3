package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/common/apperr"
	"github.com/wishstock/wishlist/common/logger"
	"github.com/wishstock/wishlist/common/models"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserKey is the echo context key of the authenticated *models.User
	UserKey ContextKey = "user"

	// IdentityHeader carries a username in development when header identity is allowed
	IdentityHeader = "X-User-ID"
)

// UserLookup resolves the username carried by a token
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthOptions configures BearerAuth
type AuthOptions struct {
	Secret []byte
	// Algorithm is the only HMAC method tokens may be signed with
	Algorithm string
	// AllowHeaderIdentity trusts X-User-ID when no bearer token is sent
	AllowHeaderIdentity bool
}

// Claims are the access token claims issued by the account service
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// BearerAuth authenticates every request with a bearer token and stores the
// active user in the echo context.
//
// Usage:
//
//	api := e.Group("/api/v1", middleware.BearerAuth(users, opts, log))
//
// Accessing in handlers:
//
//	user := middleware.GetUser(c)
func BearerAuth(users UserLookup, opts AuthOptions, log *logger.Logger) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{opts.Algorithm}),
		jwt.WithExpirationRequired(),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			username, err := identify(c, parser, opts)
			if err != nil {
				log.WithContext(ctx).Debug("authentication failed", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials").
					SetInternal(err)
			}

			user, err := users.GetByUsername(ctx, username)
			if errors.Is(err, apperr.ErrNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials").
					SetInternal(err)
			}
			if err != nil {
				log.WithContext(ctx).Error("user lookup failed", "username", username, "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if !user.IsActive {
				log.WithContext(ctx).WithUserID(user.ID).Info("inactive user rejected")
				return echo.NewHTTPError(http.StatusForbidden, "inactive user").
					SetInternal(apperr.ErrInactiveUser)
			}

			c.Set(string(UserKey), user)
			return next(c)
		}
	}
}

func identify(c echo.Context, parser *jwt.Parser, opts AuthOptions) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		if opts.AllowHeaderIdentity {
			if username := strings.TrimSpace(c.Request().Header.Get(IdentityHeader)); username != "" {
				return username, nil
			}
		}
		return "", fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthorized)
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("malformed authorization header: %w", apperr.ErrUnauthorized)
	}

	claims := &Claims{}
	_, err := parser.ParseWithClaims(strings.TrimSpace(token), claims, func(*jwt.Token) (any, error) {
		return opts.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrUnauthorized, err)
	}
	if claims.Username == "" {
		return "", fmt.Errorf("token has no username: %w", apperr.ErrUnauthorized)
	}
	return claims.Username, nil
}

// GetUser returns the authenticated user, or nil outside BearerAuth
func GetUser(c echo.Context) *models.User {
	user, _ := c.Get(string(UserKey)).(*models.User)
	return user
}

// UserID returns the authenticated user's id. Its signature matches
// the rate limit middleware's UserIDFunc.
func UserID(c echo.Context) (int64, bool) {
	user := GetUser(c)
	if user == nil {
		return 0, false
	}
	return user.ID, true
}
