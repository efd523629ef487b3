package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wishstock/wishlist/common/ratelimit"
)

// Limiter is the subset of ratelimit.RateLimiter the middleware needs
type Limiter interface {
	CheckUserLimit(ctx context.Context, userID int64, cfg ratelimit.ClassConfig) (*ratelimit.RateLimitResult, error)
}

// UserIDFunc returns the authenticated user of the request, if any
type UserIDFunc func(c echo.Context) (int64, bool)

// UserRateLimitMiddleware limits each user's writes and reorders per window.
// It must run after the auth middleware. Unauthenticated requests, reads and
// limiter failures pass through.
func UserRateLimitMiddleware(limiter Limiter, limits ratelimit.Limits, userID UserIDFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := userID(c)
			if !ok {
				return next(c)
			}

			class := ratelimit.Classify(c.Request().Method, c.Request().URL.Path)
			cfg, limited := limits.For(class)
			if !limited {
				return next(c)
			}

			result, err := limiter.CheckUserLimit(c.Request().Context(), id, cfg)
			if err != nil {
				// Fail open
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "user_rate_limit_exceeded",
					"message": "You have exceeded your request quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"class":               class,
						"limit":               result.Limit,
						"window_seconds":      cfg.WindowSeconds,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
