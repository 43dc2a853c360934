package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// DefaultSubmitRate is the sustained sign-up submissions allowed per IP.
const DefaultSubmitRate = 10

// RateLimiter limits requests per client IP on the routes it is applied to.
// It is used on the sign-up submit route so a single client cannot flood the
// upstream API.
func RateLimiter() echo.MiddlewareFunc {
	return RateLimiterWithRate(DefaultSubmitRate)
}

// RateLimiterWithRate is RateLimiter with a custom rate, in requests per second.
func RateLimiterWithRate(r rate.Limit) echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		// In-memory store, fine for a single instance.
		Store: middleware.NewRateLimiterMemoryStore(r),

		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.String(http.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
