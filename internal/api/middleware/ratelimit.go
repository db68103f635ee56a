package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const msgTooManyRequests = "Too many requests, please try again later."

// Limiter decides whether one more hit for id on resource is allowed.
type Limiter interface {
	Allow(ctx context.Context, resource, id string) (bool, error)
}

// OnLimited is called for every rejected request, typically to count it.
type OnLimited func(resource string)

// RateLimit rejects requests over the limiter's budget with 429, keyed by
// client IP. Limiter errors let the request through.
func RateLimit(l Limiter, resource string, log zerolog.Logger, onLimited OnLimited) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil {
				return next(c)
			}

			allowed, err := l.Allow(c.Request().Context(), resource, "ip:"+c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("resource", resource).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}
			if !allowed {
				if onLimited != nil {
					onLimited(resource)
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
			}
			return next(c)
		}
	}
}
