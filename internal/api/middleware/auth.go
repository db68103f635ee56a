package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// CallerKey is the echo context key holding the authenticated domain.Caller.
const CallerKey = "caller"

// Authenticator resolves a bearer token to the caller it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Caller, error)
}

// Auth validates the bearer token and injects the caller into the context.
// Failures are returned as domain token errors for the central error handler.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			caller, err := authn.Authenticate(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(CallerKey, caller)
			return next(c)
		}
	}
}

// bearerToken strips an optional "Bearer " prefix.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	return header
}
