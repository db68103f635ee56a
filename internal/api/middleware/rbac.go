package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := c.Get(CallerKey).(domain.Caller)
			if !ok {
				return domain.ErrTokenMissing
			}
			if _, ok := allowed[caller.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
