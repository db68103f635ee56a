package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/projecthub/tracker-api/internal/api/middleware"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/validation"
)

// callerFrom returns the identity injected by the Auth middleware. A missing
// caller means the route was registered without Auth.
func callerFrom(c echo.Context) (domain.Caller, error) {
	caller, ok := c.Get(middleware.CallerKey).(domain.Caller)
	if !ok || caller.ID == "" {
		return domain.Caller{}, domain.ErrTokenMissing
	}
	return caller, nil
}

// decodeBody reads the JSON body as a loose map, runs it through schema and
// materialises the normalised value into out.
func decodeBody(c echo.Context, schema validation.Schema, out any) error {
	var body map[string]any
	if err := (&echo.DefaultBinder{}).BindBody(c, &body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return validation.Decode(schema, body, out)
}

// bindQuery binds and validates query parameters into q.
func bindQuery(c echo.Context, q any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, q); err != nil {
		return &domain.ValidationError{Errors: []string{"Invalid query parameters"}}
	}
	return c.Validate(q)
}

// optionalBool parses "true"/"false"; anything else is treated as absent.
func optionalBool(s string) *bool {
	b, err := strconv.ParseBool(s)
	if err != nil || s == "" {
		return nil
	}
	return &b
}
