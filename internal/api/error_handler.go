package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/projecthub/tracker-api/internal/core/domain"
)

const (
	msgValidation     = "Validation Error"
	msgRouteNotFound  = "Route not found"
	msgNoToken        = "Access denied. No token provided."
	msgInvalidToken   = "Invalid token."
	msgTokenExpired   = "Token expired."
	msgBadCredentials = "Invalid credentials"
	msgAdminOnly      = "Access denied. Admin privileges required."
	msgInvalidID      = "Invalid ID format"
	msgUserNotFound   = "User not found"
	msgServerError    = "Internal server error"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders {"message": "...", "errors": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var (
		verr *domain.ValidationError
		nf   *domain.NotFoundError
		rule *domain.RuleError
		dup  *domain.DuplicateError
		he   *echo.HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Message: msgValidation, Errors: verr.Errors}
	case errors.As(err, &nf):
		return http.StatusNotFound, errorResponse{Message: nf.Error()}
	case errors.As(err, &rule):
		return http.StatusBadRequest, errorResponse{Message: rule.Message}
	case errors.As(err, &dup):
		return http.StatusBadRequest, errorResponse{Message: dup.Error()}
	case errors.Is(err, domain.ErrTokenMissing):
		return http.StatusUnauthorized, errorResponse{Message: msgNoToken}
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, errorResponse{Message: msgTokenExpired}
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, errorResponse{Message: msgInvalidToken}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: msgBadCredentials}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Message: msgAdminOnly}
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Message: msgInvalidID}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: msgUserNotFound}
	case errors.Is(err, echo.ErrNotFound), errors.Is(err, echo.ErrMethodNotAllowed):
		return http.StatusNotFound, errorResponse{Message: msgRouteNotFound}
	case errors.As(err, &he):
		if he.Code >= http.StatusInternalServerError {
			break
		}
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: msgServerError}
}
