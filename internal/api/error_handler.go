package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/infrastructure/remote"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler renders every error as {"error": "..."} with a status
// derived from the domain sentinel it wraps. Only unexpected errors are
// logged.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrMalformedToken):
		return http.StatusUnauthorized, "malformed token"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrUnrecognizedRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrConnection):
		return http.StatusServiceUnavailable, "school API unreachable"
	case errors.Is(err, domain.ErrSessionClosed):
		return http.StatusServiceUnavailable, "session closed"
	}

	var se *remote.StatusError
	if errors.As(err, &se) {
		log.Warn().Err(err).Str("path", c.Path()).Msg("upstream error")
		return http.StatusBadGateway, fmt.Sprintf("school API returned %d", se.Code)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
