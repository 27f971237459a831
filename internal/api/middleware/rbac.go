package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/core/domain"
)

// RequireRole lets the request through when the user put in the context by
// RequireSession holds one of roles. Unknown role tags never match.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			for _, r := range roles {
				if user.HasRole(r) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
