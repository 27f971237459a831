package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// UserKey is the echo context key holding the domain.CurrentUser.
const UserKey = "user"

// LoadSession puts the current user into the echo context when the request
// carries the session's bearer token. Requests without it pass through as
// anonymous.
func LoadSession(session ports.SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := owner(c, session); ok {
				c.Set(UserKey, user)
			}
			return next(c)
		}
	}
}

// RequireSession rejects with 401 unless a session is live and the request
// presents its token as "Authorization: Bearer <token>".
func RequireSession(session ports.SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := owner(c, session)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
			}
			c.Set(UserKey, user)
			return next(c)
		}
	}
}

// UserFrom returns the user set by LoadSession or RequireSession.
func UserFrom(c echo.Context) (domain.CurrentUser, bool) {
	user, ok := c.Get(UserKey).(domain.CurrentUser)
	return user, ok
}

func owner(c echo.Context, session ports.SessionReader) (domain.CurrentUser, bool) {
	presented := bearerToken(c)
	if presented == "" {
		return domain.CurrentUser{}, false
	}
	token, ok := session.Token()
	if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
		return domain.CurrentUser{}, false
	}
	return session.CurrentUser()
}

func bearerToken(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
