package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/api/metrics"
	"github.com/schoolhub/school-console/internal/api/middleware"
	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

type SessionHandler struct {
	session ports.SessionService
}

func NewSessionHandler(session ports.SessionService) *SessionHandler {
	return &SessionHandler{session: session}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.CurrentUser `json:"user,omitempty"`
	LandingArea   string              `json:"landing_area"`
	// Token is only returned by Login. Later requests present it as a bearer.
	Token string `json:"token,omitempty"`
}

func sessionView(user domain.CurrentUser, ok bool) sessionResponse {
	if !ok {
		return sessionResponse{LandingArea: domain.AreaDefault}
	}
	return sessionResponse{Authenticated: true, User: &user, LandingArea: domain.LandingArea(user.Role)}
}

// Login authenticates against the school API and opens the session. While a
// session is live only its holder, identified by the bearer token, may
// replace it.
//
// @Summary      Log in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, holder := middleware.UserFrom(c); h.session.IsAuthenticated() && !holder {
		return echo.NewHTTPError(http.StatusConflict, "session in use")
	}

	user, err := h.session.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginOutcome(err)).Inc()
	if err != nil {
		return err
	}
	resp := sessionView(user, true)
	resp.Token, _ = h.session.Token()
	return c.JSON(http.StatusOK, resp)
}

// Logout closes the session. It succeeds even when nobody is logged in.
//
// @Summary      Log out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	h.session.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Current reports who is logged in and where they land. Callers without the
// session token see an anonymous view.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	user, ok := middleware.UserFrom(c)
	return c.JSON(http.StatusOK, sessionView(user, ok))
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrConnection):
		return "connection"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed_token"
	default:
		return "error"
	}
}
