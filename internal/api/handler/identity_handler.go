package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// IdentityHandler exposes the local identity service.
type IdentityHandler struct {
	identity ports.IdentityService
}

func NewIdentityHandler(identity ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"required,oneof=ADMINISTRATOR TEACHER STUDENT"`
}

type identityResponse struct {
	Token   string          `json:"token,omitempty"`
	Account *domain.Account `json:"account,omitempty"`
}

// Register creates a local account. Administrators only; the seeded
// administrator account creates the first users.
//
// @Summary      Register an account
// @Tags         identity
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /identity/register [post]
func (h *IdentityHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.identity.Register(c.Request().Context(), req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, identityResponse{Account: account})
}

// Login issues a signed token for a local account.
//
// @Summary      Issue a token
// @Tags         identity
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  identityResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /identity/login [post]
func (h *IdentityHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, account, err := h.identity.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Token: token, Account: account})
}
