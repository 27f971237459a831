package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// bindAndValidate decodes the JSON body into req and runs the echo validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
