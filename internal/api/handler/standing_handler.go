package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/api/metrics"
	"github.com/schoolhub/school-console/internal/core/ports"
)

type StandingHandler struct {
	standings ports.StandingService
}

func NewStandingHandler(standings ports.StandingService) *StandingHandler {
	return &StandingHandler{standings: standings}
}

// Mine returns the dashboard of the logged-in student.
//
// @Summary      My standing
// @Tags         standings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.StudentStanding
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /standings/me [get]
func (h *StandingHandler) Mine(c echo.Context) error {
	standing, err := h.standings.MyStanding(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.RecordStandings(*standing)
	return c.JSON(http.StatusOK, standing)
}

// Student returns the dashboard of one student.
//
// @Summary      Student standing
// @Tags         standings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Student ID"
// @Success      200  {object}  domain.StudentStanding
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /standings/students/{id} [get]
func (h *StandingHandler) Student(c echo.Context) error {
	standing, err := h.standings.StandingFor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.RecordStandings(*standing)
	return c.JSON(http.StatusOK, standing)
}

// Class returns the dashboards of every student in a class.
//
// @Summary      Class standings
// @Tags         standings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Class ID"
// @Success      200  {array}   domain.StudentStanding
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /standings/classes/{id} [get]
func (h *StandingHandler) Class(c echo.Context) error {
	standings, err := h.standings.ClassStandings(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	metrics.RecordStandings(standings...)
	return c.JSON(http.StatusOK, standings)
}
