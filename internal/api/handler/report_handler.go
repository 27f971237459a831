package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/schoolhub/school-console/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Statistics returns the administrator overview.
//
// @Summary      School statistics
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Statistics
// @Failure      403  {object}  map[string]string
// @Router       /reports/statistics [get]
func (h *ReportHandler) Statistics(c echo.Context) error {
	stats, err := h.reports.Statistics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
