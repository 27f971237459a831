package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/schoolhub/school-console/docs"
	"github.com/schoolhub/school-console/internal/api/handler"
	"github.com/schoolhub/school-console/internal/api/middleware"
	"github.com/schoolhub/school-console/internal/core/domain"
	"github.com/schoolhub/school-console/internal/core/ports"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Session   ports.SessionService
	Standings ports.StandingService
	Reports   ports.ReportService
	// Identity is optional. When nil the /identity routes are not mounted.
	Identity ports.IdentityService
	Health   map[string]handler.Checker
	Log      zerolog.Logger
	// Registerer receives the per-route HTTP metrics. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds the echo instance with every route registered. Routes
// acting on the session require its bearer token, which /session/login hands
// out.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(httpMetrics(deps.Registerer))

	session := deps.Session
	authenticated := middleware.RequireSession(session)
	staff := middleware.RequireRole(domain.RoleTeacher, domain.RoleAdministrator)
	admin := middleware.RequireRole(domain.RoleAdministrator)

	sessionHandler := handler.NewSessionHandler(session)
	e.POST("/session/login", sessionHandler.Login, middleware.LoadSession(session))
	e.POST("/session/logout", sessionHandler.Logout, authenticated)
	e.GET("/session", sessionHandler.Current, middleware.LoadSession(session))

	standingHandler := handler.NewStandingHandler(deps.Standings)
	standings := e.Group("/standings", authenticated)
	standings.GET("/me", standingHandler.Mine, middleware.RequireRole(domain.RoleStudent))
	standings.GET("/students/:id", standingHandler.Student, staff)
	standings.GET("/classes/:id", standingHandler.Class, staff)

	reportHandler := handler.NewReportHandler(deps.Reports)
	reports := e.Group("/reports", authenticated)
	reports.GET("/statistics", reportHandler.Statistics, admin)

	if deps.Identity != nil {
		identityHandler := handler.NewIdentityHandler(deps.Identity)
		e.POST("/identity/register", identityHandler.Register, authenticated, admin)
		e.POST("/identity/login", identityHandler.Login)
	}

	healthHandler := handler.NewHealthHandler(deps.Health)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func httpMetrics(reg prometheus.Registerer) echo.MiddlewareFunc {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "console",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
